package model

// CorpusReport holds the cumulative statistics of one corpus. It is persisted
// next to the record store and acts as the corpus checkpoint.
type CorpusReport struct {
	NumDocs                  int     `json:"num_docs"`
	NumWordsSplit            int     `json:"num_words_split"`
	NumWordsPunctTokenized   int     `json:"num_words_punct_tokenized"`
	NumWordsNoPunctTokenized int     `json:"num_words_no_punct_tokenized"`
	NumChars                 int     `json:"num_chars"`
	SumLangScore             float64 `json:"sum_lang_score"`

	// Derived from the sums above, recomputed on every save
	AvgWordsSplit            float64 `json:"avg_words_split"`
	AvgWordsPunctTokenized   float64 `json:"avg_words_punct_tokenized"`
	AvgWordsNoPunctTokenized float64 `json:"avg_words_no_punct_tokenized"`
	AvgChars                 float64 `json:"avg_chars"`
	AvgLanguageScore         float64 `json:"avg_language_score"`
}

// Sums returns a copy of the report with the averages cleared
func (r CorpusReport) Sums() CorpusReport {
	return CorpusReport{
		NumDocs:                  r.NumDocs,
		NumWordsSplit:            r.NumWordsSplit,
		NumWordsPunctTokenized:   r.NumWordsPunctTokenized,
		NumWordsNoPunctTokenized: r.NumWordsNoPunctTokenized,
		NumChars:                 r.NumChars,
		SumLangScore:             r.SumLangScore,
	}
}
