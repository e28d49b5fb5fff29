package model

// Unknown is the provenance placeholder used when a source or url is absent
const Unknown = "unknown"

// AnnotatedRecord is one processed text unit, written as a single line of the
// corpus record store
type AnnotatedRecord struct {
	Text       string `json:"text"`        // Never empty
	Corpus     string `json:"corpus"`      // Corpus identity (raw directory name)
	CorpusFile string `json:"corpus_file"` // Raw file the text came from
	Source     string `json:"source"`      // Free-form provenance, "unknown" if absent
	URL        string `json:"url"`         // Free-form provenance, "unknown" if absent

	Language       string  `json:"language"`        // Identified label, or the corpus default on abstention
	LanguageScore  float64 `json:"language_score"`  // 0.0 on abstention
	LanguageScript string  `json:"language_script"` // Configured per corpus

	// Both nil when the identifier abstained
	LanguageScoreSource          *string `json:"language_score_source"`
	LanguageIdentificationMethod *string `json:"language_identification_method"`

	NumWordsSplit            int `json:"num_words_split"`              // Whitespace tokens
	NumWordsPunctTokenized   int `json:"num_words_punct_tokenized"`    // Tokenizer tokens incl. punctuation
	NumWordsNoPunctTokenized int `json:"num_words_no_punct_tokenized"` // Tokenizer tokens excl. punctuation
	NumChars                 int `json:"num_chars"`                    // Code points in Text
}

// Abstained reports whether language identification abstained for this record
func (r AnnotatedRecord) Abstained() bool {
	return r.LanguageScoreSource == nil && r.LanguageIdentificationMethod == nil
}
