// Package aggregate accumulates per-corpus statistics and merges them with
// the report already on disk.
package aggregate

import "github.com/ppiankov/gncorpora/internal/model"

// Counter accumulates the statistics of one file run
type Counter struct {
	report model.CorpusReport
}

// NewCounter creates an empty counter
func NewCounter() *Counter {
	return &Counter{}
}

// Add counts one accepted record
func (c *Counter) Add(rec model.AnnotatedRecord) {
	c.report.NumDocs++
	c.report.NumWordsSplit += rec.NumWordsSplit
	c.report.NumWordsPunctTokenized += rec.NumWordsPunctTokenized
	c.report.NumWordsNoPunctTokenized += rec.NumWordsNoPunctTokenized
	c.report.NumChars += rec.NumChars
	c.report.SumLangScore += rec.LanguageScore
}

// Report returns the running sums with averages computed
func (c *Counter) Report() model.CorpusReport {
	return Finalize(c.report)
}

// Merge adds fresh to existing field by field and recomputes the averages.
// A nil existing report merges fresh onto zero.
func Merge(existing *model.CorpusReport, fresh model.CorpusReport) model.CorpusReport {
	merged := fresh.Sums()
	if existing != nil {
		merged.NumDocs += existing.NumDocs
		merged.NumWordsSplit += existing.NumWordsSplit
		merged.NumWordsPunctTokenized += existing.NumWordsPunctTokenized
		merged.NumWordsNoPunctTokenized += existing.NumWordsNoPunctTokenized
		merged.NumChars += existing.NumChars
		merged.SumLangScore += existing.SumLangScore
	}
	return Finalize(merged)
}

// Finalize recomputes the averages from the sums. All averages are zero
// when the report holds no documents.
func Finalize(r model.CorpusReport) model.CorpusReport {
	r = r.Sums()
	if r.NumDocs == 0 {
		return r
	}
	n := float64(r.NumDocs)
	r.AvgWordsSplit = float64(r.NumWordsSplit) / n
	r.AvgWordsPunctTokenized = float64(r.NumWordsPunctTokenized) / n
	r.AvgWordsNoPunctTokenized = float64(r.NumWordsNoPunctTokenized) / n
	r.AvgChars = float64(r.NumChars) / n
	r.AvgLanguageScore = r.SumLangScore / n
	return r
}
