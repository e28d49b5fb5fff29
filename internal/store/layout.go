// Package store persists annotated records and corpus reports under the
// processed data root.
package store

import "path/filepath"

// Layout names the files of every corpus under the processed root:
// <root>/<corpus>/<corpus>.jsonl and <root>/<corpus>/<corpus>_report.json
type Layout struct {
	Root string
}

// Dir returns the processed directory of a corpus
func (l Layout) Dir(corpus string) string {
	return filepath.Join(l.Root, corpus)
}

// Records returns the record store path of a corpus
func (l Layout) Records(corpus string) string {
	return filepath.Join(l.Root, corpus, corpus+".jsonl")
}

// Report returns the report path of a corpus
func (l Layout) Report(corpus string) string {
	return filepath.Join(l.Root, corpus, corpus+"_report.json")
}
