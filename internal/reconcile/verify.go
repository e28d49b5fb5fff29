package reconcile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/ppiankov/gncorpora/internal/store"
)

// MismatchError reports the first corpus whose output disagrees with the
// raw count
type MismatchError struct {
	Corpus   string
	Check    string // "report" or "records"
	Expected int
	Actual   int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("corpus %s: %s count mismatch: expected %d, got %d", e.Corpus, e.Check, e.Expected, e.Actual)
}

// Result is a reconciled corpus
type Result struct {
	Corpus  string
	Records int
}

// Verify checks every processed corpus that has a report, in name order.
// Both the report's num_docs and the record store line count must equal the
// expected raw count. Verification stops at the first mismatch; each
// passing corpus prints an OK line to out.
func Verify(counter *Counter, processedRoot, rawRoot string, out io.Writer) ([]Result, error) {
	entries, err := os.ReadDir(processedRoot)
	if err != nil {
		return nil, fmt.Errorf("read processed root: %w", err)
	}

	var corpora []string
	for _, e := range entries {
		if e.IsDir() {
			corpora = append(corpora, e.Name())
		}
	}
	sort.Strings(corpora)

	layout := store.Layout{Root: processedRoot}
	var results []Result

	for _, corpus := range corpora {
		report, err := store.LoadReport(layout.Report(corpus))
		if err != nil {
			return results, err
		}
		if report == nil {
			continue
		}

		expected, err := counter.ExpectedRawCount(filepath.Join(rawRoot, corpus))
		if err != nil {
			return results, err
		}

		if report.NumDocs != expected {
			return results, &MismatchError{Corpus: corpus, Check: "report", Expected: expected, Actual: report.NumDocs}
		}

		lines, err := store.CountLines(layout.Records(corpus))
		if errors.Is(err, fs.ErrNotExist) {
			lines, err = 0, nil
		}
		if err != nil {
			return results, err
		}
		if lines != expected {
			return results, &MismatchError{Corpus: corpus, Check: "records", Expected: expected, Actual: lines}
		}

		_, _ = fmt.Fprintf(out, "OK %s: %d records\n", corpus, expected)
		results = append(results, Result{Corpus: corpus, Records: expected})
	}

	return results, nil
}
