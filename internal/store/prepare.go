package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Prepare applies the skip policy to a corpus. It returns false when the
// corpus already has a report and overwrite is off. Otherwise the report and
// any record store left by an interrupted run are removed so the corpus
// starts clean.
func (l Layout) Prepare(corpus string, overwrite bool) (bool, error) {
	report := l.Report(corpus)

	_, err := os.Stat(report)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat report: %w", err)
	}

	if exists && !overwrite {
		return false, nil
	}

	for _, path := range []string{report, l.Records(corpus)} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("remove %s: %w", path, err)
		}
	}

	return true, nil
}
