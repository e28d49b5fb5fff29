package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ppiankov/gncorpora/internal/aggregate"
	"github.com/ppiankov/gncorpora/internal/model"
)

// LoadReport reads a persisted report. A missing file returns nil, nil.
func LoadReport(path string) (*model.CorpusReport, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	var report model.CorpusReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report %s: %w", path, err)
	}
	return &report, nil
}

// SaveReport merges fresh into the report persisted at path and writes the
// result back. It returns the merged report.
func SaveReport(path string, fresh model.CorpusReport, logger *slog.Logger) (model.CorpusReport, error) {
	if logger == nil {
		logger = slog.Default()
	}

	existing, err := LoadReport(path)
	if err != nil {
		return model.CorpusReport{}, err
	}

	merged := aggregate.Merge(existing, fresh)
	if merged.NumDocs == 0 {
		logger.Warn("report has no documents", "path", path)
	}

	data, err := json.MarshalIndent(merged, "", "    ")
	if err != nil {
		return model.CorpusReport{}, fmt.Errorf("marshal report: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return model.CorpusReport{}, fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return model.CorpusReport{}, fmt.Errorf("write report: %w", err)
	}

	return merged, nil
}
