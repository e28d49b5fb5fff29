package adapters

import (
	"encoding/json"
	"iter"
	"log/slog"
	"strings"

	"github.com/ppiankov/gncorpora/internal/extract"
	"github.com/ppiankov/gncorpora/internal/model"
)

// JSONLAdapter extracts records from line-delimited JSON objects
type JSONLAdapter struct {
	logger *slog.Logger
}

// NewJSONLAdapter creates a new line-JSON adapter
func NewJSONLAdapter(logger *slog.Logger) *JSONLAdapter {
	return &JSONLAdapter{logger: logger}
}

// Name returns the adapter name
func (a *JSONLAdapter) Name() string {
	return "jsonl"
}

// Format returns model.FormatJSONL
func (a *JSONLAdapter) Format() model.Format {
	return model.FormatJSONL
}

// Extract decodes each line on its own and yields one triple per configured
// field holding a non-empty string, in field order. A line can therefore
// produce up to len(rule.Fields) records.
func (a *JSONLAdapter) Extract(data []byte, rule model.ExtractionRule) (iter.Seq[extract.Triple], error) {
	data, err := extract.Decode(data, rule.Encoding)
	if err != nil {
		return nil, err
	}
	lines := extract.Lines(data)

	return func(yield func(extract.Triple) bool) {
		for i, raw := range lines {
			if strings.TrimSpace(raw) == "" {
				continue
			}

			var obj map[string]any
			if err := json.Unmarshal([]byte(raw), &obj); err != nil {
				a.logger.Warn("skipping malformed JSON line", "line", i+1, "error", err)
				continue
			}

			for _, field := range rule.Fields {
				text, ok := obj[field].(string)
				if !ok || strings.TrimSpace(text) == "" {
					a.logger.Debug("skipping field", "line", i+1, "field", field)
					continue
				}
				if !yield(extract.Triple{Text: text, Source: model.Unknown, URL: model.Unknown}) {
					return
				}
			}
		}
	}, nil
}
