package adapters

import (
	"iter"
	"log/slog"
	"strings"

	"github.com/ppiankov/gncorpora/internal/extract"
	"github.com/ppiankov/gncorpora/internal/model"
)

// LineAdapter extracts one record per non-empty line
type LineAdapter struct {
	logger *slog.Logger
}

// NewLineAdapter creates a new line-oriented adapter
func NewLineAdapter(logger *slog.Logger) *LineAdapter {
	return &LineAdapter{logger: logger}
}

// Name returns the adapter name
func (a *LineAdapter) Name() string {
	return "line"
}

// Format returns model.FormatLine
func (a *LineAdapter) Format() model.Format {
	return model.FormatLine
}

// Extract trims every line, drops empty ones and, when configured, keeps only
// lines with the required prefix and takes one field of the split line
func (a *LineAdapter) Extract(data []byte, rule model.ExtractionRule) (iter.Seq[extract.Triple], error) {
	data, err := extract.Decode(data, rule.Encoding)
	if err != nil {
		return nil, err
	}
	lines := extract.Lines(data)

	return func(yield func(extract.Triple) bool) {
		for i, raw := range lines {
			text := strings.TrimSpace(raw)
			if text == "" {
				continue
			}
			if rule.LinePrefix != "" && !strings.HasPrefix(text, rule.LinePrefix) {
				continue
			}

			if rule.FieldSeparator != "" {
				fields := strings.Split(text, rule.FieldSeparator)
				if rule.FieldIndex < 0 || rule.FieldIndex >= len(fields) {
					a.logger.Debug("dropping line without field", "line", i+1, "field", rule.FieldIndex)
					continue
				}
				text = strings.TrimSpace(fields[rule.FieldIndex])
				if text == "" {
					continue
				}
			}

			if !yield(extract.Triple{Text: text, Source: model.Unknown, URL: model.Unknown}) {
				return
			}
		}
	}, nil
}
