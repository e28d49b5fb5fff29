package adapters

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/ppiankov/gncorpora/internal/extract"
	"github.com/ppiankov/gncorpora/internal/model"
)

// ErrMissingColumn is returned when a configured column is absent from the header
var ErrMissingColumn = errors.New("missing column")

// TabularAdapter extracts one record per row of a delimited table
type TabularAdapter struct {
	logger *slog.Logger
}

// NewTabularAdapter creates a new tabular adapter
func NewTabularAdapter(logger *slog.Logger) *TabularAdapter {
	return &TabularAdapter{logger: logger}
}

// Name returns the adapter name
func (a *TabularAdapter) Name() string {
	return "tabular"
}

// Format returns model.FormatTabular
func (a *TabularAdapter) Format() model.Format {
	return model.FormatTabular
}

// Extract parses the table and yields the text column of every admissible
// row. With UniqueColumn set, each distinct value of that column is also
// yielded once, right after the first row carrying it. The sequence reads
// the table as it goes and can be ranged over once.
func (a *TabularAdapter) Extract(data []byte, rule model.ExtractionRule) (iter.Seq[extract.Triple], error) {
	data, err := extract.Decode(data, rule.Encoding)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if rule.Sanitize {
		data = extract.SanitizeTSV(data)
	}

	comma, err := separatorRune(rule.Separator)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header := rule.Columns
	if len(header) == 0 {
		header, err = reader.Read()
		if err == io.EOF {
			return func(func(extract.Triple) bool) {}, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
	}

	cols := columnIndex(header)
	textIdx, ok := cols[rule.TextColumn]
	if !ok {
		return nil, fmt.Errorf("%w: text column %q", ErrMissingColumn, rule.TextColumn)
	}
	uniqueIdx := -1
	if rule.UniqueColumn != "" {
		if uniqueIdx, ok = cols[rule.UniqueColumn]; !ok {
			return nil, fmt.Errorf("%w: unique column %q", ErrMissingColumn, rule.UniqueColumn)
		}
	}
	sourceIdx := lookup(cols, rule.SourceColumn)
	urlIdx := lookup(cols, rule.URLColumn)

	return func(yield func(extract.Triple) bool) {
		seen := make(map[string]struct{})

		for {
			row, err := reader.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				var parseErr *csv.ParseError
				if errors.As(err, &parseErr) {
					a.logger.Warn("skipping malformed row", "line", parseErr.StartLine, "error", parseErr.Err)
					continue
				}
				a.logger.Warn("stopping table read", "error", err)
				return
			}
			line, _ := reader.FieldPos(0)

			if rule.Strict && len(row) != len(header) {
				a.logger.Debug("dropping row with missing columns", "line", line, "fields", len(row), "want", len(header))
				continue
			}

			source := optionalCell(row, sourceIdx)
			url := optionalCell(row, urlIdx)

			if text, ok := extract.CellText(cell(row, textIdx)); ok {
				if !yield(extract.Triple{Text: text, Source: source, URL: url}) {
					return
				}
			} else {
				a.logger.Debug("dropping row: text is not a string", "line", line, "column", rule.TextColumn)
			}

			if uniqueIdx < 0 {
				continue
			}
			value, ok := extract.CellText(cell(row, uniqueIdx))
			if !ok {
				continue
			}
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}
			if !yield(extract.Triple{Text: value, Source: source, URL: url}) {
				return
			}
		}
	}, nil
}

// separatorRune validates a single-character separator
func separatorRune(sep string) (rune, error) {
	if sep == "" {
		return ',', nil
	}
	r, size := utf8.DecodeRuneInString(sep)
	if size != len(sep) || r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("invalid separator %q", sep)
	}
	return r, nil
}

func columnIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, dup := cols[name]; !dup {
			cols[name] = i
		}
	}
	return cols
}

func lookup(cols map[string]int, name string) int {
	if name == "" {
		return -1
	}
	if idx, ok := cols[name]; ok {
		return idx
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// optionalCell returns the cell value or "unknown" when absent or missing
func optionalCell(row []string, idx int) string {
	if v, ok := extract.CellValue(cell(row, idx)); ok {
		return v
	}
	return model.Unknown
}
