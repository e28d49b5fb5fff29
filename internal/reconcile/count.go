// Package reconcile recounts raw records independently of the extractors
// and checks the processed output against that count.
package reconcile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/ppiankov/gncorpora/internal/extract"
	"github.com/ppiankov/gncorpora/internal/model"
)

// ErrNoExpectation is returned for a corpus missing from the reconcile table
var ErrNoExpectation = errors.New("no reconcile expectation")

var (
	numericCell = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)
	sentence    = regexp.MustCompile(`(?s)<s(?:\s[^>]*[^/>])?\s*>(.*?)</s\s*>`)
	anyTag      = regexp.MustCompile(`(?s)<[^>]*>`)
	cdata       = regexp.MustCompile(`(?s)<!\[CDATA\[(.*?)\]\]>`)
)

var missingCells = []string{
	"", "#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None", "n/a",
	"nan", "null",
}

// Counter computes how many records a raw corpus directory should produce
type Counter struct {
	cfg    *model.Config
	logger *slog.Logger
}

// NewCounter creates a counter over the reconcile table of cfg
func NewCounter(cfg *model.Config, logger *slog.Logger) *Counter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Counter{cfg: cfg, logger: logger}
}

// ExpectedRawCount returns the expected record count of the corpus stored in
// corpusDir. The corpus identity is the directory name.
func (c *Counter) ExpectedRawCount(corpusDir string) (int, error) {
	corpus := filepath.Base(corpusDir)
	exp, ok := c.cfg.Expect(corpus)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoExpectation, corpus)
	}

	entries, err := os.ReadDir(corpusDir)
	if err != nil {
		return 0, fmt.Errorf("read corpus dir: %w", err)
	}

	total := 0
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		n, counted, err := c.countFile(filepath.Join(corpusDir, e.Name()), exp)
		if err != nil {
			return 0, fmt.Errorf("%s/%s: %w", corpus, e.Name(), err)
		}
		if counted {
			c.logger.Debug("counted raw file", "corpus", corpus, "file", e.Name(), "expected", n)
			total += n
		}
	}
	return total, nil
}

// countFile counts one file when its extension belongs to the expectation
func (c *Counter) countFile(path string, exp model.Expectation) (int, bool, error) {
	ext := strings.ToLower(filepath.Ext(path))

	var count func([]byte, model.Expectation, string) (int, error)
	switch {
	case exp.Format == model.FormatTabular && (ext == ".csv" || ext == ".tsv"):
		count = countRows
	case exp.Format == model.FormatLine && slices.Contains(extensions(exp), ext):
		count = countLines
	case exp.Format == model.FormatMarkup && ext == ".xml":
		count = countSentences
	case exp.Format == model.FormatJSONL && ext == ".jsonl":
		count = countObjects
	default:
		return 0, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false, err
	}
	data, err = extract.Decode(data, exp.Encoding)
	if err != nil {
		return 0, false, err
	}

	n, err := count(data, exp, ext)
	return n, true, err
}

func countRows(data []byte, exp model.Expectation, ext string) (int, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	if exp.Sanitize {
		data = extract.SanitizeTSV(data)
	}

	sep := exp.Separator
	if sep == "" {
		sep = ","
		if ext == ".tsv" {
			sep = "\t"
		}
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = []rune(sep)[0]
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header := exp.Columns
	if len(header) == 0 {
		row, err := r.Read()
		if err == io.EOF {
			return 0, nil
		}
		if err != nil {
			return 0, fmt.Errorf("read header: %w", err)
		}
		header = row
	}

	textIdx := slices.IndexFunc(header, func(h string) bool { return strings.TrimSpace(h) == exp.TextColumn })
	if textIdx < 0 {
		return 0, fmt.Errorf("text column %q not in header", exp.TextColumn)
	}
	uniqueIdx := -1
	if exp.UniqueColumn != "" {
		uniqueIdx = slices.IndexFunc(header, func(h string) bool { return strings.TrimSpace(h) == exp.UniqueColumn })
	}

	count := 0
	unique := make(map[string]bool)
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			continue
		}
		if err != nil {
			return 0, err
		}
		if exp.Strict && len(row) != len(header) {
			continue
		}
		if textIdx < len(row) && admissible(row[textIdx]) {
			count++
		}
		if uniqueIdx >= 0 && uniqueIdx < len(row) && admissible(row[uniqueIdx]) {
			unique[row[uniqueIdx]] = true
		}
	}
	return count + len(unique), nil
}

// admissible reports whether a cell would load as a string value
func admissible(cell string) bool {
	v := strings.TrimSpace(cell)
	return !slices.Contains(missingCells, v) && !numericCell.MatchString(v)
}

func countLines(data []byte, exp model.Expectation, _ string) (int, error) {
	count := 0
	for _, line := range extract.Lines(data) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if exp.LinePrefix != "" && !strings.HasPrefix(line, exp.LinePrefix) {
			continue
		}
		if exp.FieldSeparator != "" {
			fields := strings.Split(line, exp.FieldSeparator)
			if exp.FieldIndex < 0 || exp.FieldIndex >= len(fields) || strings.TrimSpace(fields[exp.FieldIndex]) == "" {
				continue
			}
		}
		count++
	}
	return count, nil
}

func countSentences(data []byte, _ model.Expectation, _ string) (int, error) {
	count := 0
	for _, m := range sentence.FindAllSubmatch(data, -1) {
		if strings.TrimSpace(sentenceText(m[1])) != "" {
			count++
		}
	}
	return count, nil
}

// sentenceText returns the character data of a sentence body: CDATA content
// is kept verbatim, markup elsewhere is dropped and references are resolved
func sentenceText(body []byte) string {
	var b strings.Builder
	plain := func(seg []byte) {
		b.WriteString(html.UnescapeString(string(anyTag.ReplaceAll(seg, nil))))
	}

	last := 0
	for _, loc := range cdata.FindAllSubmatchIndex(body, -1) {
		plain(body[last:loc[0]])
		b.Write(body[loc[2]:loc[3]])
		last = loc[1]
	}
	plain(body[last:])
	return b.String()
}

func countObjects(data []byte, exp model.Expectation, _ string) (int, error) {
	multiplier := exp.Multiplier
	if multiplier <= 0 {
		multiplier = 1
	}
	count := 0
	for _, line := range extract.Lines(data) {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count * multiplier, nil
}

func extensions(exp model.Expectation) []string {
	if len(exp.Extensions) == 0 {
		return []string{".txt"}
	}
	exts := make([]string, 0, len(exp.Extensions))
	for _, e := range exp.Extensions {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, e)
	}
	return exts
}
