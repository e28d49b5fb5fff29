package adapters

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ppiankov/gncorpora/internal/extract"
	"github.com/ppiankov/gncorpora/internal/model"
)

var (
	// ErrUnsupported marks files the router skips (auxiliary files, unconverted parquet)
	ErrUnsupported = errors.New("unsupported file")

	// ErrUnknownCorpus is fatal: a strictly-typed file in a corpus with no extraction rule
	ErrUnknownCorpus = errors.New("unknown corpus")

	// ErrFormatMismatch is fatal: the file extension contradicts the corpus rule
	ErrFormatMismatch = errors.New("format does not match corpus rule")
)

// Adapter defines the interface for format-specific extractors
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// Format returns the file shape this adapter reads
	Format() model.Format

	// Extract turns the raw file content into a lazy sequence of triples.
	// A returned error aborts the file; record-level problems are logged
	// and skipped while iterating.
	Extract(data []byte, rule model.ExtractionRule) (iter.Seq[extract.Triple], error)
}

// Route is the outcome of dispatching one raw file
type Route struct {
	Corpus  string
	File    string
	Adapter Adapter
	Rule    model.ExtractionRule
}

// Router maps a corpus identity and file name to an adapter and its rule
type Router struct {
	cfg      *model.Config
	adapters map[model.Format]Adapter
	logger   *slog.Logger
}

// NewRouter creates a router with the built-in adapters registered
func NewRouter(cfg *model.Config, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}

	router := &Router{
		cfg:      cfg,
		adapters: make(map[model.Format]Adapter),
		logger:   logger,
	}

	router.Register(NewTabularAdapter(logger))
	router.Register(NewLineAdapter(logger))
	router.Register(NewMarkupAdapter())
	router.Register(NewJSONLAdapter(logger))

	return router
}

// Register registers an adapter, replacing any adapter for the same format
func (r *Router) Register(adapter Adapter) {
	r.adapters[adapter.Format()] = adapter
}

// Resolve selects the adapter and rule for a file. Extension is checked
// first, then corpus identity. Errors wrapping ErrUnsupported are meant to be
// skipped; any other error is fatal for the corpus.
func (r *Router) Resolve(corpus, fileName string) (*Route, error) {
	ext := strings.ToLower(filepath.Ext(fileName))
	rule, known := r.cfg.Rule(corpus)

	format, typed := formatForExtension(ext)
	if !typed {
		if known && rule.Format == model.FormatLine && slices.Contains(lineExtensions(rule), ext) {
			return r.route(corpus, fileName, model.FormatLine, rule)
		}
		return nil, fmt.Errorf("%s/%s: %w: extension %q", corpus, fileName, ErrUnsupported, ext)
	}

	if !known {
		return nil, fmt.Errorf("%s/%s: %w", corpus, fileName, ErrUnknownCorpus)
	}
	if rule.Format != format {
		return nil, fmt.Errorf("%s/%s: %w: %s file, corpus rule is %s",
			corpus, fileName, ErrFormatMismatch, format, rule.Format)
	}

	if format == model.FormatTabular && rule.Separator == "" {
		rule.Separator = ","
		if ext == ".tsv" {
			rule.Separator = "\t"
		}
	}

	return r.route(corpus, fileName, format, rule)
}

func (r *Router) route(corpus, fileName string, format model.Format, rule model.ExtractionRule) (*Route, error) {
	adapter, ok := r.adapters[format]
	if !ok {
		return nil, fmt.Errorf("%s/%s: no adapter registered for %s", corpus, fileName, format)
	}

	r.logger.Debug("routed file", "corpus", corpus, "file", fileName, "adapter", adapter.Name())

	return &Route{
		Corpus:  corpus,
		File:    fileName,
		Adapter: adapter,
		Rule:    rule,
	}, nil
}

// formatForExtension maps the strictly-typed extensions to their format
func formatForExtension(ext string) (model.Format, bool) {
	switch ext {
	case ".csv", ".tsv":
		return model.FormatTabular, true
	case ".xml":
		return model.FormatMarkup, true
	case ".jsonl":
		return model.FormatJSONL, true
	default:
		return "", false
	}
}

func lineExtensions(rule model.ExtractionRule) []string {
	if len(rule.Extensions) == 0 {
		return []string{".txt"}
	}
	exts := make([]string, len(rule.Extensions))
	for i, e := range rule.Extensions {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[i] = e
	}
	return exts
}
