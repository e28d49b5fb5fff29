package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"

	"github.com/ppiankov/gncorpora/internal/aggregate"
	"github.com/ppiankov/gncorpora/internal/annotate"
	"github.com/ppiankov/gncorpora/internal/extract/adapters"
	"github.com/ppiankov/gncorpora/internal/model"
	"github.com/ppiankov/gncorpora/internal/store"
)

// Pipeline orchestrates extraction, annotation and persistence of every
// corpus under the raw root
type Pipeline struct {
	loader    *Loader
	router    *adapters.Router
	annotator *annotate.Annotator
	layout    store.Layout
	config    *model.Config
	logger    *slog.Logger
}

// NewPipeline creates a new pipeline. The annotator carries the tokenizer
// and identifier, built once per process.
func NewPipeline(cfg *model.Config, annotator *annotate.Annotator, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	return &Pipeline{
		loader:    NewLoader(int64(cfg.Paths.MaxFileMB) << 20),
		router:    adapters.NewRouter(cfg, logger),
		annotator: annotator,
		layout:    store.Layout{Root: cfg.Paths.ProcessedDir},
		config:    cfg,
		logger:    logger,
	}
}

// Options selects what a run processes
type Options struct {
	// Corpora restricts the run to these identities; empty means all
	Corpora []string

	// Overwrite reprocesses corpora that already have a report
	Overwrite bool
}

// CorpusResult summarizes one corpus of a run
type CorpusResult struct {
	Corpus  string
	Skipped bool
	Files   int
	Report  model.CorpusReport
}

// Run processes every corpus directory under the raw root in name order.
// A failing corpus does not stop the others; all failures are returned
// joined.
func (p *Pipeline) Run(ctx context.Context, opts Options) ([]CorpusResult, error) {
	corpora, err := listCorpora(p.config.Paths.RawDir)
	if err != nil {
		return nil, err
	}

	if len(opts.Corpora) > 0 {
		corpora = slices.DeleteFunc(corpora, func(c string) bool {
			return !slices.ContainsFunc(opts.Corpora, func(want string) bool {
				return strings.EqualFold(want, c)
			})
		})
	}

	var results []CorpusResult
	var errs []error

	for _, corpus := range corpora {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		result, err := p.ProcessCorpus(ctx, corpus, opts.Overwrite)
		if err != nil {
			p.logger.Error("corpus failed", "corpus", corpus, "error", err)
			errs = append(errs, fmt.Errorf("corpus %s: %w", corpus, err))
			continue
		}
		results = append(results, *result)
	}

	return results, errors.Join(errs...)
}

// ProcessCorpus applies the skip policy, then processes every top-level
// file of the corpus directory in name order. Every file is routed before
// the first write. On any error the corpus output is discarded, so a failed
// corpus never leaves a report that a later run would take as finished.
func (p *Pipeline) ProcessCorpus(ctx context.Context, corpus string, overwrite bool) (*CorpusResult, error) {
	proceed, err := p.layout.Prepare(corpus, overwrite)
	if err != nil {
		return nil, err
	}
	if !proceed {
		p.logger.Info("skipping processed corpus", "corpus", corpus, "report", p.layout.Report(corpus))
		return &CorpusResult{Corpus: corpus, Skipped: true}, nil
	}

	result, err := p.processRoutes(ctx, corpus)
	if err != nil {
		if _, cleanErr := p.layout.Prepare(corpus, true); cleanErr != nil {
			err = errors.Join(err, fmt.Errorf("discard partial output: %w", cleanErr))
		}
		return nil, err
	}
	return result, nil
}

// processRoutes resolves every file of the corpus, then extracts them in
// order
func (p *Pipeline) processRoutes(ctx context.Context, corpus string) (*CorpusResult, error) {
	files, err := listFiles(filepath.Join(p.config.Paths.RawDir, corpus))
	if err != nil {
		return nil, err
	}

	var routes []*adapters.Route
	for _, name := range files {
		route, err := p.router.Resolve(corpus, name)
		if errors.Is(err, adapters.ErrUnsupported) {
			p.logger.Warn("skipping file", "corpus", corpus, "file", name, "reason", err)
			continue
		}
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}

	result := &CorpusResult{Corpus: corpus}
	records := store.NewRecordStore(p.layout.Records(corpus))

	for _, route := range routes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		report, err := p.ProcessFile(ctx, route, records)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", route.File, err)
		}
		result.Files++
		result.Report = report
	}

	if result.Files == 0 {
		p.logger.Warn("no supported files in corpus", "corpus", corpus)
	}

	return result, nil
}

// ProcessFile extracts and annotates one routed file, appends its records
// and merges its statistics into the corpus report. It returns the merged
// report.
func (p *Pipeline) ProcessFile(ctx context.Context, route *adapters.Route, records *store.RecordStore) (model.CorpusReport, error) {
	path := filepath.Join(p.config.Paths.RawDir, route.Corpus, route.File)

	data, err := p.loader.Load(path)
	if err != nil {
		return model.CorpusReport{}, err
	}

	triples, err := route.Adapter.Extract(data, route.Rule)
	if err != nil {
		return model.CorpusReport{}, fmt.Errorf("extract: %w", err)
	}

	counter := aggregate.NewCounter()
	var batch []model.AnnotatedRecord

	for triple := range triples {
		if strings.TrimSpace(triple.Text) == "" {
			continue
		}

		rec, err := p.annotator.Annotate(ctx, annotate.Input{
			Text:       triple.Text,
			Corpus:     route.Corpus,
			CorpusFile: route.File,
			Source:     triple.Source,
			URL:        triple.URL,
			Language:   route.Rule.Language,
			Script:     route.Rule.Script,
		})
		if err != nil {
			return model.CorpusReport{}, err
		}

		counter.Add(rec)
		batch = append(batch, rec)
	}

	if err := records.Write(batch, store.Append); err != nil {
		return model.CorpusReport{}, err
	}

	merged, err := store.SaveReport(p.layout.Report(route.Corpus), counter.Report(), p.logger)
	if err != nil {
		return model.CorpusReport{}, err
	}

	p.logger.Info("processed file",
		"corpus", route.Corpus,
		"file", route.File,
		"adapter", route.Adapter.Name(),
		"records", len(batch),
		"corpus_docs", merged.NumDocs,
	)

	return merged, nil
}

// listCorpora returns the corpus directory names under root, sorted
func listCorpora(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read raw root: %w", err)
	}

	var corpora []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			corpora = append(corpora, e.Name())
		}
	}
	sort.Strings(corpora)
	return corpora, nil
}

// listFiles returns the regular file names directly under dir, sorted
func listFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpus dir: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.Type().IsRegular() && !strings.HasPrefix(e.Name(), ".") {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}
