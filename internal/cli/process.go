package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/ppiankov/gncorpora/internal/annotate"
	"github.com/ppiankov/gncorpora/internal/langid"
	"github.com/ppiankov/gncorpora/internal/pipeline"
	"github.com/ppiankov/gncorpora/internal/reconcile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	processCorpora []string
	noVerify       bool
	noCache        bool
)

// processCmd represents the process command
var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Extract, annotate and persist every raw corpus, then verify",
	Long: `Process walks <raw_dir>/<corpus>/ in name order and, for every supported
file, extracts texts with the corpus extraction rule, annotates them with
word counts and language identification, appends the records to
<processed_dir>/<corpus>/<corpus>.jsonl and merges the statistics into
<processed_dir>/<corpus>/<corpus>_report.json.

Corpora that already have a report are skipped unless --overwrite is set.
Reconciliation runs afterwards unless --no-verify is set.

Example:
  gncorpora process
  gncorpora process --raw-dir data/raw --processed-dir data/processed --overwrite
  gncorpora process --corpus tatoeba --corpus opus`,
	Args: cobra.NoArgs,
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().Bool("overwrite", false, "reprocess corpora that already have a report")
	processCmd.Flags().StringSliceVar(&processCorpora, "corpus", nil, "only process these corpora (repeatable)")
	processCmd.Flags().BoolVar(&noVerify, "no-verify", false, "skip reconciliation after processing")
	processCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the language identification cache")

	_ = viper.BindPFlag("output.overwrite", processCmd.Flags().Lookup("overwrite"))
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}

	logger := slog.Default()

	identifier, err := langid.New(cfg, logger)
	if err != nil {
		return fmt.Errorf("language identification: %w", err)
	}

	p := pipeline.NewPipeline(cfg, annotate.NewAnnotator(annotate.NewRuneTokenizer(), identifier), logger)

	results, runErr := p.Run(ctx, pipeline.Options{
		Corpora:   processCorpora,
		Overwrite: cfg.Output.Overwrite,
	})

	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CORPUS\tSTATUS\tFILES\tDOCS\tAVG WORDS\tAVG SCORE")
	for _, r := range results {
		if r.Skipped {
			_, _ = fmt.Fprintf(tw, "%s\tskipped\t-\t-\t-\t-\n", r.Corpus)
			continue
		}
		_, _ = fmt.Fprintf(tw, "%s\tprocessed\t%d\t%d\t%.2f\t%.3f\n",
			r.Corpus, r.Files, r.Report.NumDocs, r.Report.AvgWordsNoPunctTokenized, r.Report.AvgLanguageScore)
	}
	_ = tw.Flush()

	if hits, misses, ok := langid.CacheStats(identifier); ok {
		logger.Info("language identification cache", "hits", hits, "misses", misses)
	}

	if runErr != nil {
		return fmt.Errorf("process failed: %w", runErr)
	}

	if noVerify {
		return nil
	}

	_, _ = fmt.Fprintln(out)
	counter := reconcile.NewCounter(cfg, logger)
	if _, err := reconcile.Verify(counter, cfg.Paths.ProcessedDir, cfg.Paths.RawDir, out); err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}
	return nil
}
