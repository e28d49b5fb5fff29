package cli

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/ppiankov/gncorpora/internal/reconcile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check processed reports and record stores against the raw data",
	Long: `Verify recounts the records every raw corpus should produce, using the
reconcile table of the configuration, and checks that each processed
corpus report and record store hold exactly that many records.

It stops at the first mismatch and exits non-zero.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		counter := reconcile.NewCounter(cfg, slog.Default())
		results, err := reconcile.Verify(counter, cfg.Paths.ProcessedDir, cfg.Paths.RawDir, cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("verification failed: %w", err)
		}
		if len(results) == 0 {
			slog.Warn("no processed corpora to verify", "dir", cfg.Paths.ProcessedDir)
		}
		return nil
	},
}

// countCmd represents the count command
var countCmd = &cobra.Command{
	Use:   "count <corpus-dir>",
	Short: "Print the expected record count of one raw corpus directory",
	Long: `Count applies the reconcile expectation of the corpus named by the
directory to its raw files and prints the number of records processing
should produce.

Example:
  gncorpora count data/raw/belebele`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}

		dir := filepath.Clean(args[0])
		n, err := reconcile.NewCounter(cfg, slog.Default()).ExpectedRawCount(dir)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s: %d records\n", filepath.Base(dir), n)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(countCmd)
}
