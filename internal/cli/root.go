package cli

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/oklog/ulid/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Version is set at build time
var Version = "v0.1.0"

var (
	cfgFile   string
	verbose   bool
	logFormat string
	configErr error
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "gncorpora",
	Short: "gncorpora - Guarani corpus extraction, annotation and reconciliation",
	Long: `gncorpora turns heterogeneous raw Guarani corpora (delimited tables,
line-oriented text, XML sentence markup and line-delimited JSON) into one
annotated JSON-lines record store per corpus, with a cumulative statistics
report next to it.

After processing, every report and record store is checked against an
independent recount of the raw files.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configErr != nil {
			return configErr
		}
		logger, err := newLogger(os.Stderr, verbose, logFormat)
		if err != nil {
			return err
		}
		slog.SetDefault(logger.With("run", ulid.MustNew(ulid.Now(), rand.Reader).String()))
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gncorpora %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.gncorpora/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	rootCmd.PersistentFlags().String("raw-dir", "", "raw data root (default from config: data/raw)")
	rootCmd.PersistentFlags().String("processed-dir", "", "processed data root (default from config: data/processed)")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("paths.raw_dir", rootCmd.PersistentFlags().Lookup("raw-dir"))
	_ = viper.BindPFlag("paths.processed_dir", rootCmd.PersistentFlags().Lookup("processed-dir"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig loads .env, the defaults, the config file and GNCORPORA_* env
func initConfig() {
	// A missing .env is normal
	_ = godotenv.Load()

	if err := setupViper(viper.GetViper(), cfgFile); err != nil {
		configErr = fmt.Errorf("config: %w", err)
		return
	}

	if used := viper.ConfigFileUsed(); used != "" && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", used)
	}
}

// newLogger builds the process logger
func newLogger(w io.Writer, verbose bool, format string) (*slog.Logger, error) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	switch strings.ToLower(format) {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format: %s (supported: text, json)", format)
	}
}
