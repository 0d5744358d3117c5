// Package cli implements the deckhound command-line interface.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/deckhound/deckhound/internal/config"
	"github.com/deckhound/deckhound/internal/extract"
	"github.com/deckhound/deckhound/internal/extract/pptx"
	"github.com/deckhound/deckhound/internal/logger"
	"github.com/deckhound/deckhound/internal/pipeline"
	"github.com/deckhound/deckhound/internal/storage"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "deckhound",
	Short: "Index and search slide decks scattered across a file system",
	Long: `Deckhound builds a searchable local index of slide decks: it walks the
given paths, extracts text and images per slide, fingerprints each slide for
similarity lookups, and stores everything in a SQLite library. Each distinct
deck (by content hash) is indexed exactly once.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "deckhound.toml", "configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig builds the effective configuration from defaults, the optional
// config file, and flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadIfPresent(cfgFile)
	if err != nil {
		return cfg, err
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func newLogger(cfg config.Config) *slog.Logger {
	return logger.New(os.Stderr, cfg.Verbose)
}

// buildPipeline wires the store, hi-res file store and extractor factory
// into a pipeline. The caller owns closing the returned store.
func buildPipeline(cfg config.Config, log *slog.Logger) (*pipeline.Pipeline, *storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	var hires *storage.HiresStore
	if cfg.HiresDir != "" {
		hires, err = storage.NewHiresStore(cfg.HiresDir)
		if err != nil {
			_ = store.Close()
			return nil, nil, err
		}
	}

	newExtractor := func() extract.Extractor {
		return pptx.NewWithConfig(pptx.Config{
			ThumbHeight:   cfg.Extract.ThumbHeight,
			HiresHeight:   cfg.Extract.HiresHeight,
			NonTextShapes: cfg.Extract.NonTextShapes,
		})
	}

	return pipeline.New(store, hires, newExtractor, log), store, nil
}
