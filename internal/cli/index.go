package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/deckhound/deckhound/internal/pipeline"
)

const timeRounding = 10 * time.Millisecond

var indexWorkers int

var indexCmd = &cobra.Command{
	Use:   "index [paths...]",
	Short: "Index slide decks from files and directories",
	Long: `Indexes every presentation file reachable from the given paths.
Directories are walked recursively; decks whose content is already in the
library are skipped. A deck that fails to index is reported and retried on
the next run.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().IntVar(&indexWorkers, "workers", 0, "decks extracted concurrently (overrides config)")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	pipe, store, err := buildPipeline(cfg, log)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer func() { _ = store.Close() }()

	workers := cfg.Workers
	if indexWorkers > 0 {
		workers = indexWorkers
	}

	// Interrupts abort between documents; the in-flight transaction still
	// commits or rolls back whole.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, err := pipe.Run(ctx, args, &pipeline.Config{Workers: workers})
	if stats != nil {
		cmd.Printf("Indexed %d documents (%d slides), skipped %d, failed %d in %s\n",
			stats.DocumentsIndexed, stats.SlidesIndexed,
			stats.DocumentsSkipped, stats.DocumentsFailed,
			stats.Duration.Round(timeRounding))
		for _, msg := range stats.ErrorMessages {
			cmd.Printf("  failed: %s\n", msg)
		}
	}
	if err != nil {
		return fmt.Errorf("indexing aborted: %w", err)
	}
	return nil
}
