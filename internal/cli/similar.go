package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/deckhound/deckhound/internal/searcher"
	"github.com/deckhound/deckhound/internal/storage"
)

var similarLimit int

var similarCmd = &cobra.Command{
	Use:   "similar <document-id> <ordinal>",
	Short: "Find slides visually similar to a reference slide",
	Long: `Orders every other slide in the library by perceptual fingerprint
distance from the reference slide. A distance of 0 means the slides render
identically at fingerprint resolution.`,
	Args: cobra.ExactArgs(2),
	RunE: runSimilar,
}

func init() {
	rootCmd.AddCommand(similarCmd)
	similarCmd.Flags().IntVar(&similarLimit, "limit", searcher.DefaultLimit, "maximum results")
}

func runSimilar(cmd *cobra.Command, args []string) error {
	documentID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid document id %q", args[0])
	}
	ordinal, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid slide ordinal %q", args[1])
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStorage(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer func() { _ = store.Close() }()

	similar, err := searcher.NewSearcher(store).FindSimilar(cmd.Context(), documentID, ordinal, similarLimit)
	if err == storage.ErrNotFound {
		return fmt.Errorf("slide %d of document %d is not in the index", ordinal, documentID)
	}
	if err != nil {
		return err
	}

	if len(similar) == 0 {
		cmd.Println("No other slides in the index.")
		return nil
	}

	cmd.Printf("%8s  %s\n", "DISTANCE", "SLIDE")
	for _, slide := range similar {
		cmd.Printf("%8d  %s slide %d (document %d)\n",
			slide.Distance, slide.DocumentPath, slide.Ordinal, slide.DocumentID)
	}
	return nil
}
