package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deckhound/deckhound/internal/searcher"
	"github.com/deckhound/deckhound/internal/storage"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search slide text across the library",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().IntVar(&searchLimit, "limit", searcher.DefaultLimit, "maximum results")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStorage(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer func() { _ = store.Close() }()

	query := strings.Join(args, " ")
	matches, err := searcher.NewSearcher(store).SearchText(cmd.Context(), query, searchLimit)
	if err != nil {
		return err
	}

	if len(matches) == 0 {
		cmd.Printf("No slides match %q.\n", query)
		return nil
	}

	for _, match := range matches {
		cmd.Printf("%s slide %d (document %d)\n", match.DocumentPath, match.Slide.Ordinal, match.Slide.DocumentID)
		cmd.Printf("  %s\n", firstLine(match.Slide.Text))
	}
	return nil
}
