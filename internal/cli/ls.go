package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deckhound/deckhound/internal/storage"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List indexed documents",
	Args:  cobra.NoArgs,
	RunE:  runLs,
}

func init() {
	rootCmd.AddCommand(lsCmd)
}

func runLs(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStorage(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer func() { _ = store.Close() }()

	docs, err := store.ListDocuments(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("Index is empty. Run 'deckhound index <paths>' first.")
		return nil
	}

	cmd.Printf("%6s  %6s  %s\n", "ID", "SLIDES", "PATH")
	for _, doc := range docs {
		cmd.Printf("%6d  %6d  %s\n", doc.ID, doc.SlideCount, doc.Path)
	}
	return nil
}
