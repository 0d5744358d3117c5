package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/deckhound/deckhound/internal/storage"
)

var rmCmd = &cobra.Command{
	Use:   "rm <document-id>",
	Short: "Remove a document and its slides from the index",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
	documentID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid document id %q", args[0])
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

	err = store.DeleteDocument(cmd.Context(), documentID)
	if err == storage.ErrNotFound {
		return fmt.Errorf("document %d is not in the index", documentID)
	}
	if err != nil {
		return err
	}

	cmd.Printf("Removed document %d\n", documentID)
	return nil
}
