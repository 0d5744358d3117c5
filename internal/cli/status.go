package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/deckhound/deckhound/internal/storage"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show index statistics",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := storage.NewSQLiteStorage(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus(cmd.Context())
	if err != nil {
		return err
	}

	cmd.Printf("Documents: %d\n", status.DocumentCount)
	cmd.Printf("Slides:    %d\n", status.SlideCount)
	cmd.Printf("Size:      %.2f MB\n", status.IndexSizeMB)
	cmd.Printf("Driver:    %s (%s)\n", storage.DriverName, storage.BuildMode)
	return nil
}
