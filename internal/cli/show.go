package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deckhound/deckhound/internal/storage"
)

var showCmd = &cobra.Command{
	Use:   "show <document-id>",
	Short: "Show an indexed document and its slides",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
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

	doc, err := store.GetDocument(cmd.Context(), documentID)
	if err == storage.ErrNotFound {
		return fmt.Errorf("document %d is not in the index", documentID)
	}
	if err != nil {
		return err
	}

	slides, err := store.ListSlides(cmd.Context(), documentID)
	if err != nil {
		return err
	}

	cmd.Printf("Document %d\n", doc.ID)
	cmd.Printf("  Path:   %s\n", doc.Path)
	cmd.Printf("  Hash:   %s\n", doc.Hash)
	cmd.Printf("  Slides: %d\n", doc.SlideCount)
	for _, slide := range slides {
		kind := "mixed"
		if slide.TextOnly {
			kind = "text-only"
		}
		cmd.Printf("  [%d] %s  %s\n", slide.Ordinal, kind, firstLine(slide.Text))
	}
	return nil
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(text), "\n")
	if len(line) > 70 {
		line = line[:70] + "..."
	}
	return line
}
