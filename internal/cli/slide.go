package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/deckhound/deckhound/internal/storage"
)

var (
	slideOut   string
	slideHires bool
)

var slideCmd = &cobra.Command{
	Use:   "slide <document-id> <ordinal>",
	Short: "Export a slide image",
	Long: `Writes the stored thumbnail of a slide to a PNG file. With --hires
the high-resolution render is exported instead, if one was stored during
indexing.`,
	Args: cobra.ExactArgs(2),
	RunE: runSlide,
}

func init() {
	rootCmd.AddCommand(slideCmd)
	slideCmd.Flags().StringVar(&slideOut, "out", "", "output file (default slide_<id>_<ordinal>.png)")
	slideCmd.Flags().BoolVar(&slideHires, "hires", false, "export the high-resolution render")
}

func runSlide(cmd *cobra.Command, args []string) error {
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

	out := slideOut
	if out == "" {
		out = fmt.Sprintf("slide_%d_%d.png", documentID, ordinal)
	}

	if slideHires {
		hires, err := storage.NewHiresStore(cfg.HiresDir)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(hires.Path(documentID, ordinal))
		if os.IsNotExist(err) {
			return fmt.Errorf("no high-resolution render stored for slide %d of document %d", ordinal, documentID)
		}
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", out, err)
		}
		cmd.Printf("Wrote %s\n", out)
		return nil
	}

	store, err := storage.NewSQLiteStorage(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer func() { _ = store.Close() }()

	slide, err := store.GetSlide(cmd.Context(), documentID, ordinal)
	if err == storage.ErrNotFound {
		return fmt.Errorf("slide %d of document %d is not in the index", ordinal, documentID)
	}
	if err != nil {
		return err
	}
	if len(slide.Thumbnail) == 0 {
		return fmt.Errorf("no thumbnail stored for slide %d of document %d", ordinal, documentID)
	}

	if err := os.WriteFile(out, slide.Thumbnail, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	cmd.Printf("Wrote %s\n", out)
	return nil
}
