package storage

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
)

// HiresStore keeps high-resolution slide renders outside the relational
// store to bound row size. Files are named {documentID}_{ordinal}.png so
// correlation with the database is trivial.
type HiresStore struct {
	dir string
}

// NewHiresStore creates the backing directory if needed.
func NewHiresStore(dir string) (*HiresStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create hires directory: %w", err)
	}
	return &HiresStore{dir: dir}, nil
}

// Path returns the deterministic file path for a slide's hi-res render.
func (h *HiresStore) Path(documentID int64, ordinal int) string {
	return filepath.Join(h.dir, fmt.Sprintf("%d_%d.png", documentID, ordinal))
}

// Write stores a hi-res render for the given slide.
func (h *HiresStore) Write(documentID int64, ordinal int, img image.Image) error {
	f, err := os.Create(h.Path(documentID, ordinal))
	if err != nil {
		return fmt.Errorf("failed to create hires file: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to encode hires image: %w", err)
	}
	return f.Close()
}

// Read loads a slide's hi-res render. Returns ErrNotFound if no render was
// stored for the slide.
func (h *HiresStore) Read(documentID int64, ordinal int) (image.Image, error) {
	f, err := os.Open(h.Path(documentID, ordinal))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode hires image: %w", err)
	}
	return img, nil
}
