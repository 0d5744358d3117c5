package extract

import (
	"context"
	"fmt"
	"image"
	"strings"
)

// SlideRecord is the structured result of extracting one slide from a deck.
type SlideRecord struct {
	// Ordinal is the 1-based slide number, matching the deck's native numbering.
	Ordinal int

	// Texts holds the text fragments found on the slide, one per text frame,
	// in document order.
	Texts []string

	// Thumbnail is a low-resolution render of the slide, used for the
	// perceptual fingerprint and stored inline in the index.
	Thumbnail image.Image

	// Hires is a high-resolution render of the slide. May be nil if the
	// extractor does not produce one.
	Hires image.Image

	// TextOnly reports whether the slide contains no shape other than text,
	// per the classification policy in effect.
	TextOnly bool
}

// Text returns the slide's text fragments joined into a single string.
func (r *SlideRecord) Text() string {
	return strings.Join(r.Texts, "\n\n")
}

// Extractor converts a document into per-slide records. Implementations are
// stateful and must not be shared across concurrently processed documents;
// callers that parallelise use one instance per worker.
type Extractor interface {
	ExtractSlides(ctx context.Context, path string) ([]SlideRecord, error)
}

// ExtractionError reports that a document could not be opened or parsed.
// It is attributable to a single document and never aborts a batch.
type ExtractionError struct {
	Path string
	Err  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Path, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}
