package storage

import (
	"context"
	"time"
)

// Storage defines the interface for persisting and querying the slide index.
type Storage interface {
	// KnownHashes returns the content hash of every stored document. It is
	// loaded once per run to support cheap in-memory dedup checks.
	KnownHashes(ctx context.Context) (map[string]struct{}, error)

	// CommitDocument inserts a document row and all its slide rows as one
	// atomic transaction and returns the new document id. If any insert
	// fails the whole transaction is rolled back: the store never holds a
	// document with a partial slide set. Slides must carry contiguous
	// 1..N ordinals.
	CommitDocument(ctx context.Context, path, hash string, slides []*Slide) (int64, error)

	// Document operations
	GetDocument(ctx context.Context, documentID int64) (*Document, error)
	GetDocumentByHash(ctx context.Context, hash string) (*Document, error)
	ListDocuments(ctx context.Context) ([]*Document, error)
	DeleteDocument(ctx context.Context, documentID int64) error

	// Slide operations
	GetSlide(ctx context.Context, documentID int64, ordinal int) (*Slide, error)
	ListSlides(ctx context.Context, documentID int64) ([]*Slide, error)
	SearchSlides(ctx context.Context, query string, limit int) ([]*SlideMatch, error)
	ListFingerprints(ctx context.Context) ([]*FingerprintRow, error)

	// Status operations
	GetStatus(ctx context.Context) (*Status, error)

	Close() error
}

// Document represents one indexed source file. A document is created once,
// atomically, together with all of its slides, and is never updated by
// normal operation.
type Document struct {
	ID         int64
	Path       string // Absolute path of the source file
	Hash       string // Content hash, the sole dedup key
	SlideCount int
	CreatedAt  time.Time
}

// Slide represents one slide within a document. Slides are exclusively owned
// by their document and only ever created as a complete sibling set.
type Slide struct {
	ID          int64
	DocumentID  int64
	Ordinal     int // 1-based, matching the deck's native numbering
	Fingerprint string
	Thumbnail   []byte // PNG-encoded
	Text        string
	TextOnly    bool
}

// SlideMatch pairs a slide with its owning document's path for search output.
type SlideMatch struct {
	Slide        *Slide
	DocumentPath string
}

// FingerprintRow is the projection used for similarity scans.
type FingerprintRow struct {
	DocumentID   int64
	Ordinal      int
	Fingerprint  string
	DocumentPath string
}

// Status contains statistics about the index.
type Status struct {
	DocumentCount int
	SlideCount    int
	IndexSizeMB   float64
}
