package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db3"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testSlides(n int) []*Slide {
	slides := make([]*Slide, 0, n)
	for i := 1; i <= n; i++ {
		slides = append(slides, &Slide{
			Ordinal:     i,
			Fingerprint: strings.Repeat(fmt.Sprintf("%x", i%16), 256),
			Thumbnail:   []byte{0x89, 0x50, 0x4e, 0x47},
			Text:        fmt.Sprintf("slide %d body", i),
			TextOnly:    i%2 == 1,
		})
	}
	return slides
}

func TestCommitAndGetDocument(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	id, err := store.CommitDocument(ctx, "/decks/a.pptx", "hash-a", testSlides(3))
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	doc, err := store.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "/decks/a.pptx", doc.Path)
	assert.Equal(t, "hash-a", doc.Hash)
	assert.Equal(t, 3, doc.SlideCount)
	assert.False(t, doc.CreatedAt.IsZero())

	slides, err := store.ListSlides(ctx, id)
	require.NoError(t, err)
	require.Len(t, slides, 3)
	for i, slide := range slides {
		assert.Equal(t, i+1, slide.Ordinal)
		assert.Equal(t, id, slide.DocumentID)
		assert.Equal(t, fmt.Sprintf("slide %d body", i+1), slide.Text)
	}
}

func TestCommitSetsSlideIDs(t *testing.T) {
	store := newTestStorage(t)
	slides := testSlides(2)

	id, err := store.CommitDocument(context.Background(), "/decks/a.pptx", "hash-a", slides)
	require.NoError(t, err)

	for _, slide := range slides {
		assert.Greater(t, slide.ID, int64(0))
		assert.Equal(t, id, slide.DocumentID)
	}
}

func TestCommitRejectsNonContiguousOrdinals(t *testing.T) {
	store := newTestStorage(t)
	slides := testSlides(2)
	slides[1].Ordinal = 5

	_, err := store.CommitDocument(context.Background(), "/decks/a.pptx", "hash-a", slides)
	assert.ErrorIs(t, err, ErrInvalidSlideSet)

	status, err := store.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, status.DocumentCount)
	assert.Equal(t, 0, status.SlideCount)
}

func TestCommitFailureLeavesStoreUnchanged(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.CommitDocument(ctx, "/decks/a.pptx", "hash-a", testSlides(2))
	require.NoError(t, err)

	// Same hash, different path: the unique constraint fires and nothing
	// from the second document may remain.
	_, err = store.CommitDocument(ctx, "/decks/b.pptx", "hash-a", testSlides(4))
	require.Error(t, err)

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.DocumentCount)
	assert.Equal(t, 2, status.SlideCount)
}

func TestKnownHashes(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	known, err := store.KnownHashes(ctx)
	require.NoError(t, err)
	assert.Empty(t, known)

	_, err = store.CommitDocument(ctx, "/decks/a.pptx", "hash-a", testSlides(1))
	require.NoError(t, err)
	_, err = store.CommitDocument(ctx, "/decks/b.pptx", "hash-b", testSlides(1))
	require.NoError(t, err)

	known, err = store.KnownHashes(ctx)
	require.NoError(t, err)
	assert.Len(t, known, 2)
	assert.Contains(t, known, "hash-a")
	assert.Contains(t, known, "hash-b")
}

func TestGetDocumentByHash(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	id, err := store.CommitDocument(ctx, "/decks/a.pptx", "hash-a", testSlides(1))
	require.NoError(t, err)

	doc, err := store.GetDocumentByHash(ctx, "hash-a")
	require.NoError(t, err)
	assert.Equal(t, id, doc.ID)

	_, err = store.GetDocumentByHash(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetDocumentNotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetDocument(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListDocumentsOrderedByPath(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.CommitDocument(ctx, "/decks/z.pptx", "hash-z", testSlides(1))
	require.NoError(t, err)
	_, err = store.CommitDocument(ctx, "/decks/a.pptx", "hash-a", testSlides(1))
	require.NoError(t, err)

	docs, err := store.ListDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "/decks/a.pptx", docs[0].Path)
	assert.Equal(t, "/decks/z.pptx", docs[1].Path)
}

func TestDeleteDocumentCascades(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	id, err := store.CommitDocument(ctx, "/decks/a.pptx", "hash-a", testSlides(3))
	require.NoError(t, err)

	require.NoError(t, store.DeleteDocument(ctx, id))

	_, err = store.GetDocument(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)

	slides, err := store.ListSlides(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, slides)

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, status.SlideCount)
}

func TestGetSlide(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	id, err := store.CommitDocument(ctx, "/decks/a.pptx", "hash-a", testSlides(2))
	require.NoError(t, err)

	slide, err := store.GetSlide(ctx, id, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, slide.Ordinal)
	assert.Equal(t, "slide 2 body", slide.Text)
	assert.False(t, slide.TextOnly)

	_, err = store.GetSlide(ctx, id, 3)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchSlides(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	slides := testSlides(2)
	slides[0].Text = "Quarterly revenue review"
	slides[1].Text = "Headcount plan"
	_, err := store.CommitDocument(ctx, "/decks/a.pptx", "hash-a", slides)
	require.NoError(t, err)

	matches, err := store.SearchSlides(ctx, "revenue", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "/decks/a.pptx", matches[0].DocumentPath)
	assert.Equal(t, 1, matches[0].Slide.Ordinal)

	matches, err = store.SearchSlides(ctx, "missing term", 10)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestSearchSlidesHonoursLimit(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.CommitDocument(ctx, "/decks/a.pptx", "hash-a", testSlides(5))
	require.NoError(t, err)

	matches, err := store.SearchSlides(ctx, "body", 2)
	require.NoError(t, err)
	assert.Len(t, matches, 2)
}

func TestListFingerprintsSkipsEmpty(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	slides := testSlides(3)
	slides[1].Fingerprint = ""
	id, err := store.CommitDocument(ctx, "/decks/a.pptx", "hash-a", slides)
	require.NoError(t, err)

	fps, err := store.ListFingerprints(ctx)
	require.NoError(t, err)
	require.Len(t, fps, 2)
	assert.Equal(t, id, fps[0].DocumentID)
	assert.Equal(t, 1, fps[0].Ordinal)
	assert.Equal(t, 3, fps[1].Ordinal)
	assert.Equal(t, "/decks/a.pptx", fps[0].DocumentPath)
}

func TestGetStatus(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	_, err := store.CommitDocument(ctx, "/decks/a.pptx", "hash-a", testSlides(2))
	require.NoError(t, err)
	_, err = store.CommitDocument(ctx, "/decks/b.pptx", "hash-b", testSlides(3))
	require.NoError(t, err)

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, status.DocumentCount)
	assert.Equal(t, 5, status.SlideCount)
	assert.Greater(t, status.IndexSizeMB, 0.0)
}

func TestReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db3")
	ctx := context.Background()

	store, err := NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	_, err = store.CommitDocument(ctx, "/decks/a.pptx", "hash-a", testSlides(1))
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening applies migrations again; they must be idempotent.
	store, err = NewSQLiteStorage(dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	known, err := store.KnownHashes(ctx)
	require.NoError(t, err)
	assert.Contains(t, known, "hash-a")
}
