package searcher

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deckhound/deckhound/internal/fingerprint"
	"github.com/deckhound/deckhound/internal/storage"
)

func newTestStore(t *testing.T) *storage.SQLiteStorage {
	t.Helper()
	store, err := storage.NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db3"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// fpWithBits builds a fingerprint with the given number of leading one-bits.
func fpWithBits(ones int) string {
	var b strings.Builder
	for i := 0; i < fingerprint.Length; i++ {
		nibble := 0
		for bit := 0; bit < 4; bit++ {
			if i*4+bit < ones {
				nibble |= 8 >> bit
			}
		}
		b.WriteByte("0123456789abcdef"[nibble])
	}
	return b.String()
}

func commitDeck(t *testing.T, store storage.Storage, path, hash string, fps []string, texts []string) int64 {
	t.Helper()

	slides := make([]*storage.Slide, 0, len(fps))
	for i, fp := range fps {
		text := ""
		if i < len(texts) {
			text = texts[i]
		}
		slides = append(slides, &storage.Slide{
			Ordinal:     i + 1,
			Fingerprint: fp,
			Text:        text,
		})
	}
	id, err := store.CommitDocument(context.Background(), path, hash, slides)
	require.NoError(t, err)
	return id
}

func TestSearchTextEmptyQuery(t *testing.T) {
	s := NewSearcher(newTestStore(t))

	_, err := s.SearchText(context.Background(), "   ", 10)
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestSearchTextFindsSlides(t *testing.T) {
	store := newTestStore(t)
	commitDeck(t, store, "/decks/a.pptx", "hash-a",
		[]string{fpWithBits(0), fpWithBits(1)},
		[]string{"Roadmap for the platform", "Budget overview"})

	s := NewSearcher(store)
	matches, err := s.SearchText(context.Background(), "roadmap", 0)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "/decks/a.pptx", matches[0].DocumentPath)
	assert.Equal(t, 1, matches[0].Slide.Ordinal)
}

func TestFindSimilarOrdersByDistance(t *testing.T) {
	store := newTestStore(t)
	refID := commitDeck(t, store, "/decks/ref.pptx", "hash-ref",
		[]string{fpWithBits(0)}, nil)
	otherID := commitDeck(t, store, "/decks/other.pptx", "hash-other",
		[]string{fpWithBits(3), fpWithBits(1), fpWithBits(2)}, nil)

	s := NewSearcher(store)
	similar, err := s.FindSimilar(context.Background(), refID, 1, 10)
	require.NoError(t, err)
	require.Len(t, similar, 3)

	assert.Equal(t, 1, similar[0].Distance)
	assert.Equal(t, 2, similar[0].Ordinal)
	assert.Equal(t, 2, similar[1].Distance)
	assert.Equal(t, 3, similar[1].Ordinal)
	assert.Equal(t, 3, similar[2].Distance)
	assert.Equal(t, 1, similar[2].Ordinal)

	for _, slide := range similar {
		assert.Equal(t, otherID, slide.DocumentID)
		assert.Equal(t, "/decks/other.pptx", slide.DocumentPath)
	}
}

func TestFindSimilarExcludesReference(t *testing.T) {
	store := newTestStore(t)
	refID := commitDeck(t, store, "/decks/ref.pptx", "hash-ref",
		[]string{fpWithBits(0), fpWithBits(0)}, nil)

	s := NewSearcher(store)
	similar, err := s.FindSimilar(context.Background(), refID, 1, 10)
	require.NoError(t, err)

	// The identical sibling stays; the reference itself is excluded.
	require.Len(t, similar, 1)
	assert.Equal(t, 0, similar[0].Distance)
	assert.Equal(t, 2, similar[0].Ordinal)
}

func TestFindSimilarHonoursLimit(t *testing.T) {
	store := newTestStore(t)
	refID := commitDeck(t, store, "/decks/ref.pptx", "hash-ref",
		[]string{fpWithBits(0)}, nil)
	commitDeck(t, store, "/decks/other.pptx", "hash-other",
		[]string{fpWithBits(1), fpWithBits(2), fpWithBits(3)}, nil)

	s := NewSearcher(store)
	similar, err := s.FindSimilar(context.Background(), refID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, similar, 2)
}

func TestFindSimilarMissingReference(t *testing.T) {
	s := NewSearcher(newTestStore(t))

	_, err := s.FindSimilar(context.Background(), 42, 1, 10)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestFindSimilarReferenceWithoutFingerprint(t *testing.T) {
	store := newTestStore(t)
	refID := commitDeck(t, store, "/decks/ref.pptx", "hash-ref",
		[]string{""}, nil)

	s := NewSearcher(store)
	_, err := s.FindSimilar(context.Background(), refID, 1, 10)
	assert.Error(t, err)
}
