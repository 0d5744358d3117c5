// Package searcher answers queries against an already-built slide index:
// plain text matching over extracted slide text, and similarity ordering by
// perceptual fingerprint distance. Ranking beyond these is out of scope.
package searcher

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/deckhound/deckhound/internal/fingerprint"
	"github.com/deckhound/deckhound/internal/storage"
)

// DefaultLimit caps result counts when the caller doesn't specify one.
const DefaultLimit = 10

// ErrEmptyQuery is returned when a text search is given a blank query.
var ErrEmptyQuery = errors.New("query is empty")

// Searcher queries the slide index.
type Searcher struct {
	store storage.Storage
}

// NewSearcher creates a searcher over the given store.
func NewSearcher(store storage.Storage) *Searcher {
	return &Searcher{store: store}
}

// SimilarSlide is a slide ordered by fingerprint distance to a reference
// slide. Smaller distance means more visually similar.
type SimilarSlide struct {
	DocumentID   int64
	Ordinal      int
	DocumentPath string
	Distance     int
}

// SearchText returns slides whose text contains the query.
func (s *Searcher) SearchText(ctx context.Context, query string, limit int) ([]*storage.SlideMatch, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return s.store.SearchSlides(ctx, query, limit)
}

// FindSimilar orders every other slide in the index by Hamming distance
// from the reference slide's fingerprint.
func (s *Searcher) FindSimilar(ctx context.Context, documentID int64, ordinal, limit int) ([]*SimilarSlide, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	ref, err := s.store.GetSlide(ctx, documentID, ordinal)
	if err != nil {
		return nil, err
	}
	if ref.Fingerprint == "" {
		return nil, fmt.Errorf("slide %d of document %d has no fingerprint", ordinal, documentID)
	}

	rows, err := s.store.ListFingerprints(ctx)
	if err != nil {
		return nil, err
	}

	similar := make([]*SimilarSlide, 0, len(rows))
	for _, row := range rows {
		if row.DocumentID == documentID && row.Ordinal == ordinal {
			continue
		}
		dist, err := fingerprint.Distance(ref.Fingerprint, row.Fingerprint)
		if err != nil {
			return nil, fmt.Errorf("slide %d of document %d: %w", row.Ordinal, row.DocumentID, err)
		}
		similar = append(similar, &SimilarSlide{
			DocumentID:   row.DocumentID,
			Ordinal:      row.Ordinal,
			DocumentPath: row.DocumentPath,
			Distance:     dist,
		})
	}

	sort.Slice(similar, func(i, j int) bool {
		if similar[i].Distance != similar[j].Distance {
			return similar[i].Distance < similar[j].Distance
		}
		if similar[i].DocumentID != similar[j].DocumentID {
			return similar[i].DocumentID < similar[j].DocumentID
		}
		return similar[i].Ordinal < similar[j].Ordinal
	})

	if len(similar) > limit {
		similar = similar[:limit]
	}
	return similar, nil
}
