package catalog

import (
	"sort"

	"github.com/cotizador/backend/internal/domain"
)

// Store is the immutable in-memory product catalog. It is built once at
// startup and shared read-only across all requests, so concurrent access
// needs no locking. Callers must not mutate the slice returned by Records.
type Store struct {
	records []domain.ProductRecord
}

// NewStore wraps an already-built record list. Used by the loader and by
// tests that want a catalog without a file.
func NewStore(records []domain.ProductRecord) *Store {
	return &Store{records: records}
}

// Records returns the catalog rows in load order.
func (s *Store) Records() []domain.ProductRecord {
	return s.records
}

// Len returns the number of catalog rows.
func (s *Store) Len() int {
	return len(s.records)
}

// Segments returns the distinct segment labels with per-segment product
// counts, sorted by segment name.
func (s *Store) Segments() []domain.SegmentInfo {
	counts := make(map[string]int)
	for _, r := range s.records {
		counts[r.Segment]++
	}

	segments := make([]domain.SegmentInfo, 0, len(counts))
	for seg, n := range counts {
		segments = append(segments, domain.SegmentInfo{Segment: seg, ProductCount: n})
	}
	sort.Slice(segments, func(i, j int) bool {
		return segments[i].Segment < segments[j].Segment
	})
	return segments
}
