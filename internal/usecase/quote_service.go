package usecase

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cotizador/backend/internal/domain"
	"github.com/cotizador/backend/internal/infrastructure/catalog"
	"github.com/cotizador/backend/internal/metrics"
)

// QuoteService executes quotation queries against the catalog through the
// matching service. The store may be nil when the catalog failed to load at
// startup; every catalog-dependent call then fails with
// domain.ErrCatalogUnavailable.
type QuoteService struct {
	store   *catalog.Store
	matcher *MatchingService
	logger  *zap.Logger
}

// NewQuoteService creates the quotation service.
func NewQuoteService(store *catalog.Store, matcher *MatchingService, logger *zap.Logger) *QuoteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteService{
		store:   store,
		matcher: matcher,
		logger:  logger,
	}
}

// Segments returns the distinct catalog segments with product counts.
func (s *QuoteService) Segments() (*domain.SegmentsResponse, error) {
	if s.store == nil {
		return nil, domain.ErrCatalogUnavailable
	}
	segments := s.store.Segments()
	return &domain.SegmentsResponse{
		Segments:      segments,
		TotalSegments: len(segments),
	}, nil
}

// QuoteSingle runs one query and returns the flat single-call response.
func (s *QuoteService) QuoteSingle(req domain.SingleQuery) (*domain.SingleResponse, error) {
	if err := validateQuery(req, 0); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, domain.ErrCatalogUnavailable
	}

	s.logger.Info("processing single query",
		zap.String("query", req.Text),
		zap.String("segment", segmentValue(req)))

	results := s.search(req)

	return &domain.SingleResponse{
		Query:         req.Text,
		Results:       results,
		TotalFound:    len(results),
		SegmentFilter: segmentValue(req),
	}, nil
}

// QuoteBatch runs every query of a batch and returns the nested response
// with per-query results plus a combined list deduplicated by description.
// The first invalid item rejects the whole batch before any matching runs,
// so a later bad item means no results for the earlier ones either.
func (s *QuoteService) QuoteBatch(req domain.BatchQuery) (*domain.BatchResponse, error) {
	if len(req.Items) == 0 {
		return nil, &domain.ValidationError{Message: "Field 'consultas' must be a non-empty array"}
	}
	for i, item := range req.Items {
		if err := validateQuery(item, i+1); err != nil {
			return nil, err
		}
	}
	if s.store == nil {
		return nil, domain.ErrCatalogUnavailable
	}

	processed := make([]domain.ProcessedQuery, 0, len(req.Items))
	all := make([]domain.MatchResult, 0)

	for i, item := range req.Items {
		s.logger.Info("processing batch query",
			zap.Int("item", i+1),
			zap.String("query", item.Text),
			zap.String("segment", segmentValue(item)))

		results := s.search(item)
		processed = append(processed, domain.ProcessedQuery{
			Query:         item.Text,
			Results:       results,
			TotalFound:    len(results),
			SegmentFilter: segmentValue(item),
		})
		all = append(all, results...)
	}

	combined := dedupeByDescription(all)
	sort.SliceStable(combined, func(i, j int) bool {
		return combined[i].Score > combined[j].Score
	})

	s.logger.Info("batch processed",
		zap.Int("queries", len(req.Items)),
		zap.Int("combined_results", len(combined)))

	return &domain.BatchResponse{
		Processed:     processed,
		Combined:      combined,
		TotalQueries:  len(req.Items),
		TotalCombined: len(combined),
	}, nil
}

func (s *QuoteService) search(q domain.SingleQuery) []domain.MatchResult {
	start := time.Now()
	results := s.matcher.Match(s.store.Records(), strings.TrimSpace(q.Text), segmentValue(q))
	metrics.MatchDuration.Observe(time.Since(start).Seconds())
	return results
}

// segmentValue returns the trimmed segment filter, or "" when none was sent.
func segmentValue(q domain.SingleQuery) string {
	if q.Segment == nil {
		return ""
	}
	return strings.TrimSpace(*q.Segment)
}

// dedupeByDescription keeps the first occurrence of each description in
// input order.
func dedupeByDescription(results []domain.MatchResult) []domain.MatchResult {
	seen := make(map[string]bool, len(results))
	unique := make([]domain.MatchResult, 0, len(results))
	for _, r := range results {
		if seen[r.Description] {
			continue
		}
		seen[r.Description] = true
		unique = append(unique, r)
	}
	return unique
}

// validateQuery checks one query. item is the 1-based batch position, 0 for
// single-query calls; it only changes the error wording.
func validateQuery(q domain.SingleQuery, item int) error {
	if strings.TrimSpace(q.Text) == "" {
		msg := "Field 'consulta' must be a non-empty string"
		if item > 0 {
			msg = fmt.Sprintf("Field 'consulta' in item %d must be a non-empty string", item)
		}
		return &domain.ValidationError{Item: item, Message: msg}
	}
	if q.Segment != nil && strings.TrimSpace(*q.Segment) == "" {
		msg := "Field 'segmento' must be a non-empty string when provided"
		if item > 0 {
			msg = fmt.Sprintf("Field 'segmento' in item %d must be a non-empty string when provided", item)
		}
		return &domain.ValidationError{Item: item, Message: msg}
	}
	return nil
}
