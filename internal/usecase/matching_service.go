package usecase

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cotizador/backend/internal/domain"
)

const (
	// defaultMinScore is the similarity threshold applied when the config
	// does not set one.
	defaultMinScore = 90

	// segmentBoostThreshold is the segment similarity above which a match
	// gets the relevance boost.
	segmentBoostThreshold = 80

	// segmentBoost is the score bonus for strong segment matches, capped so
	// the final score stays within 100.
	segmentBoost = 10
)

// MatchConfig holds configuration for the matching service.
type MatchConfig struct {
	MinScore           int
	EnableDebugLogging bool
}

// MatchingService scores catalog rows against free-text queries.
type MatchingService struct {
	minScore           int
	enableDebugLogging bool
	logger             *zap.Logger
}

// NewMatchingService creates a matching service with the given configuration.
func NewMatchingService(config MatchConfig, logger *zap.Logger) *MatchingService {
	minScore := config.MinScore
	if minScore <= 0 {
		minScore = defaultMinScore
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MatchingService{
		minScore:           minScore,
		enableDebugLogging: config.EnableDebugLogging,
		logger:             logger,
	}
}

// Match scans the catalog rows for the query and returns the matches whose
// final score meets the threshold, sorted by score descending. Rows with
// equal scores keep catalog order. An optional segment restricts the scan to
// rows whose segment matches case-insensitively; if no row carries that
// segment the result is empty and no scoring happens.
//
// Each surviving row is scored against both its description and its segment
// text; the higher of the two wins, and a segment similarity of at least 80
// adds a +10 relevance boost capped at 100.
func (s *MatchingService) Match(records []domain.ProductRecord, query, segment string) []domain.MatchResult {
	results := make([]domain.MatchResult, 0)

	rows := records
	if segment != "" {
		rows = make([]domain.ProductRecord, 0)
		for _, r := range records {
			if strings.EqualFold(r.Segment, segment) {
				rows = append(rows, r)
			}
		}
		if len(rows) == 0 {
			if s.enableDebugLogging {
				s.logger.Debug("no products in segment", zap.String("segment", segment))
			}
			return results
		}
	}

	for _, row := range rows {
		descScore := partialRatio(query, row.Description)
		segScore := partialRatio(query, row.Segment)

		finalScore := max(descScore, segScore)
		if segScore >= segmentBoostThreshold {
			finalScore = min(100, finalScore+segmentBoost)
		}

		if s.enableDebugLogging {
			s.logger.Debug("scored row",
				zap.String("description", row.Description),
				zap.Int("desc_score", descScore),
				zap.Int("seg_score", segScore),
				zap.Int("final_score", finalScore))
		}

		if finalScore >= s.minScore {
			results = append(results, domain.MatchResult{
				Description: row.Description,
				CashPrice:   row.CashPrice,
				CardPrice:   row.CardPrice,
				Segment:     row.Segment,
				Score:       finalScore,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
