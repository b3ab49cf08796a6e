package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/ranking/domain"
	"github.com/felixgeelhaar/taskrank/internal/shared/application"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
)

// DefaultSuggestLimit is the number of suggestions returned when neither the
// handler nor the query sets one.
const DefaultSuggestLimit = 3

// SuggestTasksQuery asks for the top tasks of a batch. Invalid records are
// dropped instead of failing the call.
type SuggestTasksQuery struct {
	Tasks    []any
	Strategy string
	// Limit overrides the handler limit when positive.
	Limit int
	// ReferenceDate replaces the clock when set.
	ReferenceDate time.Time
}

// QueryName returns the query name.
func (q SuggestTasksQuery) QueryName() string {
	return "ranking.suggest"
}

// SuggestTasksResult holds the leading tasks of a ranked batch.
type SuggestTasksResult struct {
	RankingResult
	Suggestions []domain.ScoredResult
	Skipped     int
}

// SuggestTasksHandler handles the SuggestTasksQuery.
type SuggestTasksHandler struct {
	ranker *Ranker
	limit  int
}

var _ application.QueryHandler[SuggestTasksQuery, *SuggestTasksResult] = (*SuggestTasksHandler)(nil)

// NewSuggestTasksHandler creates a handler returning at most limit
// suggestions. A non-positive limit uses DefaultSuggestLimit.
func NewSuggestTasksHandler(ranker *Ranker, limit int) *SuggestTasksHandler {
	if limit < 1 {
		limit = DefaultSuggestLimit
	}
	return &SuggestTasksHandler{ranker: ranker, limit: limit}
}

// Handle ranks the valid records and keeps the top ones.
func (h *SuggestTasksHandler) Handle(ctx context.Context, query SuggestTasksQuery) (*SuggestTasksResult, error) {
	tasks, failures := DecodeTasks(query.Tasks)
	if len(failures) > 0 {
		h.ranker.metrics.Counter(observability.MetricRecordsSkipped, int64(len(failures)))
		h.ranker.logger.DebugContext(ctx, "skipping invalid task records", "count", len(failures))
	}

	limit := h.limit
	if query.Limit > 0 {
		limit = query.Limit
	}

	result := h.ranker.rank(ctx, "ranking.suggest", tasks, query.Strategy, query.ReferenceDate)
	return &SuggestTasksResult{
		RankingResult: result,
		Suggestions:   result.Top(limit),
		Skipped:       len(failures),
	}, nil
}
