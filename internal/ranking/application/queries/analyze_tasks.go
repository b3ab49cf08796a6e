package queries

import (
	"context"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/shared/application"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
)

// AnalyzeTasksQuery ranks a full batch. Any invalid record fails the call.
type AnalyzeTasksQuery struct {
	Tasks    []any
	Strategy string
	// ReferenceDate replaces the clock when set.
	ReferenceDate time.Time
}

// QueryName returns the query name.
func (q AnalyzeTasksQuery) QueryName() string {
	return "ranking.analyze"
}

// AnalyzeTasksResult holds every task of the batch in ranked order.
type AnalyzeTasksResult struct {
	RankingResult
}

// AnalyzeTasksHandler handles the AnalyzeTasksQuery.
type AnalyzeTasksHandler struct {
	ranker *Ranker
}

var _ application.QueryHandler[AnalyzeTasksQuery, *AnalyzeTasksResult] = (*AnalyzeTasksHandler)(nil)

// NewAnalyzeTasksHandler creates a new AnalyzeTasksHandler.
func NewAnalyzeTasksHandler(ranker *Ranker) *AnalyzeTasksHandler {
	return &AnalyzeTasksHandler{ranker: ranker}
}

// Handle validates the batch and ranks it. It returns a *ValidationError
// when any record is invalid.
func (h *AnalyzeTasksHandler) Handle(ctx context.Context, query AnalyzeTasksQuery) (*AnalyzeTasksResult, error) {
	tasks, failures := DecodeTasks(query.Tasks)
	if len(failures) > 0 {
		h.ranker.metrics.Counter(observability.MetricValidationFailed, int64(len(failures)))
		return nil, &ValidationError{Records: failures}
	}

	result := h.ranker.rank(ctx, "ranking.analyze", tasks, query.Strategy, query.ReferenceDate)
	return &AnalyzeTasksResult{RankingResult: result}, nil
}
