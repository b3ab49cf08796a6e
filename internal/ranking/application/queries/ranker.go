package queries

import (
	"context"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/ranking/application/services"
	"github.com/felixgeelhaar/taskrank/internal/ranking/domain"
	sharedDomain "github.com/felixgeelhaar/taskrank/internal/shared/domain"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
	"github.com/google/uuid"
)

// Clock returns the current time. It is read once per ranking call.
type Clock func() time.Time

// ClockIn returns a clock reporting the current time in loc.
func ClockIn(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return func() time.Time { return time.Now().In(loc) }
}

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

// RankingResult is the outcome of one ranking call.
type RankingResult struct {
	AnalysisID    uuid.UUID
	Strategy      domain.Strategy
	ReferenceDate time.Time
	domain.Analysis
}

// Ranker runs the engine for the query handlers and reports each run.
type Ranker struct {
	engine          *services.RankingEngine
	publisher       eventbus.Publisher
	logger          *slog.Logger
	metrics         observability.Metrics
	clock           Clock
	defaultStrategy domain.Strategy
}

// NewRanker creates a Ranker. A nil publisher, logger, metrics or clock
// falls back to a no-op or the local wall clock.
func NewRanker(
	engine *services.RankingEngine,
	publisher eventbus.Publisher,
	logger *slog.Logger,
	metrics observability.Metrics,
	clock Clock,
) *Ranker {
	if logger == nil {
		logger = slog.Default()
	}
	if publisher == nil {
		publisher = eventbus.NewNoopPublisher(logger)
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	if clock == nil {
		clock = ClockIn(time.Local)
	}
	return &Ranker{
		engine:          engine,
		publisher:       publisher,
		logger:          logger,
		metrics:         metrics,
		clock:           clock,
		defaultStrategy: domain.StrategySmart,
	}
}

// WithDefaultStrategy sets the strategy used when a request names none.
func (r *Ranker) WithDefaultStrategy(s domain.Strategy) *Ranker {
	if s != "" {
		r.defaultStrategy = s
	}
	return r
}

// DefaultStrategy returns the strategy used when a request names none.
func (r *Ranker) DefaultStrategy() domain.Strategy {
	return r.defaultStrategy
}

func (r *Ranker) strategy(name string) domain.Strategy {
	if name == "" {
		return r.defaultStrategy
	}
	return domain.ParseStrategy(name)
}

// rank scores tasks against today, or against the clock when today is zero.
func (r *Ranker) rank(ctx context.Context, operation string, tasks []domain.Task, strategyName string, today time.Time) RankingResult {
	strategy := r.strategy(strategyName)
	if today.IsZero() {
		today = r.clock()
	}

	analysis, _ := observability.TimeOperationResult(ctx, r.logger, r.metrics, operation, func() (domain.Analysis, error) {
		return r.engine.Analyze(tasks, strategy, today), nil
	})

	result := RankingResult{
		AnalysisID:    uuid.New(),
		Strategy:      strategy,
		ReferenceDate: today,
		Analysis:      analysis,
	}

	tags := []observability.Tag{observability.T("strategy", string(strategy))}
	r.metrics.Counter(observability.MetricAnalysesTotal, 1, tags...)
	r.metrics.Histogram(observability.MetricAnalysisBatchSize, float64(len(tasks)), tags...)
	if analysis.HasCycle {
		r.metrics.Counter(observability.MetricAnalysesCyclic, 1, tags...)
		r.logger.InfoContext(ctx, "dependency cycle detected", "analysis_id", result.AnalysisID, "tasks", len(tasks))
	}
	if !strategy.IsKnown() {
		r.logger.WarnContext(ctx, "unknown strategy, using smart weights", "strategy", string(strategy))
	}

	r.publish(ctx, result)
	return result
}

// publish emits AnalysisCompleted. Failures are logged and counted only.
func (r *Ranker) publish(ctx context.Context, result RankingResult) {
	event := domain.NewAnalysisCompleted(result.AnalysisID, result.Strategy, result.Analysis, result.ReferenceDate)
	event.SetMetadata(sharedDomain.EventMetadata{
		CorrelationID: observability.CorrelationIDFromContext(ctx),
		RequestID:     observability.RequestIDFromContext(ctx),
	})

	if err := eventbus.PublishEvent(ctx, r.publisher, event); err != nil {
		r.metrics.Counter(observability.MetricEventsFailed, 1)
		r.logger.WarnContext(ctx, "failed to publish analysis event",
			"analysis_id", result.AnalysisID,
			"error", err,
		)
		return
	}
	r.metrics.Counter(observability.MetricEventsPublished, 1)
}
