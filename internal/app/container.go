package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/felixgeelhaar/taskrank/internal/ranking/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/ranking/application/services"
	"github.com/felixgeelhaar/taskrank/internal/ranking/domain"
	"github.com/felixgeelhaar/taskrank/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/taskrank/pkg/config"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
)

// Container holds all application dependencies.
type Container struct {
	Config  *config.Config
	Logger  *slog.Logger
	Metrics observability.Metrics
	Health  *observability.HealthRegistry

	// Publishers
	EventPublisher eventbus.Publisher

	// Ranking
	RankingEngine *services.RankingEngine
	Ranker        *queries.Ranker

	// Query Handlers
	AnalyzeTasksHandler *queries.AnalyzeTasksHandler
	SuggestTasksHandler *queries.SuggestTasksHandler
}

// NewContainer wires the application from configuration. With events
// enabled, an unreachable broker is fatal in production and falls back to a
// noop publisher elsewhere.
func NewContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Container{
		Config:  cfg,
		Logger:  logger,
		Metrics: observability.NewInMemoryMetrics(),
		Health:  observability.NewHealthRegistry(),
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	if err := c.initPublisher(); err != nil {
		return nil, err
	}

	c.RankingEngine = services.NewRankingEngine()
	c.Ranker = queries.NewRanker(c.RankingEngine, c.EventPublisher, logger, c.Metrics, queries.ClockIn(loc)).
		WithDefaultStrategy(domain.ParseStrategy(cfg.DefaultStrategy))
	c.AnalyzeTasksHandler = queries.NewAnalyzeTasksHandler(c.Ranker)
	c.SuggestTasksHandler = queries.NewSuggestTasksHandler(c.Ranker, cfg.SuggestLimit)

	c.Health.Register("ranking_engine", observability.StaticHealthChecker(observability.HealthStatusHealthy, "ready"))

	logger.DebugContext(ctx, "container initialized",
		"events_enabled", cfg.EventsEnabled,
		"default_strategy", cfg.DefaultStrategy,
		"timezone", loc.String(),
	)
	return c, nil
}

func (c *Container) initPublisher() error {
	cfg := c.Config
	if !cfg.EventsEnabled {
		c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
		return nil
	}

	publisher, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, eventbus.DefaultExchange, c.Logger)
	if err != nil {
		// Fall back to noop publisher outside production
		if cfg.IsProduction() {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		c.Logger.Warn("RabbitMQ not available, using noop publisher", "error", err)
		c.EventPublisher = eventbus.NewNoopPublisher(c.Logger)
		c.Health.Register("event_broker", observability.StaticHealthChecker(
			observability.HealthStatusDegraded, "event broker unavailable at startup"))
		return nil
	}

	breakerCfg := eventbus.DefaultBreakerConfig()
	if cfg.EventsBreakerFailures > 0 {
		breakerCfg.FailureThreshold = uint32(cfg.EventsBreakerFailures)
	}
	if cfg.EventsBreakerTimeout > 0 {
		breakerCfg.Timeout = cfg.EventsBreakerTimeout
	}

	c.EventPublisher = eventbus.NewBreakerPublisher(publisher, breakerCfg, c.Logger)
	c.Health.Register("event_broker", observability.BrokerHealthChecker(publisher.Ping))
	return nil
}

// Close releases resources held by the container.
func (c *Container) Close() {
	if c.EventPublisher != nil {
		if err := c.EventPublisher.Close(); err != nil {
			c.Logger.Warn("error closing event publisher", "error", err)
		}
	}
}
