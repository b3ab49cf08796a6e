package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHealthRegistry(t *testing.T) {
	ctx := context.Background()

	t.Run("healthy without checks", func(t *testing.T) {
		health := NewHealthRegistry().GetOverallHealth(ctx)

		assert.Equal(t, HealthStatusHealthy, health.Status)
		assert.Empty(t, health.Checks)
	})

	t.Run("degraded broker degrades overall", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("engine", StaticHealthChecker(HealthStatusHealthy, "ok"))
		r.Register("broker", BrokerHealthChecker(func(ctx context.Context) error {
			return errors.New("connection refused")
		}))

		health := r.GetOverallHealth(ctx)

		assert.Equal(t, HealthStatusDegraded, health.Status)
		assert.Len(t, health.Checks, 2)
		assert.Contains(t, health.Checks["broker"].Message, "connection refused")
		assert.False(t, health.Checks["broker"].Timestamp.IsZero())
	})

	t.Run("unhealthy wins over degraded", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("a", StaticHealthChecker(HealthStatusDegraded, ""))
		r.Register("b", StaticHealthChecker(HealthStatusUnhealthy, ""))
		r.Register("c", StaticHealthChecker(HealthStatusHealthy, ""))

		assert.Equal(t, HealthStatusUnhealthy, r.GetOverallHealth(ctx).Status)
	})

	t.Run("healthy broker", func(t *testing.T) {
		r := NewHealthRegistry()
		r.Register("broker", BrokerHealthChecker(func(ctx context.Context) error { return nil }))

		assert.Equal(t, HealthStatusHealthy, r.GetOverallHealth(ctx).Status)
	})
}
