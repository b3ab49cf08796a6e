package services

import (
	"testing"

	"github.com/felixgeelhaar/taskrank/internal/ranking/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRankingEngine(t *testing.T) {
	assert.NotNil(t, NewRankingEngine())
}

func TestRankingEngine_Analyze(t *testing.T) {
	engine := NewRankingEngine()

	t.Run("importance dominates when other factors are equal", func(t *testing.T) {
		tasks := []domain.Task{
			{ID: "T1", Title: "Test", Importance: 7},
			{ID: "T2", Title: "Test2", Importance: 3},
		}

		analysis := engine.Analyze(tasks, domain.StrategySmart, wednesday)

		require.Len(t, analysis.Results, 2)
		assert.Equal(t, "T1", analysis.Results[0].Task.ID)
		assert.GreaterOrEqual(t, analysis.Results[0].Score, analysis.Results[1].Score)
		assert.False(t, analysis.HasCycle)
	})

	t.Run("strategy changes the blended score", func(t *testing.T) {
		tasks := []domain.Task{{ID: "A", Title: "A", Importance: 8}}

		smart := engine.Analyze(tasks, domain.StrategySmart, wednesday).Results[0].Score
		impact := engine.Analyze(tasks, domain.StrategyImpact, wednesday).Results[0].Score

		assert.NotEqual(t, smart, impact)
		assert.Greater(t, impact, smart)
	})

	t.Run("exact blended scores per strategy", func(t *testing.T) {
		tasks := []domain.Task{{ID: "A", Title: "A", Importance: 8}}

		cases := map[domain.Strategy]float64{
			domain.StrategySmart:    52.72,
			domain.StrategyImpact:   83.83,
			domain.StrategyFastest:  82.72,
			domain.StrategyDeadline: 64.72,
		}
		for strategy, want := range cases {
			t.Run(string(strategy), func(t *testing.T) {
				got := engine.Analyze(tasks, strategy, wednesday).Results[0].Score
				assert.Equal(t, want, got)
			})
		}
	})

	t.Run("unknown strategy behaves like smart", func(t *testing.T) {
		tasks := []domain.Task{
			{ID: "A", Title: "A", Importance: 8, DueDate: "2026-10-20"},
			{ID: "B", Title: "B", Importance: 2, EstimatedHours: hours(3)},
		}

		smart := engine.Analyze(tasks, domain.StrategySmart, wednesday)
		unknown := engine.Analyze(tasks, domain.Strategy("Impact"), wednesday)

		assert.Equal(t, smart, unknown)
	})

	t.Run("boosted strategies are not renormalised", func(t *testing.T) {
		tasks := []domain.Task{
			{ID: "A", Title: "A", Importance: 10, DueDate: "2026-10-14"},
			{ID: "B", Title: "B", Importance: 1, Dependencies: []string{"A"}},
		}

		analysis := engine.Analyze(tasks, domain.StrategyImpact, wednesday)

		require.Len(t, analysis.Results, 2)
		assert.Equal(t, "A", analysis.Results[0].Task.ID)
		assert.Equal(t, 140.0, analysis.Results[0].Score)
	})

	t.Run("explanation reports unweighted components", func(t *testing.T) {
		tasks := []domain.Task{
			{ID: "A", Title: "A", Importance: 10, DueDate: "2026-10-24", EstimatedHours: hours(1)},
			{ID: "B", Title: "B", Importance: 1, Dependencies: []string{"A"}},
		}

		analysis := engine.Analyze(tasks, domain.StrategyDeadline, wednesday)

		assert.Equal(t, "urgency=80 importance=100.0 effort=59.1 dependency=100", analysis.Results[0].Explanation)
		assert.Equal(t, "urgency=30 importance=0.0 effort=100.0 dependency=0", analysis.Results[1].Explanation)
	})

	t.Run("sorts descending and keeps input order for ties", func(t *testing.T) {
		tasks := []domain.Task{
			{ID: "low", Title: "low", Importance: 2},
			{ID: "tie-1", Title: "tie-1", Importance: 6},
			{ID: "high", Title: "high", Importance: 9},
			{ID: "tie-2", Title: "tie-2", Importance: 6},
		}

		analysis := engine.Analyze(tasks, domain.StrategySmart, wednesday)

		ids := make([]string, 0, len(analysis.Results))
		for _, r := range analysis.Results {
			ids = append(ids, r.Task.ID)
		}
		assert.Equal(t, []string{"high", "tie-1", "tie-2", "low"}, ids)
	})

	t.Run("cycle flag does not change scores", func(t *testing.T) {
		acyclic := []domain.Task{
			{ID: "A", Title: "A", Importance: 5},
			{ID: "B", Title: "B", Importance: 5, Dependencies: []string{"A"}},
		}
		cyclic := []domain.Task{
			{ID: "A", Title: "A", Importance: 5, Dependencies: []string{"A"}},
			{ID: "B", Title: "B", Importance: 5, Dependencies: []string{"A"}},
		}

		first := engine.Analyze(acyclic, domain.StrategySmart, wednesday)
		second := engine.Analyze(cyclic, domain.StrategySmart, wednesday)

		assert.False(t, first.HasCycle)
		assert.True(t, second.HasCycle)
		// A has fan-in 1 in the first batch and 2 in the second; both normalise to 100.
		assert.Equal(t, first.Results[0].Score, second.Results[0].Score)
	})

	t.Run("is idempotent for a pinned reference date", func(t *testing.T) {
		tasks := []domain.Task{
			{ID: "A", Title: "A", Importance: 4, DueDate: "2026-10-30", EstimatedHours: hours(2)},
			{ID: "B", Title: "B", Importance: 7, Dependencies: []string{"A"}},
			{ID: "C", Title: "C", Importance: 7, DueDate: "2026-10-01"},
		}

		first := engine.Analyze(tasks, domain.StrategyFastest, saturday)
		second := engine.Analyze(tasks, domain.StrategyFastest, saturday)

		assert.Equal(t, first, second)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		tasks := []domain.Task{
			{ID: "B", Title: "B", Importance: 1, Dependencies: []string{"A"}},
			{ID: "A", Title: "A", Importance: 10},
		}
		snapshot := []domain.Task{
			{ID: "B", Title: "B", Importance: 1, Dependencies: []string{"A"}},
			{ID: "A", Title: "A", Importance: 10},
		}

		analysis := engine.Analyze(tasks, domain.StrategySmart, wednesday)

		assert.Equal(t, snapshot, tasks)
		assert.Equal(t, snapshot[1], analysis.Results[0].Task)
	})

	t.Run("defaults missing importance to 5", func(t *testing.T) {
		withDefault := engine.Analyze([]domain.Task{{ID: "A", Title: "A"}}, domain.StrategySmart, wednesday)
		explicit := engine.Analyze([]domain.Task{{ID: "A", Title: "A", Importance: 5}}, domain.StrategySmart, wednesday)

		assert.Equal(t, explicit.Results[0].Score, withDefault.Results[0].Score)
	})

	t.Run("empty batch yields empty results", func(t *testing.T) {
		analysis := engine.Analyze(nil, domain.StrategySmart, wednesday)

		assert.False(t, analysis.HasCycle)
		assert.NotNil(t, analysis.Results)
		assert.Empty(t, analysis.Results)
	})
}

func TestRankingEngine_Score(t *testing.T) {
	engine := NewRankingEngine()

	t.Run("rounds to two decimals", func(t *testing.T) {
		score, _ := engine.Score(domain.ComponentScores{
			Urgency:    30,
			Importance: ImportanceScore(8),
			Effort:     100,
		}, domain.BaseWeights())

		assert.Equal(t, 52.72, score)
	})

	t.Run("zero components score zero", func(t *testing.T) {
		score, explanation := engine.Score(domain.ComponentScores{}, domain.BaseWeights())

		assert.Equal(t, 0.0, score)
		assert.Equal(t, "urgency=0 importance=0.0 effort=0.0 dependency=0", explanation)
	})
}
