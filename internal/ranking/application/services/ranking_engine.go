package services

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/felixgeelhaar/taskrank/internal/ranking/domain"
)

// RankingEngine blends component scores into a single priority score and
// orders a batch by it. It keeps no state between calls.
type RankingEngine struct{}

// NewRankingEngine creates a new engine.
func NewRankingEngine() *RankingEngine {
	return &RankingEngine{}
}

// Analyze ranks the batch under the given strategy. today is the single
// reference date for every urgency computation in the call.
func (e *RankingEngine) Analyze(tasks []domain.Task, strategy domain.Strategy, today time.Time) domain.Analysis {
	hasCycle := DetectCycle(tasks)
	impact := DependencyImpact(tasks)
	weights := domain.WeightsFor(strategy)

	results := make([]domain.ScoredResult, 0, len(tasks))
	for _, t := range tasks {
		components := domain.ComponentScores{
			Urgency:    UrgencyScore(t.DueDate, today),
			Importance: ImportanceScore(t.ImportanceOrDefault()),
			Effort:     EffortScore(t.EstimatedHours),
			Dependency: impact[t.Key()],
		}

		score, explanation := e.Score(components, weights)
		results = append(results, domain.ScoredResult{
			Task:        t,
			Score:       score,
			Explanation: explanation,
		})
	}

	slices.SortStableFunc(results, func(a, b domain.ScoredResult) int {
		return cmp.Compare(b.Score, a.Score)
	})

	return domain.Analysis{
		HasCycle: hasCycle,
		Results:  results,
	}
}

// Score computes the weighted blend and its explanation.
func (e *RankingEngine) Score(c domain.ComponentScores, w domain.Weights) (float64, string) {
	score := float64(c.Urgency)*w.Urgency +
		c.Importance*w.Importance +
		c.Effort*w.Effort +
		float64(c.Dependency)*w.Dependency

	score = math.Round(score*100) / 100 // keep two decimal places

	return score, c.Explain()
}
