package domain

import "fmt"

// ComponentScores are the four unweighted sub-scores of one task.
type ComponentScores struct {
	Urgency    int
	Importance float64
	Effort     float64
	Dependency int
}

// Explain renders the component values for a result explanation.
func (c ComponentScores) Explain() string {
	return fmt.Sprintf(
		"urgency=%d importance=%.1f effort=%.1f dependency=%d",
		c.Urgency, c.Importance, c.Effort, c.Dependency,
	)
}

// ScoredResult pairs a task with its blended priority score.
type ScoredResult struct {
	Task        Task    `json:"task"`
	Score       float64 `json:"score"`
	Explanation string  `json:"explanation"`
}

// Analysis is the output of one ranking call, ordered by descending score.
// HasCycle is informational; it never changes scores or ordering.
type Analysis struct {
	HasCycle bool           `json:"has_cycle"`
	Results  []ScoredResult `json:"results"`
}

// Top returns at most n leading results.
func (a Analysis) Top(n int) []ScoredResult {
	if n < 0 {
		n = 0
	}
	if n > len(a.Results) {
		n = len(a.Results)
	}
	return a.Results[:n]
}
