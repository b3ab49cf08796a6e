package services

import "github.com/felixgeelhaar/taskrank/internal/ranking/domain"

// DependencyImpact maps each task key to a 0..100 score proportional to its
// fan-in, the number of times it is listed as a dependency within the batch.
// Counts are normalised by the largest fan-in and truncated, not rounded.
// References to keys outside the batch are ignored.
func DependencyImpact(tasks []domain.Task) map[string]int {
	known := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		known[t.Key()] = struct{}{}
	}

	counts := make(map[string]int, len(tasks))
	maxCount := 0
	for _, t := range tasks {
		for _, dep := range t.Dependencies {
			if _, ok := known[dep]; !ok {
				continue
			}
			counts[dep]++
			if counts[dep] > maxCount {
				maxCount = counts[dep]
			}
		}
	}

	scores := make(map[string]int, len(known))
	for key := range known {
		if maxCount == 0 {
			scores[key] = 0
			continue
		}
		scores[key] = int(float64(counts[key]) / float64(maxCount) * 100)
	}
	return scores
}
