package services

import "github.com/felixgeelhaar/taskrank/internal/ranking/domain"

// DetectCycle reports whether the dependency graph of the batch contains a
// cycle. Edges run from a dependency to its dependent and only count when
// both ends are tasks in the batch; a task depending on itself is a cycle.
//
// Kahn's algorithm peels zero in-degree nodes with an explicit queue, so
// arbitrarily long chains never grow the call stack.
func DetectCycle(tasks []domain.Task) bool {
	g := buildGraph(tasks)

	inDegree := make(map[string]int, len(g.nodes))
	for _, id := range g.nodes {
		inDegree[id] = 0
	}
	for _, id := range g.nodes {
		for _, next := range g.edges[id] {
			inDegree[next]++
		}
	}

	queue := make([]string, 0, len(g.nodes))
	for _, id := range g.nodes {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	removed := 0
	for head := 0; head < len(queue); head++ {
		id := queue[head]
		removed++
		for _, next := range g.edges[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	return removed < len(g.nodes)
}

// graph is the request-scoped dependency graph of one batch.
type graph struct {
	nodes []string            // distinct task keys, first-appearance order
	edges map[string][]string // dependency -> dependents
}

func buildGraph(tasks []domain.Task) graph {
	g := graph{
		nodes: make([]string, 0, len(tasks)),
		edges: make(map[string][]string),
	}

	seen := make(map[string]struct{}, len(tasks))
	for _, t := range tasks {
		key := t.Key()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		g.nodes = append(g.nodes, key)
	}

	for _, t := range tasks {
		key := t.Key()
		for _, dep := range t.Dependencies {
			if _, ok := seen[dep]; !ok {
				continue
			}
			g.edges[dep] = append(g.edges[dep], key)
		}
	}

	return g
}
