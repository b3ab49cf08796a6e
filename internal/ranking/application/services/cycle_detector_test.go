package services

import (
	"fmt"
	"testing"

	"github.com/felixgeelhaar/taskrank/internal/ranking/domain"
	"github.com/stretchr/testify/assert"
)

func task(id string, deps ...string) domain.Task {
	return domain.Task{ID: id, Title: id, Dependencies: deps}
}

func TestDetectCycle(t *testing.T) {
	t.Run("detects two-task cycle", func(t *testing.T) {
		tasks := []domain.Task{task("A", "B"), task("B", "A")}
		assert.True(t, DetectCycle(tasks))
	})

	t.Run("simple chain has no cycle", func(t *testing.T) {
		tasks := []domain.Task{task("A"), task("B", "A")}
		assert.False(t, DetectCycle(tasks))
	})

	t.Run("self dependency is a cycle", func(t *testing.T) {
		tasks := []domain.Task{task("A", "A")}
		assert.True(t, DetectCycle(tasks))
	})

	t.Run("empty batch has no cycle", func(t *testing.T) {
		assert.False(t, DetectCycle(nil))
	})

	t.Run("ignores dependencies outside the batch", func(t *testing.T) {
		tasks := []domain.Task{task("A", "missing"), task("B", "A", "also-missing")}
		assert.False(t, DetectCycle(tasks))
	})

	t.Run("detects cycle behind an acyclic prefix", func(t *testing.T) {
		tasks := []domain.Task{
			task("root"),
			task("A", "root", "C"),
			task("B", "A"),
			task("C", "B"),
		}
		assert.True(t, DetectCycle(tasks))
	})

	t.Run("diamond has no cycle", func(t *testing.T) {
		tasks := []domain.Task{
			task("A"),
			task("B", "A"),
			task("C", "A"),
			task("D", "B", "C"),
		}
		assert.False(t, DetectCycle(tasks))
	})

	t.Run("duplicate edges do not fake a cycle", func(t *testing.T) {
		tasks := []domain.Task{task("A"), task("B", "A", "A")}
		assert.False(t, DetectCycle(tasks))
	})

	t.Run("resolves blank ids through titles", func(t *testing.T) {
		tasks := []domain.Task{
			{Title: "write", Dependencies: []string{"review"}},
			{Title: "review", Dependencies: []string{"write"}},
		}
		assert.True(t, DetectCycle(tasks))
	})

	t.Run("handles long chains without recursion", func(t *testing.T) {
		const n = 100000
		tasks := make([]domain.Task, n)
		tasks[0] = task("t0")
		for i := 1; i < n; i++ {
			tasks[i] = task(fmt.Sprintf("t%d", i), fmt.Sprintf("t%d", i-1))
		}
		assert.False(t, DetectCycle(tasks))

		tasks[0] = task("t0", fmt.Sprintf("t%d", n-1))
		assert.True(t, DetectCycle(tasks))
	})
}
