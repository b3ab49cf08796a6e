package mcp

import (
	"context"
	"testing"
	"time"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/testutil"
	"github.com/felixgeelhaar/taskrank/adapter/cli"
	"github.com/felixgeelhaar/taskrank/internal/ranking/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/ranking/application/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wednesday = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

func newTestApp() *cli.App {
	ranker := queries.NewRanker(services.NewRankingEngine(), nil, nil, nil, queries.FixedClock(wednesday))
	app := cli.NewApp(queries.NewAnalyzeTasksHandler(ranker), queries.NewSuggestTasksHandler(ranker, 3))
	app.SetLocation(time.UTC)
	return app
}

func TestRegisterCLITools_ListTools(t *testing.T) {
	srv := mcp.NewServer(mcp.ServerInfo{
		Name:    "test",
		Version: "1.0.0",
		Capabilities: mcp.Capabilities{
			Tools: true,
		},
	})

	require.NoError(t, RegisterCLITools(srv, ToolDependencies{App: newTestApp()}))

	tc := testutil.NewTestClient(t, srv)
	defer tc.Close()

	tools, err := tc.ListTools()
	require.NoError(t, err)

	names := map[any]bool{}
	for _, tool := range tools {
		names[tool["name"]] = true
	}
	for _, want := range []string{"cli.health", "cli.version", "ranking.analyze", "ranking.suggest", "ranking.strategies"} {
		assert.True(t, names[want], "%s tool should be registered", want)
	}
}

func TestRegisterCLITools_RequiresApp(t *testing.T) {
	srv := mcp.NewServer(mcp.ServerInfo{Name: "test", Version: "1.0.0"})

	assert.Error(t, RegisterCLITools(nil, ToolDependencies{App: newTestApp()}))
	assert.Error(t, RegisterCLITools(srv, ToolDependencies{}))
}

func TestAnalyzeTasks(t *testing.T) {
	app := newTestApp()
	ctx := context.Background()

	t.Run("ranks tasks", func(t *testing.T) {
		out, err := analyzeTasks(ctx, app, rankInput{
			Tasks: []map[string]any{
				{"id": "a", "title": "A", "importance": float64(2)},
				{"id": "b", "title": "B", "importance": float64(9)},
			},
			Strategy: "impact",
		})

		require.NoError(t, err)
		assert.Equal(t, "impact", out.Strategy)
		assert.Equal(t, "2026-10-14", out.ReferenceDate)
		assert.NotEmpty(t, out.AnalysisID)
		require.Len(t, out.Results, 2)
		assert.Equal(t, "b", out.Results[0].Task.ID)
		assert.Empty(t, out.ValidationErrors)
	})

	t.Run("validation errors are returned as data", func(t *testing.T) {
		out, err := analyzeTasks(ctx, app, rankInput{
			Tasks: []map[string]any{{"title": "ok"}, {"title": "bad", "importance": float64(99)}},
		})

		require.NoError(t, err)
		assert.Empty(t, out.Results)
		require.Len(t, out.ValidationErrors, 1)
		assert.Equal(t, 1, out.ValidationErrors[0].Index)
	})

	t.Run("today override", func(t *testing.T) {
		out, err := analyzeTasks(ctx, app, rankInput{
			Tasks: []map[string]any{{"title": "x", "due_date": "2026-11-01"}},
			Today: "2026-11-01",
		})

		require.NoError(t, err)
		assert.Equal(t, "2026-11-01", out.ReferenceDate)
		// due the reference day, which is a Sunday
		assert.Contains(t, out.Results[0].Explanation, "urgency=90")
	})

	t.Run("invalid today", func(t *testing.T) {
		_, err := analyzeTasks(ctx, app, rankInput{Today: "tomorrow"})
		assert.ErrorContains(t, err, "invalid date format")
	})
}

func TestSuggestTasks(t *testing.T) {
	app := newTestApp()
	ctx := context.Background()

	tasks := []map[string]any{
		{"id": "1", "title": "one", "importance": float64(1)},
		{"id": "2", "title": "two", "importance": float64(2)},
		{"title": ""},
		{"id": "3", "title": "three", "importance": float64(3)},
		{"id": "4", "title": "four", "importance": float64(4)},
	}

	t.Run("default limit", func(t *testing.T) {
		out, err := suggestTasks(ctx, app, suggestInput{Tasks: tasks})

		require.NoError(t, err)
		assert.Equal(t, "smart", out.Strategy)
		assert.Equal(t, 1, out.Skipped)
		require.Len(t, out.Suggestions, 3)
		assert.Equal(t, "4", out.Suggestions[0].Task.ID)
	})

	t.Run("explicit limit", func(t *testing.T) {
		out, err := suggestTasks(ctx, app, suggestInput{Tasks: tasks, Limit: 1})

		require.NoError(t, err)
		assert.Len(t, out.Suggestions, 1)
	})

	t.Run("negative limit", func(t *testing.T) {
		_, err := suggestTasks(ctx, app, suggestInput{Tasks: tasks, Limit: -1})
		assert.Error(t, err)
	})
}

func TestListStrategies(t *testing.T) {
	strategies := listStrategies()

	require.Len(t, strategies, 4)
	assert.Equal(t, "smart", strategies[0].Name)
	assert.InDelta(t, 0.35, strategies[0].Weights.Urgency, 1e-9)
	assert.Equal(t, "deadline", strategies[3].Name)
	assert.InDelta(t, 0.75, strategies[3].Weights.Urgency, 1e-9)
}
