package rank

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/taskrank/adapter/cli"
	"github.com/felixgeelhaar/taskrank/internal/ranking/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/ranking/application/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wednesday = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

const taskJSON = `{"strategy": "impact", "tasks": [
	{"id": "a", "title": "Alpha", "importance": 3},
	{"id": "b", "title": "Bravo", "importance": 9, "due_date": "2026-10-20"},
	{"id": "c", "title": "Charlie", "importance": 6, "dependencies": ["a"]}
]}`

func newTestApp() *cli.App {
	ranker := queries.NewRanker(services.NewRankingEngine(), nil, nil, nil, queries.FixedClock(wednesday))
	app := cli.NewApp(
		queries.NewAnalyzeTasksHandler(ranker),
		queries.NewSuggestTasksHandler(ranker, 2),
	)
	app.SetLocation(time.UTC)
	return app
}

func defaultOptions() options {
	return options{file: "-", format: FormatTable}
}

func TestReadBatch(t *testing.T) {
	t.Run("JSON list", func(t *testing.T) {
		batch, err := ReadBatch(strings.NewReader(`[{"title": "x"}]`), false)

		require.NoError(t, err)
		assert.Len(t, batch.Tasks, 1)
		assert.Empty(t, batch.Strategy)
	})

	t.Run("JSON object", func(t *testing.T) {
		batch, err := ReadBatch(strings.NewReader(taskJSON), false)

		require.NoError(t, err)
		assert.Len(t, batch.Tasks, 3)
		assert.Equal(t, "impact", batch.Strategy)
	})

	t.Run("YAML object", func(t *testing.T) {
		doc := `
strategy: deadline
tasks:
  - id: a
    title: Alpha
    due_date: 2026-10-20
    estimated_hours: 2
    importance: 7
    dependencies: [b]
  - id: b
    title: Bravo
`
		batch, err := ReadBatch(strings.NewReader(doc), true)

		require.NoError(t, err)
		assert.Equal(t, "deadline", batch.Strategy)
		require.Len(t, batch.Tasks, 2)

		tasks, failures := queries.DecodeTasks(batch.Tasks)
		require.Empty(t, failures)
		assert.Equal(t, "2026-10-20", tasks[0].DueDate)
		assert.Equal(t, 7, tasks[0].Importance)
		assert.Equal(t, 2.0, *tasks[0].EstimatedHours)
		assert.Equal(t, []string{"b"}, tasks[0].Dependencies)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ReadBatch(strings.NewReader(""), false)
		assert.ErrorIs(t, err, ErrNoInput)
	})

	t.Run("scalar document", func(t *testing.T) {
		_, err := ReadBatch(strings.NewReader(`"tasks"`), false)
		assert.ErrorContains(t, err, "expected a list of tasks")
	})

	t.Run("tasks must be a list", func(t *testing.T) {
		_, err := ReadBatch(strings.NewReader(`{"tasks": "nope"}`), false)
		assert.ErrorContains(t, err, `"tasks" must be a list`)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		_, err := ReadBatch(strings.NewReader(`[{`), false)
		assert.ErrorContains(t, err, "invalid JSON input")
	})
}

func TestIsYAML(t *testing.T) {
	assert.True(t, isYAML("tasks.yaml"))
	assert.True(t, isYAML("TASKS.YML"))
	assert.False(t, isYAML("tasks.json"))
	assert.False(t, isYAML("-"))
}

func TestRunAnalyze(t *testing.T) {
	app := newTestApp()
	ctx := context.Background()

	t.Run("table output", func(t *testing.T) {
		var out bytes.Buffer

		err := runAnalyze(ctx, strings.NewReader(taskJSON), &out, app, defaultOptions())

		require.NoError(t, err)
		text := out.String()
		assert.Contains(t, text, "Strategy: impact")
		assert.Contains(t, text, "SCORE")
		assert.Less(t, strings.Index(text, "Bravo"), strings.Index(text, "Alpha"))
		assert.NotContains(t, text, "cycle")
	})

	t.Run("JSON output", func(t *testing.T) {
		var out bytes.Buffer
		opts := defaultOptions()
		opts.format = FormatJSON

		err := runAnalyze(ctx, strings.NewReader(taskJSON), &out, app, opts)

		require.NoError(t, err)
		var resp struct {
			HasCycle bool `json:"has_cycle"`
			Results  []struct {
				Task  map[string]any `json:"task"`
				Score float64        `json:"score"`
			} `json:"results"`
		}
		require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
		assert.False(t, resp.HasCycle)
		require.Len(t, resp.Results, 3)
		assert.Equal(t, "b", resp.Results[0].Task["id"])
	})

	t.Run("strategy flag overrides the file", func(t *testing.T) {
		var out bytes.Buffer
		opts := defaultOptions()
		opts.strategy = "fastest"

		require.NoError(t, runAnalyze(ctx, strings.NewReader(taskJSON), &out, app, opts))
		assert.Contains(t, out.String(), "Strategy: fastest")
	})

	t.Run("today flag", func(t *testing.T) {
		var out bytes.Buffer
		opts := defaultOptions()
		opts.today = "2026-10-20"

		require.NoError(t, runAnalyze(ctx, strings.NewReader(taskJSON), &out, app, opts))
		assert.Contains(t, out.String(), "urgency=100")
	})

	t.Run("invalid today", func(t *testing.T) {
		opts := defaultOptions()
		opts.today = "14/10/2026"

		err := runAnalyze(ctx, strings.NewReader(taskJSON), &bytes.Buffer{}, app, opts)
		assert.ErrorContains(t, err, "invalid --today")
	})

	t.Run("unknown format", func(t *testing.T) {
		opts := defaultOptions()
		opts.format = "xml"

		err := runAnalyze(ctx, strings.NewReader(taskJSON), &bytes.Buffer{}, app, opts)
		assert.ErrorContains(t, err, "unknown format")
	})

	t.Run("validation errors are listed", func(t *testing.T) {
		var out bytes.Buffer

		err := runAnalyze(ctx, strings.NewReader(`[{"title": "ok"}, {"importance": 0}]`), &out, app, defaultOptions())

		var validationErr *queries.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, out.String(), "task 1: importance: Ensure this value is greater than or equal to 1.")
		assert.Contains(t, out.String(), "task 1: title: This field is required.")
	})

	t.Run("cycle warning", func(t *testing.T) {
		var out bytes.Buffer
		input := `[{"id": "a", "title": "A", "dependencies": ["b"]}, {"id": "b", "title": "B", "dependencies": ["a"]}]`

		require.NoError(t, runAnalyze(ctx, strings.NewReader(input), &out, app, defaultOptions()))
		assert.Contains(t, out.String(), "dependency cycle detected")
	})

	t.Run("reads YAML files", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "tasks.yaml")
		require.NoError(t, os.WriteFile(path, []byte("- title: From file\n  importance: 4\n"), 0o600))
		var out bytes.Buffer
		opts := defaultOptions()
		opts.file = path

		require.NoError(t, runAnalyze(ctx, strings.NewReader(""), &out, app, opts))
		assert.Contains(t, out.String(), "From file")
	})

	t.Run("missing file", func(t *testing.T) {
		opts := defaultOptions()
		opts.file = filepath.Join(t.TempDir(), "missing.json")

		err := runAnalyze(ctx, strings.NewReader(""), &bytes.Buffer{}, app, opts)
		assert.ErrorContains(t, err, "failed to open task file")
	})
}

func TestRunSuggest(t *testing.T) {
	app := newTestApp()
	ctx := context.Background()

	t.Run("uses handler limit and skips invalid tasks", func(t *testing.T) {
		var out bytes.Buffer
		opts := defaultOptions()
		opts.format = FormatJSON
		input := `[{"id": "a", "title": "A", "importance": 2}, {"title": ""}, {"id": "b", "title": "B", "importance": 8}, {"id": "c", "title": "C"}]`

		require.NoError(t, runSuggest(ctx, strings.NewReader(input), &out, app, opts))

		var resp suggestOutput
		require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
		require.Len(t, resp.Suggestions, 2)
		assert.Equal(t, "b", resp.Suggestions[0].Task.ID)
		assert.Equal(t, "c", resp.Suggestions[1].Task.ID)
	})

	t.Run("limit flag", func(t *testing.T) {
		var out bytes.Buffer
		opts := defaultOptions()
		opts.limit = 1

		require.NoError(t, runSuggest(ctx, strings.NewReader(taskJSON), &out, app, opts))
		assert.Contains(t, out.String(), "Bravo")
		assert.NotContains(t, out.String(), "Alpha")
	})

	t.Run("empty batch", func(t *testing.T) {
		var out bytes.Buffer

		require.NoError(t, runSuggest(ctx, strings.NewReader(`[]`), &out, app, defaultOptions()))
		assert.Contains(t, out.String(), "No tasks to rank.")
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
}
