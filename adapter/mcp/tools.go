package mcp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/taskrank/adapter/cli"
	"github.com/felixgeelhaar/taskrank/internal/ranking/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/ranking/domain"
)

const dateLayout = "2006-01-02"

// ToolDependencies provides handlers and context for MCP tools.
type ToolDependencies struct {
	App *cli.App
}

type rankInput struct {
	Tasks    []map[string]any `json:"tasks" jsonschema:"required"`
	Strategy string           `json:"strategy,omitempty"`
	Today    string           `json:"today,omitempty"`
}

type suggestInput struct {
	Tasks    []map[string]any `json:"tasks" jsonschema:"required"`
	Strategy string           `json:"strategy,omitempty"`
	Today    string           `json:"today,omitempty"`
	Limit    int              `json:"limit,omitempty"`
}

type analyzeOutput struct {
	AnalysisID       string                `json:"analysis_id"`
	Strategy         string                `json:"strategy"`
	ReferenceDate    string                `json:"reference_date"`
	HasCycle         bool                  `json:"has_cycle"`
	Results          []domain.ScoredResult `json:"results,omitempty"`
	ValidationErrors []queries.RecordError `json:"validation_errors,omitempty"`
}

type suggestOutput struct {
	AnalysisID    string                `json:"analysis_id"`
	Strategy      string                `json:"strategy"`
	ReferenceDate string                `json:"reference_date"`
	HasCycle      bool                  `json:"has_cycle"`
	Suggestions   []domain.ScoredResult `json:"suggestions"`
	Skipped       int                   `json:"skipped"`
}

type strategyDTO struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Weights     domain.Weights `json:"weights"`
}

// RegisterCLITools registers MCP tools that mirror CLI functionality.
func RegisterCLITools(srv *mcp.Server, deps ToolDependencies) error {
	if srv == nil {
		return errors.New("server is required")
	}
	if deps.App == nil {
		return errors.New("app is required")
	}

	srv.Tool("cli.health").
		Description("Check CLI wiring health").
		Handler(func(ctx context.Context, input struct{}) (map[string]string, error) {
			if deps.App.AnalyzeTasksHandler == nil || deps.App.SuggestTasksHandler == nil {
				return nil, errors.New("app not initialized")
			}
			return map[string]string{"status": "ok"}, nil
		})

	srv.Tool("cli.version").
		Description("Get CLI version information").
		Handler(func(ctx context.Context, input struct{}) (map[string]string, error) {
			return map[string]string{
				"version":   cli.Version,
				"commit":    cli.Commit,
				"buildDate": cli.BuildDate,
			}, nil
		})

	srv.Tool("ranking.analyze").
		Description("Rank every task of a batch. Invalid tasks are returned as validation_errors and nothing is ranked.").
		Handler(func(ctx context.Context, input rankInput) (analyzeOutput, error) {
			return analyzeTasks(ctx, deps.App, input)
		})

	srv.Tool("ranking.suggest").
		Description("Return the top tasks of a batch to work on next. Invalid tasks are skipped.").
		Handler(func(ctx context.Context, input suggestInput) (suggestOutput, error) {
			return suggestTasks(ctx, deps.App, input)
		})

	srv.Tool("ranking.strategies").
		Description("List ranking strategies and their component weights").
		Handler(func(ctx context.Context, input struct{}) ([]strategyDTO, error) {
			return listStrategies(), nil
		})

	return nil
}

func analyzeTasks(ctx context.Context, app *cli.App, input rankInput) (analyzeOutput, error) {
	if app.AnalyzeTasksHandler == nil {
		return analyzeOutput{}, errors.New("analyze handler not configured")
	}
	today, err := parseToday(input.Today, app.Location)
	if err != nil {
		return analyzeOutput{}, err
	}

	result, err := app.AnalyzeTasksHandler.Handle(ctx, queries.AnalyzeTasksQuery{
		Tasks:         toRecords(input.Tasks),
		Strategy:      input.Strategy,
		ReferenceDate: today,
	})
	if err != nil {
		var validationErr *queries.ValidationError
		if errors.As(err, &validationErr) {
			return analyzeOutput{ValidationErrors: validationErr.Records}, nil
		}
		return analyzeOutput{}, err
	}

	return analyzeOutput{
		AnalysisID:    result.AnalysisID.String(),
		Strategy:      string(result.Strategy),
		ReferenceDate: result.ReferenceDate.Format(dateLayout),
		HasCycle:      result.HasCycle,
		Results:       result.Results,
	}, nil
}

func suggestTasks(ctx context.Context, app *cli.App, input suggestInput) (suggestOutput, error) {
	if app.SuggestTasksHandler == nil {
		return suggestOutput{}, errors.New("suggest handler not configured")
	}
	if input.Limit < 0 {
		return suggestOutput{}, errors.New("limit must not be negative")
	}
	today, err := parseToday(input.Today, app.Location)
	if err != nil {
		return suggestOutput{}, err
	}

	result, err := app.SuggestTasksHandler.Handle(ctx, queries.SuggestTasksQuery{
		Tasks:         toRecords(input.Tasks),
		Strategy:      input.Strategy,
		Limit:         input.Limit,
		ReferenceDate: today,
	})
	if err != nil {
		return suggestOutput{}, err
	}

	return suggestOutput{
		AnalysisID:    result.AnalysisID.String(),
		Strategy:      string(result.Strategy),
		ReferenceDate: result.ReferenceDate.Format(dateLayout),
		HasCycle:      result.HasCycle,
		Suggestions:   result.Suggestions,
		Skipped:       result.Skipped,
	}, nil
}

func listStrategies() []strategyDTO {
	out := make([]strategyDTO, 0, len(domain.Strategies()))
	for _, s := range domain.Strategies() {
		out = append(out, strategyDTO{
			Name:        string(s),
			Description: s.Description(),
			Weights:     domain.WeightsFor(s),
		})
	}
	return out
}

func parseToday(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.Local
	}
	parsed, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format, use YYYY-MM-DD: %w", err)
	}
	return parsed, nil
}

func toRecords(tasks []map[string]any) []any {
	records := make([]any, len(tasks))
	for i, t := range tasks {
		records[i] = t
	}
	return records
}
