package rank

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/felixgeelhaar/taskrank/adapter/cli"
	"github.com/felixgeelhaar/taskrank/internal/ranking/application/queries"
	"github.com/spf13/cobra"
)

var analyzeOpts options

// AnalyzeCmd ranks every task of a batch.
var AnalyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Rank all tasks in a batch",
	Long: `Rank all tasks in a batch, best first.

Input is a JSON or YAML list of tasks, or an object with "tasks" and an
optional "strategy". Any invalid task aborts the run and every problem is
reported.

Examples:
  taskrank analyze --file tasks.json
  taskrank analyze --file tasks.yaml --strategy deadline
  cat tasks.json | taskrank analyze --format json --today 2026-10-14`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		return runAnalyze(commandContext(cmd), cmd.InOrStdin(), cmd.OutOrStdout(), app, analyzeOpts)
	},
}

func init() {
	analyzeOpts.register(AnalyzeCmd)
}

func runAnalyze(ctx context.Context, stdin io.Reader, out io.Writer, app *cli.App, opts options) error {
	req, err := opts.resolve(stdin, app)
	if err != nil {
		return err
	}

	result, err := app.AnalyzeTasksHandler.Handle(ctx, queries.AnalyzeTasksQuery{
		Tasks:         req.batch.Tasks,
		Strategy:      req.strategy,
		ReferenceDate: req.today,
	})
	if err != nil {
		var validationErr *queries.ValidationError
		if errors.As(err, &validationErr) {
			writeValidationErrors(out, validationErr)
		}
		return err
	}

	if opts.format == FormatJSON {
		return renderJSON(out, result.Analysis)
	}
	return renderTable(out, result.Strategy, result.Results, result.HasCycle)
}

func writeValidationErrors(out io.Writer, err *queries.ValidationError) {
	for _, record := range err.Records {
		for _, field := range record.SortedFields() {
			for _, msg := range record.Errors[field] {
				fmt.Fprintf(out, "task %d: %s: %s\n", record.Index, field, msg)
			}
		}
	}
}
