package rank

import (
	"context"
	"io"

	"github.com/felixgeelhaar/taskrank/adapter/cli"
	"github.com/felixgeelhaar/taskrank/internal/ranking/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/ranking/domain"
	"github.com/spf13/cobra"
)

var suggestOpts options

// SuggestCmd shows the top tasks of a batch.
var SuggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Show what to work on next",
	Long: `Show the top tasks of a batch. Invalid tasks are skipped.

Examples:
  taskrank suggest --file tasks.json
  taskrank suggest --file tasks.yaml --limit 5 --strategy fastest`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := requireApp()
		if err != nil {
			return err
		}
		return runSuggest(commandContext(cmd), cmd.InOrStdin(), cmd.OutOrStdout(), app, suggestOpts)
	},
}

func init() {
	suggestOpts.register(SuggestCmd)
	SuggestCmd.Flags().IntVarP(&suggestOpts.limit, "limit", "n", 0, "number of suggestions (default from config)")
}

type suggestOutput struct {
	HasCycle    bool                  `json:"has_cycle"`
	Suggestions []domain.ScoredResult `json:"suggestions"`
}

func runSuggest(ctx context.Context, stdin io.Reader, out io.Writer, app *cli.App, opts options) error {
	req, err := opts.resolve(stdin, app)
	if err != nil {
		return err
	}

	result, err := app.SuggestTasksHandler.Handle(ctx, queries.SuggestTasksQuery{
		Tasks:         req.batch.Tasks,
		Strategy:      req.strategy,
		Limit:         opts.limit,
		ReferenceDate: req.today,
	})
	if err != nil {
		return err
	}

	if opts.format == FormatJSON {
		return renderJSON(out, suggestOutput{HasCycle: result.HasCycle, Suggestions: result.Suggestions})
	}
	return renderTable(out, result.Strategy, result.Suggestions, result.HasCycle)
}
