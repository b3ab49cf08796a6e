// Package rank provides the analyze and suggest commands.
package rank

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/felixgeelhaar/taskrank/adapter/cli"
	"github.com/spf13/cobra"
)

// options are the flags shared by analyze and suggest.
type options struct {
	file     string
	strategy string
	today    string
	format   string
	limit    int
}

func (o *options) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.file, "file", "f", "-", "task file (JSON or YAML), - for stdin")
	cmd.Flags().StringVarP(&o.strategy, "strategy", "s", "", "ranking strategy (smart, fastest, impact, deadline)")
	cmd.Flags().StringVar(&o.today, "today", "", "reference date (YYYY-MM-DD), defaults to today")
	cmd.Flags().StringVarP(&o.format, "format", "o", FormatTable, "output format (table, json)")
}

// request is a batch read and resolved against the flags.
type request struct {
	batch    Batch
	strategy string
	today    time.Time
}

func (o *options) resolve(stdin io.Reader, app *cli.App) (request, error) {
	if o.format != FormatTable && o.format != FormatJSON {
		return request{}, fmt.Errorf("unknown format %q (use table or json)", o.format)
	}

	in, err := openInput(o.file, stdin)
	if err != nil {
		return request{}, err
	}
	defer in.Close()

	batch, err := ReadBatch(in, isYAML(o.file))
	if err != nil {
		return request{}, err
	}

	req := request{batch: batch, strategy: batch.Strategy}
	if o.strategy != "" {
		req.strategy = o.strategy
	}
	if req.strategy == "" {
		req.strategy = string(app.DefaultStrategy)
	}

	if o.today != "" {
		loc := app.Location
		if loc == nil {
			loc = time.Local
		}
		today, err := time.ParseInLocation(time.DateOnly, o.today, loc)
		if err != nil {
			return request{}, fmt.Errorf("invalid --today %q: expected YYYY-MM-DD", o.today)
		}
		req.today = today
	}

	return req, nil
}

func requireApp() (*cli.App, error) {
	app := cli.GetApp()
	if app == nil || app.AnalyzeTasksHandler == nil || app.SuggestTasksHandler == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return app, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
