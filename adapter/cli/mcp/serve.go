package mcp

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/felixgeelhaar/taskrank/adapter/cli"
	"github.com/felixgeelhaar/taskrank/internal/app"
	mcpinternal "github.com/felixgeelhaar/taskrank/internal/mcp"
	"github.com/felixgeelhaar/taskrank/pkg/config"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		cfg, err := config.LoadFile(cli.ConfigFile())
		if err != nil {
			return err
		}

		logger := newServerLogger(cmd.ErrOrStderr(), cfg)

		cliApp := cli.GetApp()
		if cliApp == nil {
			container, err := app.NewContainer(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer container.Close()
			cliApp = mcpinternal.NewCLIApp(container)
		}

		err = mcpinternal.Serve(ctx, cfg, cliApp, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func newServerLogger(out io.Writer, cfg *config.Config) *slog.Logger {
	level := cfg.LogLevel
	if cfg.IsDevelopment() && level == "info" {
		level = "debug"
	}
	return observability.LoggerFor(cfg.AppEnv, level, cfg.LogFormat, out)
}
