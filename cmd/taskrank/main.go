package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/taskrank/adapter/cli"
	"github.com/felixgeelhaar/taskrank/adapter/cli/mcp"
	"github.com/felixgeelhaar/taskrank/adapter/cli/rank"
	"github.com/felixgeelhaar/taskrank/internal/app"
	mcpinternal "github.com/felixgeelhaar/taskrank/internal/mcp"
	"github.com/felixgeelhaar/taskrank/pkg/config"
	"github.com/felixgeelhaar/taskrank/pkg/observability"
	"github.com/spf13/cobra"
)

func main() {
	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	// The container is built after flag parsing so --config is honored.
	var container *app.Container
	cobra.OnInitialize(func() {
		cfg, err := config.LoadFile(cli.ConfigFile())
		if err != nil {
			observability.LoggerFor("development", "", "", os.Stderr).Error("failed to load config", "error", err)
			os.Exit(1)
		}

		level := cfg.LogLevel
		if cli.Verbose() {
			level = "debug"
		}
		logger := observability.LoggerFor(cfg.AppEnv, level, cfg.LogFormat, os.Stderr)
		cli.SetLogger(logger)

		container, err = app.NewContainer(ctx, cfg, logger)
		if err != nil {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
		cli.SetApp(mcpinternal.NewCLIApp(container))
	})

	// Register commands
	cli.AddCommand(rank.AnalyzeCmd)
	cli.AddCommand(rank.SuggestCmd)
	cli.AddCommand(mcp.Cmd)

	// Execute CLI
	err := cli.ExecuteContext(ctx)
	if container != nil {
		container.Close()
	}
	if err != nil {
		os.Exit(1)
	}
}
