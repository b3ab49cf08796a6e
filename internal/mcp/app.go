package mcp

import (
	"github.com/felixgeelhaar/taskrank/adapter/cli"
	"github.com/felixgeelhaar/taskrank/internal/app"
	"github.com/felixgeelhaar/taskrank/internal/ranking/domain"
)

// NewCLIApp creates a CLI application instance backed by the provided container.
func NewCLIApp(container *app.Container) *cli.App {
	cliApp := cli.NewApp(
		container.AnalyzeTasksHandler,
		container.SuggestTasksHandler,
	)

	cliApp.SetDefaultStrategy(domain.ParseStrategy(container.Config.DefaultStrategy))
	if loc, err := container.Config.Location(); err == nil {
		cliApp.SetLocation(loc)
	}

	return cliApp
}
