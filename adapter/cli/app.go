package cli

import (
	"time"

	"github.com/felixgeelhaar/taskrank/internal/ranking/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/ranking/domain"
)

// App holds the CLI application dependencies.
type App struct {
	// Query Handlers
	AnalyzeTasksHandler *queries.AnalyzeTasksHandler
	SuggestTasksHandler *queries.SuggestTasksHandler

	// DefaultStrategy is used when --strategy is not given.
	DefaultStrategy domain.Strategy

	// Location interprets --today dates.
	Location *time.Location
}

// NewApp creates a new CLI application with the provided handlers.
func NewApp(
	analyzeTasksHandler *queries.AnalyzeTasksHandler,
	suggestTasksHandler *queries.SuggestTasksHandler,
) *App {
	return &App{
		AnalyzeTasksHandler: analyzeTasksHandler,
		SuggestTasksHandler: suggestTasksHandler,
		DefaultStrategy:     domain.StrategySmart,
		Location:            time.Local,
	}
}

// SetDefaultStrategy sets the strategy used when none is given.
func (a *App) SetDefaultStrategy(s domain.Strategy) {
	if s != "" {
		a.DefaultStrategy = s
	}
}

// SetLocation sets the timezone used for reference dates.
func (a *App) SetLocation(loc *time.Location) {
	if loc != nil {
		a.Location = loc
	}
}

var app *App

// SetApp sets the global CLI application.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application.
func GetApp() *App {
	return app
}
