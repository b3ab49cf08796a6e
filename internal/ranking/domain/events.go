package domain

import (
	"time"

	sharedDomain "github.com/felixgeelhaar/taskrank/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType = "Analysis"

	RoutingKeyAnalysisCompleted = "ranking.analysis.completed"
)

// AnalysisCompleted is emitted after a batch has been ranked. It carries
// batch statistics only, never task contents.
type AnalysisCompleted struct {
	sharedDomain.BaseEvent
	Strategy      string `json:"strategy"`
	TaskCount     int    `json:"task_count"`
	HasCycle      bool   `json:"has_cycle"`
	TopTask       string `json:"top_task,omitempty"`
	ReferenceDate string `json:"reference_date"`
}

// NewAnalysisCompleted creates an AnalysisCompleted event for one run.
func NewAnalysisCompleted(analysisID uuid.UUID, strategy Strategy, analysis Analysis, today time.Time) AnalysisCompleted {
	event := AnalysisCompleted{
		BaseEvent:     sharedDomain.NewBaseEvent(analysisID, AggregateType, RoutingKeyAnalysisCompleted),
		Strategy:      string(strategy),
		TaskCount:     len(analysis.Results),
		HasCycle:      analysis.HasCycle,
		ReferenceDate: today.Format(time.DateOnly),
	}
	if len(analysis.Results) > 0 {
		event.TopTask = analysis.Results[0].Task.Key()
	}
	return event
}
