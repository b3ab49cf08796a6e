// Package domain holds the task ranking model: task records, strategies,
// weights and scored results.
package domain

import "strings"

// Task is a validated task record as submitted in one analysis batch.
// The ranking engine never mutates it; it is echoed back inside each result.
type Task struct {
	ID             string   `json:"id" yaml:"id"`
	Title          string   `json:"title" yaml:"title"`
	DueDate        string   `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty" yaml:"estimated_hours,omitempty"`
	Importance     int      `json:"importance" yaml:"importance"`
	Dependencies   []string `json:"dependencies" yaml:"dependencies"`
}

// DefaultImportance is used when a record carries no importance rating.
const DefaultImportance = 5

// Key returns the identifier used for graph edges and result mapping.
// Blank ids fall back to the title.
func (t Task) Key() string {
	if strings.TrimSpace(t.ID) == "" {
		return t.Title
	}
	return t.ID
}

// ImportanceOrDefault returns the importance rating, defaulting unset values.
func (t Task) ImportanceOrDefault() int {
	if t.Importance == 0 {
		return DefaultImportance
	}
	return t.Importance
}
