package services

import (
	"math"
	"strings"
	"time"
)

const (
	// NeutralUrgency is used when a task has no usable due date.
	NeutralUrgency = 30
	// MaxEffortScore is used when a task has no usable estimate.
	MaxEffortScore = 100.0

	minEffortScore     = 10.0
	minDistantUrgency  = 5.0
	overdueBaseUrgency = 85
	nearHorizonDays    = 30
	weekendFactor      = 0.9
)

// dueDateLayouts are the ISO-8601 forms accepted for due dates.
var dueDateLayouts = []string{
	time.DateOnly,
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// ParseDueDate extracts the calendar date of an ISO-8601 date or date-time.
// The date is taken as written, ignoring any time or offset part.
func ParseDueDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return civilDate(t), true
		}
	}
	return time.Time{}, false
}

// UrgencyScore converts due-date proximity into a 0..100 score relative to
// today. Missing or unparseable dates are neutral. Overdue tasks climb from
// 85 towards 100; tasks due within 30 days decay linearly from 100 to 40;
// anything further decays logarithmically to a floor of 5. On Saturdays and
// Sundays the non-overdue scores are reduced by 10%.
func UrgencyScore(dueDate string, today time.Time) int {
	due, ok := ParseDueDate(dueDate)
	if !ok {
		return NeutralUrgency
	}

	ref := civilDate(today)
	days := int(due.Sub(ref).Hours() / 24)

	if days < 0 {
		return min(100, overdueBaseUrgency-days)
	}

	var score float64
	if days <= nearHorizonDays {
		score = float64(100 - 2*days)
	} else {
		score = math.Max(minDistantUrgency, 50-4*math.Log(float64(days)+1))
	}

	if isWeekend(today) {
		score *= weekendFactor
	}

	return int(math.RoundToEven(score))
}

// EffortScore favors small tasks: 100 for unknown or non-positive estimates,
// then 100/(1+ln(1+hours)) floored at 10.
func EffortScore(hours *float64) float64 {
	if hours == nil || *hours <= 0 || math.IsNaN(*hours) {
		return MaxEffortScore
	}
	return math.Max(minEffortScore, 100/(1+math.Log1p(*hours)))
}

// ImportanceScore rescales a 1..10 rating onto 0..100.
func ImportanceScore(importance int) float64 {
	return float64(importance-1) / 9 * 100
}

func isWeekend(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
