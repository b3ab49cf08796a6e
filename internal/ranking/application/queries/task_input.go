package queries

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/felixgeelhaar/taskrank/internal/ranking/application/services"
	"github.com/felixgeelhaar/taskrank/internal/ranking/domain"
)

// Validation limits and defaults for incoming task records.
const (
	MaxTitleLength        = 255
	MinImportance         = 1
	MaxImportance         = 10
	DefaultEstimatedHours = 1.0
)

// Field error messages.
const (
	msgRequired     = "This field is required."
	msgNull         = "This field may not be null."
	msgBlank        = "This field may not be blank."
	msgNotString    = "Not a valid string."
	msgInvalidDate  = "Invalid date format."
	msgInvalidFloat = "A valid number is required."
	msgInvalidInt   = "A valid integer is required."
)

// extraDateLayouts are accepted at validation time in addition to the ISO
// forms the scorer understands. Dates in these layouts pass validation but
// score as undated.
var extraDateLayouts = []string{
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// RecordError lists the field errors of one rejected input record.
type RecordError struct {
	Index  int                 `json:"index"`
	Errors map[string][]string `json:"errors"`
}

// ValidationError is returned when one or more task records are invalid.
type ValidationError struct {
	Records []RecordError
}

func (e *ValidationError) Error() string {
	if len(e.Records) == 1 {
		return fmt.Sprintf("task record %d is invalid", e.Records[0].Index)
	}
	return fmt.Sprintf("%d task records are invalid", len(e.Records))
}

// DecodeTasks validates loosely typed task records, as produced by decoding
// JSON or YAML into interface values, and converts the valid ones. Every
// record is checked; errors are reported by input index.
func DecodeTasks(records []any) ([]domain.Task, []RecordError) {
	tasks := make([]domain.Task, 0, len(records))
	var failures []RecordError

	for i, record := range records {
		task, errs := decodeTask(record)
		if len(errs) > 0 {
			failures = append(failures, RecordError{Index: i, Errors: errs})
			continue
		}
		tasks = append(tasks, task)
	}

	return tasks, failures
}

// fieldErrors collects messages per field.
type fieldErrors map[string][]string

func (f fieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

func decodeTask(record any) (domain.Task, map[string][]string) {
	fields, ok := asObject(record)
	if !ok {
		return domain.Task{}, map[string][]string{
			"non_field_errors": {fmt.Sprintf("Invalid data. Expected a dictionary, but got %s.", typeName(record))},
		}
	}

	errs := fieldErrors{}
	task := domain.Task{
		Importance:   domain.DefaultImportance,
		Dependencies: []string{},
	}

	if raw, present := fields["id"]; present {
		if id, msg := decodeString(raw, true); msg != "" {
			errs.add("id", msg)
		} else {
			task.ID = id
		}
	}

	if raw, present := fields["title"]; !present {
		errs.add("title", msgRequired)
	} else if title, msg := decodeString(raw, false); msg != "" {
		errs.add("title", msg)
	} else if utf8.RuneCountInString(title) > MaxTitleLength {
		errs.add("title", fmt.Sprintf("Ensure this field has no more than %d characters.", MaxTitleLength))
	} else {
		task.Title = title
	}

	if raw, present := fields["due_date"]; present {
		if due, msg := decodeDueDate(raw); msg != "" {
			errs.add("due_date", msg)
		} else {
			task.DueDate = due
		}
	}

	hours := DefaultEstimatedHours
	if raw, present := fields["estimated_hours"]; present {
		if h, msg := decodeFloat(raw); msg != "" {
			errs.add("estimated_hours", msg)
		} else {
			hours = h
		}
	}
	task.EstimatedHours = &hours

	if raw, present := fields["importance"]; present {
		if v, msg := decodeImportance(raw); msg != "" {
			errs.add("importance", msg)
		} else {
			task.Importance = v
		}
	}

	if raw, present := fields["dependencies"]; present {
		deps, depErrs := decodeDependencies(raw)
		for field, msgs := range depErrs {
			errs[field] = append(errs[field], msgs...)
		}
		if len(depErrs) == 0 {
			task.Dependencies = deps
		}
	}

	if len(errs) > 0 {
		return domain.Task{}, errs
	}

	if task.ID == "" {
		task.ID = task.Title
	}
	return task, nil
}

func asObject(record any) (map[string]any, bool) {
	switch v := record.(type) {
	case map[string]any:
		return v, true
	case map[any]any:
		out := make(map[string]any, len(v))
		for k, val := range v {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}

// decodeString accepts strings and numbers; the result is trimmed.
func decodeString(raw any, allowBlank bool) (string, string) {
	var s string
	switch v := raw.(type) {
	case nil:
		return "", msgNull
	case string:
		s = v
	case json.Number:
		s = v.String()
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		s = strconv.Itoa(v)
	case int64:
		s = strconv.FormatInt(v, 10)
	case uint64:
		s = strconv.FormatUint(v, 10)
	default:
		return "", msgNotString
	}

	s = strings.TrimSpace(s)
	if s == "" && !allowBlank {
		return "", msgBlank
	}
	return s, ""
}

func decodeDueDate(raw any) (string, string) {
	if t, ok := raw.(time.Time); ok {
		return t.Format(time.DateOnly), ""
	}

	s, msg := decodeString(raw, true)
	if msg != "" {
		return "", msg
	}
	if s == "" {
		return "", ""
	}
	if !validDate(s) {
		return "", msgInvalidDate
	}
	return s, ""
}

func validDate(s string) bool {
	if _, ok := services.ParseDueDate(s); ok {
		return true
	}
	for _, layout := range extraDateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

func decodeFloat(raw any) (float64, string) {
	var f float64
	switch v := raw.(type) {
	case nil:
		return 0, msgNull
	case float64:
		f = v
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, msgInvalidFloat
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, msgInvalidFloat
		}
		f = parsed
	default:
		return 0, msgInvalidFloat
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, msgInvalidFloat
	}
	return f, ""
}

// decodeImportance accepts integers, integral floats and integer strings.
func decodeImportance(raw any) (int, string) {
	var n int64
	switch v := raw.(type) {
	case nil:
		return 0, msgNull
	case int:
		n = int64(v)
	case int64:
		n = v
	case uint64:
		if v > math.MaxInt64 {
			return 0, lessThanOrEqual()
		}
		n = int64(v)
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, msgInvalidInt
		}
		if v > MaxImportance {
			return 0, lessThanOrEqual()
		}
		if v < MinImportance {
			return 0, greaterThanOrEqual()
		}
		n = int64(v)
	case json.Number:
		return decodeImportance(v.String())
	case string:
		s := strings.TrimSpace(v)
		if i := strings.IndexByte(s, '.'); i >= 0 && strings.Trim(s[i+1:], "0") == "" {
			s = s[:i]
		}
		parsed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, msgInvalidInt
		}
		n = parsed
	default:
		return 0, msgInvalidInt
	}

	switch {
	case n < MinImportance:
		return 0, greaterThanOrEqual()
	case n > MaxImportance:
		return 0, lessThanOrEqual()
	}
	return int(n), ""
}

func greaterThanOrEqual() string {
	return fmt.Sprintf("Ensure this value is greater than or equal to %d.", MinImportance)
}

func lessThanOrEqual() string {
	return fmt.Sprintf("Ensure this value is less than or equal to %d.", MaxImportance)
}

// decodeDependencies reports item errors under "dependencies[i]".
func decodeDependencies(raw any) ([]string, map[string][]string) {
	if raw == nil {
		return nil, map[string][]string{"dependencies": {msgNull}}
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, map[string][]string{
			"dependencies": {fmt.Sprintf("Expected a list of items but got type %q.", typeName(raw))},
		}
	}

	deps := make([]string, 0, len(items))
	errs := fieldErrors{}
	for i, item := range items {
		dep, msg := decodeString(item, false)
		if msg != "" {
			errs.add(fmt.Sprintf("dependencies[%d]", i), msg)
			continue
		}
		deps = append(deps, dep)
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return deps, nil
}

// typeName names a decoded value by its JSON type.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64, uint64, json.Number:
		return "number"
	case []any:
		return "array"
	case map[string]any, map[any]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// SortedFields returns the field names of a record error in stable order.
func (r RecordError) SortedFields() []string {
	fields := make([]string, 0, len(r.Errors))
	for f := range r.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}
