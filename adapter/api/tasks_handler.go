package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/taskrank/internal/ranking/application/queries"
	"github.com/felixgeelhaar/taskrank/internal/ranking/domain"
)

// MaxRequestBytes caps the size of a ranking request body.
const MaxRequestBytes = 5 << 20

// TasksHandler handles task ranking API requests.
type TasksHandler struct {
	analyze *queries.AnalyzeTasksHandler
	suggest *queries.SuggestTasksHandler
	logger  *slog.Logger
}

// NewTasksHandler creates a new tasks handler.
func NewTasksHandler(analyze *queries.AnalyzeTasksHandler, suggest *queries.SuggestTasksHandler, logger *slog.Logger) *TasksHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &TasksHandler{
		analyze: analyze,
		suggest: suggest,
		logger:  logger,
	}
}

// rankRequest is the body of analyze and suggest requests.
type rankRequest struct {
	Tasks    []any  `json:"tasks"`
	Strategy string `json:"strategy"`
}

// validationResponse lists rejected records.
type validationResponse struct {
	ValidationErrors []queries.RecordError `json:"validation_errors"`
}

// suggestResponse carries the leading results.
type suggestResponse struct {
	HasCycle    bool                  `json:"has_cycle"`
	Suggestions []domain.ScoredResult `json:"suggestions"`
}

// strategyResponse describes one strategy.
type strategyResponse struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Weights     domain.Weights `json:"weights"`
}

// Analyze handles POST /api/tasks/analyze/
func (h *TasksHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	req, apiErr := decodeRankRequest(w, r)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}

	result, err := h.analyze.Handle(r.Context(), queries.AnalyzeTasksQuery{
		Tasks:    req.Tasks,
		Strategy: req.Strategy,
	})
	if err != nil {
		var validationErr *queries.ValidationError
		if errors.As(err, &validationErr) {
			writeJSON(w, http.StatusBadRequest, validationResponse{ValidationErrors: validationErr.Records})
			return
		}
		h.logger.ErrorContext(r.Context(), "failed to analyze tasks", "error", err)
		writeError(w, ErrInternalServer)
		return
	}

	writeJSON(w, http.StatusOK, result.Analysis)
}

// Suggest handles POST /api/tasks/suggest/
func (h *TasksHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	req, apiErr := decodeRankRequest(w, r)
	if apiErr != nil {
		writeError(w, apiErr)
		return
	}

	result, err := h.suggest.Handle(r.Context(), queries.SuggestTasksQuery{
		Tasks:    req.Tasks,
		Strategy: req.Strategy,
	})
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to suggest tasks", "error", err)
		writeError(w, ErrInternalServer)
		return
	}

	writeJSON(w, http.StatusOK, suggestResponse{
		HasCycle:    result.HasCycle,
		Suggestions: result.Suggestions,
	})
}

// Strategies handles GET /api/tasks/strategies
func (h *TasksHandler) Strategies(w http.ResponseWriter, r *http.Request) {
	out := make([]strategyResponse, 0, len(domain.Strategies()))
	for _, s := range domain.Strategies() {
		out = append(out, strategyResponse{
			Name:        string(s),
			Description: s.Description(),
			Weights:     domain.WeightsFor(s),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"strategies": out})
}

// decodeRankRequest reads the request body. An empty body is an empty batch.
func decodeRankRequest(w http.ResponseWriter, r *http.Request) (rankRequest, *APIError) {
	var req rankRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBytes))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return req, nil
		case errors.As(err, &tooLarge):
			return req, ErrPayloadTooLarge
		default:
			return req, ErrBadRequest.WithMessage("invalid JSON body: " + err.Error())
		}
	}
	return req, nil
}
