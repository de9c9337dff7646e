package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"timed-quiz-service/internal/app"
	"timed-quiz-service/internal/domain"
)

// ResultsHandler serves the stored result of a player's last finished quiz.
type ResultsHandler struct {
	service *app.QuizService
	log     *slog.Logger
}

func NewResultsHandler(service *app.QuizService, logger *slog.Logger) *ResultsHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ResultsHandler{service: service, log: logger}
}

func (h *ResultsHandler) Get(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	report, err := h.service.Results(r.Context(), playerID)
	if err != nil {
		h.writeError(w, playerID, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *ResultsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	playerID := chi.URLParam(r, "playerID")
	if err := h.service.ClearResults(r.Context(), playerID); err != nil {
		h.writeError(w, playerID, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ResultsHandler) writeError(w http.ResponseWriter, playerID string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSnapshotNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrUnknownOptionKey):
		status = http.StatusUnprocessableEntity
	default:
		h.log.Error("results request failed", "player", playerID, "error", err)
	}
	writeJSON(w, status, errorPayload{Code: errorCode(err), Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
