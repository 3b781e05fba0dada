package analysis

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/chorus/pkg/handlers"
)

// ErrMethodNotAllowed is returned for any request method other than GET.
var ErrMethodNotAllowed = errors.New("analysis is triggered by GET only")

// SuccessMessage is returned by the trigger endpoint when a sweep completes.
const SuccessMessage = "Sentiment analysis updated for comments"

// Handler exposes the sweep over HTTP.
type Handler struct {
	sys    System
	logger *slog.Logger
}

type response struct {
	Message   string         `json:"message,omitempty"`
	Error     string         `json:"error,omitempty"`
	Processed int            `json:"processed"`
	Labels    map[string]int `json:"labels,omitempty"`
}

// NewHandler creates a Handler for the given sweep system.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "analysis"),
	}
}

// Analyze runs one sweep synchronously on the request context.
// Only GET triggers a sweep; HEAD is rejected because the mux routes it to GET patterns.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		handlers.RespondError(w, h.logger, http.StatusMethodNotAllowed, ErrMethodNotAllowed)
		return
	}

	result, err := h.sys.Sweep(r.Context())

	body := response{Processed: result.Processed}
	if len(result.Labels) > 0 {
		body.Labels = make(map[string]int, len(result.Labels))
		for label, n := range result.Labels {
			body.Labels[string(label)] = n
		}
	}

	if err != nil {
		h.logger.Error("analysis failed", "error", err, "processed", result.Processed)
		body.Error = err.Error()
		handlers.RespondJSON(w, http.StatusInternalServerError, body)
		return
	}

	body.Message = SuccessMessage
	handlers.RespondJSON(w, http.StatusOK, body)
}
