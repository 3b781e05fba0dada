package ingestion

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/chorus/pkg/handlers"
	"github.com/JaimeStill/chorus/pkg/routes"
)

// Handler exposes ingestion over HTTP.
type Handler struct {
	sys          System
	logger       *slog.Logger
	maxBodyBytes int64
}

// IngestRequest names the videos to ingest. An empty list ingests the configured video.
type IngestRequest struct {
	VideoIDs []string `json:"video_ids"`
}

// IngestResponse reports per-video outcomes and the total inserted.
type IngestResponse struct {
	Results  []Result `json:"results"`
	Inserted int      `json:"inserted"`
	Error    string   `json:"error,omitempty"`
}

// NewHandler creates a Handler that rejects request bodies larger than maxBodyBytes.
func NewHandler(sys System, logger *slog.Logger, maxBodyBytes int64) *Handler {
	return &Handler{
		sys:          sys,
		logger:       logger.With("handler", "ingestion"),
		maxBodyBytes: maxBodyBytes,
	}
}

// Routes returns the route group definition for ingestion endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/ingest",
		Middleware: []func(http.Handler) http.Handler{
			func(next http.Handler) http.Handler {
				return http.MaxBytesHandler(next, h.maxBodyBytes)
			},
		},
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Ingest},
		},
	}
}

// Ingest fetches and stores comments for the requested videos.
func (h *Handler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, handlers.ErrEmptyBody) {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		handlers.RespondError(w, h.logger, status, err)
		return
	}

	ids := req.VideoIDs
	if len(ids) == 0 {
		if def := h.sys.DefaultVideoID(); def != "" {
			ids = []string{def}
		}
	}
	if len(ids) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrMissingVideoID)
		return
	}

	results, err := h.sys.IngestMany(r.Context(), ids)

	resp := IngestResponse{Results: results}
	for _, res := range results {
		resp.Inserted += res.Inserted
	}

	if err != nil {
		h.logger.Error("ingestion failed", "error", err)
		resp.Error = err.Error()
		handlers.RespondJSON(w, MapHTTPStatus(err), resp)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}
