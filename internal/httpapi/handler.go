// Package httpapi exposes the task tracker over HTTP: JSON endpoints
// for task and session operations, achievements and activity, plus a
// server-sent-events stream of task changes. Every request is scoped to
// the owner named by its bearer token's subject claim.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/cors"

	"github.com/YuriiYurchuk/Focus-Flow/internal/app"
	"github.com/YuriiYurchuk/Focus-Flow/internal/domain"
)

// Config holds the HTTP layer settings.
type Config struct {
	JWTSecret      []byte
	AllowedOrigins []string
}

// Handler serves the REST API.
type Handler struct {
	container *app.Container
}

// NewHandler builds the routed, CORS-wrapped, authenticated handler.
func NewHandler(c *app.Container, cfg Config) http.Handler {
	h := &Handler{container: c}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/tasks", h.listTasks)
	mux.HandleFunc("POST /v1/tasks", h.createTask)
	mux.HandleFunc("GET /v1/tasks/{id}", h.getTask)
	mux.HandleFunc("PATCH /v1/tasks/{id}", h.editTask)
	mux.HandleFunc("DELETE /v1/tasks/{id}", h.deleteTask)
	mux.HandleFunc("POST /v1/tasks/{id}/start", h.startSession)
	mux.HandleFunc("POST /v1/tasks/{id}/pause", h.pauseSession)
	mux.HandleFunc("POST /v1/tasks/{id}/complete", h.completeTask)
	mux.HandleFunc("GET /v1/tasks/{id}/events", h.streamTask)
	mux.HandleFunc("POST /v1/reconcile", h.reconcile)
	mux.HandleFunc("GET /v1/activity", h.listActivity)
	mux.HandleFunc("GET /v1/achievements", h.listAchievements)
	mux.HandleFunc("GET /v1/stats", h.getStats)

	root := http.NewServeMux()
	root.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})
	root.Handle("/v1/", authMiddleware(cfg.JWTSecret, mux))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(root)
}

// writeJSON encodes v with the right content type.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are gone; nothing useful left to do.
		return
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors onto HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrTaskNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrTaskExists),
		errors.Is(err, domain.ErrSessionActive),
		errors.Is(err, domain.ErrNoActiveSession),
		errors.Is(err, domain.ErrConflictingActiveTask),
		errors.Is(err, domain.ErrTaskCompleted),
		errors.Is(err, domain.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrNoFieldsToUpdate):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrNotInitialized):
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
