// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/okian/skillfade/internal/adapters/mq/queue"
	"github.com/okian/skillfade/internal/adapters/repository"
	service "github.com/okian/skillfade/internal/app"
	"github.com/okian/skillfade/internal/domain/dedupe"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	dedupe.Deduper

	// Enqueue pushes a submission for async processing. Returns false on
	// backpressure.
	Enqueue(ctx context.Context, s queue.Submission) bool

	UserDependencies
	SkillDependencies
	AlertDependencies
	StatsProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	eventsHandler *EventsHandler
	usersHandler  *UsersHandler
	skillsHandler *SkillsHandler
	alertsHandler *AlertsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(deps),
		eventsHandler: NewEventsHandler(deps),
		usersHandler:  NewUsersHandler(deps),
		skillsHandler: NewSkillsHandler(deps),
		alertsHandler: NewAlertsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/events", MetricsMiddleware(s.eventsHandler.HandlePostEvent, "events"))
	mux.HandleFunc("/users", MetricsMiddleware(s.usersHandler.HandlePostUser, "users"))
	mux.HandleFunc("/users/", MetricsMiddleware(s.usersHandler.HandleUserSubtree, "users"))
	mux.HandleFunc("/skills", MetricsMiddleware(s.skillsHandler.HandlePostSkill, "skills"))
	mux.HandleFunc("/skills/", MetricsMiddleware(s.skillsHandler.HandleSkillSubtree, "skills"))
	mux.HandleFunc("/alerts/run", MetricsMiddleware(s.alertsHandler.HandleRunSweep, "alerts"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeStoreError translates store sentinels to HTTP statuses.
func writeStoreError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound), errors.Is(err, repository.ErrSkillNotFound):
		writeError(w, http.StatusNotFound, "not_found", Wrap(op, err))
	case errors.Is(err, repository.ErrDuplicateID):
		writeError(w, http.StatusConflict, "duplicate_id", Wrap(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}

// parseDay parses a bare "YYYY-MM-DD" day, with RFC3339 accepted as a
// fallback for clients that send full timestamps.
func parseDay(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// Report shapes returned by the read endpoints.
type (
	FreshnessReport = service.FreshnessReport
	BalanceReport   = service.BalanceReport
	RecordsReport   = service.RecordsReport
)
