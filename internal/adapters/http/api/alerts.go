// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/skillfade/internal/domain/alerting"
)

// AlertDependencies defines the interface for on-demand alert sweeps.
type AlertDependencies interface {
	RunSweep(ctx context.Context) (alerting.Report, error)
}

// AlertsHandler handles manual sweep requests.
type AlertsHandler struct {
	deps AlertDependencies
}

// NewAlertsHandler creates a new alerts handler.
func NewAlertsHandler(deps AlertDependencies) *AlertsHandler {
	return &AlertsHandler{deps: deps}
}

// HandleRunSweep handles POST /alerts/run requests.
func (h *AlertsHandler) HandleRunSweep(w http.ResponseWriter, r *http.Request) {
	const op = "api.run_sweep"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	report, err := h.deps.RunSweep(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}
