package api

import "net/http"

// StatsProvider exposes the service's runtime counters: queue depth, worker
// count, store totals.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the runtime counters as one flat JSON object.
type StatsHandler struct {
	provider StatsProvider
}

// NewStatsHandler creates a stats handler over the given provider.
func NewStatsHandler(provider StatsProvider) *StatsHandler {
	return &StatsHandler{provider: provider}
}

// HandleStats handles GET /stats. Anything but GET is a 404, matching the
// other read-only endpoints.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.provider.GetStats())
}
