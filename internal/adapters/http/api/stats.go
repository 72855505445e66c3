package api

import (
	"net/http"
)

// StatsProvider reports prediction counters and the loaded artifact summary:
// started, predictionsServed, predictionsFailed, catalogDrift and, once
// started, manifestColumns, modelKind and scalerKind.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the prediction service snapshot.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats handles GET /stats. Counters change per request, so the
// response is never cached.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, h.statsProvider.GetStats())
}
