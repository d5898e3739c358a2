package handler

import (
	"encoding/json"
	"net/http"
	"time"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	runID     string
	startedAt time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(runID string) *HealthHandler {
	return &HealthHandler{
		runID:     runID,
		startedAt: time.Now().UTC(),
	}
}

// Liveness returns 200 while the run is alive, together with the run id
// and how long the process has been up.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":         "ok",
		"run_id":         h.runID,
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
