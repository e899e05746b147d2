package api

import (
	"net/http"

	"github.com/ayusman/mimic/internal/gesture"
	"github.com/ayusman/mimic/internal/store"
)

// StatsHandler reports how often each gesture was entered.
type StatsHandler struct {
	store *store.Store
}

// NewStatsHandler creates a new StatsHandler with the given store.
func NewStatsHandler(s *store.Store) *StatsHandler {
	return &StatsHandler{store: s}
}

type statsResponse struct {
	SessionID string         `json:"session_id,omitempty"`
	Total     int            `json:"total"`
	Counts    map[string]int `json:"counts"`
}

// ServeHTTP handles GET /api/stats[?session={id}].
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := r.URL.Query().Get("session")
	counts, err := h.store.Events().CountByLabel(sessionID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to count events")
		return
	}

	resp := statsResponse{SessionID: sessionID, Counts: make(map[string]int, gesture.NumLabels)}
	for _, l := range gesture.Labels() {
		resp.Counts[l.String()] = counts[l]
		resp.Total += counts[l]
	}
	writeJSON(w, http.StatusOK, resp)
}
