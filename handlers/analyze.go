// ABOUTME: HTTP handler for the main congestion analysis endpoint
// ABOUTME: Detects hotspots, resolves the selected bin, and assembles the payload

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/skyflow/skyflow-backend/models"
	"github.com/skyflow/skyflow-backend/services"
)

// Analyze handles GET /api/v1/analyze. The optional bin query parameter
// (RFC3339) selects a specific hotspot; an unknown or absent bin falls back
// to the worst hotspot. An empty dataset returns zero hotspots and zero
// candidates, never an error.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	binParam := r.URL.Query().Get("bin")
	cacheKey := "analyze:" + binParam
	if cached, found := h.cache.Get(cacheKey); found {
		h.writeJSON(w, http.StatusOK, cached)
		return
	}

	flights, err := h.dataset.Snapshot()
	if err != nil {
		slog.Error("Flight dataset load failed", "error", err)
		h.writeError(w, "Flight data unavailable", http.StatusInternalServerError)
		return
	}

	hotspots := services.DetectHotspots(flights)

	var selected *models.TimeBin
	if binParam != "" {
		if start, err := time.Parse(time.RFC3339, binParam); err == nil {
			selected = findHotspot(hotspots, start)
		} else {
			slog.Debug("Ignoring unparseable bin parameter", "bin", binParam)
		}
	}
	if selected == nil && len(hotspots) > 0 {
		selected = &hotspots[0]
	}

	resp := h.buildResponse(r.Context(), flights, hotspots, selected, nil)
	h.cache.Set(cacheKey, resp)
	h.writeJSON(w, http.StatusOK, resp)
}
