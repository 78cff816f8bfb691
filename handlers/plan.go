// ABOUTME: HTTP handler for plan approval and post-plan recompute
// ABOUTME: Marks approved flights rerouted, then returns refreshed metrics

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/skyflow/skyflow-backend/models"
	"github.com/skyflow/skyflow-backend/services"
)

// ApplyPlan handles POST /api/v1/plan. It applies the approved actions to the
// shared dataset (idempotently; unknown ACIDs are ignored) and responds with
// the same shape as /analyze, recomputed under the new state.
func (h *Handler) ApplyPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req models.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.writeError(w, "Request body too large", http.StatusBadRequest)
			return
		}
		h.writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	flights, err := h.dataset.Snapshot()
	if err != nil {
		slog.Error("Flight dataset load failed", "error", err)
		h.writeError(w, "Flight data unavailable", http.StatusInternalServerError)
		return
	}

	// Resolve the target bin: the requested hotspot id, else the worst bin.
	var binStart *time.Time
	if req.SelectedHotspotID != "" {
		if start, err := time.Parse(time.RFC3339, req.SelectedHotspotID); err == nil {
			start = start.UTC()
			binStart = &start
		} else {
			slog.Debug("Ignoring unparseable hotspot id", "id", req.SelectedHotspotID)
		}
	}
	if binStart == nil {
		hotspots := services.DetectHotspots(flights)
		if len(hotspots) > 0 {
			binStart = &hotspots[0].BinStart
		}
	}
	if binStart == nil {
		h.writeError(w, "No hotspot selected", http.StatusBadRequest)
		return
	}

	changed, err := h.dataset.MarkRerouted(req.ApprovedActions)
	if err != nil {
		slog.Error("Plan application failed", "error", err)
		h.writeError(w, "Flight data unavailable", http.StatusInternalServerError)
		return
	}
	slog.Info("Plan applied", "approved", len(req.ApprovedActions), "newly_rerouted", changed, "bin_start", binStart)

	// Any cached analysis is stale once flights are rerouted.
	h.cache.ClearAll()

	flights, err = h.dataset.Snapshot()
	if err != nil {
		slog.Error("Flight dataset load failed", "error", err)
		h.writeError(w, "Flight data unavailable", http.StatusInternalServerError)
		return
	}

	recomputed := services.RecomputeMetrics(flights, *binStart)
	hotspots := services.DetectHotspots(flights)
	selected := findHotspot(hotspots, *binStart)

	resp := h.buildResponse(r.Context(), flights, hotspots, selected, &recomputed)
	h.writeJSON(w, http.StatusOK, resp)
}
