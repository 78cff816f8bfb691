// ABOUTME: Health check endpoint
// ABOUTME: Reports service status and optional-collaborator availability

package handlers

import "net/http"

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.writeError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := map[string]interface{}{
		"status":   "ok",
		"narrator": "not_configured",
	}
	if h.narrator.Enabled() {
		resp["narrator"] = "ok"
	}

	h.writeJSON(w, http.StatusOK, resp)
}
