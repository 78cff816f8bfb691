// ABOUTME: Declarative route table for API endpoints
// ABOUTME: Defines all routes with their HTTP methods and handlers

package handlers

import "net/http"

// Route defines an API endpoint with its HTTP method and handler.
type Route struct {
	Method  string           // HTTP method (GET, POST, etc.)
	Path    string           // URL path (e.g., "/api/v1/health")
	Handler http.HandlerFunc // Handler function
	Write   bool             // mutates shared state; gets the write rate limit
}

// Routes returns all API routes for registration. Paths are registered
// without method patterns so CORS preflight OPTIONS reaches the middleware;
// handlers validate the method themselves.
func (h *Handler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/api/v1/health", Handler: h.Health},
		{Method: http.MethodGet, Path: "/api/v1/analyze", Handler: h.Analyze},
		{Method: http.MethodPost, Path: "/api/v1/plan", Handler: h.ApplyPlan, Write: true},
	}
}
