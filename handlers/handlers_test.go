package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/skyflow/skyflow-backend/cache"
	"github.com/skyflow/skyflow-backend/config"
	"github.com/skyflow/skyflow-backend/models"
	"github.com/skyflow/skyflow-backend/services"
)

func newTestHandler(t *testing.T, rawFlights string) *Handler {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flights.json")
	if err := os.WriteFile(path, []byte(rawFlights), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{Port: "8080", FlightDataPath: path}
	c := cache.New(5 * time.Minute)
	dataset := services.NewDataset(path, nil)
	narrator := services.NewNarrator("", "")
	return NewHandler(cfg, c, dataset, narrator)
}

// Two in-sector flights at 14:00Z (unix 1710511200) and one prairie flight.
const testFlights = `[
	{"ACID": "ACA101", "Plane type": "Boeing 777-300ER", "route": "43.68N/79.63W 45.42N/75.69W",
	 "altitude": 36000, "departure airport": "CYYZ", "arrival airport": "CYOW",
	 "departure time": 1710511200, "aircraft speed": 480, "passengers": 312, "is_cargo": false},
	{"ACID": "ACA202", "Plane type": "Airbus A320", "route": "43.68N/79.63W 45.42N/75.69W",
	 "altitude": 34000, "departure airport": "CYYZ", "arrival airport": "CYOW",
	 "departure time": 1710511380, "aircraft speed": 450, "passengers": 148, "is_cargo": false},
	{"ACID": "WJA808", "Plane type": "Boeing 737-800", "route": "49.97N/110.935W 49.64N/92.114W",
	 "altitude": 37000, "departure airport": "CYYC", "arrival airport": "CYWG",
	 "departure time": 1710511320, "aircraft speed": 460, "passengers": 160, "is_cargo": false}
]`

func TestHealthHandler(t *testing.T) {
	h := newTestHandler(t, `[]`)

	req := httptest.NewRequest("GET", "/api/v1/health", nil)
	w := httptest.NewRecorder()

	h.Health(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var resp map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("Expected status ok, got %v", resp["status"])
	}
	if resp["narrator"] != "not_configured" {
		t.Errorf("Expected narrator not_configured, got %v", resp["narrator"])
	}
}

func TestAnalyzeHandler(t *testing.T) {
	h := newTestHandler(t, testFlights)

	req := httptest.NewRequest("GET", "/api/v1/analyze", nil)
	w := httptest.NewRecorder()

	h.Analyze(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var resp models.AnalyzeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	// One 10-minute bin holds both in-sector flights
	if len(resp.Hotspots) != 1 {
		t.Fatalf("Expected 1 hotspot, got %d", len(resp.Hotspots))
	}
	if resp.SelectedHotspot == nil {
		t.Fatal("Expected worst hotspot selected by default")
	}
	if resp.SelectedHotspot.LegacyCount != 2 {
		t.Errorf("Expected 2 flights in selected bin, got %d", resp.SelectedHotspot.LegacyCount)
	}

	if len(resp.RecommendedActions) != 2 {
		t.Errorf("Expected 2 recommended actions, got %d", len(resp.RecommendedActions))
	}
	// A320 is cheaper to move than the 777, so it scores higher
	if len(resp.RecommendedActions) == 2 && resp.RecommendedActions[0].ACID != "ACA202" {
		t.Errorf("Expected ACA202 ranked first, got %s", resp.RecommendedActions[0].ACID)
	}

	if len(resp.FlightsInHotspot) != 2 {
		t.Errorf("Expected 2 table rows, got %d", len(resp.FlightsInHotspot))
	}
	for _, row := range resp.FlightsInHotspot {
		if len(row.Explanations) == 0 {
			t.Errorf("Expected explanations for %s", row.ACID)
		}
	}

	// Legacy count 2 <= 2.5 capacity: GREEN on both models
	if resp.Metrics.Legacy.Status != models.StatusGreen {
		t.Errorf("Expected legacy GREEN, got %s", resp.Metrics.Legacy.Status)
	}
	if resp.Metrics.Skyflow.Status != models.StatusGreen {
		t.Errorf("Expected skyflow GREEN, got %s", resp.Metrics.Skyflow.Status)
	}
	// Predicted load = 0.85 + 0.85
	if resp.Metrics.Skyflow.PredictedLoad < 1.69 || resp.Metrics.Skyflow.PredictedLoad > 1.71 {
		t.Errorf("Expected predicted load ~1.7, got %f", resp.Metrics.Skyflow.PredictedLoad)
	}

	if resp.SectorGeoJSON == nil {
		t.Error("Expected sector polygon in response")
	}
	// Prairie flight is excluded from the map layer
	if len(resp.MapGeoJSON.Features) != 2 {
		t.Errorf("Expected 2 map features, got %d", len(resp.MapGeoJSON.Features))
	}
	if resp.Narrative == "" {
		t.Error("Expected a narrative for the selected hotspot")
	}
}

func TestAnalyzeHandler_BinSelectionAndFallback(t *testing.T) {
	h := newTestHandler(t, testFlights)

	// Exact bin selection
	req := httptest.NewRequest("GET", "/api/v1/analyze?bin=2024-03-15T14:00:00Z", nil)
	w := httptest.NewRecorder()
	h.Analyze(w, req)

	var resp models.AnalyzeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.SelectedHotspot == nil || !resp.SelectedHotspot.BinStart.Equal(time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)) {
		t.Error("Expected requested bin to be selected")
	}

	// Unknown bin falls back to the worst hotspot
	req = httptest.NewRequest("GET", "/api/v1/analyze?bin=2030-01-01T00:00:00Z", nil)
	w = httptest.NewRecorder()
	h.Analyze(w, req)

	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.SelectedHotspot == nil {
		t.Error("Expected fallback to worst hotspot for unknown bin")
	}

	// Garbage bin parameter is ignored, not an error
	req = httptest.NewRequest("GET", "/api/v1/analyze?bin=not-a-time", nil)
	w = httptest.NewRecorder()
	h.Analyze(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("Expected 200 for garbage bin param, got %d", w.Code)
	}
}

func TestAnalyzeHandler_EmptyDataset(t *testing.T) {
	h := newTestHandler(t, `[]`)

	req := httptest.NewRequest("GET", "/api/v1/analyze", nil)
	w := httptest.NewRecorder()
	h.Analyze(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for empty dataset, got %d", w.Code)
	}

	var resp models.AnalyzeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Hotspots) != 0 {
		t.Errorf("Expected zero hotspots, got %d", len(resp.Hotspots))
	}
	if resp.SelectedHotspot != nil {
		t.Error("Expected no selected hotspot")
	}
	if len(resp.RecommendedActions) != 0 {
		t.Errorf("Expected zero candidates, got %d", len(resp.RecommendedActions))
	}
	if resp.Metrics.Legacy.Count != 0 || resp.Metrics.Skyflow.PredictedLoad != 0 {
		t.Error("Expected zeroed metrics for empty dataset")
	}
}

func TestAnalyzeHandler_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, `[]`)

	req := httptest.NewRequest("POST", "/api/v1/analyze", nil)
	w := httptest.NewRecorder()
	h.Analyze(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", w.Code)
	}
}

func TestPlanHandler_ApplyAndRecompute(t *testing.T) {
	h := newTestHandler(t, testFlights)

	body := `{"selected_hotspot_id": "2024-03-15T14:00:00Z",
		"approved_actions": [{"acid": "ACA202", "action_type": "reroute"}]}`
	req := httptest.NewRequest("POST", "/api/v1/plan", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ApplyPlan(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp models.AnalyzeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}

	// Legacy count keeps the rerouted flight; predicted load drops to 0.85
	if resp.Metrics.Legacy.Count != 2 {
		t.Errorf("Expected legacy count 2 after reroute, got %d", resp.Metrics.Legacy.Count)
	}
	if resp.Metrics.Skyflow.PredictedLoad < 0.84 || resp.Metrics.Skyflow.PredictedLoad > 0.86 {
		t.Errorf("Expected predicted load ~0.85, got %f", resp.Metrics.Skyflow.PredictedLoad)
	}
	if resp.Metrics.Skyflow.Status != models.StatusGreen {
		t.Errorf("Expected GREEN after relief, got %s", resp.Metrics.Skyflow.Status)
	}
	if resp.Metrics.Skyflow.Recommendation != "Sector relieved" {
		t.Errorf("Expected 'Sector relieved', got %q", resp.Metrics.Skyflow.Recommendation)
	}

	var rerouted bool
	for _, row := range resp.FlightsInHotspot {
		if row.ACID == "ACA202" && row.Rerouted {
			rerouted = true
		}
	}
	if !rerouted {
		t.Error("Expected ACA202 marked rerouted in the table")
	}

	// Reapplying the same plan yields the same state
	req = httptest.NewRequest("POST", "/api/v1/plan", strings.NewReader(body))
	w = httptest.NewRecorder()
	h.ApplyPlan(w, req)

	var again models.AnalyzeResponse
	if err := json.NewDecoder(w.Body).Decode(&again); err != nil {
		t.Fatal(err)
	}
	if again.Metrics.Skyflow.PredictedLoad != resp.Metrics.Skyflow.PredictedLoad {
		t.Error("Expected idempotent plan application")
	}
}

func TestPlanHandler_UnknownACIDIgnored(t *testing.T) {
	h := newTestHandler(t, testFlights)

	body := `{"approved_actions": [{"acid": "NOPE", "action_type": "reroute"}]}`
	req := httptest.NewRequest("POST", "/api/v1/plan", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.ApplyPlan(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for unknown ACID, got %d", w.Code)
	}

	var resp models.AnalyzeResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	// Nothing rerouted: full load remains
	if resp.Metrics.Skyflow.PredictedLoad < 1.69 || resp.Metrics.Skyflow.PredictedLoad > 1.71 {
		t.Errorf("Expected predicted load ~1.7, got %f", resp.Metrics.Skyflow.PredictedLoad)
	}
}

func TestPlanHandler_NoHotspots(t *testing.T) {
	h := newTestHandler(t, `[]`)

	req := httptest.NewRequest("POST", "/api/v1/plan", strings.NewReader(`{"approved_actions": []}`))
	w := httptest.NewRecorder()
	h.ApplyPlan(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 when no bins exist, got %d", w.Code)
	}

	var resp models.ErrorResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Error != "No hotspot selected" {
		t.Errorf("Expected 'No hotspot selected', got %q", resp.Error)
	}
}

func TestPlanHandler_InvalidJSON(t *testing.T) {
	h := newTestHandler(t, testFlights)

	req := httptest.NewRequest("POST", "/api/v1/plan", strings.NewReader(`{not json`))
	w := httptest.NewRecorder()
	h.ApplyPlan(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for invalid JSON, got %d", w.Code)
	}
}

func TestPlanHandler_MethodNotAllowed(t *testing.T) {
	h := newTestHandler(t, `[]`)

	req := httptest.NewRequest("GET", "/api/v1/plan", nil)
	w := httptest.NewRecorder()
	h.ApplyPlan(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", w.Code)
	}
}

func TestRoutes(t *testing.T) {
	h := newTestHandler(t, `[]`)

	routes := h.Routes()
	if len(routes) != 3 {
		t.Fatalf("Expected 3 routes, got %d", len(routes))
	}

	var planRoute *Route
	for i := range routes {
		if routes[i].Path == "/api/v1/plan" {
			planRoute = &routes[i]
		}
	}
	if planRoute == nil {
		t.Fatal("Expected /api/v1/plan route")
	}
	if planRoute.Method != http.MethodPost || !planRoute.Write {
		t.Error("Expected /plan to be a POST write route")
	}
}
