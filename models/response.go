// ABOUTME: API response envelopes for the analyze/plan endpoints
// ABOUTME: JSON-serializable structures matching frontend expectations

package models

import geojson "github.com/paulmach/go.geojson"

// FlightTableRow is one row of the flights-in-hotspot table, with
// human-readable explanations attached.
type FlightTableRow struct {
	ACID               string   `json:"acid"`
	PlaneType          string   `json:"plane_type"`
	Passengers         int      `json:"passengers"`
	IsCargo            bool     `json:"is_cargo"`
	ArrivalProbability float64  `json:"arrival_probability"`
	GhostFlag          bool     `json:"ghost_flag"`
	CostIndex          float64  `json:"cost_index"`
	IsRecommended      bool     `json:"is_recommended"`
	Rerouted           bool     `json:"rerouted_flag"`
	Explanations       []string `json:"explanations"`
}

// AnalyzeResponse is the unified payload of /analyze and /plan.
type AnalyzeResponse struct {
	SectorGeoJSON      *geojson.Feature           `json:"sector_geojson"`
	MapGeoJSON         *geojson.FeatureCollection `json:"map_geojson"`
	HotspotGeoJSON     *geojson.FeatureCollection `json:"hotspot_geojson"`
	Hotspots           []TimeBin                  `json:"hotspots"`
	SelectedHotspot    *TimeBin                   `json:"selected_hotspot"`
	Metrics            MetricsBlock               `json:"metrics"`
	RecommendedActions []RecommendationCandidate  `json:"recommended_actions"`
	FlightsInHotspot   []FlightTableRow           `json:"flights_in_hotspot"`
	Narrative          string                     `json:"narrative,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}
