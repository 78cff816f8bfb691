// ABOUTME: Time-bin hotspot and metrics models
// ABOUTME: Derived per detection pass, never persisted across calls

package models

import "time"

// TimeBin is one fixed-width congestion window, keyed by its floor-aligned
// start instant. Recomputed from scratch on every detection pass.
type TimeBin struct {
	BinStart     time.Time `json:"bin_start"`
	BinEnd       time.Time `json:"bin_end"`
	LegacyCount  int       `json:"legacy_count"`  // unweighted flight count
	WeightedLoad float64   `json:"weighted_load"` // sum of per-flight contributions
	Capacity     float64   `json:"capacity"`      // dynamic capacity for this bin
	Severity     float64   `json:"severity"`      // 0-100, clamped
}

// BinMetrics is the recomputed state of one bin after plan application.
type BinMetrics struct {
	LegacyCount   int     `json:"legacy_count"` // full original bin count, unchanged by rerouting
	PredictedLoad float64 `json:"predicted_load"`
	Capacity      float64 `json:"capacity"`
	Status        string  `json:"status"` // GREEN, YELLOW, RED
}

// Bin status thresholds: load <= capacity is GREEN (inclusive),
// <= 1.2x capacity YELLOW, above that RED.
const (
	StatusGreen  = "GREEN"
	StatusYellow = "YELLOW"
	StatusRed    = "RED"
)

// MetricsBlock compares the naive count model against the weighted model.
type MetricsBlock struct {
	Legacy  ModelMetrics `json:"legacy"`
	Skyflow ModelMetrics `json:"skyflow"`
}

// ModelMetrics reports one model's view of the selected bin.
type ModelMetrics struct {
	Count          int     `json:"count,omitempty"`
	PredictedLoad  float64 `json:"predicted_load,omitempty"`
	Capacity       float64 `json:"capacity"`
	Status         string  `json:"status"`
	Recommendation string  `json:"recommendation"`
}
