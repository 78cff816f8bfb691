// ABOUTME: Data model for normalized flight records
// ABOUTME: JSON-serializable structure shared by every pipeline stage

package models

import (
	"time"

	"github.com/skypies/geo"
)

// FlightRecord is a normalized flight with derived congestion fields.
// Identity and schedule fields are set once at ingestion; InSector,
// ArrivalProbability, GhostFlag and CostIndex are set once during enrichment.
// Rerouted is the only field mutated afterwards (false -> true only).
type FlightRecord struct {
	ACID       string        `json:"acid"`         // call sign, unique per flight
	PlaneType  string        `json:"plane_type"`
	Route      []geo.Latlong `json:"route_points"` // ordered waypoints, may be empty
	Altitude   float64       `json:"altitude"`     // cruise altitude, feet
	DepAirport string        `json:"dep_airport"`
	ArrAirport string        `json:"arr_airport"`
	DepTimeUTC time.Time     `json:"dep_time_utc"`
	Speed      float64       `json:"speed"`        // cruise speed, knots
	Passengers int           `json:"passengers"`
	IsCargo    bool          `json:"is_cargo"`

	// Derived fields.
	InSector           bool    `json:"in_sector"`
	ArrivalProbability float64 `json:"arrival_probability"` // [0.05, 0.98]
	GhostFlag          bool    `json:"ghost_flag"`          // probability below ghost threshold
	CostIndex          float64 `json:"cost_index"`          // >= 0
	Rerouted           bool    `json:"rerouted_flag"`
}
