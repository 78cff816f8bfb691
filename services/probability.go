// ABOUTME: Probabilistic enrichment of flight records
// ABOUTME: Table-driven arrival probability, ghost flag, and cost index rules

package services

import (
	"strings"

	"github.com/skyflow/skyflow-backend/models"
)

// Arrival probability rule table. Adjustments are signed and accumulate on
// the baseline before clamping.
const (
	BaselineProbability = 0.85
	CargoBoost          = 0.05
	LowPriorityPenalty  = -0.10
	RegionalPenalty     = -0.05
	StormImpactPenalty  = -0.25

	MinProbability = 0.05
	MaxProbability = 0.98

	// GhostThreshold marks flights too unreliable to be worth rerouting.
	GhostThreshold = 0.5
)

// Cost index rule table.
const (
	PassengerWeight = 1.0
	CargoBonus      = 150.0
)

// regionalTypes are matched as substrings of the aircraft type.
var regionalTypes = []string{"Dash 8", "Embraer", "CRJ", "Q400"}

// sizeClassMultipliers map aircraft-type substrings to cost multipliers.
// First match wins; unmatched types fall into the default bucket.
var sizeClassMultipliers = []struct {
	tokens     []string
	multiplier float64
}{
	{[]string{"787", "777", "767"}, 1.5},   // wide-body
	{[]string{"737", "A320", "A321"}, 1.0}, // narrow-body
}

// defaultSizeMultiplier covers regional and unknown types.
const defaultSizeMultiplier = 0.8

func isRegional(planeType string) bool {
	for _, token := range regionalTypes {
		if strings.Contains(planeType, token) {
			return true
		}
	}
	return false
}

func sizeMultiplier(planeType string) float64 {
	for _, class := range sizeClassMultipliers {
		for _, token := range class.tokens {
			if strings.Contains(planeType, token) {
				return class.multiplier
			}
		}
	}
	return defaultSizeMultiplier
}

// ArrivalProbability applies the deterministic rule table and clamps the
// result to [MinProbability, MaxProbability].
func ArrivalProbability(f models.FlightRecord, stormAirports map[string]bool) float64 {
	p := BaselineProbability

	if f.IsCargo {
		p += CargoBoost
	}
	if f.Passengers == 0 && !f.IsCargo {
		p += LowPriorityPenalty
	}
	if isRegional(f.PlaneType) {
		p += RegionalPenalty
	}
	if stormAirports[f.DepAirport] {
		p += StormImpactPenalty
	}

	return clamp(p, MinProbability, MaxProbability)
}

// CostIndex is a unitless proxy for the operational cost of rerouting:
// passengers times unit weight, plus a flat cargo bonus, scaled by the
// aircraft size class.
func CostIndex(f models.FlightRecord) float64 {
	base := float64(f.Passengers) * PassengerWeight
	if f.IsCargo {
		base += CargoBonus
	}
	return base * sizeMultiplier(f.PlaneType)
}

// Enrich sets sector membership and the probabilistic fields on every record.
// Pure with respect to its inputs; called once at dataset load.
func Enrich(flights []models.FlightRecord, stormAirports map[string]bool) {
	for i := range flights {
		f := &flights[i]
		f.InSector = InSector(f.Route)
		f.ArrivalProbability = ArrivalProbability(*f, stormAirports)
		f.GhostFlag = f.ArrivalProbability < GhostThreshold
		f.CostIndex = CostIndex(*f)
	}
}

// PredictedLoad is the sum of arrival probabilities over the given flights.
func PredictedLoad(flights []models.FlightRecord) float64 {
	total := 0.0
	for _, f := range flights {
		total += f.ArrivalProbability
	}
	return total
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
