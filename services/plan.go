// ABOUTME: Plan application and post-plan metric recomputation
// ABOUTME: Idempotent reroute marking; the rerouted flag never clears

package services

import (
	"time"

	"github.com/skyflow/skyflow-backend/models"
)

// ApplyPlan marks every flight whose ACID appears in the approved actions as
// rerouted, in place. Idempotent: reapplying the same approvals is a no-op on
// state already true. Unknown ACIDs are silently ignored. Returns how many
// flags transitioned false -> true.
func ApplyPlan(flights []models.FlightRecord, approved []models.ApprovedAction) int {
	if len(approved) == 0 {
		return 0
	}

	acids := make(map[string]bool, len(approved))
	for _, a := range approved {
		acids[a.ACID] = true
	}

	changed := 0
	for i := range flights {
		if acids[flights[i].ACID] && !flights[i].Rerouted {
			flights[i].Rerouted = true
			changed++
		}
	}
	return changed
}

// RecomputeMetrics reports the state of one bin after plan application.
// The legacy count stays at the full original bin size so the naive baseline
// remains comparable; predicted load sums arrival probabilities over only the
// non-rerouted flights.
func RecomputeMetrics(flights []models.FlightRecord, binStart time.Time) models.BinMetrics {
	binFlights := FlightsInBin(flights, binStart)

	var active []models.FlightRecord
	for _, f := range binFlights {
		if !f.Rerouted {
			active = append(active, f)
		}
	}

	load := PredictedLoad(active)

	status := models.StatusRed
	switch {
	case load <= CapacityPerBin:
		status = models.StatusGreen
	case load <= CapacityPerBin*1.2:
		status = models.StatusYellow
	}

	return models.BinMetrics{
		LegacyCount:   len(binFlights),
		PredictedLoad: load,
		Capacity:      CapacityPerBin,
		Status:        status,
	}
}
