// ABOUTME: Time-bin congestion detection with a load-sensitive capacity model
// ABOUTME: Weighted per-flight contributions, dynamic capacity, 0-100 severity

package services

import (
	"math"
	"sort"
	"time"

	"github.com/skyflow/skyflow-backend/models"
)

const (
	BinSizeMinutes  = 10
	CapacityPerHour = 15.0
)

// CapacityPerBin is the base capacity of one bin: 15 flights/hour over a
// 10-minute window = 2.5.
const CapacityPerBin = CapacityPerHour * (BinSizeMinutes / 60.0)

// BinWidth is the duration of one congestion window.
const BinWidth = BinSizeMinutes * time.Minute

// Contribution normalization constants. Each factor is the raw value divided
// by its constant, clamped to [0,1].
const (
	routeLenNorm = 10.0
	speedNorm    = 900.0
	altitudeNorm = 40000.0
)

// Contribution factor weights.
const (
	routeWeight    = 0.4
	speedWeight    = 0.3
	altitudeWeight = 0.3
)

// Dynamic capacity penalty: five 0-1 complexity signals combined with fixed
// weights, producing a multiplier clamped to [0.6, 1.1] on base capacity.
const (
	speedStdNorm     = 150.0
	altitudeStdNorm  = 5000.0
	typeMixNorm      = 0.6
	ghostRatioNorm   = 0.5
	rerouteRatioNorm = 0.3

	speedPenaltyWeight    = 0.25
	altitudePenaltyWeight = 0.20
	typeMixPenaltyWeight  = 0.20
	ghostPenaltyWeight    = 0.20
	reroutePenaltyWeight  = 0.15

	capacityMultiplierBase = 1.05
	capacityMultiplierMin  = 0.6
	capacityMultiplierMax  = 1.1
)

// FloorToBin truncates an instant to its bin start: minutes floored to the
// nearest bin multiple, seconds and sub-second components zeroed.
func FloorToBin(t time.Time) time.Time {
	t = t.UTC()
	binMinute := (t.Minute() / BinSizeMinutes) * BinSizeMinutes
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), binMinute, 0, 0, time.UTC)
}

// flightContribution is the weighted congestion contribution of one flight:
// arrival probability times a blend of normalized route length, speed, and
// altitude factors.
func flightContribution(f models.FlightRecord) float64 {
	routeFactor := clamp(float64(len(f.Route))/routeLenNorm, 0, 1)
	speedFactor := clamp(f.Speed/speedNorm, 0, 1)
	altitudeFactor := clamp(f.Altitude/altitudeNorm, 0, 1)

	return f.ArrivalProbability * (routeWeight*routeFactor +
		speedWeight*speedFactor +
		altitudeWeight*altitudeFactor)
}

// sampleStd is the sample standard deviation (n-1 denominator). Fewer than
// two values yields 0.
func sampleStd(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(n-1))
}

// dynamicCapacity reduces base capacity as traffic complexity rises. An empty
// bin uses base capacity unmodified.
func dynamicCapacity(flights []models.FlightRecord) float64 {
	if len(flights) == 0 {
		return CapacityPerBin
	}

	speeds := make([]float64, len(flights))
	altitudes := make([]float64, len(flights))
	types := make(map[string]bool, len(flights))
	ghosts, rerouted := 0, 0
	for i, f := range flights {
		speeds[i] = f.Speed
		altitudes[i] = f.Altitude
		types[f.PlaneType] = true
		if f.GhostFlag {
			ghosts++
		}
		if f.Rerouted {
			rerouted++
		}
	}

	n := float64(len(flights))
	typeMix := float64(len(types)) / n
	ghostRatio := float64(ghosts) / n
	rerouteRatio := float64(rerouted) / n

	penalty := speedPenaltyWeight*clamp(sampleStd(speeds)/speedStdNorm, 0, 1) +
		altitudePenaltyWeight*clamp(sampleStd(altitudes)/altitudeStdNorm, 0, 1) +
		typeMixPenaltyWeight*clamp(typeMix/typeMixNorm, 0, 1) +
		ghostPenaltyWeight*clamp(ghostRatio/ghostRatioNorm, 0, 1) +
		reroutePenaltyWeight*clamp(rerouteRatio/rerouteRatioNorm, 0, 1)

	multiplier := clamp(capacityMultiplierBase-penalty, capacityMultiplierMin, capacityMultiplierMax)
	return CapacityPerBin * multiplier
}

// sanitize replaces NaN and infinities with the given default before a value
// leaves the component.
func sanitize(v, def float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// DetectHotspots groups in-sector flights into bins and ranks them by
// severity, highest first. The sort is stable, so equal-severity bins keep
// their chronological grouping order; re-running on unchanged input yields an
// identical result.
func DetectHotspots(flights []models.FlightRecord) []models.TimeBin {
	byBin := make(map[time.Time][]models.FlightRecord)
	var order []time.Time
	for _, f := range flights {
		if !f.InSector {
			continue
		}
		start := FloorToBin(f.DepTimeUTC)
		if _, seen := byBin[start]; !seen {
			order = append(order, start)
		}
		byBin[start] = append(byBin[start], f)
	}

	if len(order) == 0 {
		return []models.TimeBin{}
	}

	// Deterministic pre-sort by bin start so the severity ranking is
	// reproducible run to run.
	sort.Slice(order, func(i, j int) bool { return order[i].Before(order[j]) })

	bins := make([]models.TimeBin, 0, len(order))
	for _, start := range order {
		group := byBin[start]

		load := 0.0
		for _, f := range group {
			load += flightContribution(f)
		}
		load = sanitize(load, 0)

		capacity := sanitize(dynamicCapacity(group), CapacityPerBin)

		severity := 0.0
		if capacity > 0 {
			severity = clamp(sanitize(100.0*load/capacity, 0), 0, 100)
		}

		bins = append(bins, models.TimeBin{
			BinStart:     start,
			BinEnd:       start.Add(BinWidth),
			LegacyCount:  len(group),
			WeightedLoad: load,
			Capacity:     capacity,
			Severity:     severity,
		})
	}

	sort.SliceStable(bins, func(i, j int) bool { return bins[i].Severity > bins[j].Severity })
	return bins
}

// FlightsInBin returns all in-sector flights departing in
// [binStart, binStart+BinWidth).
func FlightsInBin(flights []models.FlightRecord, binStart time.Time) []models.FlightRecord {
	binEnd := binStart.Add(BinWidth)
	var result []models.FlightRecord
	for _, f := range flights {
		if !f.InSector {
			continue
		}
		if !f.DepTimeUTC.Before(binStart) && f.DepTimeUTC.Before(binEnd) {
			result = append(result, f)
		}
	}
	return result
}
