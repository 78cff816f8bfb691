// ABOUTME: GeoJSON generation for map visualization
// ABOUTME: Sector polygon, per-flight route LineStrings, hotspot centroid points

package services

import (
	"time"

	geojson "github.com/paulmach/go.geojson"
	"github.com/skypies/geo"

	"github.com/skyflow/skyflow-backend/models"
)

// Toronto-Ottawa corridor bounds (approximate), closed ring in [lon, lat].
var sectorBounds = [][]float64{
	{-80.5, 43.0}, // SW
	{-73.5, 43.0}, // SE
	{-73.5, 46.5}, // NE
	{-80.5, 46.5}, // NW
	{-80.5, 43.0},
}

// SectorFeature returns the sector polygon with map styling properties.
func SectorFeature() *geojson.Feature {
	f := geojson.NewPolygonFeature([][][]float64{sectorBounds})
	f.SetProperty("name", "Toronto–Ottawa Sector")
	f.SetProperty("fillColor", "#FF6B6B")
	f.SetProperty("fillOpacity", 0.2)
	f.SetProperty("strokeColor", "#FF6B6B")
	f.SetProperty("strokeWidth", 2)
	return f
}

// routeCoordinates converts waypoints to LineString coordinates [lon, lat].
func routeCoordinates(route []geo.Latlong) [][]float64 {
	coords := make([][]float64, 0, len(route))
	for _, wp := range route {
		coords = append(coords, []float64{wp.Long, wp.Lat})
	}
	return coords
}

// MapFeatures builds one LineString per in-sector flight, with styling flags
// for rerouted, selected-bin, and ghost flights. Flights without route
// coordinates are omitted.
func MapFeatures(flights []models.FlightRecord, selectedBin *time.Time) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, flight := range flights {
		if !flight.InSector || len(flight.Route) == 0 {
			continue
		}

		inHotspotBin := false
		if selectedBin != nil {
			binEnd := selectedBin.Add(BinWidth)
			inHotspotBin = !flight.DepTimeUTC.Before(*selectedBin) && flight.DepTimeUTC.Before(binEnd)
		}

		f := geojson.NewLineStringFeature(routeCoordinates(flight.Route))
		f.SetProperty("acid", flight.ACID)
		f.SetProperty("plane_type", flight.PlaneType)
		f.SetProperty("in_sector", flight.InSector)
		f.SetProperty("in_hotspot_bin", inHotspotBin)
		f.SetProperty("ghost_flag", flight.GhostFlag)
		f.SetProperty("rerouted_flag", flight.Rerouted)
		f.SetProperty("arrival_probability", flight.ArrivalProbability)
		f.SetProperty("cost_index", flight.CostIndex)

		switch {
		case flight.Rerouted:
			f.SetProperty("strokeColor", "#FFA500")
			f.SetProperty("strokeWidth", 3)
			f.SetProperty("strokeDashArray", "5,5")
		case inHotspotBin:
			f.SetProperty("strokeColor", "#FF0000")
			f.SetProperty("strokeWidth", 2.5)
		case flight.GhostFlag:
			f.SetProperty("strokeColor", "#CCCCCC")
			f.SetProperty("strokeWidth", 1)
			f.SetProperty("strokeOpacity", 0.4)
		default:
			f.SetProperty("strokeColor", "#0066FF")
			f.SetProperty("strokeWidth", 1.5)
		}

		fc.AddFeature(f)
	}
	return fc
}

// sampleRoute picks up to three representative waypoints: first, middle, last.
func sampleRoute(route []geo.Latlong) []geo.Latlong {
	const sampleCount = 3
	if len(route) <= sampleCount {
		return route
	}
	return []geo.Latlong{route[0], route[len(route)/2], route[len(route)-1]}
}

// HotspotFeatures builds one centroid point per hotspot bin, radius scaled by
// weighted load. Bins whose flights have no waypoints produce no feature.
func HotspotFeatures(flights []models.FlightRecord, hotspots []models.TimeBin) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, h := range hotspots {
		var lonSum, latSum float64
		count := 0
		for _, flight := range FlightsInBin(flights, h.BinStart) {
			for _, wp := range sampleRoute(flight.Route) {
				lonSum += wp.Long
				latSum += wp.Lat
				count++
			}
		}
		if count == 0 {
			continue
		}

		radius := 8 + clamp(h.WeightedLoad, 0, 6)*4

		f := geojson.NewPointFeature([]float64{lonSum / float64(count), latSum / float64(count)})
		f.SetProperty("bin_start", h.BinStart.Format(time.RFC3339))
		f.SetProperty("legacy_count", h.LegacyCount)
		f.SetProperty("weighted_load", h.WeightedLoad)
		f.SetProperty("severity", h.Severity)
		f.SetProperty("radius", radius)
		fc.AddFeature(f)
	}
	return fc
}
