// ABOUTME: Sector membership filter for the Eastern Ontario sector
// ABOUTME: Geographic rule - any waypoint within 50 km of a sector reference point

package services

import "github.com/skypies/geo"

// Eastern Ontario sector reference points.
var sectorWaypoints = []geo.Latlong{
	{Lat: 45.88, Long: -78.031},
	{Lat: 44.55, Long: -75.22},
	{Lat: 45.42, Long: -75.69}, // near Ottawa
}

// sectorDistanceThresholdKM is the great-circle distance within which a
// waypoint counts as touching the sector.
const sectorDistanceThresholdKM = 50.0

// InSector reports whether a flight touches the sector: true when any route
// waypoint lies within the distance threshold of any sector reference point.
// A flight with no waypoints is never in-sector.
func InSector(route []geo.Latlong) bool {
	for _, wp := range route {
		for _, ref := range sectorWaypoints {
			if wp.DistKM(ref) < sectorDistanceThresholdKM {
				return true
			}
		}
	}
	return false
}
