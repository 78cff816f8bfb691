// ABOUTME: Flight data ingestion and normalization
// ABOUTME: Decodes raw JSON records with messy field names into FlightRecords

package services

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/skypies/geo"
	"github.com/tidwall/gjson"

	"github.com/skyflow/skyflow-backend/models"
)

// routePattern matches waypoint tokens like "49.97N/110.935W".
var routePattern = regexp.MustCompile(`([\d.]+)([NS])/([\d.]+)([EW])`)

// ParseRoute decodes a route string into an ordered waypoint sequence.
// Southern latitudes and western longitudes are negated. Tokens that do not
// match the pattern are skipped; an empty or blank route yields nil.
func ParseRoute(route string) []geo.Latlong {
	matches := routePattern.FindAllStringSubmatch(route, -1)
	if len(matches) == 0 {
		return nil
	}

	waypoints := make([]geo.Latlong, 0, len(matches))
	for _, m := range matches {
		lat, latErr := strconv.ParseFloat(m[1], 64)
		long, longErr := strconv.ParseFloat(m[3], 64)
		if latErr != nil || longErr != nil {
			continue
		}
		if m[2] == "S" {
			lat = -lat
		}
		if m[4] == "W" {
			long = -long
		}
		waypoints = append(waypoints, geo.Latlong{Lat: lat, Long: long})
	}
	return waypoints
}

// LoadFlights reads and normalizes raw flight records from a JSON file.
// Raw records use upstream field names ("ACID", "Plane type", "departure
// time" as unix seconds); missing or unparseable fields fall back to zero
// values rather than failing the whole load.
func LoadFlights(path string) ([]models.FlightRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading flight data: %w", err)
	}

	parsed := gjson.ParseBytes(data)
	if !parsed.IsArray() {
		return nil, fmt.Errorf("flight data %s: expected a JSON array", path)
	}

	raw := parsed.Array()
	flights := make([]models.FlightRecord, 0, len(raw))
	for _, rec := range raw {
		acid := rec.Get("ACID").String()
		if acid == "" {
			slog.Warn("Skipping flight record without ACID")
			continue
		}

		flights = append(flights, models.FlightRecord{
			ACID:       acid,
			PlaneType:  rec.Get("Plane type").String(),
			Route:      ParseRoute(rec.Get("route").String()),
			Altitude:   rec.Get("altitude").Float(),
			DepAirport: rec.Get("departure airport").String(),
			ArrAirport: rec.Get("arrival airport").String(),
			DepTimeUTC: time.Unix(rec.Get("departure time").Int(), 0).UTC(),
			Speed:      rec.Get("aircraft speed").Float(),
			Passengers: int(rec.Get("passengers").Int()),
			IsCargo:    rec.Get("is_cargo").Bool(),
		})
	}

	slog.Info("Flight data loaded", "path", path, "flights", len(flights))
	return flights, nil
}
