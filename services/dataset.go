// ABOUTME: Owned, shared flight dataset with lazy loading and guarded mutation
// ABOUTME: Readers get copied snapshots; reroute marking runs under a write lock

package services

import (
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/skyflow/skyflow-backend/models"
)

// Dataset owns the process-wide flight collection. Loading is lazy and
// happens at most once: concurrent first requests collapse into a single
// load via singleflight. All mutation goes through MarkRerouted under the
// write lock; Snapshot hands out a copy so detection and recommendation
// passes stay reentrant against a stable view.
type Dataset struct {
	path          string
	stormAirports map[string]bool

	mu      sync.RWMutex
	flights []models.FlightRecord
	loaded  bool

	loadGroup singleflight.Group
}

// NewDataset creates an unloaded dataset backed by the given file.
func NewDataset(path string, stormAirports []string) *Dataset {
	storm := make(map[string]bool, len(stormAirports))
	for _, a := range stormAirports {
		storm[a] = true
	}
	return &Dataset{
		path:          path,
		stormAirports: storm,
	}
}

// ensureLoaded loads, enriches, and sector-marks the flight data on first
// access. Subsequent calls are cheap reads of the loaded flag.
func (d *Dataset) ensureLoaded() error {
	d.mu.RLock()
	loaded := d.loaded
	d.mu.RUnlock()
	if loaded {
		return nil
	}

	_, err, _ := d.loadGroup.Do("load", func() (interface{}, error) {
		d.mu.RLock()
		loaded := d.loaded
		d.mu.RUnlock()
		if loaded {
			return nil, nil
		}

		flights, err := LoadFlights(d.path)
		if err != nil {
			return nil, err
		}
		Enrich(flights, d.stormAirports)

		inSector := 0
		for _, f := range flights {
			if f.InSector {
				inSector++
			}
		}
		slog.Info("Flight dataset ready", "flights", len(flights), "in_sector", inSector)

		d.mu.Lock()
		d.flights = flights
		d.loaded = true
		d.mu.Unlock()
		return nil, nil
	})
	return err
}

// Snapshot returns a copy of the collection, loading it first if needed.
func (d *Dataset) Snapshot() ([]models.FlightRecord, error) {
	if err := d.ensureLoaded(); err != nil {
		return nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	snapshot := make([]models.FlightRecord, len(d.flights))
	copy(snapshot, d.flights)
	return snapshot, nil
}

// MarkRerouted applies approved actions to the shared collection and returns
// the number of newly rerouted flights. Serialized behind the write lock so
// concurrent plan requests cannot lose updates.
func (d *Dataset) MarkRerouted(approved []models.ApprovedAction) (int, error) {
	if err := d.ensureLoaded(); err != nil {
		return 0, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	return ApplyPlan(d.flights, approved), nil
}
