// ABOUTME: HTTP handler state and shared response assembly for the congestion API
// ABOUTME: Builds the unified analyze/plan payload from a dataset snapshot

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/skyflow/skyflow-backend/cache"
	"github.com/skyflow/skyflow-backend/config"
	"github.com/skyflow/skyflow-backend/models"
	"github.com/skyflow/skyflow-backend/services"
)

// maxRequestBodySize limits JSON request bodies to 1MB to prevent DOS attacks
const maxRequestBodySize = 1 << 20 // 1MB

type Handler struct {
	cfg      *config.Config
	cache    *cache.Cache
	dataset  *services.Dataset
	narrator *services.Narrator
}

func NewHandler(cfg *config.Config, c *cache.Cache, dataset *services.Dataset, narrator *services.Narrator) *Handler {
	return &Handler{
		cfg:      cfg,
		cache:    c,
		dataset:  dataset,
		narrator: narrator,
	}
}

// buildResponse assembles the unified payload shared by /analyze and /plan.
// selected may be nil when no bins exist; recomputed is non-nil only on the
// plan path, where it carries the post-application metrics.
func (h *Handler) buildResponse(
	ctx context.Context,
	flights []models.FlightRecord,
	hotspots []models.TimeBin,
	selected *models.TimeBin,
	recomputed *models.BinMetrics,
) models.AnalyzeResponse {
	var selectedStart *time.Time
	var flightsInBin []models.FlightRecord
	var actions []models.RecommendationCandidate
	rows := []models.FlightTableRow{}

	if selected != nil {
		start := selected.BinStart
		selectedStart = &start

		flightsInBin = services.FlightsInBin(flights, start)
		actions = services.GenerateRecommendations(flightsInBin)

		recommended := make(map[string]bool, len(actions))
		for _, a := range actions {
			recommended[a.ACID] = true
		}

		for _, f := range flightsInBin {
			rows = append(rows, models.FlightTableRow{
				ACID:               f.ACID,
				PlaneType:          f.PlaneType,
				Passengers:         f.Passengers,
				IsCargo:            f.IsCargo,
				ArrivalProbability: f.ArrivalProbability,
				GhostFlag:          f.GhostFlag,
				CostIndex:          f.CostIndex,
				IsRecommended:      recommended[f.ACID],
				Rerouted:           f.Rerouted,
				Explanations:       services.FlightExplanations(f),
			})
		}
	}

	resp := models.AnalyzeResponse{
		SectorGeoJSON:      services.SectorFeature(),
		MapGeoJSON:         services.MapFeatures(flights, selectedStart),
		HotspotGeoJSON:     services.HotspotFeatures(flights, hotspots),
		Hotspots:           hotspots,
		SelectedHotspot:    selected,
		Metrics:            h.buildMetrics(selected, flightsInBin, recomputed),
		RecommendedActions: actions,
		FlightsInHotspot:   rows,
	}

	if selected != nil {
		resp.Narrative = h.narrator.Narrate(ctx, *selected, actions)
	}
	return resp
}

// buildMetrics compares the naive count model ("legacy") against the
// probability-weighted model ("skyflow") for the selected bin.
func (h *Handler) buildMetrics(selected *models.TimeBin, flightsInBin []models.FlightRecord, recomputed *models.BinMetrics) models.MetricsBlock {
	const capacity = services.CapacityPerBin

	legacyCount := 0
	predictedLoad := 0.0
	if recomputed != nil {
		legacyCount = recomputed.LegacyCount
		predictedLoad = recomputed.PredictedLoad
	} else if selected != nil {
		legacyCount = selected.LegacyCount
		predictedLoad = services.PredictedLoad(flightsInBin)
	}

	legacyStatus := models.StatusGreen
	legacyRec := "Normal operations"
	if float64(legacyCount) > capacity*1.2 {
		legacyStatus = models.StatusRed
	} else if float64(legacyCount) > capacity {
		legacyStatus = models.StatusYellow
	}
	if float64(legacyCount) > capacity {
		legacyRec = "Ground Stop recommended (mock)"
	}

	skyflowStatus := models.StatusRed
	switch {
	case predictedLoad <= capacity:
		skyflowStatus = models.StatusGreen
	case predictedLoad <= capacity*1.2:
		skyflowStatus = models.StatusYellow
	}

	skyflowRec := "Normal operations"
	if recomputed != nil {
		skyflowStatus = recomputed.Status
		skyflowRec = "Surgical plan recommended"
		if skyflowStatus == models.StatusGreen {
			skyflowRec = "Sector relieved"
		}
	} else if predictedLoad > capacity {
		skyflowRec = "Surgical plan recommended"
	}

	return models.MetricsBlock{
		Legacy: models.ModelMetrics{
			Count:          legacyCount,
			Capacity:       capacity,
			Status:         legacyStatus,
			Recommendation: legacyRec,
		},
		Skyflow: models.ModelMetrics{
			PredictedLoad:  predictedLoad,
			Capacity:       capacity,
			Status:         skyflowStatus,
			Recommendation: skyflowRec,
		},
	}
}

// findHotspot returns the hotspot whose bin start equals the given instant.
func findHotspot(hotspots []models.TimeBin, start time.Time) *models.TimeBin {
	for i := range hotspots {
		if hotspots[i].BinStart.Equal(start) {
			return &hotspots[i]
		}
	}
	return nil
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(payload)
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}
