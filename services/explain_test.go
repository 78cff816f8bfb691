package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/skyflow/skyflow-backend/models"
)

func testHotspot() models.TimeBin {
	start := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	return models.TimeBin{
		BinStart:     start,
		BinEnd:       start.Add(BinWidth),
		LegacyCount:  4,
		WeightedLoad: 2.1,
		Capacity:     2.35,
		Severity:     89,
	}
}

func TestNarrator_TemplateFallbackWithoutKey(t *testing.T) {
	n := NewNarrator("", "claude-3-5-haiku-latest")

	if n.Enabled() {
		t.Error("Expected narrator without API key to be disabled")
	}

	actions := []models.RecommendationCandidate{
		{ACID: "ACA101", ActionType: models.ActionReroute, Score: 0.398},
		{ACID: "CJT404", ActionType: models.ActionReroute, Score: 0.090},
	}
	got := n.Narrate(context.Background(), testHotspot(), actions)

	for _, want := range []string{"14:00", "14:10", "4 sector flights", "89/100", "ACA101, CJT404"} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected narrative to contain %q, got: %s", want, got)
		}
	}
}

func TestNarrator_TemplateFallbackNoActions(t *testing.T) {
	n := NewNarrator("", "")

	got := n.Narrate(context.Background(), testHotspot(), nil)
	if !strings.Contains(got, "No reroute candidates") {
		t.Errorf("Expected no-candidates note, got: %s", got)
	}
}

func TestNarrator_Deterministic(t *testing.T) {
	n := NewNarrator("", "")
	h := testHotspot()

	first := n.Narrate(context.Background(), h, nil)
	second := n.Narrate(context.Background(), h, nil)
	if first != second {
		t.Error("Expected template narrative to be deterministic")
	}
}
