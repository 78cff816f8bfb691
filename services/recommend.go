// ABOUTME: Greedy reroute recommendation engine
// ABOUTME: Scores non-ghost flights by probability/cost and picks the top two

package services

import (
	"fmt"
	"sort"

	"github.com/skyflow/skyflow-backend/models"
)

const (
	// scoreEpsilon guards the cost divisor against zero-cost flights.
	scoreEpsilon = 0.01
	// MaxRecommendations caps how many actions one pass proposes.
	MaxRecommendations = 2
)

// GenerateRecommendations proposes up to MaxRecommendations reroute actions
// for the given bin, score descending. Ghost-flagged flights are excluded:
// they are already unreliable, so rerouting them buys nothing. An empty or
// all-ghost bin yields an empty list.
func GenerateRecommendations(flightsInBin []models.FlightRecord) []models.RecommendationCandidate {
	type scored struct {
		flight models.FlightRecord
		score  float64
	}

	var candidates []scored
	for _, f := range flightsInBin {
		if f.GhostFlag {
			continue
		}
		candidates = append(candidates, scored{
			flight: f,
			score:  f.ArrivalProbability / (f.CostIndex + scoreEpsilon),
		})
	}

	// Stable sort preserves input order between equal scores.
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	if len(candidates) > MaxRecommendations {
		candidates = candidates[:MaxRecommendations]
	}

	result := make([]models.RecommendationCandidate, 0, len(candidates))
	for _, c := range candidates {
		result = append(result, models.RecommendationCandidate{
			ACID:       c.flight.ACID,
			ActionType: models.ActionReroute,
			Score:      c.score,
			Explanations: []string{
				fmt.Sprintf("High expected contribution to sector load (p=%.2f)", c.flight.ArrivalProbability),
				fmt.Sprintf("Lower cost to reroute than alternatives (cost_index=%.1f)", c.flight.CostIndex),
				"Not flagged as ghost flight",
			},
		})
	}
	return result
}

// FlightExplanations describes one flight for the operator table, whether or
// not it was selected.
func FlightExplanations(f models.FlightRecord) []string {
	explanations := []string{
		fmt.Sprintf("Aircraft: %s", f.PlaneType),
		fmt.Sprintf("Route: %d waypoints", len(f.Route)),
		fmt.Sprintf("Arrival probability: %.2f", f.ArrivalProbability),
		fmt.Sprintf("Cost index: %.1f", f.CostIndex),
	}
	if f.GhostFlag {
		explanations = append(explanations, "Flagged as ghost flight (low arrival probability)")
	}
	if f.IsCargo {
		explanations = append(explanations, "Cargo flight (higher reliability)")
	}
	return explanations
}
