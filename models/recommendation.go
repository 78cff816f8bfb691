// ABOUTME: Reroute recommendation candidates and plan request models
// ABOUTME: Candidates are ephemeral, produced per request and never stored

package models

// ActionReroute is the only action type the engine currently proposes.
const ActionReroute = "reroute"

// RecommendationCandidate is one proposed action against a single flight.
type RecommendationCandidate struct {
	ACID         string   `json:"acid"`
	ActionType   string   `json:"action_type"`
	Score        float64  `json:"score"`
	Explanations []string `json:"explanations"`
}

// ApprovedAction identifies one accepted candidate in a plan request.
// Unknown ACIDs are silently ignored.
type ApprovedAction struct {
	ACID       string `json:"acid"`
	ActionType string `json:"action_type"`
}

// PlanRequest is the body of POST /api/v1/plan.
type PlanRequest struct {
	SelectedHotspotID string           `json:"selected_hotspot_id"` // RFC3339 bin start, optional
	ApprovedActions   []ApprovedAction `json:"approved_actions"`
}
