// ABOUTME: Natural-language narrative service for congestion analyses
// ABOUTME: Anthropic-backed when configured, deterministic template otherwise

package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/skyflow/skyflow-backend/models"
)

// narrateTimeout bounds one LLM call; the analysis response never waits
// longer than this on the narrator.
const narrateTimeout = 10 * time.Second

// Narrator turns a selected hotspot and its recommended actions into a short
// operator-facing narrative. Without an API key it runs in template-only mode.
type Narrator struct {
	client  anthropic.Client
	model   anthropic.Model
	enabled bool
}

// NewNarrator creates a narrator. An empty API key yields the template-only
// fallback narrator.
func NewNarrator(apiKey, model string) *Narrator {
	if apiKey == "" {
		return &Narrator{}
	}
	return &Narrator{
		client:  anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:   anthropic.Model(model),
		enabled: true,
	}
}

// Enabled reports whether the LLM backend is configured.
func (n *Narrator) Enabled() bool {
	return n.enabled
}

// Narrate produces a narrative for the selected hotspot. Any API failure
// falls back to the deterministic template; this method never returns an
// error to the caller.
func (n *Narrator) Narrate(ctx context.Context, hotspot models.TimeBin, actions []models.RecommendationCandidate) string {
	if !n.enabled {
		return templateNarrative(hotspot, actions)
	}

	ctx, cancel := context.WithTimeout(ctx, narrateTimeout)
	defer cancel()

	msg, err := n.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     n.model,
		MaxTokens: 400,
		System: []anthropic.TextBlockParam{
			{Text: "You are an air traffic flow controller's assistant. Summarize the congestion picture and the proposed plan in at most three plain sentences. No markdown."},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(narrativePrompt(hotspot, actions))),
		},
	})
	if err != nil {
		slog.Warn("Narrative service failed, using template", "error", err)
		return templateNarrative(hotspot, actions)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return templateNarrative(hotspot, actions)
	}
	return sb.String()
}

func narrativePrompt(hotspot models.TimeBin, actions []models.RecommendationCandidate) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Sector window %s-%s: %d flights, weighted load %.2f against capacity %.2f, severity %.0f/100.\n",
		hotspot.BinStart.Format("15:04"), hotspot.BinEnd.Format("15:04"),
		hotspot.LegacyCount, hotspot.WeightedLoad, hotspot.Capacity, hotspot.Severity)
	if len(actions) == 0 {
		sb.WriteString("No reroute candidates available.")
		return sb.String()
	}
	sb.WriteString("Proposed reroutes:\n")
	for _, a := range actions {
		fmt.Fprintf(&sb, "- %s (score %.3f)\n", a.ACID, a.Score)
	}
	return sb.String()
}

// templateNarrative is the deterministic fallback narrative.
func templateNarrative(hotspot models.TimeBin, actions []models.RecommendationCandidate) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Window %s–%s holds %d sector flights at severity %.0f/100 (load %.2f vs capacity %.2f).",
		hotspot.BinStart.Format("15:04"), hotspot.BinEnd.Format("15:04"),
		hotspot.LegacyCount, hotspot.Severity, hotspot.WeightedLoad, hotspot.Capacity)
	if len(actions) == 0 {
		sb.WriteString(" No reroute candidates: remaining flights are ghosts or the window is empty.")
		return sb.String()
	}
	acids := make([]string, 0, len(actions))
	for _, a := range actions {
		acids = append(acids, a.ACID)
	}
	fmt.Fprintf(&sb, " Rerouting %s offers the best relief per unit cost.", strings.Join(acids, ", "))
	return sb.String()
}
