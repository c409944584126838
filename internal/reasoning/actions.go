package reasoning

import (
	"strings"

	"github.com/spec-kit/sla-monitor/internal/config"
	"github.com/spec-kit/sla-monitor/internal/domain"
)

// ActionRecommender maps a scored ticket and its insights to an ordered,
// capped list of recommended actions. Band actions precede insight-triggered
// actions; truncation keeps the first MaxActions entries.
type ActionRecommender struct {
	maxActions int
}

// NewActionRecommender constructs a recommender with the configured cap.
func NewActionRecommender(cfg config.ScoringConfig) *ActionRecommender {
	max := cfg.MaxActions
	if max <= 0 {
		max = 5
	}
	return &ActionRecommender{maxActions: max}
}

var criticalActions = []string{
	"IMMEDIATE: escalate to team lead and manager",
	"Contact customer with status update",
	"Assign senior resources to the ticket",
}

var highRiskActions = []string{
	"URGENT: review with assigned agent",
	"Check for blockers and dependencies",
}

var mediumRiskActions = []string{
	"Review ticket progress",
	"Set reminder for follow-up",
}

var normalActions = []string{
	"Continue standard monitoring",
	"Update ticket per SLA procedure",
}

// Recommend returns the capped action list for one ticket.
func (r *ActionRecommender) Recommend(ticket domain.Ticket, score int, insights []string) []string {
	var actions []string

	switch {
	case score >= bandCritical:
		actions = append(actions, criticalActions...)
	case score >= bandHigh:
		actions = append(actions, highRiskActions...)
	case score >= bandMedium:
		actions = append(actions, mediumRiskActions...)
	default:
		actions = append(actions, normalActions...)
	}

	if hasMarker(insights, markerTeamCapacity) {
		actions = append(actions, "Schedule workload review for assigned team")
	}
	if hasMarker(insights, markerRecurring) {
		actions = append(actions, "Arrange root-cause meeting for recurring issue")
	}
	if hasMarker(insights, markerPeakHour) {
		actions = append(actions, "Adjust customer expectations for peak-hour resolution")
	}

	if len(actions) > r.maxActions {
		actions = actions[:r.maxActions]
	}
	return actions
}

func hasMarker(insights []string, marker string) bool {
	for _, insight := range insights {
		if strings.Contains(insight, marker) {
			return true
		}
	}
	return false
}
