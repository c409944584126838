package reasoning

import (
	"fmt"

	"github.com/spec-kit/sla-monitor/internal/config"
	"github.com/spec-kit/sla-monitor/internal/domain"
)

// Severity bands shared by the insight generator and action recommender.
// Bands are mutually exclusive and evaluated highest-first.
const (
	bandCritical = 8
	bandHigh     = 6
	bandMedium   = 4
)

// Marker keywords carried inside insight messages. The action recommender
// matches on them to append follow-up actions.
const (
	markerCritical     = "CRITICAL"
	markerHighRisk     = "HIGH RISK"
	markerMediumRisk   = "MEDIUM RISK"
	markerNormal       = "NORMAL"
	markerTeamCapacity = "TEAM CAPACITY"
	markerPeakHour     = "PEAK HOUR"
	markerRecurring    = "RECURRING PATTERN"
	markerExtended     = "EXTENDED DELAY"
	markerActiveDelays = "ACTIVE DELAYS"
)

// teamCapacityLoad is the load percentage above which a capacity insight fires.
const teamCapacityLoad = 120

// extendedDelayMinutes is the overdue threshold for the extended-delay insight.
const extendedDelayMinutes = 120

// InsightGenerator produces ordered human-readable observations for a
// scored ticket. The result is never empty.
type InsightGenerator struct {
	cfg config.ScoringConfig
}

// NewInsightGenerator constructs a generator with the given rule configuration.
func NewInsightGenerator(cfg config.ScoringConfig) *InsightGenerator {
	return &InsightGenerator{cfg: cfg}
}

// Generate returns the insight list for one ticket. Exactly one band-driven
// message is emitted for scores >= 4; supplementary situational insights may
// follow regardless of band. If nothing fires, a single fallback normal
// insight keeps the list non-empty.
func (g *InsightGenerator) Generate(ticket domain.Ticket, score int, ctx domain.Context) []string {
	var insights []string

	service := ticket.ServiceName
	if service == "" {
		service = "Unknown"
	}

	switch {
	case score >= bandCritical:
		insights = append(insights,
			fmt.Sprintf("%s: ticket %s requires immediate attention", markerCritical, ticket.ID))
	case score >= bandHigh:
		insights = append(insights,
			fmt.Sprintf("%s: %s service approaching SLA breach", markerHighRisk, service))
	case score >= bandMedium:
		insights = append(insights,
			fmt.Sprintf("%s: monitor %s ticket closely", markerMediumRisk, service))
	}

	if ticket.DelayMinutes > extendedDelayMinutes {
		insights = append(insights,
			fmt.Sprintf("%s: %dh %dm overdue", markerExtended, ticket.DelayMinutes/60, ticket.DelayMinutes%60))
	}
	if ctx.ActiveDelays > 0 {
		insights = append(insights,
			fmt.Sprintf("%s: %d delay windows still open", markerActiveDelays, ctx.ActiveDelays))
	}
	if ctx.TeamLoadPercent > teamCapacityLoad {
		insights = append(insights,
			fmt.Sprintf("%s: assigned team at %d%% load", markerTeamCapacity, ctx.TeamLoadPercent))
	}
	if g.cfg.PeakHour(ctx.Hour) {
		insights = append(insights,
			fmt.Sprintf("%s: resolution may be delayed due to high request volume", markerPeakHour))
	}
	if ctx.Recurring {
		insights = append(insights,
			fmt.Sprintf("%s: similar issues for %s occurred previously", markerRecurring, service))
	}

	if len(insights) == 0 {
		insights = append(insights,
			fmt.Sprintf("%s: ticket within expected parameters", markerNormal))
	}

	return insights
}
