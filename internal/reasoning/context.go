package reasoning

import (
	"github.com/spec-kit/sla-monitor/internal/domain"
)

// delayedOver24hMinutes marks a delayed ticket as long-running.
const delayedOver24hMinutes = 1440

// BuildMonitorContext computes fleet-level statistics over a ticket set.
// The result feeds batch insights, team-load estimation, and the report
// generator. Pure function; safe on an empty slice.
func BuildMonitorContext(tickets []domain.Ticket) domain.MonitorContext {
	mctx := domain.MonitorContext{
		TotalTickets: len(tickets),
		ByPriority:   make(map[domain.TicketPriority]*domain.GroupStats),
		ByService:    make(map[string]*domain.GroupStats),
		ByTeam:       make(map[string]*domain.GroupStats),
	}

	totalDelay := 0
	for _, ticket := range tickets {
		delayed := ticket.EffectiveSLAStatus() != domain.SLAWithinSLA
		if delayed {
			mctx.DelayedTickets++
		}
		totalDelay += ticket.DelayMinutes

		bump(mctx.ByPriority, ticket.EffectivePriority(), delayed)
		bump(mctx.ByService, ticket.ServiceName, delayed)
		bump(mctx.ByTeam, ticket.AssignedTeam, delayed)

		switch ticket.EffectiveSLAStatus() {
		case domain.SLABreached:
			mctx.TimePatterns.Breached++
		case domain.SLAAtRisk:
			mctx.TimePatterns.AtRisk++
		case domain.SLADelayed:
			if ticket.DelayMinutes > delayedOver24hMinutes {
				mctx.TimePatterns.DelayedOver24h++
			}
		}
	}

	if mctx.TotalTickets > 0 {
		mctx.DelayedPercentage = float64(mctx.DelayedTickets) / float64(mctx.TotalTickets) * 100
		mctx.AvgDelayMinutes = float64(totalDelay) / float64(mctx.TotalTickets)
	}
	return mctx
}

// TeamLoadPercent estimates a team's load as its open ticket share of the
// configured per-team capacity.
func TeamLoadPercent(mctx domain.MonitorContext, team string, capacity int) int {
	if capacity <= 0 {
		return 0
	}
	stats, ok := mctx.ByTeam[team]
	if !ok {
		return 0
	}
	return stats.Total * 100 / capacity
}

func bump[K comparable](groups map[K]*domain.GroupStats, key K, delayed bool) {
	stats, ok := groups[key]
	if !ok {
		stats = &domain.GroupStats{}
		groups[key] = stats
	}
	stats.Total++
	if delayed {
		stats.Delayed++
	}
}
