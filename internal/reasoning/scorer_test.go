package reasoning

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/sla-monitor/internal/config"
	"github.com/spec-kit/sla-monitor/internal/domain"
)

func baseTicket() domain.Ticket {
	now := time.Now()
	return domain.Ticket{
		ID:                 "TKT-001",
		Title:              "Checkout latency",
		ServiceName:        "Order API",
		Priority:           domain.TicketPriorityP3,
		Status:             domain.TicketStatusInProgress,
		CreatedAt:          now.Add(-2 * time.Hour),
		ResolutionDeadline: now.Add(2 * time.Hour),
		AssignedTeam:       "Platform",
		SLAStatus:          domain.SLAWithinSLA,
		CustomerTier:       domain.TierBasic,
	}
}

func TestScoreClampsAtMaximum(t *testing.T) {
	scorer := NewScorer(config.DefaultScoring())

	ticket := baseTicket()
	ticket.Priority = domain.TicketPriorityP1
	ticket.SLAStatus = domain.SLABreached
	ticket.DelayMinutes = 300
	ticket.CustomerTier = domain.TierPlatinum
	ticket.ServiceName = "Payment Gateway"

	// 4+4+2+2+1+2 sums to 15 before the clamp.
	score := scorer.Score(ticket, domain.Context{TeamLoadPercent: 160})
	assert.Equal(t, MaxSeverity, score)
}

func TestScoreLowPriorityHealthyTicket(t *testing.T) {
	scorer := NewScorer(config.DefaultScoring())

	ticket := baseTicket()
	ticket.Priority = domain.TicketPriorityP4

	score := scorer.Score(ticket, domain.Context{})
	assert.Equal(t, 1, score)
}

func TestScoreFactorTable(t *testing.T) {
	scorer := NewScorer(config.DefaultScoring())

	cases := []struct {
		name   string
		mutate func(*domain.Ticket, *domain.Context)
		want   int
	}{
		{"p5 contributes nothing", func(tk *domain.Ticket, _ *domain.Context) {
			tk.Priority = domain.TicketPriorityP5
		}, 0},
		{"sla at risk", func(tk *domain.Ticket, _ *domain.Context) {
			tk.Priority = domain.TicketPriorityP5
			tk.SLAStatus = domain.SLAAtRisk
		}, 3},
		{"delay over an hour", func(tk *domain.Ticket, _ *domain.Context) {
			tk.Priority = domain.TicketPriorityP5
			tk.DelayMinutes = 90
		}, 1},
		{"delay over four hours", func(tk *domain.Ticket, _ *domain.Context) {
			tk.Priority = domain.TicketPriorityP5
			tk.DelayMinutes = 241
		}, 2},
		{"enterprise tier", func(tk *domain.Ticket, _ *domain.Context) {
			tk.Priority = domain.TicketPriorityP5
			tk.CustomerTier = domain.TierEnterprise
		}, 1},
		{"critical service substring", func(tk *domain.Ticket, _ *domain.Context) {
			tk.Priority = domain.TicketPriorityP5
			tk.ServiceName = "Core Database Cluster"
		}, 1},
		{"elevated team load", func(tk *domain.Ticket, ctx *domain.Context) {
			tk.Priority = domain.TicketPriorityP5
			ctx.TeamLoadPercent = 110
		}, 1},
		{"high team load", func(tk *domain.Ticket, ctx *domain.Context) {
			tk.Priority = domain.TicketPriorityP5
			ctx.TeamLoadPercent = 151
		}, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ticket := baseTicket()
			ctx := domain.Context{}
			tc.mutate(&ticket, &ctx)
			assert.Equal(t, tc.want, scorer.Score(ticket, ctx))
		})
	}
}

func TestScoreDefaultsForMissingEnums(t *testing.T) {
	scorer := NewScorer(config.DefaultScoring())

	ticket := baseTicket()
	ticket.Priority = ""
	ticket.SLAStatus = ""
	ticket.CustomerTier = ""

	// Unknown enums fall back to P3 / within_sla / Basic.
	assert.Equal(t, 2, scorer.Score(ticket, domain.Context{}))
}

func TestScoreMonotonicInDelay(t *testing.T) {
	scorer := NewScorer(config.DefaultScoring())

	ticket := baseTicket()
	previous := scorer.Score(ticket, domain.Context{})
	for _, minutes := range []int{61, 241} {
		ticket.DelayMinutes = minutes
		score := scorer.Score(ticket, domain.Context{})
		assert.GreaterOrEqual(t, score, previous)
		previous = score
	}
}
