package reasoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sla-monitor/internal/domain"
)

func TestBuildMonitorContext(t *testing.T) {
	tickets := []domain.Ticket{
		func() domain.Ticket {
			tk := baseTicket()
			tk.SLAStatus = domain.SLABreached
			tk.DelayMinutes = 120
			return tk
		}(),
		func() domain.Ticket {
			tk := baseTicket()
			tk.AssignedTeam = "Support"
			tk.Priority = domain.TicketPriorityP1
			tk.SLAStatus = domain.SLADelayed
			tk.DelayMinutes = 1500
			return tk
		}(),
		baseTicket(),
		func() domain.Ticket {
			tk := baseTicket()
			tk.SLAStatus = domain.SLAAtRisk
			tk.DelayMinutes = 60
			return tk
		}(),
	}

	mctx := BuildMonitorContext(tickets)

	assert.Equal(t, 4, mctx.TotalTickets)
	assert.Equal(t, 3, mctx.DelayedTickets)
	assert.InDelta(t, 75.0, mctx.DelayedPercentage, 0.001)
	assert.InDelta(t, 420.0, mctx.AvgDelayMinutes, 0.001)

	require.Contains(t, mctx.ByTeam, "Platform")
	assert.Equal(t, 3, mctx.ByTeam["Platform"].Total)
	assert.Equal(t, 2, mctx.ByTeam["Platform"].Delayed)
	assert.Equal(t, 1, mctx.ByTeam["Support"].Total)

	assert.Equal(t, 1, mctx.TimePatterns.Breached)
	assert.Equal(t, 1, mctx.TimePatterns.AtRisk)
	assert.Equal(t, 1, mctx.TimePatterns.DelayedOver24h)

	assert.Equal(t, 1, mctx.ByPriority[domain.TicketPriorityP1].Total)
	assert.Equal(t, 3, mctx.ByPriority[domain.TicketPriorityP3].Total)
}

func TestBuildMonitorContextEmpty(t *testing.T) {
	mctx := BuildMonitorContext(nil)

	assert.Zero(t, mctx.TotalTickets)
	assert.Zero(t, mctx.DelayedPercentage)
	assert.Empty(t, mctx.ByTeam)
}

func TestTeamLoadPercent(t *testing.T) {
	mctx := domain.MonitorContext{
		ByTeam: map[string]*domain.GroupStats{
			"Platform": {Total: 15},
		},
	}

	assert.Equal(t, 150, TeamLoadPercent(mctx, "Platform", 10))
	assert.Equal(t, 0, TeamLoadPercent(mctx, "Unknown", 10))
	assert.Equal(t, 0, TeamLoadPercent(mctx, "Platform", 0))
}
