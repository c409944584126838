package reasoning

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sla-monitor/internal/config"
	"github.com/spec-kit/sla-monitor/internal/domain"
)

func newTestSession() *Session {
	fixed := time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)
	return NewSession(SessionDependencies{
		Scoring:    config.DefaultScoring(),
		Escalation: config.DefaultEscalation(),
		Now:        func() time.Time { return fixed },
	})
}

func TestAnalyzeTicketPipeline(t *testing.T) {
	session := newTestSession()

	ticket := baseTicket()
	ticket.Priority = domain.TicketPriorityP1
	ticket.SLAStatus = domain.SLABreached
	ticket.DelayMinutes = 300

	analysis := session.AnalyzeTicket(ticket, domain.Context{})

	assert.Equal(t, ticket.ID, analysis.TicketID)
	assert.Equal(t, 10, analysis.SeverityScore)
	assert.True(t, analysis.NeedsEscalation)
	assert.Equal(t, 3, analysis.EscalationLevel)
	assert.Equal(t, domain.RiskHigh, analysis.RiskLevel)
	assert.Equal(t, "critical_breach", analysis.SLAStatusLabel)
	assert.NotEmpty(t, analysis.Insights)
	assert.NotEmpty(t, analysis.RecommendedActions)
	assert.LessOrEqual(t, len(analysis.RecommendedActions), 5)

	history := session.History()
	require.Len(t, history, 1)
	assert.Equal(t, analysis, history[0])
}

func TestAnalyzeBatchEmpty(t *testing.T) {
	session := newTestSession()

	result := session.AnalyzeBatch(context.Background(), nil, nil)
	assert.Equal(t, 0, result.TotalAnalyzed)
	assert.Zero(t, result.AvgSeverity)
	assert.Empty(t, result.TopIssues)
}

func TestAnalyzeBatchAggregates(t *testing.T) {
	session := newTestSession()

	tickets := make([]domain.Ticket, 10)
	for i := range tickets {
		ticket := baseTicket()
		ticket.ID = "TKT-" + string(rune('0'+i))
		ticket.Priority = domain.TicketPriorityP1
		ticket.SLAStatus = domain.SLABreached
		ticket.CustomerTier = domain.TierPremium
		// 4+4+1 = 9 for every ticket
		tickets[i] = ticket
	}

	result := session.AnalyzeBatch(context.Background(), tickets, nil)

	assert.Equal(t, 10, result.TotalAnalyzed)
	assert.Equal(t, 10, result.CriticalTickets)
	// Critical tickets are also high risk; the buckets are cumulative.
	assert.Equal(t, 10, result.HighRiskTickets)
	assert.Equal(t, 10, result.EscalationsNeeded)
	assert.InDelta(t, 9.0, result.AvgSeverity, 0.001)
	assert.Len(t, result.TopIssues, 5)

	assert.Len(t, session.History(), 10)
}

func TestAnalyzeBatchHighRiskIncludesCritical(t *testing.T) {
	session := newTestSession()

	critical := baseTicket()
	critical.ID = "TKT-CRIT"
	critical.Priority = domain.TicketPriorityP1
	critical.SLAStatus = domain.SLABreached
	// 4+4 = 8

	high := baseTicket()
	high.ID = "TKT-HIGH"
	high.Priority = domain.TicketPriorityP2
	high.SLAStatus = domain.SLAAtRisk
	// 3+3 = 6

	low := baseTicket()
	low.ID = "TKT-LOW"
	low.Priority = domain.TicketPriorityP5
	// 0

	result := session.AnalyzeBatch(context.Background(), []domain.Ticket{critical, high, low}, nil)

	assert.Equal(t, 1, result.CriticalTickets)
	assert.Equal(t, 2, result.HighRiskTickets)
}

func TestAnalyzeBatchCancelledContext(t *testing.T) {
	session := newTestSession()

	tickets := make([]domain.Ticket, 20)
	for i := range tickets {
		ticket := baseTicket()
		ticket.ID = "TKT-" + string(rune('A'+i))
		tickets[i] = ticket
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := session.AnalyzeBatch(ctx, tickets, nil)

	// Only tickets fed before cancellation count; no zero-value records
	// may leak into the rollup or history.
	assert.LessOrEqual(t, result.TotalAnalyzed, len(tickets))
	history := session.History()
	assert.Len(t, history, result.TotalAnalyzed)
	for _, analysis := range history {
		assert.NotEmpty(t, analysis.TicketID)
	}
}

func TestAnalyzeBatchTopIssuesStable(t *testing.T) {
	session := newTestSession()

	mild := baseTicket()
	mild.Priority = domain.TicketPriorityP5

	severe := func(id string) domain.Ticket {
		ticket := baseTicket()
		ticket.ID = id
		ticket.Priority = domain.TicketPriorityP1
		ticket.SLAStatus = domain.SLABreached
		return ticket
	}

	tickets := []domain.Ticket{severe("TKT-A"), mild, severe("TKT-B"), severe("TKT-C")}
	result := session.AnalyzeBatch(context.Background(), tickets, nil)

	require.Len(t, result.TopIssues, 4)
	// Equal scores keep input order.
	assert.Equal(t, "TKT-A", result.TopIssues[0].TicketID)
	assert.Equal(t, "TKT-B", result.TopIssues[1].TicketID)
	assert.Equal(t, "TKT-C", result.TopIssues[2].TicketID)
}

func TestAnalyzeBatchInsights(t *testing.T) {
	session := newTestSession()

	tickets := make([]domain.Ticket, 10)
	for i := range tickets {
		ticket := baseTicket()
		ticket.ID = "TKT-" + string(rune('0'+i))
		ticket.Priority = domain.TicketPriorityP1
		ticket.SLAStatus = domain.SLABreached
		ticket.ServiceName = "Payment Gateway"
		tickets[i] = ticket
	}

	result := session.AnalyzeBatch(context.Background(), tickets, nil)

	joined := ""
	for _, insight := range result.Insights {
		joined += insight + "\n"
	}
	assert.Contains(t, joined, "systemic SLA pressure")
	assert.Contains(t, joined, "Payment Gateway")
	assert.Contains(t, joined, "High escalation volume")
}

func TestRecurringFlagFedFromPatterns(t *testing.T) {
	session := newTestSession()

	ticket := baseTicket()
	ticket.ServiceName = "Security Scanner"
	ticket.AssignedTeam = "SecOps"
	ticket.Priority = domain.TicketPriorityP1
	ticket.SLAStatus = domain.SLABreached

	// Build enough severe history for the pair to become recurring.
	for i := 0; i < 4; i++ {
		session.AnalyzeTicket(ticket, domain.Context{})
	}
	session.RefreshPatterns()

	analysis := session.AnalyzeTicket(ticket, domain.Context{})

	found := false
	for _, insight := range analysis.Insights {
		if strings.HasPrefix(insight, markerRecurring) {
			found = true
		}
	}
	assert.True(t, found, "expected recurring insight after pattern refresh")
}

func TestResetClearsState(t *testing.T) {
	session := newTestSession()
	session.AnalyzeTicket(baseTicket(), domain.Context{})
	session.RefreshPatterns()

	session.Reset()
	assert.Empty(t, session.History())
	assert.Empty(t, session.Patterns())
}

func TestRestorePatterns(t *testing.T) {
	session := newTestSession()
	table := map[string]domain.ServiceStats{
		PatternKey("Order API", "Support"): {Count: 5, AvgSeverity: 6, Recurring: true},
	}
	session.RestorePatterns(table)

	restored := session.Patterns()
	assert.Equal(t, table, restored)

	// The restored copy is detached from the caller's map.
	table[PatternKey("Order API", "Support")] = domain.ServiceStats{}
	assert.True(t, session.Patterns()[PatternKey("Order API", "Support")].Recurring)
}
