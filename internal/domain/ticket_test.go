package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTicket() Ticket {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	return Ticket{
		ID:                 "TKT-100",
		Title:              "Login failures",
		ServiceName:        "Auth Service",
		Priority:           TicketPriorityP2,
		Status:             TicketStatusNew,
		CreatedAt:          now,
		ResolutionDeadline: now.Add(4 * time.Hour),
		AssignedTeam:       "Identity",
		SLAStatus:          SLAAtRisk,
		DelayMinutes:       30,
		CustomerTier:       TierEnterprise,
	}
}

func TestValidateTicketAcceptsValidRecord(t *testing.T) {
	assert.Empty(t, ValidateTicket(validTicket()))
}

func TestValidateTicketCollectsAllViolations(t *testing.T) {
	ticket := Ticket{
		Priority:     "P9",
		SLAStatus:    "unknown",
		CustomerTier: "Gold",
		DelayMinutes: -5,
	}
	violations := ValidateTicket(ticket)

	fields := make(map[string]bool)
	for _, v := range violations {
		fields[v.Field] = true
	}
	for _, field := range []string{"ticket_id", "title", "creation_time", "resolution_deadline", "priority", "sla_status", "customer_tier", "delay_minutes"} {
		assert.True(t, fields[field], "expected violation for %s", field)
	}
	require.Len(t, violations, 8)
}

func TestValidateTicketDelayWithinSLA(t *testing.T) {
	ticket := validTicket()
	ticket.SLAStatus = SLAWithinSLA
	ticket.DelayMinutes = 10

	violations := ValidateTicket(ticket)
	require.Len(t, violations, 1)
	assert.Equal(t, "delay_minutes", violations[0].Field)
}

func TestValidateTicketMissingOptionalFieldsOK(t *testing.T) {
	ticket := validTicket()
	ticket.Priority = ""
	ticket.SLAStatus = ""
	ticket.CustomerTier = ""
	ticket.DelayMinutes = 0

	assert.Empty(t, ValidateTicket(ticket))
}

func TestEffectiveDefaults(t *testing.T) {
	ticket := Ticket{Priority: "P7", SLAStatus: "bogus", CustomerTier: "Gold"}

	assert.Equal(t, DefaultPriority, ticket.EffectivePriority())
	assert.Equal(t, SLAWithinSLA, ticket.EffectiveSLAStatus())
	assert.Equal(t, TierBasic, ticket.EffectiveTier())
}
