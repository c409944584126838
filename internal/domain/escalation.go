package domain

import "time"

// EscalationStatus enumerates escalation lifecycle states.
type EscalationStatus string

const (
	EscalationStatusPending  EscalationStatus = "pending"
	EscalationStatusActive   EscalationStatus = "active"
	EscalationStatusResolved EscalationStatus = "resolved"
)

// MaxEscalationLevel caps re-escalation. There is no level 4.
const MaxEscalationLevel = 3

// Escalation belongs to exactly one ticket. Its level is monotonically
// non-decreasing over the ticket's lifetime; the terminal state is resolved.
type Escalation struct {
	ID         string
	TicketID   string
	Level      int
	Reason     string
	Target     string
	Urgency    string
	Deadline   time.Time
	Status     EscalationStatus
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
