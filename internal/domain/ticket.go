package domain

import (
	"fmt"
	"time"
)

// TicketPriority enumerates SLA urgency. Lower number means higher urgency.
type TicketPriority string

const (
	TicketPriorityP1 TicketPriority = "P1"
	TicketPriorityP2 TicketPriority = "P2"
	TicketPriorityP3 TicketPriority = "P3"
	TicketPriorityP4 TicketPriority = "P4"
	TicketPriorityP5 TicketPriority = "P5"
)

// DefaultPriority is assumed when a ticket carries no usable priority.
const DefaultPriority = TicketPriorityP3

// SLAStatus enumerates a ticket's standing against its deadline.
// The states are mutually exclusive.
type SLAStatus string

const (
	SLAWithinSLA SLAStatus = "within_sla"
	SLADelayed   SLAStatus = "delayed"
	SLAAtRisk    SLAStatus = "at_risk"
	SLABreached  SLAStatus = "breached"
)

// CustomerTier enumerates contractual customer classes.
type CustomerTier string

const (
	TierBasic      CustomerTier = "Basic"
	TierPremium    CustomerTier = "Premium"
	TierEnterprise CustomerTier = "Enterprise"
	TierPlatinum   CustomerTier = "Platinum"
)

// TicketStatus enumerates workflow states for tickets.
type TicketStatus string

const (
	TicketStatusNew        TicketStatus = "new"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusPending    TicketStatus = "pending"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

// Ticket is the monitored aggregate. Tickets are created by intake,
// mutated by status and SLA transitions, and archived rather than deleted.
type Ticket struct {
	ID                 string
	Title              string
	ServiceName        string
	Priority           TicketPriority
	Status             TicketStatus
	CreatedAt          time.Time
	ResolutionDeadline time.Time
	ResolvedAt         *time.Time
	AssignedTeam       string
	SLAStatus          SLAStatus
	DelayMinutes       int
	CustomerName       string
	CustomerTier       CustomerTier
	Archived           bool
}

// EffectivePriority returns the ticket priority, falling back to the
// documented default when the field is absent or outside the enumerated domain.
func (t Ticket) EffectivePriority() TicketPriority {
	switch t.Priority {
	case TicketPriorityP1, TicketPriorityP2, TicketPriorityP3, TicketPriorityP4, TicketPriorityP5:
		return t.Priority
	}
	return DefaultPriority
}

// EffectiveSLAStatus returns the SLA status, defaulting to within_sla.
func (t Ticket) EffectiveSLAStatus() SLAStatus {
	switch t.SLAStatus {
	case SLAWithinSLA, SLADelayed, SLAAtRisk, SLABreached:
		return t.SLAStatus
	}
	return SLAWithinSLA
}

// EffectiveTier returns the customer tier, defaulting to Basic.
func (t Ticket) EffectiveTier() CustomerTier {
	switch t.CustomerTier {
	case TierBasic, TierPremium, TierEnterprise, TierPlatinum:
		return t.CustomerTier
	}
	return TierBasic
}

// FieldViolation describes one intake validation failure.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v FieldViolation) String() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

// ValidateTicket collects every intake violation rather than failing on the
// first, so a caller can report all of them at once. Missing optional fields
// are not violations; they degrade to documented defaults during scoring.
func ValidateTicket(t Ticket) []FieldViolation {
	var violations []FieldViolation

	if t.ID == "" {
		violations = append(violations, FieldViolation{Field: "ticket_id", Message: "required"})
	}
	if t.Title == "" {
		violations = append(violations, FieldViolation{Field: "title", Message: "required"})
	}
	if t.CreatedAt.IsZero() {
		violations = append(violations, FieldViolation{Field: "creation_time", Message: "required"})
	}
	if t.ResolutionDeadline.IsZero() {
		violations = append(violations, FieldViolation{Field: "resolution_deadline", Message: "required"})
	}
	if t.Priority != "" && t.Priority != t.EffectivePriority() {
		violations = append(violations, FieldViolation{
			Field:   "priority",
			Message: fmt.Sprintf("%q outside enumerated domain P1..P5", t.Priority),
		})
	}
	if t.SLAStatus != "" && t.SLAStatus != t.EffectiveSLAStatus() {
		violations = append(violations, FieldViolation{
			Field:   "sla_status",
			Message: fmt.Sprintf("%q is not a known SLA status", t.SLAStatus),
		})
	}
	if t.CustomerTier != "" && t.CustomerTier != t.EffectiveTier() {
		violations = append(violations, FieldViolation{
			Field:   "customer_tier",
			Message: fmt.Sprintf("%q is not a known customer tier", t.CustomerTier),
		})
	}
	if t.DelayMinutes < 0 {
		violations = append(violations, FieldViolation{Field: "delay_minutes", Message: "must be >= 0"})
	}
	if t.SLAStatus == SLAWithinSLA && t.DelayMinutes != 0 {
		violations = append(violations, FieldViolation{
			Field:   "delay_minutes",
			Message: "must be 0 while within_sla",
		})
	}

	return violations
}
