package domain

import "time"

// DelayType classifies which part of the SLA window slipped.
type DelayType string

const (
	DelayTypeResponse        DelayType = "response"
	DelayTypeResolution      DelayType = "resolution"
	DelayTypeCustomerWaiting DelayType = "customer_waiting"
	DelayTypeInternal        DelayType = "internal"
)

// DelayStatus enumerates lifecycle states for a delay window.
type DelayStatus string

const (
	DelayStatusPending    DelayStatus = "pending"
	DelayStatusInProgress DelayStatus = "in_progress"
	DelayStatusResolved   DelayStatus = "resolved"
	DelayStatusFailed     DelayStatus = "failed"
)

// Delay is a detected SLA slip window belonging to exactly one ticket.
// Once resolved or failed it is immutable except for audit fields.
type Delay struct {
	ID              int64
	TicketID        string
	Type            DelayType
	Start           time.Time
	End             *time.Time
	DurationMinutes int
	Status          DelayStatus
	ImpactScore     int
	ResolutionNotes string
	CreatedAt       time.Time
}

// Open reports whether the delay window is still running.
func (d Delay) Open() bool {
	return d.Status == DelayStatusPending || d.Status == DelayStatusInProgress
}

var allowedDelayTransitions = map[DelayStatus][]DelayStatus{
	DelayStatusPending:    {DelayStatusInProgress},
	DelayStatusInProgress: {DelayStatusResolved, DelayStatusFailed},
	DelayStatusResolved:   {},
	DelayStatusFailed:     {},
}

// ValidDelayTransition reports whether a status change is allowed.
func ValidDelayTransition(current, next DelayStatus) bool {
	for _, candidate := range allowedDelayTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}
