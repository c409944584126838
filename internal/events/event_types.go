package events

import (
	"time"

	"github.com/spec-kit/sla-monitor/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventAnalysisCompleted  EventType = "analysis_completed"
	EventTicketEscalated    EventType = "ticket_escalated"
	EventEscalationResolved EventType = "escalation_resolved"
	EventReportGenerated    EventType = "report_generated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// AnalysisCompletedPayload payload.
type AnalysisCompletedPayload struct {
	SeverityScore   int              `json:"severity_score"`
	RiskLevel       domain.RiskLevel `json:"risk_level"`
	NeedsEscalation bool             `json:"needs_escalation"`
	EscalationLevel int              `json:"escalation_level"`
}

// TicketEscalatedPayload payload.
type TicketEscalatedPayload struct {
	EscalationID string    `json:"escalation_id"`
	Level        int       `json:"escalation_level"`
	Target       string    `json:"target"`
	Urgency      string    `json:"urgency"`
	Deadline     time.Time `json:"response_deadline"`
	Reason       string    `json:"reason"`
	Reescalation bool      `json:"reescalation"`
}

// EscalationResolvedPayload payload.
type EscalationResolvedPayload struct {
	EscalationID string `json:"escalation_id"`
	Level        int    `json:"escalation_level"`
}

// ReportGeneratedPayload payload.
type ReportGeneratedPayload struct {
	ReportDate    string `json:"report_date"`
	OverallHealth string `json:"overall_health"`
	TotalTickets  int    `json:"total_tickets"`
	Compliance    string `json:"sla_compliance"`
}
