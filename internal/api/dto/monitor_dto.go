package dto

import (
	"time"

	"github.com/spec-kit/sla-monitor/internal/domain"
)

// CreateTicketRequest payload for the intake endpoint.
type CreateTicketRequest struct {
	TicketID           string     `json:"ticket_id"`
	Title              string     `json:"title"`
	ServiceName        string     `json:"service_name"`
	Priority           string     `json:"priority"`
	Status             string     `json:"status"`
	CreationTime       time.Time  `json:"creation_time"`
	ResolutionDeadline time.Time  `json:"resolution_deadline"`
	ResolvedAt         *time.Time `json:"actual_resolution_time"`
	AssignedTeam       string     `json:"assigned_team"`
	SLAStatus          string     `json:"sla_status"`
	DelayMinutes       int        `json:"delay_minutes"`
	CustomerName       string     `json:"customer_name"`
	CustomerTier       string     `json:"customer_tier"`
}

// ToDomain maps the request onto a domain ticket.
func (r CreateTicketRequest) ToDomain() domain.Ticket {
	return domain.Ticket{
		ID:                 r.TicketID,
		Title:              r.Title,
		ServiceName:        r.ServiceName,
		Priority:           domain.TicketPriority(r.Priority),
		Status:             domain.TicketStatus(r.Status),
		CreatedAt:          r.CreationTime,
		ResolutionDeadline: r.ResolutionDeadline,
		ResolvedAt:         r.ResolvedAt,
		AssignedTeam:       r.AssignedTeam,
		SLAStatus:          domain.SLAStatus(r.SLAStatus),
		DelayMinutes:       r.DelayMinutes,
		CustomerName:       r.CustomerName,
		CustomerTier:       domain.CustomerTier(r.CustomerTier),
	}
}

// TicketResponse mirrors the stored ticket record.
type TicketResponse struct {
	TicketID           string     `json:"ticket_id"`
	Title              string     `json:"title"`
	ServiceName        string     `json:"service_name"`
	Priority           string     `json:"priority"`
	Status             string     `json:"status"`
	CreationTime       time.Time  `json:"creation_time"`
	ResolutionDeadline time.Time  `json:"resolution_deadline"`
	ResolvedAt         *time.Time `json:"actual_resolution_time,omitempty"`
	AssignedTeam       string     `json:"assigned_team"`
	SLAStatus          string     `json:"sla_status"`
	DelayMinutes       int        `json:"delay_minutes"`
	CustomerName       string     `json:"customer_name"`
	CustomerTier       string     `json:"customer_tier"`
}

// FromTicket maps a domain ticket to its response shape.
func FromTicket(t *domain.Ticket) TicketResponse {
	return TicketResponse{
		TicketID:           t.ID,
		Title:              t.Title,
		ServiceName:        t.ServiceName,
		Priority:           string(t.Priority),
		Status:             string(t.Status),
		CreationTime:       t.CreatedAt,
		ResolutionDeadline: t.ResolutionDeadline,
		ResolvedAt:         t.ResolvedAt,
		AssignedTeam:       t.AssignedTeam,
		SLAStatus:          string(t.SLAStatus),
		DelayMinutes:       t.DelayMinutes,
		CustomerName:       t.CustomerName,
		CustomerTier:       string(t.CustomerTier),
	}
}

// EscalationResponse mirrors an escalation record.
type EscalationResponse struct {
	EscalationID string     `json:"escalation_id"`
	TicketID     string     `json:"ticket_id"`
	Level        int        `json:"escalation_level"`
	Reason       string     `json:"reason"`
	Target       string     `json:"target"`
	Urgency      string     `json:"urgency"`
	Deadline     time.Time  `json:"response_deadline"`
	Status       string     `json:"status"`
	CreatedAt    time.Time  `json:"escalation_time"`
	ResolvedAt   *time.Time `json:"resolved_time,omitempty"`
}

// FromEscalation maps a domain escalation to its response shape.
func FromEscalation(e *domain.Escalation) EscalationResponse {
	return EscalationResponse{
		EscalationID: e.ID,
		TicketID:     e.TicketID,
		Level:        e.Level,
		Reason:       e.Reason,
		Target:       e.Target,
		Urgency:      e.Urgency,
		Deadline:     e.Deadline,
		Status:       string(e.Status),
		CreatedAt:    e.CreatedAt,
		ResolvedAt:   e.ResolvedAt,
	}
}

// ReescalateRequest payload.
type ReescalateRequest struct {
	Reason string `json:"reason"`
}

// UpdateTicketStatusRequest payload for the status transition endpoint.
// SLAStatus is optional; omitting it leaves the stored SLA status untouched.
type UpdateTicketStatusRequest struct {
	Status    string  `json:"status"`
	SLAStatus *string `json:"sla_status"`
}
