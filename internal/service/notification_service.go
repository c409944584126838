package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/sla-monitor/internal/events"
)

// NotificationService turns domain events into operator notifications. The
// current transport is the structured log; Kafka forwarding is handled by
// the publisher registered on the same dispatcher.
type NotificationService struct {
	logger *zap.Logger
}

// NewNotificationService constructs the service.
func NewNotificationService(logger *zap.Logger) *NotificationService {
	return &NotificationService{logger: logger}
}

// Register wires the notification handlers into the dispatcher.
func (s *NotificationService) Register(dispatcher events.Dispatcher) {
	dispatcher.Subscribe(events.EventTicketEscalated, s.onEscalated)
	dispatcher.Subscribe(events.EventEscalationResolved, s.onResolved)
	dispatcher.Subscribe(events.EventReportGenerated, s.onReport)
}

func (s *NotificationService) onEscalated(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketEscalatedPayload)
	if !ok {
		return nil
	}
	s.logger.Info("notify: ticket escalated",
		zap.String("ticket_id", event.TicketID),
		zap.Int("level", payload.Level),
		zap.String("target", payload.Target),
		zap.String("urgency", payload.Urgency),
		zap.Time("response_deadline", payload.Deadline),
		zap.Bool("reescalation", payload.Reescalation))
	return nil
}

func (s *NotificationService) onResolved(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.EscalationResolvedPayload)
	if !ok {
		return nil
	}
	s.logger.Info("notify: escalation resolved",
		zap.String("ticket_id", event.TicketID),
		zap.String("escalation_id", payload.EscalationID))
	return nil
}

func (s *NotificationService) onReport(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ReportGeneratedPayload)
	if !ok {
		return nil
	}
	s.logger.Info("notify: report generated",
		zap.String("report_date", payload.ReportDate),
		zap.String("overall_health", payload.OverallHealth),
		zap.Int("total_tickets", payload.TotalTickets),
		zap.String("sla_compliance", payload.Compliance))
	return nil
}
