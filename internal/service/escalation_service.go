package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/sla-monitor/internal/domain"
	"github.com/spec-kit/sla-monitor/internal/events"
	"github.com/spec-kit/sla-monitor/internal/observability"
	"github.com/spec-kit/sla-monitor/internal/repository"
	apperrors "github.com/spec-kit/sla-monitor/pkg/util"
)

// EscalationPlan fixes the routing attributes for one escalation level.
type EscalationPlan struct {
	Target   string
	Urgency  string
	Response time.Duration
}

// escalationMatrix maps levels 1..3 to their routing plan. Level 0 never
// reaches the matrix.
var escalationMatrix = map[int]EscalationPlan{
	1: {Target: "team_lead", Urgency: "high", Response: time.Hour},
	2: {Target: "manager", Urgency: "urgent", Response: 30 * time.Minute},
	3: {Target: "director", Urgency: "critical", Response: 15 * time.Minute},
}

// EscalationService drives the escalation lifecycle: creation from analysis
// results, re-escalation of already-active escalations, and resolution.
// Creation is idempotent per ticket; the store's partial unique index backs
// the at-most-one-active invariant.
type EscalationService struct {
	escalations repository.EscalationRepository
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
	now         func() time.Time
}

// EscalationDependencies bundles collaborators for the escalation service.
type EscalationDependencies struct {
	EscalationRepo repository.EscalationRepository
	Dispatcher     events.Dispatcher
	Metrics        *observability.Metrics
	Logger         *zap.Logger
	Now            func() time.Time
}

// NewEscalationService constructs the service.
func NewEscalationService(deps EscalationDependencies) *EscalationService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &EscalationService{
		escalations: deps.EscalationRepo,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		now:         now,
	}
}

// ProcessAnalyses walks a batch of analyses and escalates every ticket whose
// analysis asks for it. Store failures on individual tickets degrade to a
// warning; the batch continues. Returns the escalations that are active
// after the pass (existing or newly created).
func (s *EscalationService) ProcessAnalyses(ctx context.Context, analyses []domain.Analysis) []domain.Escalation {
	var processed []domain.Escalation
	for _, analysis := range analyses {
		if !analysis.NeedsEscalation || analysis.EscalationLevel < 1 {
			continue
		}
		esc, err := s.Escalate(ctx, analysis)
		if err != nil {
			s.logger.Warn("escalation skipped",
				zap.String("ticket_id", analysis.TicketID),
				zap.Error(err))
			continue
		}
		processed = append(processed, *esc)
	}
	return processed
}

// Escalate creates an active escalation for the analyzed ticket. If the
// ticket already has an active escalation the existing one is returned
// unchanged; processing the same analysis twice is a no-op.
func (s *EscalationService) Escalate(ctx context.Context, analysis domain.Analysis) (*domain.Escalation, error) {
	existing, err := s.escalations.ActiveByTicket(ctx, analysis.TicketID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	level := analysis.EscalationLevel
	if level > domain.MaxEscalationLevel {
		level = domain.MaxEscalationLevel
	}
	plan := escalationMatrix[level]

	reason := "severity threshold exceeded"
	if len(analysis.Insights) > 0 {
		reason = analysis.Insights[0]
	}

	esc := &domain.Escalation{
		ID:        uuid.NewString(),
		TicketID:  analysis.TicketID,
		Level:     level,
		Reason:    reason,
		Target:    plan.Target,
		Urgency:   plan.Urgency,
		Deadline:  s.now().UTC().Add(plan.Response),
		Status:    domain.EscalationStatusActive,
		CreatedAt: s.now().UTC(),
	}

	if err := s.escalations.Create(ctx, esc); err != nil {
		// Lost the race with a concurrent escalation of the same ticket;
		// the winner's row is the answer.
		if apperrors.IsCode(err, apperrors.CodeEscalationConflict) {
			return s.escalations.ActiveByTicket(ctx, analysis.TicketID)
		}
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.RecordEscalation()
	}
	s.logger.Info("ticket escalated",
		zap.String("ticket_id", esc.TicketID),
		zap.Int("level", esc.Level),
		zap.String("target", esc.Target))

	s.emit(ctx, events.EventTicketEscalated, esc, false)
	return esc, nil
}

// Reescalate bumps an active escalation one level, clamped at the maximum,
// and rewrites its routing plan. A ticket without an active escalation
// cannot be re-escalated.
func (s *EscalationService) Reescalate(ctx context.Context, ticketID, reason string) (*domain.Escalation, error) {
	existing, err := s.escalations.ActiveByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.NewNotFound("active escalation", map[string]any{"ticket_id": ticketID})
	}

	level := existing.Level + 1
	if level > domain.MaxEscalationLevel {
		level = domain.MaxEscalationLevel
	}
	if reason == "" {
		reason = "manual re-escalation"
	}

	if err := s.escalations.UpdateLevel(ctx, existing.ID, level, reason); err != nil {
		return nil, err
	}

	plan := escalationMatrix[level]
	existing.Level = level
	existing.Reason = reason
	existing.Target = plan.Target
	existing.Urgency = plan.Urgency
	existing.Deadline = s.now().UTC().Add(plan.Response)

	s.logger.Info("ticket re-escalated",
		zap.String("ticket_id", ticketID),
		zap.Int("level", level))

	s.emit(ctx, events.EventTicketEscalated, existing, true)
	return existing, nil
}

// Resolve closes the ticket's active escalation.
func (s *EscalationService) Resolve(ctx context.Context, ticketID string) (*domain.Escalation, error) {
	existing, err := s.escalations.ActiveByTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.NewNotFound("active escalation", map[string]any{"ticket_id": ticketID})
	}

	if err := s.escalations.Resolve(ctx, existing.ID); err != nil {
		return nil, err
	}
	existing.Status = domain.EscalationStatusResolved
	resolvedAt := s.now().UTC()
	existing.ResolvedAt = &resolvedAt

	s.logger.Info("escalation resolved",
		zap.String("ticket_id", ticketID),
		zap.String("escalation_id", existing.ID))

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventEscalationResolved,
			TicketID:  ticketID,
			Timestamp: s.now().UTC(),
			Payload: events.EscalationResolvedPayload{
				EscalationID: existing.ID,
				Level:        existing.Level,
			},
		})
	}
	return existing, nil
}

// Active lists escalations currently in the active state.
func (s *EscalationService) Active(ctx context.Context) ([]domain.Escalation, error) {
	status := domain.EscalationStatusActive
	return s.escalations.ListByStatus(ctx, &status)
}

func (s *EscalationService) emit(ctx context.Context, eventType events.EventType, esc *domain.Escalation, reescalation bool) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  esc.TicketID,
		Timestamp: s.now().UTC(),
		Payload: events.TicketEscalatedPayload{
			EscalationID: esc.ID,
			Level:        esc.Level,
			Target:       esc.Target,
			Urgency:      esc.Urgency,
			Deadline:     esc.Deadline,
			Reason:       esc.Reason,
			Reescalation: reescalation,
		},
	})
}
