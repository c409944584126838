package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/sla-monitor/internal/config"
	"github.com/spec-kit/sla-monitor/internal/domain"
	"github.com/spec-kit/sla-monitor/internal/events"
	"github.com/spec-kit/sla-monitor/internal/observability"
	"github.com/spec-kit/sla-monitor/internal/persistence"
	"github.com/spec-kit/sla-monitor/internal/reasoning"
	"github.com/spec-kit/sla-monitor/internal/repository"
	apperrors "github.com/spec-kit/sla-monitor/pkg/util"
)

// patternCheckpointKey is the Redis key holding the learned pattern table.
const patternCheckpointKey = "sla:patterns"

// patternCheckpointTTL bounds staleness of a restored pattern table.
const patternCheckpointTTL = 7 * 24 * time.Hour

// MonitorService orchestrates the analysis cycle: fetch tickets, score them,
// escalate where needed, and publish the operations report. Store failures
// in individual steps degrade to warnings and zero results; a cycle never
// crashes on collaborator I/O.
type MonitorService struct {
	tickets     repository.TicketRepository
	delays      repository.DelayRepository
	session     *reasoning.Session
	escalations *EscalationService
	reports     *ReportService
	dispatcher  events.Dispatcher
	cache       *persistence.Redis
	cfg         config.AppConfig
	scoring     config.ScoringConfig
	metrics     *observability.Metrics
	logger      *zap.Logger
	now         func() time.Time
}

// MonitorDependencies bundles collaborators for the monitor service.
type MonitorDependencies struct {
	TicketRepo        repository.TicketRepository
	DelayRepo         repository.DelayRepository
	Session           *reasoning.Session
	EscalationService *EscalationService
	ReportService     *ReportService
	Dispatcher        events.Dispatcher
	Cache             *persistence.Redis
	App               config.AppConfig
	Scoring           config.ScoringConfig
	Metrics           *observability.Metrics
	Logger            *zap.Logger
	Now               func() time.Time
}

// NewMonitorService constructs the service.
func NewMonitorService(deps MonitorDependencies) *MonitorService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &MonitorService{
		tickets:     deps.TicketRepo,
		delays:      deps.DelayRepo,
		session:     deps.Session,
		escalations: deps.EscalationService,
		reports:     deps.ReportService,
		dispatcher:  deps.Dispatcher,
		cache:       deps.Cache,
		cfg:         deps.App,
		scoring:     deps.Scoring,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
		now:         now,
	}
}

// CycleResult summarizes one analysis cycle.
type CycleResult struct {
	Batch       domain.BatchResult  `json:"batch"`
	Escalations []domain.Escalation `json:"escalations"`
	Report      *domain.Report      `json:"report"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// RunAnalysisCycle executes the full pipeline over the configured analysis
// window. A ticket-fetch failure yields an empty report plus a warning.
func (s *MonitorService) RunAnalysisCycle(ctx context.Context) (*CycleResult, error) {
	result := &CycleResult{}

	tickets, err := s.fetchWindow(ctx)
	if err != nil {
		s.logger.Warn("ticket fetch failed, producing empty report", zap.Error(err))
		result.Warnings = append(result.Warnings, "ticket store unavailable; report generated from empty set")
		tickets = nil
	}

	mctx := reasoning.BuildMonitorContext(tickets)

	s.restorePatterns(ctx)

	contexts := s.buildContexts(ctx, tickets, mctx, result)
	result.Batch = s.session.AnalyzeBatch(ctx, tickets, contexts)

	s.session.RefreshPatterns()
	s.checkpointPatterns(ctx)

	analyses := s.session.History()
	if len(analyses) > result.Batch.TotalAnalyzed {
		analyses = analyses[len(analyses)-result.Batch.TotalAnalyzed:]
	}
	if s.metrics != nil {
		for _, analysis := range analyses {
			s.metrics.RecordAnalysis(analysis.SeverityScore)
		}
	}
	result.Escalations = s.escalations.ProcessAnalyses(ctx, analyses)

	report := s.reports.Generate(mctx, analyses, result.Escalations)
	if err := s.reports.Publish(ctx, report); err != nil {
		s.logger.Warn("report publish failed", zap.Error(err))
		result.Warnings = append(result.Warnings, "report store unavailable; report not persisted")
	}
	result.Report = report

	s.logger.Info("analysis cycle complete",
		zap.Int("tickets", result.Batch.TotalAnalyzed),
		zap.Int("escalations", len(result.Escalations)),
		zap.String("health", report.ExecutiveSummary.OverallHealth))

	return result, nil
}

// AnalyzeTicket scores a single ticket by ID with freshly built context.
func (s *MonitorService) AnalyzeTicket(ctx context.Context, ticketID string) (*domain.Analysis, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	tctx := domain.Context{Hour: s.now().Hour()}
	if delays, err := s.delays.ListByTicket(ctx, ticketID); err != nil {
		s.logger.Warn("delay fetch failed", zap.String("ticket_id", ticketID), zap.Error(err))
	} else {
		for _, delay := range delays {
			if delay.Open() {
				tctx.ActiveDelays++
			}
		}
	}

	if window, err := s.fetchWindow(ctx); err == nil {
		mctx := reasoning.BuildMonitorContext(window)
		tctx.TeamLoadPercent = reasoning.TeamLoadPercent(mctx, ticket.AssignedTeam, s.scoring.TeamCapacity)
	}

	analysis := s.session.AnalyzeTicket(*ticket, tctx)
	if s.metrics != nil {
		s.metrics.RecordAnalysis(analysis.SeverityScore)
	}
	s.publishAnalysis(ctx, analysis)
	return &analysis, nil
}

func (s *MonitorService) publishAnalysis(ctx context.Context, analysis domain.Analysis) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventAnalysisCompleted,
		TicketID:  analysis.TicketID,
		Timestamp: s.now().UTC(),
		Payload: events.AnalysisCompletedPayload{
			SeverityScore:   analysis.SeverityScore,
			RiskLevel:       analysis.RiskLevel,
			NeedsEscalation: analysis.NeedsEscalation,
			EscalationLevel: analysis.EscalationLevel,
		},
	})
}

// CheckEscalations analyzes breached tickets only and escalates as needed.
func (s *MonitorService) CheckEscalations(ctx context.Context) ([]domain.Escalation, error) {
	breached := domain.SLABreached
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{
		SLAStatus: &breached,
		Limit:     s.cfg.AnalysisBatchLimit,
	})
	if err != nil {
		return nil, apperrors.NewStoreUnavailable("list breached tickets", err)
	}

	mctx := reasoning.BuildMonitorContext(tickets)
	var escalated []domain.Escalation
	for _, ticket := range tickets {
		tctx := domain.Context{
			Hour:            s.now().Hour(),
			TeamLoadPercent: reasoning.TeamLoadPercent(mctx, ticket.AssignedTeam, s.scoring.TeamCapacity),
		}
		analysis := s.session.AnalyzeTicket(ticket, tctx)
		if !analysis.NeedsEscalation {
			continue
		}
		esc, err := s.escalations.Escalate(ctx, analysis)
		if err != nil {
			s.logger.Warn("escalation failed",
				zap.String("ticket_id", ticket.ID), zap.Error(err))
			continue
		}
		escalated = append(escalated, *esc)
	}
	return escalated, nil
}

// SLAMetrics returns aggregate compliance numbers from the store.
func (s *MonitorService) SLAMetrics(ctx context.Context, daysBack int) (*domain.SLAMetrics, error) {
	return s.tickets.SLAMetrics(ctx, daysBack)
}

func (s *MonitorService) fetchWindow(ctx context.Context) ([]domain.Ticket, error) {
	from := s.now().Add(-time.Duration(s.cfg.AnalysisWindowHours) * time.Hour)
	tickets, err := s.tickets.List(ctx, repository.TicketFilter{
		CreatedFrom: &from,
		Limit:       s.cfg.AnalysisBatchLimit,
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordStoreFailure("list tickets")
		}
		return nil, apperrors.NewStoreUnavailable("list tickets", err)
	}
	return tickets, nil
}

// buildContexts assembles the per-ticket situational context for a batch.
// Delay lookups that fail leave active delays at zero for that ticket.
func (s *MonitorService) buildContexts(ctx context.Context, tickets []domain.Ticket, mctx domain.MonitorContext, result *CycleResult) []domain.Context {
	hour := s.now().Hour()
	contexts := make([]domain.Context, len(tickets))
	delayFailures := 0
	for i, ticket := range tickets {
		contexts[i] = domain.Context{
			Hour:            hour,
			TeamLoadPercent: reasoning.TeamLoadPercent(mctx, ticket.AssignedTeam, s.scoring.TeamCapacity),
		}
		delays, err := s.delays.ListByTicket(ctx, ticket.ID)
		if err != nil {
			delayFailures++
			continue
		}
		for _, delay := range delays {
			if delay.Open() {
				contexts[i].ActiveDelays++
			}
		}
	}
	if delayFailures > 0 {
		s.logger.Warn("delay lookups failed for some tickets", zap.Int("count", delayFailures))
		result.Warnings = append(result.Warnings, "delay store unavailable for some tickets; active-delay context degraded")
		if s.metrics != nil {
			s.metrics.RecordStoreFailure("list delays")
		}
	}
	return contexts
}

func (s *MonitorService) checkpointPatterns(ctx context.Context) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(s.session.Patterns())
	if err == nil {
		err = s.cache.SetJSON(ctx, patternCheckpointKey, data, patternCheckpointTTL)
	}
	if err != nil {
		s.logger.Warn("pattern checkpoint failed", zap.Error(err))
	}
}

func (s *MonitorService) restorePatterns(ctx context.Context) {
	if s.cache == nil || len(s.session.Patterns()) > 0 {
		return
	}
	data, err := s.cache.GetJSON(ctx, patternCheckpointKey)
	if err != nil || data == nil {
		return
	}
	var table map[string]domain.ServiceStats
	if err := json.Unmarshal(data, &table); err != nil {
		s.logger.Warn("pattern checkpoint unreadable", zap.Error(err))
		return
	}
	s.session.RestorePatterns(table)
}
