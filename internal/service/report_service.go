package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/sla-monitor/internal/domain"
	"github.com/spec-kit/sla-monitor/internal/events"
	"github.com/spec-kit/sla-monitor/internal/observability"
	"github.com/spec-kit/sla-monitor/internal/persistence"
	"github.com/spec-kit/sla-monitor/internal/reasoning"
	"github.com/spec-kit/sla-monitor/internal/repository"
)

// Report thresholds. Health and team-performance bands share the same
// delayed-ratio cutoffs.
const (
	healthWarningPercent  = 20.0
	healthCriticalPercent = 40.0

	withinSLASeverityMax   = 3
	breachedSeverityMin    = 8
	criticalIssuesLimit    = 10
	maxRecommendations     = 5
	recommendTeamTickets   = 5
	recommendTeamPercent   = 30.0
	recommendPrioPercent   = 40.0
	recommendCriticalCount = 3
)

// reportCacheKey is the Redis key holding the latest published report.
const reportCacheKey = "sla:report:latest"

// reportCacheTTL bounds staleness of the cached report.
const reportCacheTTL = 24 * time.Hour

// ReportService builds the periodic operations report from fleet context,
// per-ticket analyses, and processed escalations, then publishes it to the
// store and the cache.
type ReportService struct {
	reports    repository.ReportRepository
	cache      *persistence.Redis
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	ReportRepo repository.ReportRepository
	Cache      *persistence.Redis
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Now        func() time.Time
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &ReportService{
		reports:    deps.ReportRepo,
		cache:      deps.Cache,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     deps.Logger,
		now:        now,
	}
}

// Generate assembles a report. Pure with respect to its inputs; an empty
// analysis set yields an empty but well-formed report.
func (s *ReportService) Generate(mctx domain.MonitorContext, analyses []domain.Analysis, escalations []domain.Escalation) *domain.Report {
	now := s.now().UTC()
	report := &domain.Report{
		ReportDate:  now.Format("2006-01-02"),
		GeneratedAt: now,
	}

	report.ExecutiveSummary = s.executiveSummary(mctx, analyses)
	report.SLAPerformance = s.slaPerformance(analyses)
	report.CriticalIssues = s.criticalIssues(analyses)
	report.TeamAnalysis = s.teamAnalysis(mctx)
	report.EscalationAnalysis = s.escalationAnalysis(escalations)
	report.Recommendations = s.recommendations(mctx, report)
	report.SeverityHistogram = severityHistogram(analyses)

	return report
}

func (s *ReportService) executiveSummary(mctx domain.MonitorContext, analyses []domain.Analysis) domain.ExecutiveSummary {
	critical := 0
	for _, a := range analyses {
		if a.SeverityScore >= breachedSeverityMin {
			critical++
		}
	}

	health := domain.HealthGood
	switch {
	case mctx.DelayedPercentage >= healthCriticalPercent:
		health = domain.HealthCritical
	case mctx.DelayedPercentage >= healthWarningPercent:
		health = domain.HealthWarning
	}

	return domain.ExecutiveSummary{
		TotalTicketsMonitored: mctx.TotalTickets,
		DelayedTickets:        mctx.DelayedTickets,
		DelayedPercentage:     mctx.DelayedPercentage,
		CriticalTickets:       critical,
		OverallHealth:         health,
	}
}

func (s *ReportService) slaPerformance(analyses []domain.Analysis) domain.SLAPerformance {
	perf := domain.SLAPerformance{}
	if len(analyses) == 0 {
		return perf
	}

	total := 0
	for _, a := range analyses {
		total += a.SeverityScore
		if a.SeverityScore <= withinSLASeverityMax {
			perf.WithinSLACount++
		}
		if a.SeverityScore >= breachedSeverityMin {
			perf.BreachedCount++
		}
	}
	n := float64(len(analyses))
	perf.WithinSLAPercentage = float64(perf.WithinSLACount) / n * 100
	perf.BreachedPercentage = float64(perf.BreachedCount) / n * 100
	perf.AvgSeverity = float64(total) / n
	return perf
}

func (s *ReportService) criticalIssues(analyses []domain.Analysis) []domain.CriticalIssue {
	ranked := make([]domain.Analysis, 0, len(analyses))
	for _, a := range analyses {
		if a.SeverityScore >= breachedSeverityMin {
			ranked = append(ranked, a)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SeverityScore > ranked[j].SeverityScore
	})
	if len(ranked) > criticalIssuesLimit {
		ranked = ranked[:criticalIssuesLimit]
	}

	issues := make([]domain.CriticalIssue, 0, len(ranked))
	for _, a := range ranked {
		topInsight := ""
		if len(a.Insights) > 0 {
			topInsight = a.Insights[0]
		}
		issues = append(issues, domain.CriticalIssue{
			TicketID:             a.TicketID,
			Severity:             a.SeverityScore,
			TopInsight:           topInsight,
			NeedsImmediateAction: a.NeedsEscalation,
		})
	}
	return issues
}

func (s *ReportService) teamAnalysis(mctx domain.MonitorContext) []domain.TeamPerformance {
	teams := make([]domain.TeamPerformance, 0, len(mctx.ByTeam))
	for team, stats := range mctx.ByTeam {
		perf := domain.TeamPerformance{
			Team:           team,
			TotalTickets:   stats.Total,
			DelayedTickets: stats.Delayed,
		}
		if stats.Total > 0 {
			perf.DelayedPercentage = float64(stats.Delayed) / float64(stats.Total) * 100
		}
		switch {
		case perf.DelayedPercentage >= healthCriticalPercent:
			perf.Performance = domain.HealthCritical
		case perf.DelayedPercentage >= healthWarningPercent:
			perf.Performance = domain.HealthNeedsAttention
		default:
			perf.Performance = domain.HealthGood
		}
		teams = append(teams, perf)
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].Team < teams[j].Team })
	return teams
}

func (s *ReportService) escalationAnalysis(escalations []domain.Escalation) domain.EscalationAnalysis {
	analysis := domain.EscalationAnalysis{
		Total:   len(escalations),
		ByLevel: make(map[int]int),
	}
	for _, esc := range escalations {
		analysis.ByLevel[esc.Level]++
		if esc.Level > analysis.HighestLevel {
			analysis.HighestLevel = esc.Level
		}
	}
	if analysis.Total == 0 {
		analysis.Summary = "no escalations processed"
	} else {
		analysis.Summary = fmt.Sprintf("%d escalations processed, highest level %d",
			analysis.Total, analysis.HighestLevel)
	}
	return analysis
}

func (s *ReportService) recommendations(mctx domain.MonitorContext, report *domain.Report) []string {
	var recs []string

	teams := make([]string, 0, len(mctx.ByTeam))
	for team := range mctx.ByTeam {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	for _, team := range teams {
		stats := mctx.ByTeam[team]
		if stats.Total > recommendTeamTickets &&
			float64(stats.Delayed)/float64(stats.Total)*100 > recommendTeamPercent {
			recs = append(recs, fmt.Sprintf(
				"Review workload distribution for %s: %d of %d tickets delayed", team, stats.Delayed, stats.Total))
		}
	}

	priorities := make([]string, 0, len(mctx.ByPriority))
	for priority := range mctx.ByPriority {
		priorities = append(priorities, string(priority))
	}
	sort.Strings(priorities)
	for _, priority := range priorities {
		stats := mctx.ByPriority[domain.TicketPriority(priority)]
		if stats.Total > 0 &&
			float64(stats.Delayed)/float64(stats.Total)*100 > recommendPrioPercent {
			recs = append(recs, fmt.Sprintf(
				"Investigate %s delays: %.0f%% of %s tickets are behind schedule",
				priority, float64(stats.Delayed)/float64(stats.Total)*100, priority))
		}
	}

	if report.ExecutiveSummary.CriticalTickets > recommendCriticalCount {
		recs = append(recs, fmt.Sprintf(
			"Convene incident review: %d tickets at critical severity", report.ExecutiveSummary.CriticalTickets))
	}

	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	return recs
}

// severityHistogram buckets every analysis into [1,10]; a score-0 ticket
// lands in bucket 1. All ten buckets are present even when empty.
func severityHistogram(analyses []domain.Analysis) map[int]int {
	hist := make(map[int]int, reasoning.MaxSeverity)
	for bucket := 1; bucket <= reasoning.MaxSeverity; bucket++ {
		hist[bucket] = 0
	}
	for _, a := range analyses {
		score := a.SeverityScore
		if score < 1 {
			score = 1
		}
		if score > reasoning.MaxSeverity {
			score = reasoning.MaxSeverity
		}
		hist[score]++
	}
	return hist
}

// Publish saves the report to the store, refreshes the cache, and emits a
// report_generated event. Cache failures degrade to a warning.
func (s *ReportService) Publish(ctx context.Context, report *domain.Report) error {
	if err := s.reports.Save(ctx, report); err != nil {
		return err
	}

	if s.cache != nil {
		data, err := json.Marshal(report)
		if err == nil {
			err = s.cache.SetJSON(ctx, reportCacheKey, data, reportCacheTTL)
		}
		if err != nil {
			s.logger.Warn("report cache write failed", zap.Error(err))
		}
	}

	if s.metrics != nil {
		s.metrics.RecordReport()
	}
	s.logger.Info("report published",
		zap.String("report_date", report.ReportDate),
		zap.String("overall_health", report.ExecutiveSummary.OverallHealth))

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventReportGenerated,
			Timestamp: s.now().UTC(),
			Payload: events.ReportGeneratedPayload{
				ReportDate:    report.ReportDate,
				OverallHealth: report.ExecutiveSummary.OverallHealth,
				TotalTickets:  report.ExecutiveSummary.TotalTicketsMonitored,
				Compliance:    fmt.Sprintf("%.1f%%", report.SLAPerformance.WithinSLAPercentage),
			},
		})
	}
	return nil
}

// Latest returns the most recent report, preferring the cache.
func (s *ReportService) Latest(ctx context.Context) (*domain.Report, error) {
	if s.cache != nil {
		data, err := s.cache.GetJSON(ctx, reportCacheKey)
		if err != nil {
			s.logger.Warn("report cache read failed", zap.Error(err))
		} else if data != nil {
			var cached domain.Report
			if err := json.Unmarshal(data, &cached); err == nil {
				return &cached, nil
			}
		}
	}
	return s.reports.Latest(ctx)
}
