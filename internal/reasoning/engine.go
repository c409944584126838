package reasoning

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/sla-monitor/internal/config"
	"github.com/spec-kit/sla-monitor/internal/domain"
)

// Batch insight thresholds.
const (
	batchAvgCritical       = 6.0
	batchAvgElevated       = 4.0
	dominantServicePercent = 30
	escalationVolumeLimit  = 3
	topIssuesLimit         = 5
)

// batchWorkers bounds the scoring pool for batch runs.
const batchWorkers = 8

// SessionDependencies bundles the collaborators a Session needs.
type SessionDependencies struct {
	Scoring    config.ScoringConfig
	Escalation config.EscalationConfig
	Logger     *zap.Logger
	// Now overrides the clock; nil means time.Now. Used by tests and by
	// replay tooling.
	Now func() time.Time
}

// Session is a reasoning session: the scorer, insight generator, action
// recommender and classifier plus mutable analysis history and the learned
// pattern table. Scoring is pure and runs concurrently in batches; history
// and pattern access is serialized behind the session mutex.
type Session struct {
	scorer     *Scorer
	insights   *InsightGenerator
	actions    *ActionRecommender
	classifier *Classifier
	logger     *zap.Logger
	now        func() time.Time

	mu       sync.Mutex
	history  []domain.Analysis
	patterns map[string]domain.ServiceStats
}

// NewSession constructs a session with empty history.
func NewSession(deps SessionDependencies) *Session {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		scorer:     NewScorer(deps.Scoring),
		insights:   NewInsightGenerator(deps.Scoring),
		actions:    NewActionRecommender(deps.Scoring),
		classifier: NewClassifier(deps.Escalation),
		logger:     logger,
		now:        now,
		patterns:   make(map[string]domain.ServiceStats),
	}
}

// AnalyzeTicket runs the full per-ticket pipeline: score, insights, actions,
// escalation classification. The recurrence flag in ctx is overwritten from
// the learned pattern table before scoring. The finished analysis is appended
// to session history.
func (s *Session) AnalyzeTicket(ticket domain.Ticket, ctx domain.Context) domain.Analysis {
	ctx.Recurring = s.isRecurring(ticket)

	analysis := s.analyze(ticket, ctx)

	s.mu.Lock()
	s.history = append(s.history, analysis)
	s.mu.Unlock()

	s.logger.Debug("ticket analyzed",
		zap.String("ticket_id", ticket.ID),
		zap.Int("severity", analysis.SeverityScore),
		zap.Bool("needs_escalation", analysis.NeedsEscalation))

	return analysis
}

// analyze is the pure pipeline body. It does not touch session state.
func (s *Session) analyze(ticket domain.Ticket, ctx domain.Context) domain.Analysis {
	score := s.scorer.Score(ticket, ctx)
	insights := s.insights.Generate(ticket, score, ctx)
	actions := s.actions.Recommend(ticket, score, insights)
	level, needed := s.classifier.Classify(score)

	return domain.Analysis{
		TicketID:           ticket.ID,
		TicketTitle:        ticket.Title,
		ServiceName:        ticket.ServiceName,
		AssignedTeam:       ticket.AssignedTeam,
		SeverityScore:      score,
		SLAStatusLabel:     s.classifier.DeriveSLALabel(ticket, score),
		Insights:           insights,
		RecommendedActions: actions,
		NeedsEscalation:    needed,
		EscalationLevel:    level,
		RiskLevel:          s.classifier.RiskLevel(score),
		AnalyzedAt:         s.now().UTC(),
	}
}

// AnalyzeBatch scores a ticket set concurrently and rolls the results into
// fleet statistics. Result order follows input order regardless of worker
// scheduling; ties in the top-issue ranking keep input order too. If ctx is
// cancelled mid-batch only the tickets already analyzed enter history and
// the rollup, so TotalAnalyzed may fall short of len(tickets).
func (s *Session) AnalyzeBatch(ctx context.Context, tickets []domain.Ticket, contexts []domain.Context) domain.BatchResult {
	result := domain.BatchResult{}
	if len(tickets) == 0 {
		return result
	}

	slots := make([]domain.Analysis, len(tickets))
	done := make([]bool, len(tickets))

	workers := batchWorkers
	if workers > len(tickets) {
		workers = len(tickets)
	}
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				tctx := domain.Context{}
				if i < len(contexts) {
					tctx = contexts[i]
				}
				tctx.Recurring = s.isRecurring(tickets[i])
				slots[i] = s.analyze(tickets[i], tctx)
				done[i] = true
			}
		}()
	}

feed:
	for i := range tickets {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	analyses := make([]domain.Analysis, 0, len(slots))
	for i := range slots {
		if done[i] {
			analyses = append(analyses, slots[i])
		}
	}
	result.TotalAnalyzed = len(analyses)
	if len(analyses) == 0 {
		return result
	}

	s.mu.Lock()
	s.history = append(s.history, analyses...)
	s.mu.Unlock()

	total := 0
	serviceCounts := make(map[string]int)
	for _, a := range analyses {
		total += a.SeverityScore
		if a.SeverityScore >= bandCritical {
			result.CriticalTickets++
		}
		// High risk includes critical: both counters use >= thresholds.
		if a.SeverityScore >= bandHigh {
			result.HighRiskTickets++
		}
		if a.NeedsEscalation {
			result.EscalationsNeeded++
		}
		if a.ServiceName != "" {
			serviceCounts[a.ServiceName]++
		}
	}
	result.AvgSeverity = float64(total) / float64(len(analyses))

	ranked := make([]domain.Analysis, len(analyses))
	copy(ranked, analyses)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].SeverityScore > ranked[j].SeverityScore
	})
	if len(ranked) > topIssuesLimit {
		ranked = ranked[:topIssuesLimit]
	}
	result.TopIssues = ranked

	result.Insights = s.batchInsights(result, serviceCounts)

	s.logger.Info("batch analysis complete",
		zap.Int("tickets", result.TotalAnalyzed),
		zap.Int("critical", result.CriticalTickets),
		zap.Int("escalations_needed", result.EscalationsNeeded),
		zap.Float64("avg_severity", result.AvgSeverity))

	return result
}

func (s *Session) batchInsights(result domain.BatchResult, serviceCounts map[string]int) []string {
	var insights []string

	switch {
	case result.AvgSeverity >= batchAvgCritical:
		insights = append(insights,
			fmt.Sprintf("%s: fleet average severity %.1f indicates systemic SLA pressure", markerCritical, result.AvgSeverity))
	case result.AvgSeverity >= batchAvgElevated:
		insights = append(insights,
			fmt.Sprintf("Elevated fleet severity: average %.1f across %d tickets", result.AvgSeverity, result.TotalAnalyzed))
	}

	var dominant string
	dominantCount := 0
	for service, count := range serviceCounts {
		if count > dominantCount || (count == dominantCount && service < dominant) {
			dominant, dominantCount = service, count
		}
	}
	if result.TotalAnalyzed > 0 && dominantCount*100 > dominantServicePercent*result.TotalAnalyzed {
		insights = append(insights,
			fmt.Sprintf("%s: %s accounts for %d of %d analyzed tickets", markerRecurring, dominant, dominantCount, result.TotalAnalyzed))
	}

	if result.EscalationsNeeded > escalationVolumeLimit {
		insights = append(insights,
			fmt.Sprintf("High escalation volume: %d tickets need escalation", result.EscalationsNeeded))
	}

	return insights
}

// History returns a copy of the session's analysis history.
func (s *Session) History() []domain.Analysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Analysis, len(s.history))
	copy(out, s.history)
	return out
}

// RefreshPatterns rebuilds the pattern table from current history and
// returns a copy of the new table.
func (s *Session) RefreshPatterns() map[string]domain.ServiceStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns = LearnPatterns(s.history)
	return copyPatterns(s.patterns)
}

// Patterns returns a copy of the current pattern table.
func (s *Session) Patterns() map[string]domain.ServiceStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyPatterns(s.patterns)
}

// RestorePatterns replaces the pattern table, typically from a checkpoint.
func (s *Session) RestorePatterns(table map[string]domain.ServiceStats) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns = copyPatterns(table)
}

// Reset clears history and learned patterns.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
	s.patterns = make(map[string]domain.ServiceStats)
}

func (s *Session) isRecurring(ticket domain.Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats, ok := s.patterns[PatternKey(ticket.ServiceName, ticket.AssignedTeam)]
	return ok && stats.Recurring
}

func copyPatterns(table map[string]domain.ServiceStats) map[string]domain.ServiceStats {
	out := make(map[string]domain.ServiceStats, len(table))
	for k, v := range table {
		out[k] = v
	}
	return out
}
