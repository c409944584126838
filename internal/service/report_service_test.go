package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/sla-monitor/internal/domain"
	apperrors "github.com/spec-kit/sla-monitor/pkg/util"
)

type fakeReportRepo struct {
	saved   []*domain.Report
	saveErr error
}

func (f *fakeReportRepo) Save(_ context.Context, report *domain.Report) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, report)
	return nil
}

func (f *fakeReportRepo) Latest(_ context.Context) (*domain.Report, error) {
	if len(f.saved) == 0 {
		return nil, apperrors.NewNotFound("report", nil)
	}
	return f.saved[len(f.saved)-1], nil
}

func newTestReportService(repo *fakeReportRepo) *ReportService {
	fixed := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	return NewReportService(ReportDependencies{
		ReportRepo: repo,
		Logger:     zap.NewNop(),
		Now:        func() time.Time { return fixed },
	})
}

func monitorContextFixture() domain.MonitorContext {
	return domain.MonitorContext{
		TotalTickets:      10,
		DelayedTickets:    5,
		DelayedPercentage: 50,
		ByTeam: map[string]*domain.GroupStats{
			"Platform": {Total: 6, Delayed: 4},
			"Support":  {Total: 4, Delayed: 1},
		},
		ByPriority: map[domain.TicketPriority]*domain.GroupStats{
			domain.TicketPriorityP1: {Total: 4, Delayed: 3},
			domain.TicketPriorityP4: {Total: 6, Delayed: 2},
		},
		ByService: map[string]*domain.GroupStats{},
	}
}

func TestGenerateExecutiveSummaryHealthBands(t *testing.T) {
	svc := newTestReportService(&fakeReportRepo{})

	cases := []struct {
		delayedPct float64
		want       string
	}{
		{10, domain.HealthGood},
		{25, domain.HealthWarning},
		{45, domain.HealthCritical},
	}
	for _, tc := range cases {
		mctx := domain.MonitorContext{TotalTickets: 100, DelayedPercentage: tc.delayedPct}
		report := svc.Generate(mctx, nil, nil)
		assert.Equal(t, tc.want, report.ExecutiveSummary.OverallHealth, "delayed %.0f%%", tc.delayedPct)
	}
}

func TestGenerateSLAPerformance(t *testing.T) {
	svc := newTestReportService(&fakeReportRepo{})

	analyses := []domain.Analysis{
		{TicketID: "A", SeverityScore: 2},
		{TicketID: "B", SeverityScore: 3},
		{TicketID: "C", SeverityScore: 8},
		{TicketID: "D", SeverityScore: 10},
	}
	report := svc.Generate(domain.MonitorContext{TotalTickets: 4}, analyses, nil)

	perf := report.SLAPerformance
	assert.Equal(t, 2, perf.WithinSLACount)
	assert.Equal(t, 2, perf.BreachedCount)
	assert.InDelta(t, 50.0, perf.WithinSLAPercentage, 0.001)
	assert.InDelta(t, 50.0, perf.BreachedPercentage, 0.001)
	assert.InDelta(t, 5.75, perf.AvgSeverity, 0.001)
}

func TestGenerateCriticalIssuesRankedAndCapped(t *testing.T) {
	svc := newTestReportService(&fakeReportRepo{})

	analyses := make([]domain.Analysis, 0, 13)
	for i := 0; i < 12; i++ {
		analyses = append(analyses, domain.Analysis{
			TicketID:        "HOT-" + string(rune('A'+i)),
			SeverityScore:   8 + i%3,
			Insights:        []string{"CRITICAL: attention needed"},
			NeedsEscalation: true,
		})
	}
	analyses = append(analyses, domain.Analysis{TicketID: "COLD", SeverityScore: 4})

	report := svc.Generate(domain.MonitorContext{TotalTickets: 13}, analyses, nil)

	require.Len(t, report.CriticalIssues, 10)
	for i := 1; i < len(report.CriticalIssues); i++ {
		assert.GreaterOrEqual(t, report.CriticalIssues[i-1].Severity, report.CriticalIssues[i].Severity)
	}
	for _, issue := range report.CriticalIssues {
		assert.NotEqual(t, "COLD", issue.TicketID)
		assert.Equal(t, "CRITICAL: attention needed", issue.TopInsight)
	}
}

func TestGenerateTeamAnalysis(t *testing.T) {
	svc := newTestReportService(&fakeReportRepo{})

	report := svc.Generate(monitorContextFixture(), nil, nil)

	require.Len(t, report.TeamAnalysis, 2)
	// Sorted by team name. Platform is 4/6 delayed, Support 1/4.
	assert.Equal(t, "Platform", report.TeamAnalysis[0].Team)
	assert.Equal(t, domain.HealthCritical, report.TeamAnalysis[0].Performance)
	assert.Equal(t, "Support", report.TeamAnalysis[1].Team)
	assert.Equal(t, domain.HealthNeedsAttention, report.TeamAnalysis[1].Performance)
}

func TestGenerateTeamPerformanceBands(t *testing.T) {
	svc := newTestReportService(&fakeReportRepo{})

	// Delayed counts out of 10 tickets: 10%, 30%, 50%.
	cases := []struct {
		delayed int
		want    string
	}{
		{1, domain.HealthGood},
		{3, domain.HealthNeedsAttention},
		{5, domain.HealthCritical},
	}
	for _, tc := range cases {
		mctx := domain.MonitorContext{
			ByTeam: map[string]*domain.GroupStats{
				"Platform": {Total: 10, Delayed: tc.delayed},
			},
		}
		report := svc.Generate(mctx, nil, nil)
		require.Len(t, report.TeamAnalysis, 1)
		assert.Equal(t, tc.want, report.TeamAnalysis[0].Performance, "%d of 10 delayed", tc.delayed)
	}
}

func TestGenerateEscalationAnalysis(t *testing.T) {
	svc := newTestReportService(&fakeReportRepo{})

	escalations := []domain.Escalation{
		{ID: "1", Level: 1}, {ID: "2", Level: 3}, {ID: "3", Level: 3},
	}
	report := svc.Generate(domain.MonitorContext{}, nil, escalations)

	analysis := report.EscalationAnalysis
	assert.Equal(t, 3, analysis.Total)
	assert.Equal(t, 3, analysis.HighestLevel)
	assert.Equal(t, 1, analysis.ByLevel[1])
	assert.Equal(t, 2, analysis.ByLevel[3])
	assert.Contains(t, analysis.Summary, "3 escalations")
}

func TestGenerateRecommendationsCapped(t *testing.T) {
	svc := newTestReportService(&fakeReportRepo{})

	mctx := domain.MonitorContext{
		TotalTickets: 60,
		ByTeam:       map[string]*domain.GroupStats{},
		ByPriority:   map[domain.TicketPriority]*domain.GroupStats{},
	}
	for _, team := range []string{"A", "B", "C", "D", "E", "F"} {
		mctx.ByTeam[team] = &domain.GroupStats{Total: 10, Delayed: 6}
	}

	report := svc.Generate(mctx, nil, nil)
	assert.Len(t, report.Recommendations, 5)
}

func TestGenerateRecommendationTriggers(t *testing.T) {
	svc := newTestReportService(&fakeReportRepo{})

	analyses := []domain.Analysis{
		{SeverityScore: 9}, {SeverityScore: 9}, {SeverityScore: 8}, {SeverityScore: 10},
	}
	report := svc.Generate(monitorContextFixture(), analyses, nil)

	joined := ""
	for _, rec := range report.Recommendations {
		joined += rec + "\n"
	}
	assert.Contains(t, joined, "Platform")
	assert.Contains(t, joined, "P1")
	assert.Contains(t, joined, "incident review")
	assert.NotContains(t, joined, "Support")
}

func TestGenerateEmptyInputs(t *testing.T) {
	svc := newTestReportService(&fakeReportRepo{})

	report := svc.Generate(domain.MonitorContext{}, nil, nil)

	assert.Equal(t, "2026-03-10", report.ReportDate)
	assert.Equal(t, domain.HealthGood, report.ExecutiveSummary.OverallHealth)
	assert.Zero(t, report.SLAPerformance.AvgSeverity)
	assert.Empty(t, report.CriticalIssues)
	assert.Empty(t, report.Recommendations)
	assert.Equal(t, "no escalations processed", report.EscalationAnalysis.Summary)
}

func TestGenerateSeverityHistogram(t *testing.T) {
	svc := newTestReportService(&fakeReportRepo{})

	analyses := []domain.Analysis{
		{SeverityScore: 0}, {SeverityScore: 5}, {SeverityScore: 5}, {SeverityScore: 10},
	}
	report := svc.Generate(domain.MonitorContext{}, analyses, nil)

	// Buckets run 1..10; a score-0 ticket lands in bucket 1.
	assert.NotContains(t, report.SeverityHistogram, 0)
	assert.Equal(t, 1, report.SeverityHistogram[1])
	assert.Equal(t, 2, report.SeverityHistogram[5])
	assert.Equal(t, 1, report.SeverityHistogram[10])

	total := 0
	for bucket, count := range report.SeverityHistogram {
		assert.GreaterOrEqual(t, bucket, 1)
		assert.LessOrEqual(t, bucket, 10)
		total += count
	}
	assert.Equal(t, len(analyses), total)
	assert.Len(t, report.SeverityHistogram, 10)
}

func TestPublishAndLatest(t *testing.T) {
	repo := &fakeReportRepo{}
	svc := newTestReportService(repo)

	report := svc.Generate(monitorContextFixture(), nil, nil)
	require.NoError(t, svc.Publish(context.Background(), report))
	require.Len(t, repo.saved, 1)

	latest, err := svc.Latest(context.Background())
	require.NoError(t, err)
	assert.Equal(t, report.ReportDate, latest.ReportDate)
}
