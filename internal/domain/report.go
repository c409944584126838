package domain

import "time"

// Health labels used by the executive summary and team analysis.
const (
	HealthGood           = "GOOD"
	HealthWarning        = "WARNING"
	HealthCritical       = "CRITICAL"
	HealthNeedsAttention = "NEEDS_ATTENTION"
)

// ExecutiveSummary is the headline section of a report.
type ExecutiveSummary struct {
	TotalTicketsMonitored int     `json:"total_tickets_monitored"`
	DelayedTickets        int     `json:"delayed_tickets"`
	DelayedPercentage     float64 `json:"delayed_percentage"`
	CriticalTickets       int     `json:"critical_tickets"`
	OverallHealth         string  `json:"overall_health"`
}

// SLAPerformance summarizes compliance over the analyzed set.
type SLAPerformance struct {
	WithinSLACount      int     `json:"within_sla_count"`
	WithinSLAPercentage float64 `json:"within_sla_percentage"`
	BreachedCount       int     `json:"breached_count"`
	BreachedPercentage  float64 `json:"breached_percentage"`
	AvgSeverity         float64 `json:"avg_severity"`
}

// CriticalIssue is one entry of the top critical-issue list.
type CriticalIssue struct {
	TicketID             string `json:"ticket_id"`
	Severity             int    `json:"severity"`
	TopInsight           string `json:"top_insight"`
	NeedsImmediateAction bool   `json:"needs_immediate_action"`
}

// TeamPerformance is the per-team section of a report.
type TeamPerformance struct {
	Team              string  `json:"team"`
	TotalTickets      int     `json:"total_tickets"`
	DelayedTickets    int     `json:"delayed_tickets"`
	DelayedPercentage float64 `json:"delayed_percentage"`
	Performance       string  `json:"performance"`
}

// EscalationAnalysis breaks processed escalations down by level.
type EscalationAnalysis struct {
	Total        int         `json:"total_escalations"`
	ByLevel      map[int]int `json:"by_level"`
	HighestLevel int         `json:"highest_level"`
	Summary      string      `json:"summary"`
}

// Report is the periodic operations report. It serializes to a flat record;
// consumers must tolerate additive new fields.
type Report struct {
	ReportDate         string             `json:"report_date"`
	GeneratedAt        time.Time          `json:"generated_at"`
	ExecutiveSummary   ExecutiveSummary   `json:"executive_summary"`
	SLAPerformance     SLAPerformance     `json:"sla_performance"`
	CriticalIssues     []CriticalIssue    `json:"critical_issues"`
	TeamAnalysis       []TeamPerformance  `json:"team_analysis"`
	EscalationAnalysis EscalationAnalysis `json:"escalation_analysis"`
	Recommendations    []string           `json:"recommendations"`
	SeverityHistogram  map[int]int        `json:"severity_histogram"`
}

// SLAMetrics is the aggregate row returned by the store's metrics query.
type SLAMetrics struct {
	TotalTickets    int     `json:"total_tickets"`
	WithinSLA       int     `json:"within_sla"`
	Breached        int     `json:"breached"`
	AtRisk          int     `json:"at_risk"`
	Delayed         int     `json:"delayed"`
	AvgDelayMinutes float64 `json:"avg_delay_minutes"`
	ComplianceRate  float64 `json:"compliance_rate"`
}
