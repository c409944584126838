package domain

import "time"

// RiskLevel is the qualitative label attached to a severity score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// Analysis is the per-ticket output of the reasoning engine. It is derived
// data; it is only persisted when explicitly saved to session history.
type Analysis struct {
	TicketID           string    `json:"ticket_id"`
	TicketTitle        string    `json:"ticket_title"`
	ServiceName        string    `json:"service_name"`
	AssignedTeam       string    `json:"assigned_team"`
	SeverityScore      int       `json:"severity_score"`
	SLAStatusLabel     string    `json:"sla_status"`
	Insights           []string  `json:"insights"`
	RecommendedActions []string  `json:"recommended_actions"`
	NeedsEscalation    bool      `json:"needs_escalation"`
	EscalationLevel    int       `json:"escalation_level"`
	RiskLevel          RiskLevel `json:"risk_level"`
	AnalyzedAt         time.Time `json:"analysis_timestamp"`
}

// Context is the ephemeral situational input to a single analysis run.
// It is rebuilt per run and never persisted.
type Context struct {
	TeamLoadPercent int
	Recurring       bool
	Hour            int
	ActiveDelays    int
}

// ServiceStats holds the pattern learner's per (service, team) statistics.
type ServiceStats struct {
	Count       int     `json:"count"`
	AvgSeverity float64 `json:"avg_severity"`
	Recurring   bool    `json:"recurring"`
}

// BatchResult rolls per-ticket analyses into fleet-level statistics.
type BatchResult struct {
	TotalAnalyzed     int        `json:"total_tickets_analyzed"`
	CriticalTickets   int        `json:"critical_tickets"`
	HighRiskTickets   int        `json:"high_risk_tickets"`
	EscalationsNeeded int        `json:"escalations_needed"`
	AvgSeverity       float64    `json:"avg_severity_score"`
	TopIssues         []Analysis `json:"top_issues"`
	Insights          []string   `json:"insights"`
}

// GroupStats counts total and delayed tickets within one grouping bucket.
type GroupStats struct {
	Total   int `json:"total"`
	Delayed int `json:"delayed"`
}

// TimePatterns summarizes deadline pressure across a ticket set.
type TimePatterns struct {
	Breached       int `json:"breached_within_1_hour"`
	AtRisk         int `json:"at_risk_next_2_hours"`
	DelayedOver24h int `json:"delayed_over_24_hours"`
}

// MonitorContext is the fleet-level context built before a batch run and
// consumed by the report generator.
type MonitorContext struct {
	TotalTickets      int                            `json:"total_tickets"`
	DelayedTickets    int                            `json:"delayed_tickets_count"`
	DelayedPercentage float64                        `json:"delayed_percentage"`
	ByPriority        map[TicketPriority]*GroupStats `json:"by_priority"`
	ByService         map[string]*GroupStats         `json:"by_service"`
	ByTeam            map[string]*GroupStats         `json:"by_team"`
	AvgDelayMinutes   float64                        `json:"avg_delay_minutes"`
	TimePatterns      TimePatterns                   `json:"time_analysis"`
}
