package reasoning

import (
	"github.com/spec-kit/sla-monitor/internal/config"
	"github.com/spec-kit/sla-monitor/internal/domain"
)

// Classifier maps a severity score to an escalation level and decides
// whether escalation is needed. The trigger threshold is independent of
// the level table even though the defaults align at the level-2 boundary.
type Classifier struct {
	cfg config.EscalationConfig
}

// NewClassifier constructs a classifier with the given thresholds.
func NewClassifier(cfg config.EscalationConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Classify returns (level in [0,3], needs_escalation).
func (c *Classifier) Classify(score int) (int, bool) {
	level := 0
	switch {
	case score >= c.cfg.Level3Threshold:
		level = 3
	case score >= c.cfg.Level2Threshold:
		level = 2
	case score >= c.cfg.Level1Threshold:
		level = 1
	}
	return level, score >= c.cfg.TriggerThreshold
}

// RiskLevel returns the qualitative risk label for a score.
func (c *Classifier) RiskLevel(score int) domain.RiskLevel {
	switch {
	case score >= 8:
		return domain.RiskHigh
	case score >= 5:
		return domain.RiskMedium
	}
	return domain.RiskLow
}

// DeriveSLALabel maps the analysis outcome to a reporting label. High
// scores override the stored SLA status; otherwise the stored status
// passes through.
func (c *Classifier) DeriveSLALabel(ticket domain.Ticket, score int) string {
	switch {
	case score >= bandCritical:
		return "critical_breach"
	case score >= bandHigh:
		return "high_risk"
	case score >= bandMedium:
		return "medium_risk"
	}
	return string(ticket.EffectiveSLAStatus())
}
