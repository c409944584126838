package reasoning

import (
	"github.com/spec-kit/sla-monitor/internal/config"
	"github.com/spec-kit/sla-monitor/internal/domain"
)

// Severity score bounds. The additive factor table sums to more than
// MaxSeverity, so the final clamp is load-bearing.
const (
	MinSeverity = 0
	MaxSeverity = 10
)

var priorityScores = map[domain.TicketPriority]int{
	domain.TicketPriorityP1: 4,
	domain.TicketPriorityP2: 3,
	domain.TicketPriorityP3: 2,
	domain.TicketPriorityP4: 1,
	domain.TicketPriorityP5: 0,
}

var slaStatusScores = map[domain.SLAStatus]int{
	domain.SLABreached:  4,
	domain.SLAAtRisk:    3,
	domain.SLADelayed:   2,
	domain.SLAWithinSLA: 0,
}

var tierScores = map[domain.CustomerTier]int{
	domain.TierPlatinum:   2,
	domain.TierEnterprise: 1,
	domain.TierPremium:    1,
	domain.TierBasic:      0,
}

// Scorer computes severity scores from ticket facts and situational
// context. It is a pure, deterministic, total function: absent fields
// fall back to documented defaults and never produce an error.
type Scorer struct {
	cfg config.ScoringConfig
}

// NewScorer constructs a scorer with the given rule configuration.
func NewScorer(cfg config.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score returns an integer severity in [0, 10].
func (s *Scorer) Score(ticket domain.Ticket, ctx domain.Context) int {
	score := 0

	score += priorityScores[ticket.EffectivePriority()]
	score += slaStatusScores[ticket.EffectiveSLAStatus()]

	switch {
	case ticket.DelayMinutes > 240:
		score += 2
	case ticket.DelayMinutes > 60:
		score += 1
	}

	score += tierScores[ticket.EffectiveTier()]

	if s.cfg.CriticalService(ticket.ServiceName) {
		score += 1
	}

	switch {
	case ctx.TeamLoadPercent > s.cfg.TeamLoadHigh:
		score += 2
	case ctx.TeamLoadPercent > s.cfg.TeamLoadElevated:
		score += 1
	}

	return clampSeverity(score)
}

func clampSeverity(score int) int {
	if score < MinSeverity {
		return MinSeverity
	}
	if score > MaxSeverity {
		return MaxSeverity
	}
	return score
}
