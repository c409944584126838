package reasoning

import (
	"github.com/spec-kit/sla-monitor/internal/domain"
)

// Recurrence rules: a (service, team) pair is recurring once it has been
// analyzed more than recurringMinCount times with an average severity
// above recurringMinSeverity.
const (
	recurringMinCount    = 3
	recurringMinSeverity = 5.0
)

// PatternKey derives the pattern table key for a (service, team) pair.
// It reads the service name field directly; ticket titles are never parsed.
func PatternKey(serviceName, team string) string {
	return serviceName + "|" + team
}

// LearnPatterns rebuilds the pattern table wholesale from analysis history.
// Recomputation is idempotent: the same history always yields the same table.
func LearnPatterns(history []domain.Analysis) map[string]domain.ServiceStats {
	type accumulator struct {
		count int
		total int
	}
	acc := make(map[string]*accumulator)

	for _, analysis := range history {
		key := PatternKey(analysis.ServiceName, analysis.AssignedTeam)
		entry, ok := acc[key]
		if !ok {
			entry = &accumulator{}
			acc[key] = entry
		}
		entry.count++
		entry.total += analysis.SeverityScore
	}

	table := make(map[string]domain.ServiceStats, len(acc))
	for key, entry := range acc {
		avg := float64(entry.total) / float64(entry.count)
		table[key] = domain.ServiceStats{
			Count:       entry.count,
			AvgSeverity: avg,
			Recurring:   entry.count > recurringMinCount && avg > recurringMinSeverity,
		}
	}
	return table
}
