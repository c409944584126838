package reasoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sla-monitor/internal/domain"
)

func analysesFor(service, team string, scores ...int) []domain.Analysis {
	out := make([]domain.Analysis, 0, len(scores))
	for i, score := range scores {
		out = append(out, domain.Analysis{
			TicketID:      "TKT-" + string(rune('A'+i)),
			ServiceName:   service,
			AssignedTeam:  team,
			SeverityScore: score,
		})
	}
	return out
}

func TestLearnPatternsRecurring(t *testing.T) {
	history := analysesFor("Payment Gateway", "Platform", 7, 8, 6, 9)
	table := LearnPatterns(history)

	stats, ok := table[PatternKey("Payment Gateway", "Platform")]
	require.True(t, ok)
	assert.Equal(t, 4, stats.Count)
	assert.InDelta(t, 7.5, stats.AvgSeverity, 0.001)
	assert.True(t, stats.Recurring)
}

func TestLearnPatternsRequiresBothConditions(t *testing.T) {
	// Frequent but mild.
	mild := LearnPatterns(analysesFor("Order API", "Support", 2, 3, 2, 3, 2))
	assert.False(t, mild[PatternKey("Order API", "Support")].Recurring)

	// Severe but rare.
	rare := LearnPatterns(analysesFor("Order API", "Support", 9, 10, 9))
	assert.False(t, rare[PatternKey("Order API", "Support")].Recurring)
}

func TestLearnPatternsKeyedByServiceAndTeam(t *testing.T) {
	history := append(
		analysesFor("Database Cluster", "Platform", 8, 8, 8, 8),
		analysesFor("Database Cluster", "Support", 2, 2)...,
	)
	table := LearnPatterns(history)

	assert.True(t, table[PatternKey("Database Cluster", "Platform")].Recurring)
	assert.False(t, table[PatternKey("Database Cluster", "Support")].Recurring)
	assert.Len(t, table, 2)
}

func TestLearnPatternsIdempotent(t *testing.T) {
	history := analysesFor("Security Scanner", "SecOps", 6, 7, 8, 6, 7)
	first := LearnPatterns(history)
	second := LearnPatterns(history)
	assert.Equal(t, first, second)
}

func TestLearnPatternsEmptyHistory(t *testing.T) {
	assert.Empty(t, LearnPatterns(nil))
}
