package reasoning

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sla-monitor/internal/config"
	"github.com/spec-kit/sla-monitor/internal/domain"
)

func countBandMessages(insights []string) int {
	bands := 0
	for _, insight := range insights {
		if strings.HasPrefix(insight, markerCritical+":") ||
			strings.HasPrefix(insight, markerHighRisk+":") ||
			strings.HasPrefix(insight, markerMediumRisk+":") {
			bands++
		}
	}
	return bands
}

func TestGenerateExactlyOneBandMessage(t *testing.T) {
	gen := NewInsightGenerator(config.DefaultScoring())
	ticket := baseTicket()

	for score := 4; score <= 10; score++ {
		insights := gen.Generate(ticket, score, domain.Context{})
		assert.Equal(t, 1, countBandMessages(insights), "score %d", score)
	}
}

func TestGenerateFallbackNormal(t *testing.T) {
	gen := NewInsightGenerator(config.DefaultScoring())

	insights := gen.Generate(baseTicket(), 2, domain.Context{})
	require.Len(t, insights, 1)
	assert.Contains(t, insights[0], markerNormal)
}

func TestGenerateSituationalInsights(t *testing.T) {
	gen := NewInsightGenerator(config.DefaultScoring())

	ticket := baseTicket()
	ticket.DelayMinutes = 150
	ctx := domain.Context{
		TeamLoadPercent: 130,
		Hour:            9,
		Recurring:       true,
		ActiveDelays:    2,
	}

	insights := gen.Generate(ticket, 9, ctx)

	joined := strings.Join(insights, "\n")
	assert.Contains(t, joined, markerCritical)
	assert.Contains(t, joined, markerExtended)
	assert.Contains(t, joined, "2h 30m")
	assert.Contains(t, joined, markerActiveDelays)
	assert.Contains(t, joined, markerTeamCapacity)
	assert.Contains(t, joined, markerPeakHour)
	assert.Contains(t, joined, markerRecurring)
}

func TestGenerateNeverEmpty(t *testing.T) {
	gen := NewInsightGenerator(config.DefaultScoring())
	for score := 0; score <= 10; score++ {
		insights := gen.Generate(baseTicket(), score, domain.Context{})
		assert.NotEmpty(t, insights, "score %d", score)
	}
}
