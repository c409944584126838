package reasoning

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sla-monitor/internal/config"
)

func TestRecommendBandActions(t *testing.T) {
	rec := NewActionRecommender(config.DefaultScoring())
	ticket := baseTicket()

	critical := rec.Recommend(ticket, 9, nil)
	require.NotEmpty(t, critical)
	assert.Contains(t, critical[0], "IMMEDIATE")

	high := rec.Recommend(ticket, 6, nil)
	require.NotEmpty(t, high)
	assert.Contains(t, high[0], "URGENT")

	normal := rec.Recommend(ticket, 1, nil)
	require.NotEmpty(t, normal)
	assert.Contains(t, normal[0], "monitoring")
}

func TestRecommendInsightTriggeredActions(t *testing.T) {
	rec := NewActionRecommender(config.DefaultScoring())
	ticket := baseTicket()

	insights := []string{
		"TEAM CAPACITY: assigned team at 130% load",
		"RECURRING PATTERN: similar issues for Order API occurred previously",
	}
	actions := rec.Recommend(ticket, 5, insights)

	joined := ""
	for _, action := range actions {
		joined += action + "\n"
	}
	assert.Contains(t, joined, "workload review")
	assert.Contains(t, joined, "root-cause meeting")
}

func TestRecommendCapsAtMaxActions(t *testing.T) {
	rec := NewActionRecommender(config.DefaultScoring())
	ticket := baseTicket()

	// Critical band (3) plus three insight triggers would exceed the cap.
	insights := []string{
		"TEAM CAPACITY: assigned team at 130% load",
		"RECURRING PATTERN: similar issues occurred previously",
		"PEAK HOUR: resolution may be delayed",
	}
	actions := rec.Recommend(ticket, 9, insights)

	assert.Len(t, actions, 5)
	// Band actions keep their position ahead of insight-triggered ones.
	assert.Contains(t, actions[0], "IMMEDIATE")
}

func TestRecommendBandChangesActionSet(t *testing.T) {
	rec := NewActionRecommender(config.DefaultScoring())
	ticket := baseTicket()

	critical := rec.Recommend(ticket, 9, nil)
	medium := rec.Recommend(ticket, 4, nil)
	assert.NotEqual(t, critical, medium)
}
