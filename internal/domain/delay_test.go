package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidDelayTransitions(t *testing.T) {
	cases := []struct {
		from DelayStatus
		to   DelayStatus
		ok   bool
	}{
		{DelayStatusPending, DelayStatusInProgress, true},
		{DelayStatusInProgress, DelayStatusResolved, true},
		{DelayStatusInProgress, DelayStatusFailed, true},
		{DelayStatusPending, DelayStatusResolved, false},
		{DelayStatusResolved, DelayStatusInProgress, false},
		{DelayStatusFailed, DelayStatusPending, false},
		{DelayStatusPending, DelayStatusPending, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.ok, ValidDelayTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestDelayOpen(t *testing.T) {
	assert.True(t, Delay{Status: DelayStatusPending}.Open())
	assert.True(t, Delay{Status: DelayStatusInProgress}.Open())
	assert.False(t, Delay{Status: DelayStatusResolved}.Open())
	assert.False(t, Delay{Status: DelayStatusFailed}.Open())
}
