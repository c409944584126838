package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultScoring(t *testing.T) {
	cfg := DefaultScoring()

	assert.Equal(t, []string{"Database", "Security", "Payment"}, cfg.CriticalServices)
	assert.Equal(t, []int{9, 10, 14, 15}, cfg.PeakHours)
	assert.Equal(t, 150, cfg.TeamLoadHigh)
	assert.Equal(t, 100, cfg.TeamLoadElevated)
	assert.Equal(t, 10, cfg.TeamCapacity)
	assert.Equal(t, 5, cfg.MaxActions)
}

func TestDefaultEscalation(t *testing.T) {
	cfg := DefaultEscalation()

	assert.Equal(t, 7, cfg.TriggerThreshold)
	assert.Equal(t, 5, cfg.Level1Threshold)
	assert.Equal(t, 7, cfg.Level2Threshold)
	assert.Equal(t, 9, cfg.Level3Threshold)
}

func TestPeakHour(t *testing.T) {
	cfg := DefaultScoring()

	assert.True(t, cfg.PeakHour(9))
	assert.True(t, cfg.PeakHour(15))
	assert.False(t, cfg.PeakHour(3))
	assert.False(t, cfg.PeakHour(12))
}

func TestCriticalServiceSubstringMatch(t *testing.T) {
	cfg := DefaultScoring()

	assert.True(t, cfg.CriticalService("Payment Gateway"))
	assert.True(t, cfg.CriticalService("Core Database Cluster"))
	assert.False(t, cfg.CriticalService("Order API"))
	assert.False(t, cfg.CriticalService(""))
}

func TestMergeRulesFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	content := []byte(`
scoring:
  critical_services: ["Billing"]
  team_load_high: 200
escalation:
  trigger_threshold: 8
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg := &Config{Scoring: DefaultScoring(), Escalation: DefaultEscalation()}
	cfg.Scoring.RulesFile = path
	require.NoError(t, mergeRulesFile(cfg, path))

	assert.Equal(t, []string{"Billing"}, cfg.Scoring.CriticalServices)
	assert.Equal(t, 200, cfg.Scoring.TeamLoadHigh)
	// Untouched keys keep their defaults.
	assert.Equal(t, 100, cfg.Scoring.TeamLoadElevated)
	assert.Equal(t, 8, cfg.Escalation.TriggerThreshold)
	assert.Equal(t, 9, cfg.Escalation.Level3Threshold)
}

func TestMergeRulesFileMissing(t *testing.T) {
	cfg := &Config{Scoring: DefaultScoring(), Escalation: DefaultEscalation()}
	assert.Error(t, mergeRulesFile(cfg, filepath.Join(t.TempDir(), "absent.yaml")))
}

func TestAppConfigHelpers(t *testing.T) {
	app := AppConfig{Host: "127.0.0.1", Port: "9090", RequestTimeoutSeconds: 15, RefreshIntervalSeconds: 60}

	assert.Equal(t, "127.0.0.1:9090", app.Addr())
	assert.Equal(t, "15s", app.RequestTimeout().String())
	assert.Equal(t, "1m0s", app.RefreshInterval().String())
}
