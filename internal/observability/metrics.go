package observability

import (
	"sync"
)

// Metrics provides basic in-memory counters for the analysis pipeline.
type Metrics struct {
	mu               sync.Mutex
	analyzedTickets  int64
	escalationsMade  int64
	reportsGenerated int64
	storeFailures    map[string]int64
	severityTotals   map[int]int64
	httpErrors       map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		storeFailures:  make(map[string]int64),
		severityTotals: make(map[int]int64),
		httpErrors:     make(map[string]int64),
	}
}

// RecordAnalysis counts one completed ticket analysis.
func (m *Metrics) RecordAnalysis(severity int) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analyzedTickets++
	m.severityTotals[severity]++
}

// RecordEscalation counts one emitted escalation record.
func (m *Metrics) RecordEscalation() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.escalationsMade++
}

// RecordReport counts one generated report.
func (m *Metrics) RecordReport() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reportsGenerated++
}

// RecordStoreFailure counts a degraded store operation by name.
func (m *Metrics) RecordStoreFailure(op string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.storeFailures[op]++
}

// RecordError counts a failed HTTP request by error code.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.httpErrors[code]++
}

// Snapshot returns a copy of current counter values.
func (m *Metrics) Snapshot() map[string]int64 {
	if m == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]int64{
		"analyzed_tickets":  m.analyzedTickets,
		"escalations_made":  m.escalationsMade,
		"reports_generated": m.reportsGenerated,
	}
	for op, count := range m.storeFailures {
		out["store_failures."+op] = count
	}
	for code, count := range m.httpErrors {
		out["http_errors."+code] = count
	}
	return out
}
