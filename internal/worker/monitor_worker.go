package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/sla-monitor/internal/service"
)

// MonitorWorker runs the analysis cycle on a fixed interval until its
// context is cancelled. One cycle runs immediately on start.
type MonitorWorker struct {
	monitor  *service.MonitorService
	interval time.Duration
	logger   *zap.Logger
}

// NewMonitorWorker constructs the worker.
func NewMonitorWorker(monitor *service.MonitorService, interval time.Duration, logger *zap.Logger) *MonitorWorker {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &MonitorWorker{monitor: monitor, interval: interval, logger: logger}
}

// Run blocks until ctx is cancelled.
func (w *MonitorWorker) Run(ctx context.Context) {
	w.logger.Info("monitor worker started", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("monitor worker stopped")
			return
		case <-ticker.C:
			w.runCycle(ctx)
		}
	}
}

func (w *MonitorWorker) runCycle(ctx context.Context) {
	start := time.Now()
	result, err := w.monitor.RunAnalysisCycle(ctx)
	if err != nil {
		w.logger.Error("analysis cycle failed", zap.Error(err))
		return
	}
	w.logger.Info("analysis cycle finished",
		zap.Duration("took", time.Since(start)),
		zap.Int("tickets", result.Batch.TotalAnalyzed),
		zap.Int("escalations", len(result.Escalations)),
		zap.Strings("warnings", result.Warnings))
}
