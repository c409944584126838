package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sla-monitor/internal/observability"
	"github.com/spec-kit/sla-monitor/internal/service"
)

// AnalysisHandler exposes scoring and cycle endpoints.
type AnalysisHandler struct {
	monitor *service.MonitorService
	metrics *observability.Metrics
}

// NewAnalysisHandler constructs handler.
func NewAnalysisHandler(monitor *service.MonitorService, metrics *observability.Metrics) *AnalysisHandler {
	return &AnalysisHandler{monitor: monitor, metrics: metrics}
}

// AnalyzeTicket GET /analysis/tickets/:id.
func (h *AnalysisHandler) AnalyzeTicket(c *fiber.Ctx) error {
	analysis, err := h.monitor.AnalyzeTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": analysis})
}

// RunCycle POST /analysis/run.
func (h *AnalysisHandler) RunCycle(c *fiber.Ctx) error {
	result, err := h.monitor.RunAnalysisCycle(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// SLAMetrics GET /analysis/sla-metrics.
func (h *AnalysisHandler) SLAMetrics(c *fiber.Ctx) error {
	daysBack := 7
	if raw := c.Query("days"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			daysBack = parsed
		}
	}
	metrics, err := h.monitor.SLAMetrics(c.UserContext(), daysBack)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": metrics})
}

// Counters GET /analysis/counters.
func (h *AnalysisHandler) Counters(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}
