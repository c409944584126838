package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sla-monitor/internal/api/dto"
	"github.com/spec-kit/sla-monitor/internal/service"
	apperrors "github.com/spec-kit/sla-monitor/pkg/util"
)

// EscalationsHandler exposes escalation lifecycle endpoints.
type EscalationsHandler struct {
	escalations *service.EscalationService
	monitor     *service.MonitorService
}

// NewEscalationsHandler constructs handler.
func NewEscalationsHandler(escalations *service.EscalationService, monitor *service.MonitorService) *EscalationsHandler {
	return &EscalationsHandler{escalations: escalations, monitor: monitor}
}

// ListActive GET /escalations/active.
func (h *EscalationsHandler) ListActive(c *fiber.Ctx) error {
	active, err := h.escalations.Active(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.EscalationResponse, 0, len(active))
	for i := range active {
		items = append(items, dto.FromEscalation(&active[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Check POST /escalations/check.
func (h *EscalationsHandler) Check(c *fiber.Ctx) error {
	escalated, err := h.monitor.CheckEscalations(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.EscalationResponse, 0, len(escalated))
	for i := range escalated {
		items = append(items, dto.FromEscalation(&escalated[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Reescalate POST /escalations/:ticket_id/reescalate.
func (h *EscalationsHandler) Reescalate(c *fiber.Ctx) error {
	var req dto.ReescalateRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	esc, err := h.escalations.Reescalate(c.UserContext(), c.Params("ticket_id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromEscalation(esc)})
}

// Resolve POST /escalations/:ticket_id/resolve.
func (h *EscalationsHandler) Resolve(c *fiber.Ctx) error {
	esc, err := h.escalations.Resolve(c.UserContext(), c.Params("ticket_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromEscalation(esc)})
}
