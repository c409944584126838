package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sla-monitor/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Tickets     *handlers.TicketsHandler
	Analysis    *handlers.AnalysisHandler
	Escalations *handlers.EscalationsHandler
	Reports     *handlers.ReportsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	tickets := app.Group("/tickets")
	tickets.Post("/", cfg.Tickets.CreateTicket)
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Patch("/:id/status", cfg.Tickets.UpdateStatus)

	analysis := app.Group("/analysis")
	analysis.Get("/sla-metrics", cfg.Analysis.SLAMetrics)
	analysis.Get("/counters", cfg.Analysis.Counters)
	analysis.Get("/tickets/:id", cfg.Analysis.AnalyzeTicket)
	analysis.Post("/run", cfg.Analysis.RunCycle)

	escalations := app.Group("/escalations")
	escalations.Get("/active", cfg.Escalations.ListActive)
	escalations.Post("/check", cfg.Escalations.Check)
	escalations.Post("/:ticket_id/reescalate", cfg.Escalations.Reescalate)
	escalations.Post("/:ticket_id/resolve", cfg.Escalations.Resolve)

	app.Get("/reports/latest", cfg.Reports.Latest)
}
