package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/checkpad/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Staff       *handlers.StaffHandler
	Cases       *handlers.CasesHandler
	Assignments *handlers.AssignmentsHandler
	Calendar    *handlers.CalendarHandler
	Audit       *handlers.AuditHandler
	Sync        *handlers.SyncHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")

	api.Get("/staff", cfg.Staff.List)
	api.Post("/staff", cfg.Staff.Create)
	api.Put("/staff", cfg.Staff.Update)
	api.Delete("/staff", cfg.Staff.Delete)

	api.Get("/maintenance-cases", cfg.Cases.List)
	api.Post("/maintenance-cases", cfg.Cases.Create)
	api.Put("/maintenance-cases", cfg.Cases.Update)
	api.Delete("/maintenance-cases", cfg.Cases.Delete)

	api.Get("/maintenance-case-staff", cfg.Assignments.List)
	api.Post("/maintenance-case-staff", cfg.Assignments.Create)
	api.Put("/maintenance-case-staff", cfg.Assignments.Update)
	api.Delete("/maintenance-case-staff", cfg.Assignments.Delete)

	api.Get("/calendar", cfg.Calendar.Year)
	api.Get("/audit", cfg.Audit.History)
	api.Get("/sync", cfg.Sync.Stream)
}
