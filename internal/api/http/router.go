package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-desk/internal/api/http/handlers"
	"github.com/spec-kit/support-desk/internal/auth"
	"github.com/spec-kit/support-desk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Agents         *handlers.AgentsHandler
	Analytics      *handlers.AnalyticsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health", cfg.Health.Health)

	// Issuer-facing intake and credential recovery stay public.
	app.Post("/tickets", cfg.Tickets.LaunchTicket)
	app.Post("/auth/login", cfg.Agents.Login)
	app.Post("/auth/password/forgot", cfg.Agents.ForgotPassword)
	app.Post("/auth/password/reset", cfg.Agents.ResetPassword)

	staff := app.Group("", cfg.AuthMiddleware.Handle)

	agents := staff.Group("", auth.RequireRole(domain.AgentRoleAgent, domain.AgentRoleAdmin))
	agents.Put("/tickets/status", cfg.Tickets.UpdateTicket)
	agents.Get("/tickets/mine", cfg.Tickets.MyTickets)
	agents.Get("/tickets/notifications", cfg.Tickets.Notifications)
	agents.Get("/agents/profile", cfg.Agents.Profile)
	agents.Put("/agents/profile", cfg.Agents.EditProfile)
	agents.Get("/analytics/stats", cfg.Analytics.MyStats)
	agents.Get("/analytics/tickets/:id", cfg.Analytics.Analysis)
	agents.Get("/analytics/tickets/:id/replies", cfg.Analytics.Replies)

	admins := staff.Group("", auth.RequireRole(domain.AgentRoleAdmin))
	admins.Post("/agents", cfg.Agents.CreateAgent)
	admins.Post("/agents/admins", cfg.Agents.CreateAdmin)
	admins.Get("/agents", cfg.Agents.List)
	admins.Delete("/agents/:id", cfg.Agents.Delete)
	admins.Get("/analytics/system", cfg.Analytics.System)
	admins.Get("/analytics/statistics", cfg.Analytics.Statistics)
}
