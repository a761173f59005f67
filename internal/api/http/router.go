package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/event-ticketing/internal/api/http/handlers"
	"github.com/spec-kit/event-ticketing/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Events         *handlers.EventsHandler
	Tickets        *handlers.TicketsHandler
	Orders         *handlers.OrdersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes. Authentication is decided per route,
// never by inspecting request payloads: login and health probes are
// open, everything else sits behind the auth middleware.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	protected.Get("/events", cfg.Events.List)
	protected.Get("/events/:id", cfg.Events.Get)
	protected.Post("/events", cfg.Events.Create)
	protected.Put("/events/:id", cfg.Events.Update)
	protected.Delete("/events/:id", cfg.Events.Delete)

	protected.Post("/tickets", cfg.Tickets.Create)
	protected.Post("/tickets/:id/replenish", cfg.Tickets.Replenish)
	protected.Delete("/tickets/:id", cfg.Tickets.Delete)

	protected.Post("/orders", cfg.Orders.Create)
	protected.Get("/orders", cfg.Orders.List)
}
