package http

import (
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/support-engine/internal/api/http/handlers"
	"github.com/spec-kit/support-engine/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Tickets        *handlers.TicketsHandler
	Templates      *handlers.TemplatesHandler
	WS             *handlers.WSHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/ws", cfg.AuthMiddleware.Handle, cfg.WS.Upgrade, websocket.New(cfg.WS.Serve))

	api := app.Group("/api/v1", cfg.AuthMiddleware.Handle, auth.RequireAnyActor())

	tickets := api.Group("/tickets")
	tickets.Get("/", cfg.Tickets.ListTickets)
	tickets.Post("/", auth.RequireMerchant(), cfg.Tickets.CreateTicket)
	tickets.Get("/:id", cfg.Tickets.GetTicket)
	tickets.Post("/:id/messages", cfg.Tickets.AddMessage)
	tickets.Patch("/:id/status", auth.RequireAdmin(), cfg.Tickets.SetStatus)
	tickets.Get("/:id/transcript", cfg.Tickets.ExportTranscript)

	admin := api.Group("", auth.RequireAdmin())
	admin.Get("/templates", cfg.Templates.List)
	admin.Put("/templates", cfg.Templates.Upsert)
	admin.Delete("/templates/:title", cfg.Templates.Delete)
	admin.Get("/settings/auto-reply", cfg.Templates.GetAutoReply)
	admin.Put("/settings/auto-reply", cfg.Templates.SetAutoReply)
}
