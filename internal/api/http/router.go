package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/authz"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Roles          *handlers.RolesHandler
	Users          *handlers.UsersHandler
	SerialNumbers  *handlers.SerialNumbersHandler
	InventoryItems *handlers.InventoryItemsHandler
	ActivityLogs   *handlers.ActivityLogsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Post("/password/forgot", cfg.Auth.ForgotPassword)
	authGroup.Post("/password/reset", cfg.Auth.ResetPassword)

	protected := api.Group("", cfg.AuthMiddleware.Handle)

	tickets := protected.Group("/tickets")
	tickets.Get("", auth.RequirePermission(authz.ViewTicket), cfg.Tickets.ListTickets)
	tickets.Post("", auth.RequirePermission(authz.CreateTicket), cfg.Tickets.CreateTicket)
	tickets.Get("/:id", auth.RequirePermission(authz.ViewTicket), cfg.Tickets.GetTicket)
	tickets.Patch("/:id", auth.RequirePermission(authz.UpdateTicket), cfg.Tickets.UpdateTicket)
	tickets.Post("/:id/assign", auth.RequirePermission(authz.AssignTicket), cfg.Tickets.AssignTicket)
	tickets.Post("/:id/approve", auth.RequirePermission(authz.ApproveTicket), cfg.Tickets.ApproveTicket)
	tickets.Post("/:id/comments", auth.RequirePermission(authz.ViewTicket), cfg.Tickets.AddComment)
	tickets.Post("/:id/attachments", auth.RequirePermission(authz.UpdateTicket), cfg.Tickets.AddAttachments)
	tickets.Get("/:id/assignment-history", auth.RequirePermission(authz.ViewTicket), cfg.Tickets.AssignmentHistory)

	roles := protected.Group("/roles")
	roles.Get("", auth.RequirePermission(authz.ViewRole), cfg.Roles.ListRoles)
	roles.Post("", auth.RequirePermission(authz.CreateRole), cfg.Roles.CreateRole)
	roles.Get("/:id", auth.RequirePermission(authz.ViewRole), cfg.Roles.GetRole)
	roles.Patch("/:id", auth.RequirePermission(authz.UpdateRole), cfg.Roles.UpdateRole)
	roles.Delete("/:id", auth.RequirePermission(authz.DeleteRole), cfg.Roles.DeleteRole)

	protected.Get("/permissions", auth.RequirePermission(authz.ViewRole), cfg.Roles.ListPermissions)

	users := protected.Group("/users")
	users.Get("", auth.RequirePermission(authz.ViewUser), cfg.Users.ListUsers)
	users.Post("", auth.RequirePermission(authz.CreateUser), cfg.Users.CreateUser)
	users.Get("/:id", auth.RequirePermission(authz.ViewUser), cfg.Users.GetUser)
	users.Patch("/:id", auth.RequirePermission(authz.UpdateUser), cfg.Users.UpdateUser)

	items := protected.Group("/inventory-items")
	items.Get("", auth.RequirePermission(authz.ViewItem), cfg.InventoryItems.ListItems)
	items.Post("", auth.RequirePermission(authz.CreateItem), cfg.InventoryItems.CreateItem)
	items.Get("/:id", auth.RequirePermission(authz.ViewItem), cfg.InventoryItems.GetItem)

	serials := protected.Group("/serial-numbers")
	serials.Get("", auth.RequirePermission(authz.ViewItem), cfg.SerialNumbers.ListSerialNumbers)
	serials.Post("", auth.RequirePermission(authz.ManageInventory), cfg.SerialNumbers.CreateSerialNumbers)
	serials.Get("/inventory/:itemID", auth.RequirePermission(authz.ViewItem), cfg.SerialNumbers.ListByItem)
	serials.Get("/:id", auth.RequirePermission(authz.ViewItem), cfg.SerialNumbers.GetSerialNumber)
	serials.Patch("/:id", auth.RequirePermission(authz.ManageInventory), cfg.SerialNumbers.UpdateSerialNumber)
	serials.Delete("/:id", auth.RequirePermission(authz.ManageInventory), cfg.SerialNumbers.DeleteSerialNumber)

	protected.Get("/activity-logs", auth.RequirePermission(authz.ViewActivityLogs), cfg.ActivityLogs.ListActivityLogs)
}
