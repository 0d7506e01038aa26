package config

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the config routes with the Fiber app.
func RegisterRoutes(app *fiber.App, manager *Manager) {
	handler := NewHandler(manager)

	api := app.Group("/api")
	api.Get("/config", handler.GetConfig)
}
