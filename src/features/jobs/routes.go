package jobs

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers job inspection routes.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	api := app.Group("/api/jobs")
	api.Get("/", handler.HandleJobList)
	api.Get("/:id", handler.HandleJobStatus)
	api.Get("/:id/logs", handler.HandleJobLogs)
	api.Post("/:id/cancel", handler.HandleCancelJob)
}
