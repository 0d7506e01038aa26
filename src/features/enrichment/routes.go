package enrichment

import "github.com/gofiber/fiber/v2"

// RegisterRoutes wires the enrichment endpoint under the songs API.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)
	app.Post("/api/songs/:id/enrich", handler.EnrichSong)
}
