package lyrics

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers lyrics routes.
func RegisterRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")
	api.Get("/lyrics", handler.GetLyrics)
	api.Get("/songs/:id/lyrics", handler.GetSongLyrics)
}
