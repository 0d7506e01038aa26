package catalog

import (
	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes registers the routes for the catalog feature.
func RegisterRoutes(app *fiber.App, service *Service) {
	handler := NewHandler(service)

	songs := app.Group("/api/songs")
	songs.Post("/", handler.AddSong)
	songs.Get("/", handler.GetSongs)
	songs.Get("/:id", handler.GetSong)
	songs.Put("/:id", handler.UpdateSong)
	songs.Patch("/:id/metadata", handler.PatchMetadata)
	songs.Patch("/:id", handler.PatchSong)
	songs.Delete("/:id", handler.DeleteSong)
}
