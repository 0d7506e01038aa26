package lyrics

import (
	"errors"
	"log/slog"

	"github.com/absra47/song-managment/src/song"
	"github.com/gofiber/fiber/v2"
)

// Handler handles lyrics requests.
type Handler struct {
	service *Service
}

// NewHandler creates a new lyrics handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// GetLyrics resolves lyrics by artist and song title query parameters.
// Upstream failures are reported as 404 like a plain miss; the distinction
// only shows up in logs and metrics.
func (h *Handler) GetLyrics(c *fiber.Ctx) error {
	artist := c.Query("artist")
	title := c.Query("song")
	if artist == "" || title == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "artist and song query parameters are required",
		})
	}

	text, err := h.service.Resolve(c.Context(), artist, title)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.Error("Lyrics resolution failed", "artist", artist, "song", title, "error", err)
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "lyrics not found",
		})
	}

	return c.JSON(fiber.Map{
		"title":  title,
		"artist": artist,
		"lyrics": text,
	})
}

// GetSongLyrics resolves lyrics for a stored song by id.
func (h *Handler) GetSongLyrics(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid song id"})
	}

	record, text, err := h.service.ResolveForSong(c.Context(), int64(id))
	if err != nil {
		if errors.Is(err, song.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "song not found"})
		}
		if !errors.Is(err, ErrNotFound) {
			slog.Error("Lyrics resolution failed", "songID", id, "error", err)
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "lyrics not found"})
	}

	return c.JSON(fiber.Map{
		"title":  record.Title,
		"artist": record.Artist,
		"lyrics": text,
	})
}
