package enrichment

import (
	"errors"
	"log/slog"

	"github.com/absra47/song-managment/src/song"
	"github.com/gofiber/fiber/v2"
)

// Handler handles enrichment scheduling requests.
type Handler struct {
	service *Service
}

// NewHandler creates a new enrichment handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// EnrichSong schedules an enrichment job for a song and returns 202
// immediately. The caller gets a job id to poll; there is no way to cancel
// once accepted other than the generic job cancel endpoint.
func (h *Handler) EnrichSong(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid song id"})
	}

	jobID, err := h.service.ScheduleEnrichment(c.Context(), int64(id))
	if err != nil {
		switch {
		case errors.Is(err, song.ErrNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "song not found"})
		case errors.Is(err, ErrDisabled):
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "enrichment is disabled"})
		default:
			slog.Error("Failed to schedule enrichment", "songID", id, "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to schedule enrichment"})
		}
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"job_id": jobID,
		"status": "accepted",
	})
}
