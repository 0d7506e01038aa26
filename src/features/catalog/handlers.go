package catalog

import (
	"errors"
	"log/slog"

	"github.com/absra47/song-managment/src/song"
	"github.com/gofiber/fiber/v2"
)

// Handler is the handler for the catalog feature.
type Handler struct {
	service *Service
}

// NewHandler creates a new handler for the catalog feature.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// AddSong is the handler for creating a song. Clients may supply an id;
// a taken id is rejected rather than silently reassigned.
func (h *Handler) AddSong(c *fiber.Ctx) error {
	var record song.Song
	if err := c.BodyParser(&record); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if err := record.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	added, err := h.service.AddSong(c.Context(), &record)
	if err != nil {
		if errors.Is(err, song.ErrDuplicateID) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "song id already exists"})
		}
		slog.Error("Error adding song", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to add song"})
	}

	return c.Status(fiber.StatusCreated).JSON(added)
}

// GetSongs is the handler for listing songs, paginated and optionally
// filtered by a free-text query over title, artist, album and genre.
func (h *Handler) GetSongs(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}
	offset := (page - 1) * limit
	query := c.Query("q")

	var (
		songs      []*song.Song
		totalCount int
		err        error
	)
	if query != "" {
		songs, err = h.service.SearchSongs(c.Context(), query, limit, offset)
		if err == nil {
			totalCount, err = h.service.SearchSongsCount(c.Context(), query)
		}
	} else {
		songs, err = h.service.GetSongsPaginated(c.Context(), limit, offset)
		if err == nil {
			totalCount, err = h.service.GetSongsCount(c.Context())
		}
	}
	if err != nil {
		slog.Error("Error loading songs", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load songs"})
	}

	return c.JSON(fiber.Map{
		"songs": songs,
		"pagination": fiber.Map{
			"page":       page,
			"limit":      limit,
			"totalCount": totalCount,
			"totalPages": (totalCount + limit - 1) / limit,
		},
	})
}

// GetSong is the handler for fetching a single song.
func (h *Handler) GetSong(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid song id"})
	}

	record, err := h.service.GetSong(c.Context(), int64(id))
	if err != nil {
		if errors.Is(err, song.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "song not found"})
		}
		slog.Error("Error loading song", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to load song"})
	}

	return c.JSON(record)
}

// UpdateSong is the handler for a full replace. The body's id, when set,
// must match the path id.
func (h *Handler) UpdateSong(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid song id"})
	}

	var record song.Song
	if err := c.BodyParser(&record); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if record.ID != 0 && record.ID != int64(id) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "body id does not match path id"})
	}
	record.ID = int64(id)
	if err := record.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	updated, err := h.service.UpdateSong(c.Context(), &record)
	if err != nil {
		if errors.Is(err, song.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "song not found"})
		}
		slog.Error("Error updating song", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update song"})
	}

	return c.JSON(updated)
}

// PatchSong is the handler for a partial update of the plain fields.
func (h *Handler) PatchSong(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid song id"})
	}

	var update song.Update
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	patched, err := h.service.PatchSong(c.Context(), int64(id), update)
	if err != nil {
		if errors.Is(err, song.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "song not found"})
		}
		slog.Error("Error patching song", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update song"})
	}

	return c.JSON(patched)
}

// PatchMetadata is the handler for writing the enriched metadata fields
// directly, without going through an enrichment job.
func (h *Handler) PatchMetadata(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid song id"})
	}

	var update song.MetadataUpdate
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	updated, err := h.service.ApplyMetadata(c.Context(), int64(id), update)
	if err != nil {
		if errors.Is(err, song.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "song not found"})
		}
		slog.Error("Error applying metadata", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to update metadata"})
	}

	return c.JSON(updated)
}

// DeleteSong is the handler for removing a song.
func (h *Handler) DeleteSong(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid song id"})
	}

	if err := h.service.DeleteSong(c.Context(), int64(id)); err != nil {
		if errors.Is(err, song.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "song not found"})
		}
		slog.Error("Error deleting song", "id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to delete song"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}
