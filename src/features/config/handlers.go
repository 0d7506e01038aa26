package config

import (
	"github.com/gofiber/fiber/v2"
)

// Handler exposes the running configuration over the API.
type Handler struct {
	manager *Manager
}

// NewHandler creates a new config handler.
func NewHandler(manager *Manager) *Handler {
	return &Handler{manager: manager}
}

// GetConfig returns the current configuration with secrets redacted.
func (h *Handler) GetConfig(c *fiber.Ctx) error {
	c.Set("Content-Type", "application/json")
	return c.SendString(h.manager.GetJSON())
}
