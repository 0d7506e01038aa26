package hosting

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/absra47/song-managment/src/features/catalog"
	"github.com/absra47/song-managment/src/features/config"
	"github.com/absra47/song-managment/src/features/enrichment"
	"github.com/absra47/song-managment/src/features/jobs"
	"github.com/absra47/song-managment/src/features/lyrics"
	"github.com/absra47/song-managment/src/features/metrics"
	"github.com/absra47/song-managment/src/song"
	"github.com/gofiber/fiber/v2"
)

// Server is the HTTP server for the application.
type Server struct {
	app  *fiber.App
	port uint32
}

// NewServer creates a new HTTP server.
func NewServer(cfg *config.Manager, catalogService *catalog.Service, lyricsService *lyrics.Service, enrichmentService *enrichment.Service, jobService *jobs.Service, m *metrics.Metrics) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			var fiberErr *fiber.Error
			switch {
			case errors.Is(err, song.ErrNotFound):
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "song not found"})
			case errors.Is(err, song.ErrDuplicateID):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "song id already exists"})
			case errors.As(err, &fiberErr):
				return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
			default:
				slog.Error("Internal Server Error", "error", err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
			}
		},
		AppName:               "Songs",
		DisableStartupMessage: true,
		EnablePrintRoutes:     cfg.Get().Server.PrintRoutes,
	})

	// Add middleware
	app.Use(RequestLoggerMiddleware(m))
	if cfg.Get().RateLimit.Enabled {
		app.Use(RateLimitMiddleware(cfg))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	catalog.RegisterRoutes(app, catalogService)
	lyrics.RegisterRoutes(app, lyrics.NewHandler(lyricsService))
	enrichment.RegisterRoutes(app, enrichmentService)
	jobs.RegisterRoutes(app, jobService)
	config.RegisterRoutes(app, cfg)
	metrics.RegisterRoutes(app, m)

	return &Server{app: app, port: cfg.Get().Server.Port}
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	return s.app.Listen(":" + fmt.Sprint(s.port))
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
