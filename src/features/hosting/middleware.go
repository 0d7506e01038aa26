package hosting

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/absra47/song-managment/src/features/config"
	"github.com/absra47/song-managment/src/features/metrics"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/time/rate"
)

// RequestLoggerMiddleware logs every request and feeds the request counter.
func RequestLoggerMiddleware(m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		route := c.Route().Path
		m.HTTPRequests.WithLabelValues(c.Method(), route, fmt.Sprint(status)).Inc()

		if status >= 400 {
			slog.Error("HTTP request",
				"method", c.Method(),
				"path", c.Path(),
				"status", status,
				"duration", duration.String(),
				"error", err,
			)
		} else {
			slog.Debug("HTTP request",
				"method", c.Method(),
				"path", c.Path(),
				"status", status,
				"duration", duration.String(),
			)
		}
		return err
	}
}

// IPRateLimiter manages one token bucket per client IP.
type IPRateLimiter struct {
	ips   map[string]*rate.Limiter
	mu    sync.Mutex
	rps   rate.Limit
	burst int
}

// NewIPRateLimiter creates a new per-IP rate limiter.
func NewIPRateLimiter(rps rate.Limit, burst int) *IPRateLimiter {
	return &IPRateLimiter{
		ips:   make(map[string]*rate.Limiter),
		rps:   rps,
		burst: burst,
	}
}

// GetLimiter returns the limiter for an IP, creating it on first sight.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	limiter, exists := i.ips[ip]
	if !exists {
		limiter = rate.NewLimiter(i.rps, i.burst)
		i.ips[ip] = limiter
	}
	return limiter
}

// RateLimitMiddleware rejects requests that exceed the per-IP budget.
func RateLimitMiddleware(cfg *config.Manager) fiber.Handler {
	rlCfg := cfg.Get().RateLimit
	limiter := NewIPRateLimiter(rate.Limit(rlCfg.RequestsPerSecond), rlCfg.Burst)

	return func(c *fiber.Ctx) error {
		if !limiter.GetLimiter(c.IP()).Allow() {
			slog.Warn("Rate limit exceeded", "ip", c.IP(), "path", c.Path())
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "rate limit exceeded"})
		}
		return c.Next()
	}
}
