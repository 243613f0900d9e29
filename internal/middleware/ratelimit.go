package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"clientmint_backend/pkg/ratelimit"
)

var limiter = ratelimit.New()

// Limiter exposes the shared instance for maintenance pruning.
func Limiter() *ratelimit.Limiter {
	return limiter
}

// Per-endpoint-class budgets. Generation is expensive, so its budget is
// tight; edits are iterative by nature and get a higher-frequency window.
const (
	GenerateMax    = 10
	GenerateWindow = time.Hour
	EditMax        = 30
	EditWindow     = 10 * time.Minute
	LogoMax        = 10
	LogoWindow     = time.Hour
)

// RateLimit guards an endpoint class with a per-caller budget. The key is
// the caller's user id when one is supplied, else the client IP, so one
// caller cannot starve everyone else's quota.
func RateLimit(class string, max int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var peek struct {
			UserID string `json:"userId"`
		}
		c.BodyParser(&peek)

		caller := CallerID(c, peek.UserID)
		if caller == "" {
			caller = c.Query("userId")
		}
		if caller == "" {
			caller = c.IP()
		}

		if !limiter.Allow(class+":"+caller, max, window) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests. Please wait a moment and try again.",
			})
		}

		return c.Next()
	}
}
