package controller

import (
	"github.com/gofiber/fiber/v2"

	"clientmint_backend/pkg/database"
	"clientmint_backend/pkg/generator"
	"clientmint_backend/pkg/images"
	"clientmint_backend/pkg/storage"
)

const version = "2.1.0"

// HealthCheck reports liveness plus which external dependencies are wired,
// so a deploy with a missing key is visible without tailing logs.
func HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"ok":        true,
		"v":         version,
		"database":  database.DB != nil,
		"anthropic": generator.Default != nil,
		"stripe":    cfg != nil && cfg.Stripe.SecretKey != "",
		"pexels":    images.Configured(),
		"storage":   storage.Configured(),
	})
}
