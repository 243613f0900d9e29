package controller

import (
	"github.com/gofiber/fiber/v2"

	"clientmint_backend/internal/middleware"
	"clientmint_backend/internal/usage"
)

// GetEditUsage reports the caller's quota status so the client can show
// remaining edits and branch to the billing flow without string-matching.
func GetEditUsage(c *fiber.Ctx) error {
	userID := middleware.CallerID(c, c.Query("userId"))
	if userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing userId",
		})
	}

	summary, err := usage.Summarize(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch usage",
		})
	}

	return c.JSON(summary)
}
