package controller

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"

	"clientmint_backend/internal/middleware"
	"clientmint_backend/internal/model"
	"clientmint_backend/pkg/database"
)

// History display is capped to the most recent snapshots.
const versionListLimit = 20

type VersionSummary struct {
	ID          uint      `json:"id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// ListVersions returns a site's snapshot history, newest first. The HTML
// itself is omitted; restore fetches it by version id.
func ListVersions(c *fiber.Ctx) error {
	siteID := c.QueryInt("siteId")
	if siteID == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing siteId",
		})
	}

	var versions []model.SiteVersion
	if err := database.GetDB().
		Where("site_id = ?", siteID).
		Order("created_at desc").
		Limit(versionListLimit).
		Find(&versions).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not fetch versions",
		})
	}

	summaries := make([]VersionSummary, 0, len(versions))
	for _, v := range versions {
		summaries = append(summaries, VersionSummary{
			ID:          v.ID,
			Description: v.Description,
			CreatedAt:   v.CreatedAt,
		})
	}

	return c.JSON(summaries)
}

type RestoreInput struct {
	VersionID uint   `json:"versionId"`
	SiteID    uint   `json:"siteId"`
	UserID    string `json:"userId"`
}

// RestoreVersion rolls a site back to a snapshot and appends a new snapshot
// of the restored state, so the restore itself shows up in history.
func RestoreVersion(c *fiber.Ctx) error {
	input := new(RestoreInput)
	if err := c.BodyParser(input); err != nil || input.VersionID == 0 || input.SiteID == 0 || input.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing versionId, siteId or userId",
		})
	}

	userID := middleware.CallerID(c, input.UserID)

	site, ok := findOwnedSite(c, input.SiteID, userID)
	if !ok {
		return nil
	}

	var version model.SiteVersion
	if err := database.GetDB().
		Where("id = ? AND site_id = ?", input.VersionID, site.ID).
		First(&version).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Version not found",
		})
	}

	if err := database.GetDB().Model(site).Update("html", version.HTML).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not restore version",
		})
	}

	saveVersion(site.ID, version.HTML, fmt.Sprintf("Restored from version %d", version.ID))

	return c.JSON(fiber.Map{"html": version.HTML})
}
