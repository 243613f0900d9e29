package controller

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"clientmint_backend/internal/middleware"
	"clientmint_backend/internal/model"
	"clientmint_backend/internal/usage"
	"clientmint_backend/pkg/database"
	"clientmint_backend/pkg/generator"
	"clientmint_backend/pkg/images"
	"clientmint_backend/pkg/plan"
	"clientmint_backend/pkg/storage"
)

const generationTimeout = 90 * time.Second

type GenerateInput struct {
	BusinessName        string                  `json:"businessName"`
	BusinessDescription string                  `json:"businessDescription"`
	UserID              string                  `json:"userId"`
	Options             *generator.StyleOptions `json:"options"`
}

// GenerateWebsite produces a complete site from a business brief. Quota and
// rate checks run before the provider call so a rejected request never
// spends tokens.
func GenerateWebsite(c *fiber.Ctx) error {
	input := new(GenerateInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.BusinessName == "" || input.BusinessDescription == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing businessName or businessDescription",
		})
	}

	userID := middleware.CallerID(c, input.UserID)

	if userID != "" {
		tier := usage.ResolveUserTier(userID)
		limits := plan.Table[tier]

		var siteCount int64
		if err := database.GetDB().Model(&model.Site{}).
			Where("user_id = ?", userID).Count(&siteCount).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not check site limit",
			})
		}

		if int(siteCount) >= limits.MaxTotalSites {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":           "You have reached your site limit. Please upgrade your plan.",
				"upgradeRequired": true,
				"current_count":   siteCount,
				"max_limit":       limits.MaxTotalSites,
				"plan":            string(tier),
			})
		}
	}

	if generator.Default == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Website generation is not configured",
		})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), generationTimeout)
	defer cancel()

	var opts generator.StyleOptions
	if input.Options != nil {
		opts = *input.Options
	}

	imageURLs := images.Find(ctx, input.BusinessName+" "+input.BusinessDescription, 3)
	prompt := generator.GeneratePrompt(input.BusinessName, input.BusinessDescription, opts, imageURLs)

	raw, err := generator.Default.Complete(ctx, prompt, generator.GenerateMaxTokens)
	if err != nil {
		return providerError(c, "Generation failed", err)
	}

	html, err := generator.CleanHTML(raw)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Generation failed",
			"message": err.Error(),
		})
	}

	response := fiber.Map{"html": html}

	if userID != "" {
		site := model.Site{
			UserID:              userID,
			BusinessName:        input.BusinessName,
			BusinessDescription: input.BusinessDescription,
			HTML:                html,
		}
		if input.Options != nil {
			if raw, err := json.Marshal(input.Options); err == nil {
				site.StyleOptions = datatypes.JSON(raw)
			}
		}

		// The user already has their site; bookkeeping failures are logged
		// and the response still succeeds.
		if err := database.GetDB().Create(&site).Error; err != nil {
			log.Printf("generate: could not persist site for user %s: %v", userID, err)
		} else {
			saveVersion(site.ID, html, "Initial generation")
			usage.Record(userID, &site.ID, model.EditTypeGenerate)
			response["siteId"] = site.ID
			response["slug"] = site.Slug
		}
	}

	return c.JSON(response)
}

type EditInput struct {
	CurrentHTML     string `json:"currentHTML"`
	EditInstruction string `json:"editInstruction"`
	SiteID          uint   `json:"siteId"`
	UserID          string `json:"userId"`
}

// EditWebsite applies one natural-language instruction to a document. When a
// site id is supplied, a pre-edit snapshot is written first so restore
// always has a point immediately before each change.
func EditWebsite(c *fiber.Ctx) error {
	input := new(EditInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.CurrentHTML == "" || input.EditInstruction == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing currentHTML or editInstruction",
		})
	}

	userID := middleware.CallerID(c, input.UserID)

	if userID != "" {
		tier := usage.ResolveUserTier(userID)
		limits := plan.Table[tier]

		editCount, err := usage.MonthlyCount(userID, model.EditTypeAIEdit)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not check edit quota",
			})
		}

		if editCount >= int64(limits.AIEditsPerMonth) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":           "You have used all your AI edits for this month. Please upgrade your plan.",
				"upgradeRequired": true,
				"current_count":   editCount,
				"max_limit":       limits.AIEditsPerMonth,
				"plan":            string(tier),
			})
		}
	}

	if generator.Default == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Website editing is not configured",
		})
	}

	var site *model.Site
	if input.SiteID != 0 && userID != "" {
		var s model.Site
		if err := database.GetDB().
			Where("id = ? AND user_id = ?", input.SiteID, userID).
			First(&s).Error; err == nil {
			site = &s
			saveVersion(site.ID, site.HTML, "Before: "+truncate(input.EditInstruction, 60))
		}
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), generationTimeout)
	defer cancel()

	raw, err := generator.Default.Complete(ctx, generator.EditPrompt(input.CurrentHTML, input.EditInstruction), generator.EditMaxTokens)
	if err != nil {
		return providerError(c, "Edit failed", err)
	}

	html, err := generator.CleanHTML(raw)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Edit failed",
			"message": err.Error(),
		})
	}

	if site != nil {
		if err := database.GetDB().Model(site).Update("html", html).Error; err != nil {
			log.Printf("edit: could not persist html for site %d: %v", site.ID, err)
		}
		usage.Record(userID, &site.ID, model.EditTypeAIEdit)
	}

	return c.JSON(fiber.Map{"html": html})
}

type LogoInput struct {
	BusinessName        string `json:"businessName"`
	BusinessDescription string `json:"businessDescription"`
	UserID              string `json:"userId"`
}

// GenerateLogo is gated behind the business tier's logo feature.
func GenerateLogo(c *fiber.Ctx) error {
	input := new(LogoInput)
	if err := c.BodyParser(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid input",
		})
	}

	if input.BusinessName == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing businessName",
		})
	}

	userID := middleware.CallerID(c, input.UserID)
	tier := usage.ResolveUserTier(userID)
	if !plan.CanUseFeature(tier, plan.Logo) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":           "Logo generation requires the Business plan or higher.",
			"upgradeRequired": true,
			"plan":            string(tier),
		})
	}

	if generator.Default == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Logo generation is not configured",
		})
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), generationTimeout)
	defer cancel()

	raw, err := generator.Default.Complete(ctx, generator.LogoPrompt(input.BusinessName, input.BusinessDescription), generator.LogoMaxTokens)
	if err != nil {
		return providerError(c, "Logo generation failed", err)
	}

	svg, err := generator.CleanSVG(raw)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Logo generation failed",
			"message": err.Error(),
		})
	}

	usage.Record(userID, nil, model.EditTypeLogo)

	response := fiber.Map{"svg": svg}
	if storage.Configured() {
		if url, err := storage.UploadLogo(ctx, input.BusinessName, svg); err != nil {
			log.Printf("logo: could not archive svg: %v", err)
		} else {
			response["url"] = url
		}
	}

	return c.JSON(response)
}

type PublishInput struct {
	SiteID uint   `json:"siteId"`
	UserID string `json:"userId"`
}

// PublishSite flips a site live. Free-plan callers are always refused with
// an upgrade hint; paid callers are bounded by their published-site limit.
func PublishSite(c *fiber.Ctx) error {
	input := new(PublishInput)
	if err := c.BodyParser(input); err != nil || input.SiteID == 0 || input.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing siteId or userId",
		})
	}

	userID := middleware.CallerID(c, input.UserID)

	site, ok := findOwnedSite(c, input.SiteID, userID)
	if !ok {
		return nil
	}

	tier := usage.ResolveUserTier(userID)
	limits := plan.Table[tier]

	if tier == plan.Free {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":           "Publishing requires a paid plan.",
			"upgradeRequired": true,
			"plan":            string(tier),
		})
	}

	var publishedCount int64
	database.GetDB().Model(&model.Site{}).
		Where("user_id = ? AND published = ? AND id <> ?", userID, true, site.ID).
		Count(&publishedCount)

	if int(publishedCount) >= limits.MaxPublishedSites {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":           "You have reached your published site limit. Please upgrade your plan.",
			"upgradeRequired": true,
			"current_count":   publishedCount,
			"max_limit":       limits.MaxPublishedSites,
			"plan":            string(tier),
		})
	}

	if err := database.GetDB().Model(site).
		Updates(map[string]interface{}{"published": true, "plan": string(tier)}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not publish site",
		})
	}

	return c.JSON(fiber.Map{"success": true, "slug": site.Slug})
}

type DeleteInput struct {
	SiteID uint   `json:"siteId"`
	UserID string `json:"userId"`
}

func DeleteSite(c *fiber.Ctx) error {
	input := new(DeleteInput)
	if err := c.BodyParser(input); err != nil || input.SiteID == 0 || input.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing siteId or userId",
		})
	}

	userID := middleware.CallerID(c, input.UserID)

	result := database.GetDB().
		Where("id = ? AND user_id = ?", input.SiteID, userID).
		Delete(&model.Site{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not delete site",
		})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Site not found",
		})
	}

	return c.JSON(fiber.Map{"success": true})
}

// ExportSite downloads a site's HTML as an attachment.
func ExportSite(c *fiber.Ctx) error {
	siteID := c.QueryInt("siteId")
	userID := middleware.CallerID(c, c.Query("userId"))
	if siteID == 0 || userID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing siteId or userId",
		})
	}

	site, ok := findOwnedSite(c, uint(siteID), userID)
	if !ok {
		return nil
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s.html"`, site.Slug))
	return c.SendString(site.HTML)
}

type DomainInput struct {
	SiteID uint   `json:"siteId"`
	UserID string `json:"userId"`
	Domain string `json:"domain"`
}

// SetCustomDomain attaches a domain to a site; verification happens
// asynchronously in the maintenance job before the domain is served.
func SetCustomDomain(c *fiber.Ctx) error {
	input := new(DomainInput)
	if err := c.BodyParser(input); err != nil || input.SiteID == 0 || input.UserID == "" || input.Domain == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing siteId, userId or domain",
		})
	}

	userID := middleware.CallerID(c, input.UserID)

	tier := usage.ResolveUserTier(userID)
	if !plan.CanUseFeature(tier, plan.CustomDomain) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error":           "Custom domains require a paid plan.",
			"upgradeRequired": true,
			"plan":            string(tier),
		})
	}

	site, ok := findOwnedSite(c, input.SiteID, userID)
	if !ok {
		return nil
	}

	if err := database.GetDB().Model(site).Updates(map[string]interface{}{
		"custom_domain": input.Domain,
		"domain_status": model.DomainStatusPending,
	}).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Could not save custom domain",
		})
	}

	return c.JSON(fiber.Map{"success": true, "domain_status": model.DomainStatusPending})
}

type ShareInput struct {
	SiteID uint   `json:"siteId"`
	UserID string `json:"userId"`
}

// ShareSite returns the site's preview token, minting one on first use. The
// token bypasses the published flag for private approval links.
func ShareSite(c *fiber.Ctx) error {
	input := new(ShareInput)
	if err := c.BodyParser(input); err != nil || input.SiteID == 0 || input.UserID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing siteId or userId",
		})
	}

	userID := middleware.CallerID(c, input.UserID)

	site, ok := findOwnedSite(c, input.SiteID, userID)
	if !ok {
		return nil
	}

	if site.ShareToken == "" {
		site.ShareToken = model.NewShareToken()
		if err := database.GetDB().Model(site).
			Update("share_token", site.ShareToken).Error; err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Could not create share link",
			})
		}
	}

	return c.JSON(fiber.Map{
		"token": site.ShareToken,
		"url":   publicURL + "/preview/" + site.ShareToken,
	})
}

// findOwnedSite loads a site and enforces ownership. A mismatch answers 404
// rather than 403 so callers cannot probe for other owners' sites.
func findOwnedSite(c *fiber.Ctx, siteID uint, userID string) (*model.Site, bool) {
	var site model.Site
	if err := database.GetDB().
		Where("id = ? AND user_id = ?", siteID, userID).
		First(&site).Error; err != nil {
		c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Site not found",
		})
		return nil, false
	}
	return &site, true
}

// saveVersion appends a snapshot; failures are logged, never propagated.
func saveVersion(siteID uint, html, description string) {
	version := model.SiteVersion{
		SiteID:      siteID,
		HTML:        html,
		Description: description,
	}
	if err := database.GetDB().Create(&version).Error; err != nil {
		log.Printf("versions: could not snapshot site %d: %v", siteID, err)
	}
}

func providerError(c *fiber.Ctx, label string, err error) error {
	if pe, ok := err.(*generator.ProviderError); ok {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":           label,
			"message":         pe.Message,
			"provider_status": pe.StatusCode,
		})
	}
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
		"error":   label,
		"message": err.Error(),
	})
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
