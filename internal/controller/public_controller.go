package controller

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"clientmint_backend/internal/model"
	"clientmint_backend/pkg/database"
)

// ServePublishedSite serves a live site by slug.
func ServePublishedSite(c *fiber.Ctx) error {
	siteSlug := c.Params("slug")

	var site model.Site
	if err := database.GetDB().
		Where("slug = ? AND published = ?", siteSlug, true).
		First(&site).Error; err != nil {
		return sendNotFoundPage(c)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(site.HTML)
}

// ServePreview serves a site by share token, published or not. The token is
// unguessable, which is the whole access control for approval links.
func ServePreview(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return sendNotFoundPage(c)
	}

	var site model.Site
	if err := database.GetDB().
		Where("share_token = ?", token).
		First(&site).Error; err != nil {
		return sendNotFoundPage(c)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.SendString(site.HTML)
}

// ServeSitemap emits the single-entry sitemap for one published site,
// preferring the verified custom domain as the canonical URL.
func ServeSitemap(c *fiber.Ctx) error {
	siteSlug := c.Params("slug")

	var site model.Site
	if err := database.GetDB().
		Where("slug = ? AND published = ?", siteSlug, true).
		First(&site).Error; err != nil {
		return sendNotFoundPage(c)
	}

	c.Set(fiber.HeaderContentType, "application/xml")
	return c.SendString(sitemapXML(&site))
}

// ServeRobots points crawlers at the site's sitemap.
func ServeRobots(c *fiber.Ctx) error {
	siteSlug := c.Params("slug")

	var site model.Site
	if err := database.GetDB().
		Where("slug = ? AND published = ?", siteSlug, true).
		First(&site).Error; err != nil {
		return sendNotFoundPage(c)
	}

	c.Set(fiber.HeaderContentType, "text/plain")
	return c.SendString(fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", canonicalURL(&site)))
}

// ResolveCustomDomain serves sites addressed by a verified custom domain's
// Host header before any path routing happens. Unmatched hosts fall through
// to the normal routes.
func ResolveCustomDomain() fiber.Handler {
	return func(c *fiber.Ctx) error {
		host := strings.ToLower(c.Hostname())
		if i := strings.IndexByte(host, ':'); i >= 0 {
			host = host[:i]
		}
		if host == "" || host == publicHost {
			return c.Next()
		}

		var site model.Site
		if err := database.GetDB().
			Where("custom_domain = ? AND domain_status = ? AND published = ?",
				host, model.DomainStatusVerified, true).
			First(&site).Error; err != nil {
			return c.Next()
		}

		switch c.Path() {
		case "/sitemap.xml":
			c.Set(fiber.HeaderContentType, "application/xml")
			return c.SendString(sitemapXML(&site))
		case "/robots.txt":
			c.Set(fiber.HeaderContentType, "text/plain")
			return c.SendString(fmt.Sprintf("User-agent: *\nAllow: /\n\nSitemap: %s/sitemap.xml\n", canonicalURL(&site)))
		default:
			c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
			return c.SendString(site.HTML)
		}
	}
}

func canonicalURL(site *model.Site) string {
	if site.CustomDomain != "" && site.DomainStatus == model.DomainStatusVerified {
		return "https://" + site.CustomDomain
	}
	return publicURL + "/site/" + site.Slug
}

func sitemapXML(site *model.Site) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url>
    <loc>%s</loc>
    <lastmod>%s</lastmod>
    <changefreq>weekly</changefreq>
  </url>
</urlset>
`, canonicalURL(site), site.UpdatedAt.UTC().Format("2006-01-02"))
}

const notFoundPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>Page not found</title>
<style>
body{font-family:'Segoe UI',system-ui,sans-serif;display:flex;align-items:center;justify-content:center;min-height:100vh;margin:0;background:#0f172a;color:#e2e8f0}
.card{text-align:center;padding:2rem}
h1{font-size:4rem;margin:0;color:#38bdf8}
p{color:#94a3b8}
a{color:#38bdf8;text-decoration:none}
</style>
</head>
<body>
<div class="card">
<h1>404</h1>
<p>This site doesn't exist or isn't published yet.</p>
<p><a href="/">Build your own with ClientMint</a></p>
</div>
</body>
</html>
`

func sendNotFoundPage(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return c.Status(fiber.StatusNotFound).SendString(notFoundPage)
}
