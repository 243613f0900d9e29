package main

import (
	"log"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"clientmint_backend/internal/controller"
	"clientmint_backend/internal/middleware"
	"clientmint_backend/internal/model"
	"clientmint_backend/pkg/config"
	"clientmint_backend/pkg/cron"
	"clientmint_backend/pkg/database"
	"clientmint_backend/pkg/generator"
	"clientmint_backend/pkg/images"
	"clientmint_backend/pkg/plan"
	"clientmint_backend/pkg/storage"
)

func setupRoutes(app *fiber.App) {
	app.Get("/health", controller.HealthCheck)

	// Custom-domain hosts bypass path routing entirely.
	app.Use(controller.ResolveCustomDomain())
	app.Use(middleware.ResolveIdentity())

	api := app.Group("/api")

	// Generation and editing, rate limited per caller before any quota or
	// provider work happens.
	api.Post("/generate-website",
		middleware.RateLimit("generate", middleware.GenerateMax, middleware.GenerateWindow),
		controller.GenerateWebsite)
	api.Post("/edit-website",
		middleware.RateLimit("edit", middleware.EditMax, middleware.EditWindow),
		controller.EditWebsite)
	api.Post("/generate-logo",
		middleware.RateLimit("logo", middleware.LogoMax, middleware.LogoWindow),
		controller.GenerateLogo)

	// Site lifecycle
	api.Get("/edit-usage", controller.GetEditUsage)
	api.Get("/versions", controller.ListVersions)
	api.Post("/restore-version", controller.RestoreVersion)
	api.Post("/publish-site", controller.PublishSite)
	api.Post("/delete-site", controller.DeleteSite)
	api.Get("/export-site", controller.ExportSite)
	api.Post("/set-custom-domain", controller.SetCustomDomain)
	api.Post("/share-site", controller.ShareSite)

	// Billing
	api.Post("/create-checkout", controller.CreateCheckout)
	api.Post("/webhook", controller.HandleStripeWebhook)

	// Public serving
	app.Get("/site/:slug/sitemap.xml", controller.ServeSitemap)
	app.Get("/site/:slug/robots.txt", controller.ServeRobots)
	app.Get("/site/:slug", controller.ServePublishedSite)
	app.Get("/preview/:token", controller.ServePreview)
}

func main() {
	cfg := config.Load()

	if cfg.Database.URL == "" {
		log.Fatal("DATABASE_URL is not set in .env")
	}

	database.InitDB(cfg.Database.URL)
	err := database.MigrateDatabase(
		&model.Site{},
		&model.SiteVersion{},
		&model.UsageLog{},
		&model.UserSubscription{},
	)
	if err != nil {
		log.Printf("Migration warning: %v", err)
	}

	if cfg.Anthropic.APIKey != "" {
		generator.Init(cfg.Anthropic.APIKey, cfg.Anthropic.Model)
	} else {
		log.Println("ANTHROPIC_API_KEY not set; generation endpoints will return 503")
	}

	images.Init(cfg.Pexels.APIKey)
	storage.Init(cfg.R2)
	middleware.InitIdentity(cfg.Auth.JWTSecret)
	controller.Init(cfg)

	plan.RegisterStripePrice(cfg.Stripe.StarterPriceID, plan.Starter)
	plan.RegisterStripePrice(cfg.Stripe.BusinessPriceID, plan.Business)
	plan.RegisterStripePrice(cfg.Stripe.AgencyPriceID, plan.Agency)

	cron.InitMaintenanceCron(publicHostname(cfg.Server.PublicURL))

	app := fiber.New(fiber.Config{
		BodyLimit: 4 * 1024 * 1024, // generated documents ride in request bodies
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	setupRoutes(app)

	log.Printf("Server is running on port %s", cfg.Server.Port)
	log.Fatal(app.Listen(":" + cfg.Server.Port))
}

func publicHostname(publicURL string) string {
	if u, err := url.Parse(publicURL); err == nil && u.Hostname() != "" {
		return strings.ToLower(u.Hostname())
	}
	return "localhost"
}
