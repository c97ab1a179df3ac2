package router

import (
	"shopwise-web/internal/config"
	"shopwise-web/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func Setup(app *fiber.App, db *sqlx.DB, redis *redis.Client, cfg *config.Config, logger *logrus.Logger) {
	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
			"app":    cfg.AppName,
		})
	})

	// Web routes (HTML)
	setupWebRoutes(app, cfg)

	// API routes (JSON)
	api := app.Group("/api/v1")
	RegisterAPIRoutes(api, NewHandlers(db, redis, cfg, logger), cfg.JWTSecret)
}

// setupWebRoutes attaches the page middlewares per route so they never run
// for /api requests.
func setupWebRoutes(router fiber.Router, cfg *config.Config) {
	guest := middleware.GuestMiddleware(cfg.JWTSecret)
	router.Get("/login", guest, page("auth/login", "Login"))
	router.Get("/register", guest, page("auth/register", "Register"))

	auth := middleware.WebAuthMiddleware(cfg.JWTSecret)
	router.Get("/", auth, page("dashboard/index", "Dashboard"))
	router.Get("/products", auth, page("products/index", "Products"))
	router.Get("/imports", auth, page("imports/index", "Import Products"))
	router.Get("/reports", auth, page("reports/index", "Reports"))
}

func page(view, title string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Render(view, fiber.Map{
			"Title": title,
			"Email": c.Locals("email"),
		}, "layouts/main")
	}
}
