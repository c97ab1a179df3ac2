package router

import (
	"shopwise-web/internal/config"
	"shopwise-web/internal/handler"
	"shopwise-web/internal/middleware"
	"shopwise-web/internal/repository"
	"shopwise-web/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Handlers groups the API handlers mounted under /api/v1.
type Handlers struct {
	Auth      *handler.AuthHandler
	Product   *handler.ProductHandler
	Import    *handler.ImportHandler
	Report    *handler.ReportHandler
	Dashboard *handler.DashboardHandler
}

// NewHandlers wires repositories and services. Without Redis the import lock
// and progress stay in memory, the dashboard is not cached and async imports
// are unavailable.
func NewHandlers(db *sqlx.DB, redis *redis.Client, cfg *config.Config, logger *logrus.Logger) *Handlers {
	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	reportRepo := repository.NewReportRepository(db)
	jobRepo := repository.NewImportJobRepository(db)

	var (
		cache   service.Cache = service.NoopCache{}
		tracker service.ImportTracker
	)
	importOpts := service.ImportServiceOptions{
		Jobs:       jobRepo,
		ExportPath: cfg.ExportPath,
		Logger:     logger,
	}
	if redis != nil {
		cache = service.NewRedisCache(redis)
		tracker = service.NewRedisImportTracker(redis, cfg.ProgressTTL)
		importOpts.Enqueuer = asynq.NewClient(asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		})
	}

	// Initialize services
	classifier := service.NewClassifier(nil)
	tabular := service.NewTabularService(cfg.ImportMaxRows)
	authService := service.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTAccessExpire)
	dashboardService := service.NewDashboardService(productRepo, classifier, cache, cfg.DashboardCacheTTL, logger)
	productService := service.NewProductService(productRepo, classifier, dashboardService)
	reportService := service.NewReportService(reportRepo, productRepo, classifier, tabular, logger)

	importOpts.Engine = service.NewImportEngine(productRepo, logger)
	importOpts.Tabular = tabular
	importOpts.Tracker = tracker
	importOpts.Dashboard = dashboardService
	importService := service.NewImportService(importOpts)

	return &Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Product:   handler.NewProductHandler(productService),
		Import:    handler.NewImportHandler(importService, tabular, cfg.UploadPath, cfg.UploadMaxSize),
		Report:    handler.NewReportHandler(reportService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
	}
}

func RegisterAPIRoutes(router fiber.Router, h *Handlers, jwtSecret string) {
	// Public routes
	auth := router.Group("/auth")
	auth.Post("/login", h.Auth.Login)
	auth.Post("/register", h.Auth.Register)
	auth.Post("/logout", h.Auth.Logout)

	// Protected routes
	protected := router.Group("", middleware.AuthMiddleware(jwtSecret))

	protected.Get("/auth/me", h.Auth.Me)

	protected.Get("/dashboard/stats", h.Dashboard.GetStats)

	// Product routes
	products := protected.Group("/products")
	products.Get("/", h.Product.GetProducts)
	products.Get("/categories", h.Product.GetCategories)
	products.Get("/:id", h.Product.GetProduct)
	products.Get("/:id/classification", h.Product.GetClassification)
	products.Post("/", h.Product.CreateProduct)
	products.Put("/:id", h.Product.UpdateProduct)
	products.Delete("/:id", h.Product.DeleteProduct)

	// Import routes
	imports := protected.Group("/imports")
	imports.Post("/", h.Import.ImportProducts)
	imports.Get("/", h.Import.GetJobs)
	imports.Get("/template", h.Import.DownloadTemplate)
	imports.Get("/error-report/:filename", h.Import.DownloadErrorReport)
	imports.Get("/:code/progress", h.Import.GetProgress)

	// Report routes
	reports := protected.Group("/reports")
	reports.Post("/", h.Report.CreateReport)
	reports.Get("/", h.Report.GetReports)
	reports.Get("/:id", h.Report.GetReport)
	reports.Get("/:id/export", h.Report.ExportReport)
	reports.Delete("/:id", h.Report.DeleteReport)
}
