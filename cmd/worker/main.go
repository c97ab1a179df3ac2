package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"shopwise-web/internal/config"
	"shopwise-web/internal/database"
	"shopwise-web/internal/repository"
	"shopwise-web/internal/service"
	"shopwise-web/internal/utils"
	"shopwise-web/internal/worker"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
)

func main() {
	log := utils.GetLogger()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	db, err := database.NewMySQL(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize Redis
	redisClient, err := database.NewRedis(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	defer redisClient.Close()

	productRepo := repository.NewProductRepository(db)
	classifier := service.NewClassifier(nil)
	dashboardService := service.NewDashboardService(productRepo, classifier, service.NewRedisCache(redisClient), cfg.DashboardCacheTTL, log)
	importService := service.NewImportService(service.ImportServiceOptions{
		Engine:     service.NewImportEngine(productRepo, log),
		Tabular:    service.NewTabularService(cfg.ImportMaxRows),
		Tracker:    service.NewRedisImportTracker(redisClient, cfg.ProgressTTL),
		Jobs:       repository.NewImportJobRepository(db),
		Dashboard:  dashboardService,
		ExportPath: cfg.ExportPath,
		Logger:     log,
	})

	// Create Asynq server
	srv := asynq.NewServer(
		asynq.RedisClientOpt{
			Addr:     cfg.AsynqRedisAddr,
			Password: cfg.AsynqRedisPassword,
			DB:       cfg.AsynqRedisDB,
		},
		asynq.Config{
			Concurrency: cfg.WorkerConcurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.WithFields(logrus.Fields{"task": task.Type(), "error": err}).Error("Error processing task")
			}),
			Logger: log,
		},
	)

	// Register task handlers
	mux := asynq.NewServeMux()
	worker.RegisterHandlers(mux, importService, log)

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Info("Gracefully shutting down worker...")
		srv.Shutdown()
	}()

	// Start worker
	log.WithField("concurrency", cfg.WorkerConcurrency).Info("Worker starting")
	if err := srv.Run(mux); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}

	log.Info("Worker exited")
}
