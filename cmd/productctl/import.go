package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"shopwise-web/internal/config"
	"shopwise-web/internal/database"
	"shopwise-web/internal/repository"
	"shopwise-web/internal/service"
	"shopwise-web/internal/utils"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type importOptions struct {
	owner   string
	file    string
	dsn     string
	maxRows int
}

func newImportCmd() *cobra.Command {
	var opts importOptions

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import a CSV or XLSX product file for one owner",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(strings.TrimSpace(opts.owner)); err != nil {
				return fmt.Errorf("invalid --owner: %w", err)
			}
			if !service.SupportedExtension(opts.file) {
				return fmt.Errorf("invalid --file: use a .csv or .xlsx file")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.owner, "owner", "", "Owner user id (required)")
	cmd.Flags().StringVar(&opts.file, "file", "", "CSV or XLSX file to import (required)")
	cmd.Flags().StringVar(&opts.dsn, "dsn", "", "MySQL DSN (default: built from the environment)")
	cmd.Flags().IntVar(&opts.maxRows, "max-rows", 0, "Reject files with more data rows (default: IMPORT_MAX_ROWS)")

	_ = cmd.MarkFlagRequired("owner")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runImport(cmd *cobra.Command, opts importOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.maxRows <= 0 {
		opts.maxRows = cfg.ImportMaxRows
	}

	var db *sqlx.DB
	if opts.dsn != "" {
		db, err = sqlx.Connect("mysql", opts.dsn)
	} else {
		db, err = database.NewMySQL(cfg)
	}
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	logger := utils.GetLogger()

	// Without Redis a running web import cannot see this one and cached dashboards stay stale until they expire.
	redisClient, err := database.NewRedis(cfg)
	if err != nil {
		logger.WithField("error", err).Warn("Failed to connect to Redis, import lock and dashboard invalidation are local only")
		redisClient = nil
	} else {
		defer redisClient.Close()
	}

	importService := newImportService(repository.NewProductRepository(db), redisClient, cfg, opts.maxRows, logger)
	return importFile(cmd.Context(), cmd.OutOrStdout(), importService, strings.TrimSpace(opts.owner), opts.file)
}

// catalog is the product storage the CLI import needs.
type catalog interface {
	service.ProductStore
	service.ProductLister
}

// newImportService wires the same lock, progress and dashboard cache the web
// server uses, so a CLI import waits for web imports and clears cached stats.
func newImportService(products catalog, redisClient *redis.Client, cfg *config.Config, maxRows int, logger *logrus.Logger) *service.ImportService {
	var (
		cache   service.Cache = service.NoopCache{}
		tracker service.ImportTracker
	)
	if redisClient != nil {
		cache = service.NewRedisCache(redisClient)
		tracker = service.NewRedisImportTracker(redisClient, cfg.ProgressTTL)
	}

	dashboard := service.NewDashboardService(products, service.NewClassifier(nil), cache, cfg.DashboardCacheTTL, logger)
	return service.NewImportService(service.ImportServiceOptions{
		Engine:    service.NewImportEngine(products, logger),
		Tabular:   service.NewTabularService(maxRows),
		Tracker:   tracker,
		Dashboard: dashboard,
		Logger:    logger,
	})
}

func importFile(ctx context.Context, w io.Writer, importService *service.ImportService, owner, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	resp, err := importService.ImportFile(ctx, owner, filepath.Base(path), file)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}
