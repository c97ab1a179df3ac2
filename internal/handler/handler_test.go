package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"shopwise-web/internal/middleware"
	"shopwise-web/internal/models"
	"shopwise-web/internal/service"
	"shopwise-web/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret"

type testEnv struct {
	app     *fiber.App
	catalog *memoryCatalog
	users   *memoryUsers
	reports *memoryReports
	exports string
	token   string
}

// newTestEnv mounts the API handlers on in-memory stores. Requests made with
// env.token act as owner "owner-1".
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	env := &testEnv{
		catalog: newMemoryCatalog(),
		users:   newMemoryUsers(),
		reports: &memoryReports{},
		exports: t.TempDir(),
	}

	classifier := service.NewClassifier(service.TurnoverFunc(func(models.Product) float64 { return 2 }))
	tabular := service.NewTabularService(5)
	dashboard := service.NewDashboardService(env.catalog, classifier, nil, time.Minute, logger)
	importService := service.NewImportService(service.ImportServiceOptions{
		Engine:     service.NewImportEngine(env.catalog, logger),
		Tabular:    tabular,
		Dashboard:  dashboard,
		ExportPath: env.exports,
		Logger:     logger,
	})

	auth := NewAuthHandler(service.NewAuthService(env.users, testSecret, time.Hour))
	products := NewProductHandler(service.NewProductService(env.catalog, classifier, dashboard))
	imports := NewImportHandler(importService, tabular, t.TempDir(), 1<<20)
	reports := NewReportHandler(service.NewReportService(env.reports, env.catalog, classifier, tabular, logger))
	stats := NewDashboardHandler(dashboard)

	app := fiber.New()
	api := app.Group("/api/v1")
	api.Post("/auth/login", auth.Login)
	api.Post("/auth/register", auth.Register)

	protected := api.Group("", middleware.AuthMiddleware(testSecret))
	protected.Get("/auth/me", auth.Me)
	protected.Get("/dashboard/stats", stats.GetStats)
	protected.Get("/products", products.GetProducts)
	protected.Get("/products/:id", products.GetProduct)
	protected.Get("/products/:id/classification", products.GetClassification)
	protected.Post("/products", products.CreateProduct)
	protected.Put("/products/:id", products.UpdateProduct)
	protected.Delete("/products/:id", products.DeleteProduct)
	protected.Post("/imports", imports.ImportProducts)
	protected.Get("/imports/template", imports.DownloadTemplate)
	protected.Get("/imports/error-report/:filename", imports.DownloadErrorReport)
	protected.Get("/imports/:code/progress", imports.GetProgress)
	protected.Post("/reports", reports.CreateReport)
	protected.Get("/reports/:id/export", reports.ExportReport)
	env.app = app

	token, err := utils.GenerateAccessToken("owner-1", "owner@example.com", "user", testSecret, time.Hour)
	require.NoError(t, err)
	env.token = token

	return env
}

func (env *testEnv) do(t *testing.T, req *http.Request) (*http.Response, utils.Response) {
	t.Helper()
	if env.token != "" && req.Header.Get(fiber.HeaderAuthorization) == "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+env.token)
	}

	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)

	var body utils.Response
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && resp.Header.Get(fiber.HeaderContentType) == fiber.MIMEApplicationJSON {
		require.NoError(t, json.Unmarshal(raw, &body))
	}
	resp.Body = io.NopCloser(bytes.NewReader(raw))
	return resp, body
}

func jsonRequest(t *testing.T, method, url string, payload interface{}) *http.Request {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(method, url, bytes.NewReader(data))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

func uploadRequest(t *testing.T, url, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	return req
}

// dataMap re-decodes the envelope data into a generic map.
func dataMap(t *testing.T, body utils.Response) map[string]interface{} {
	t.Helper()
	m, ok := body.Data.(map[string]interface{})
	require.True(t, ok, "data is %T", body.Data)
	return m
}

func tokenFor(owner string) (string, error) {
	return utils.GenerateAccessToken(owner, owner+"@example.com", "user", testSecret, time.Hour)
}
