package handler

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"shopwise-web/internal/middleware"
	"shopwise-web/internal/repository"
	"shopwise-web/internal/service"
	"shopwise-web/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var errorReportName = regexp.MustCompile(`^import_errors_[0-9]{8}_[0-9]{6}_[0-9a-f]{8}\.xlsx$`)

type ImportHandler struct {
	importService *service.ImportService
	tabular       *service.TabularService
	uploadPath    string
	maxSize       int
}

func NewImportHandler(importService *service.ImportService, tabular *service.TabularService, uploadPath string, maxSize int) *ImportHandler {
	return &ImportHandler{
		importService: importService,
		tabular:       tabular,
		uploadPath:    uploadPath,
		maxSize:       maxSize,
	}
}

// ImportProducts imports an uploaded CSV or XLSX file. With ?mode=async the
// file is stored and handed to the worker instead.
func (h *ImportHandler) ImportProducts(c *fiber.Ctx) error {
	owner := middleware.UserID(c)

	file, err := c.FormFile("file")
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File is required", err)
	}

	if !service.SupportedExtension(file.Filename) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only CSV and Excel files (.csv, .xlsx) are allowed", nil)
	}

	if h.maxSize > 0 && file.Size > int64(h.maxSize) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "File size exceeds maximum limit", nil)
	}

	if c.Query("mode") == "async" {
		return h.enqueue(c, owner, file.Filename, func(path string) error {
			return c.SaveFile(file, path)
		})
	}

	f, err := file.Open()
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to read file", err)
	}
	defer f.Close()

	result, err := h.importService.ImportFile(c.UserContext(), owner, file.Filename, f)
	if err != nil {
		return importError(c, err)
	}

	if result.Failed > 0 {
		return c.Status(fiber.StatusPartialContent).JSON(utils.Response{
			Success: true,
			Message: fmt.Sprintf("Import completed with %d errors", result.Failed),
			Data:    result,
		})
	}

	return utils.SuccessResponse(c, "Import completed successfully", result)
}

func (h *ImportHandler) enqueue(c *fiber.Ctx, owner, filename string, save func(path string) error) error {
	if err := os.MkdirAll(h.uploadPath, 0o755); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to prepare upload directory", err)
	}

	path := filepath.Join(h.uploadPath, fmt.Sprintf("IMPORT-%s%s", uuid.NewString()[:8], strings.ToLower(filepath.Ext(filename))))
	if err := save(path); err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to save file", err)
	}

	job, err := h.importService.Enqueue(c.UserContext(), owner, filename, path)
	if err != nil {
		os.Remove(path)
		if errors.Is(err, service.ErrAsyncUnavailable) {
			return utils.ErrorResponse(c, fiber.StatusServiceUnavailable, "Background job processing is not available (Redis not connected)", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to queue import", err)
	}

	return c.Status(fiber.StatusAccepted).JSON(utils.Response{
		Success: true,
		Message: "Import queued",
		Data:    job,
	})
}

func (h *ImportHandler) GetProgress(c *fiber.Ctx) error {
	progress, err := h.importService.Progress(c.UserContext(), middleware.UserID(c), c.Params("code"))
	if err != nil {
		if errors.Is(err, service.ErrProgressNotFound) || errors.Is(err, repository.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "Import job not found", nil)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve progress", err)
	}

	return utils.SuccessResponse(c, "Progress retrieved successfully", progress)
}

func (h *ImportHandler) GetJobs(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	jobs, total, err := h.importService.Jobs(c.UserContext(), middleware.UserID(c), params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve import jobs", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, total)

	responseData := fiber.Map{
		"jobs":       jobs,
		"pagination": pagination,
	}

	return utils.PaginatedResponseBuilder(c, "Import jobs retrieved successfully", responseData, pagination)
}

// DownloadTemplate returns the header only upload file.
func (h *ImportHandler) DownloadTemplate(c *fiber.Ctx) error {
	var buf bytes.Buffer
	format := c.Query("format", "csv")

	switch format {
	case "csv":
		if err := h.tabular.WriteTemplateCSV(&buf); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate template", err)
		}
		c.Set(fiber.HeaderContentType, "text/csv")
	case "xlsx":
		if err := h.tabular.WriteTemplateXLSX(&buf); err != nil {
			return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate template", err)
		}
		c.Set(fiber.HeaderContentType, xlsxContentType)
	default:
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Format must be csv or xlsx", nil)
	}

	c.Attachment(fmt.Sprintf("product_import_template.%s", format))
	return c.Send(buf.Bytes())
}

func (h *ImportHandler) DownloadErrorReport(c *fiber.Ctx) error {
	filename := c.Params("filename")
	if !isValidFilename(filename) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid filename", nil)
	}

	filePath := h.importService.ErrorReportPath(filename)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Error report file not found", nil)
	}

	return c.Download(filePath, filename)
}

// isValidFilename only accepts names generated for import error reports.
func isValidFilename(filename string) bool {
	return errorReportName.MatchString(filename)
}

func importError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrTooManyRows):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Import file has too many rows", err)
	case service.IsParseError(err):
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Failed to parse import file", err)
	case errors.Is(err, service.ErrImportInProgress):
		return utils.ErrorResponse(c, fiber.StatusConflict, err.Error(), nil)
	default:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Import failed", err)
	}
}
