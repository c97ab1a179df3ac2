package handler

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"shopwise-web/internal/middleware"
	"shopwise-web/internal/models"
	"shopwise-web/internal/repository"
	"shopwise-web/internal/service"
	"shopwise-web/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type ReportHandler struct {
	reportService *service.ReportService
}

func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

func (h *ReportHandler) CreateReport(c *fiber.Ctx) error {
	var req models.ReportRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if fields := utils.ValidateStruct(req); fields != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", fields)
	}

	report, err := h.reportService.Generate(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		if errors.Is(err, service.ErrUnsupportedReportType) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Only inventory reports can be generated", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to generate report", err)
	}

	return utils.CreatedResponse(c, "Report generated successfully", report)
}

func (h *ReportHandler) GetReports(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	offset := utils.GetOffset(params.Page, params.Limit)

	reports, total, err := h.reportService.List(c.UserContext(), middleware.UserID(c), params.Limit, offset)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve reports", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, total)

	responseData := fiber.Map{
		"reports":    reports,
		"pagination": pagination,
	}

	return utils.PaginatedResponseBuilder(c, "Reports retrieved successfully", responseData, pagination)
}

func (h *ReportHandler) GetReport(c *fiber.Ctx) error {
	report, err := h.reportService.Get(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return reportError(c, err, "Failed to retrieve report")
	}

	return utils.SuccessResponse(c, "Report retrieved successfully", report)
}

func (h *ReportHandler) DeleteReport(c *fiber.Ctx) error {
	if err := h.reportService.Delete(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return reportError(c, err, "Failed to delete report")
	}

	return utils.SuccessResponse(c, "Report deleted successfully", nil)
}

func (h *ReportHandler) ExportReport(c *fiber.Ctx) error {
	format := c.Query("format", "csv")

	var buf bytes.Buffer
	if err := h.reportService.Export(c.UserContext(), middleware.UserID(c), c.Params("id"), format, &buf); err != nil {
		if errors.Is(err, service.ErrUnsupportedFormat) {
			return utils.ErrorResponse(c, fiber.StatusBadRequest, "Format must be csv or xlsx", nil)
		}
		return reportError(c, err, "Failed to export report")
	}

	c.Attachment(fmt.Sprintf("inventory_report_%s.%s", time.Now().Format("20060102_150405"), format))
	return c.Send(buf.Bytes())
}

func reportError(c *fiber.Ctx, err error, message string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Report not found", nil)
	}
	return utils.ErrorResponse(c, fiber.StatusInternalServerError, message, err)
}
