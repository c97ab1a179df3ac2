package handler

import (
	"shopwise-web/internal/middleware"
	"shopwise-web/internal/service"
	"shopwise-web/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
	}
}

func (h *DashboardHandler) GetStats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.Stats(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve dashboard stats", err)
	}

	return utils.SuccessResponse(c, "Dashboard stats retrieved successfully", stats)
}
