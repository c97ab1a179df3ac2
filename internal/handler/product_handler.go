package handler

import (
	"errors"

	"shopwise-web/internal/middleware"
	"shopwise-web/internal/models"
	"shopwise-web/internal/repository"
	"shopwise-web/internal/service"
	"shopwise-web/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type ProductHandler struct {
	productService *service.ProductService
}

func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	params := utils.GetPaginationParams(c)
	if params.Status != "" && !isKnownStatus(params.Status) {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Unknown status filter", nil)
	}

	filter := models.ProductFilter{
		Search:   params.Search,
		Category: params.Category,
		Status:   params.Status,
		Limit:    params.Limit,
		Offset:   utils.GetOffset(params.Page, params.Limit),
	}

	products, total, err := h.productService.List(c.UserContext(), middleware.UserID(c), filter)
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve products", err)
	}

	pagination := utils.CalculatePagination(params.Page, params.Limit, total)

	responseData := fiber.Map{
		"products":   products,
		"pagination": pagination,
	}

	return utils.PaginatedResponseBuilder(c, "Products retrieved successfully", responseData, pagination)
}

func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.productService.Get(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return productError(c, err, "Failed to retrieve product")
	}

	return utils.SuccessResponse(c, "Product retrieved successfully", product)
}

func (h *ProductHandler) GetClassification(c *fiber.Ctx) error {
	classification, err := h.productService.Classification(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return productError(c, err, "Failed to classify product")
	}

	return utils.SuccessResponse(c, "Classification retrieved successfully", classification)
}

func (h *ProductHandler) GetCategories(c *fiber.Ctx) error {
	categories, err := h.productService.Categories(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve categories", err)
	}

	return utils.SuccessResponse(c, "Categories retrieved successfully", categories)
}

func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var req models.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if fields := utils.ValidateStruct(req); fields != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", fields)
	}

	product, err := h.productService.Create(c.UserContext(), middleware.UserID(c), req)
	if err != nil {
		return productError(c, err, "Failed to create product")
	}

	return utils.CreatedResponse(c, "Product created successfully", product)
}

func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	var req models.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if fields := utils.ValidateStruct(req); fields != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", fields)
	}

	product, err := h.productService.Update(c.UserContext(), middleware.UserID(c), c.Params("id"), req)
	if err != nil {
		return productError(c, err, "Failed to update product")
	}

	return utils.SuccessResponse(c, "Product updated successfully", product)
}

func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := h.productService.Delete(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return productError(c, err, "Failed to delete product")
	}

	return utils.SuccessResponse(c, "Product deleted successfully", nil)
}

func productError(c *fiber.Ctx, err error, message string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return utils.ErrorResponse(c, fiber.StatusNotFound, "Product not found", nil)
	case errors.Is(err, repository.ErrDuplicateProduct):
		return utils.ErrorResponse(c, fiber.StatusConflict, "Product ID already exists", nil)
	default:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, message, err)
	}
}

func isKnownStatus(status string) bool {
	for _, known := range models.KnownStatuses {
		if status == known {
			return true
		}
	}
	return false
}
