package handler

import (
	"errors"
	"time"

	"shopwise-web/internal/middleware"
	"shopwise-web/internal/models"
	"shopwise-web/internal/repository"
	"shopwise-web/internal/service"
	"shopwise-web/internal/utils"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if fields := utils.ValidateStruct(req); fields != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", fields)
	}

	resp, err := h.authService.Login(req)
	switch {
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInactiveUser):
		return utils.ErrorResponse(c, fiber.StatusUnauthorized, err.Error(), nil)
	case err != nil:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Login failed", err)
	}

	// Pages read the token from a cookie, the API from the Authorization header.
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AuthCookie,
		Value:    resp.AccessToken,
		Expires:  time.Now().Add(time.Duration(resp.ExpiresIn) * time.Second),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})

	return utils.SuccessResponse(c, "Login successful", resp)
}

// Logout clears the page cookie. API tokens are dropped by the client.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.ClearCookie(middleware.AuthCookie)
	return utils.SuccessResponse(c, "Logout successful", nil)
}

func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, err := h.authService.GetUserByID(middleware.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.ErrorResponse(c, fiber.StatusNotFound, "User not found", err)
		}
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to retrieve user", err)
	}

	return utils.SuccessResponse(c, "User retrieved successfully", user)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req models.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", err)
	}

	if fields := utils.ValidateStruct(req); fields != nil {
		return utils.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", fields)
	}

	user, err := h.authService.Register(req)
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		return utils.ErrorResponse(c, fiber.StatusConflict, err.Error(), nil)
	case err != nil:
		return utils.ErrorResponse(c, fiber.StatusInternalServerError, "Registration failed", err)
	}

	return utils.CreatedResponse(c, "Registration successful", fiber.Map{
		"user": user,
	})
}
