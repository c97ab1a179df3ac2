package middleware

import (
	"strings"

	"shopwise-web/internal/utils"

	"github.com/gofiber/fiber/v2"
)

// AuthCookie holds the access token for server rendered pages.
const AuthCookie = "auth_token"

func AuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Authorization header is required", nil)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid authorization header format", nil)
		}

		claims, err := utils.ValidateToken(parts[1], secret)
		if err != nil {
			return utils.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid or expired token", nil)
		}

		storeClaims(c, claims)
		return c.Next()
	}
}

// WebAuthMiddleware protects HTML pages with the token cookie set at login.
func WebAuthMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(AuthCookie)
		if token == "" {
			return c.Redirect("/login")
		}

		claims, err := utils.ValidateToken(token, secret)
		if err != nil {
			c.ClearCookie(AuthCookie)
			return c.Redirect("/login")
		}

		storeClaims(c, claims)
		return c.Next()
	}
}

// GuestMiddleware sends signed in users away from the login and register pages.
func GuestMiddleware(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token := c.Cookies(AuthCookie); token != "" {
			if _, err := utils.ValidateToken(token, secret); err == nil {
				return c.Redirect("/")
			}
		}
		return c.Next()
	}
}

// UserID returns the owner id stored by the auth middlewares.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

func storeClaims(c *fiber.Ctx, claims *utils.Claims) {
	c.Locals("user_id", claims.UserID)
	c.Locals("email", claims.Email)
	c.Locals("role", claims.Role)
}
