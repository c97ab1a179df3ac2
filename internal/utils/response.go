package utils

import (
	"github.com/gofiber/fiber/v2"
)

// Response is the JSON envelope of every API reply.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   interface{} `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func CreatedResponse(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse writes a failure envelope. err may be nil, an error, or any
// JSON encodable detail such as a field error map.
func ErrorResponse(c *fiber.Ctx, status int, message string, err interface{}) error {
	resp := Response{
		Success: false,
		Message: message,
	}
	switch e := err.(type) {
	case nil:
	case error:
		resp.Error = e.Error()
	default:
		resp.Error = e
	}
	return c.Status(status).JSON(resp)
}
