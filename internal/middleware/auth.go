package middleware

import (
	"fmt"
	"strings"

	"github.com/briefworks/rfpdb/internal/services"
	"github.com/briefworks/rfpdb/internal/types"
	"github.com/gofiber/fiber/v2"
)

// Auth validates the bearer token on the request and stores the subject
// in context
func Auth(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: "Bearer token not found",
				Type:    "authorization",
			}
		}

		token := strings.TrimPrefix(header, "Bearer ")
		subject, err := auth.ValidateToken(token)
		if err != nil {
			return &types.CustomError{
				Code:    fiber.StatusUnauthorized,
				Message: fmt.Sprintf("Invalid token: %v", err),
				Type:    "authorization",
			}
		}

		c.Locals("user", subject)
		return c.Next()
	}
}
