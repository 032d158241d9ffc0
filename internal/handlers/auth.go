package handlers

import (
	"time"

	"github.com/briefworks/rfpdb/internal/services"
	"github.com/briefworks/rfpdb/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication routes
type AuthHandler struct {
	Auth *services.AuthService
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login handles POST /api/login
// @Summary Log in
// @Description Exchange admin credentials for a bearer token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} utils.ErrorResponseStruct
// @Router /login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var body LoginRequest
	if err := c.BodyParser(&body); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid input")
	}

	if !h.Auth.VerifyCredentials(body.Username, body.Password) {
		return utils.ErrorResponse(c, "Invalid credentials", fiber.StatusUnauthorized, "authorization")
	}

	token, err := h.Auth.CreateAccessToken(body.Username, time.Hour)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "login")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"access_token": token,
		"token_type":   "bearer",
	})
}
