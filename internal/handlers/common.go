package handlers

import (
	"errors"
	"strconv"

	"github.com/briefworks/rfpdb/internal/services"
	"github.com/briefworks/rfpdb/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// parseIDParam reads a positive integer route parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// serviceErrorResponse maps a service error onto the API envelope:
// NotFound becomes 404, anything else a 500 tagged with the operation.
func serviceErrorResponse(c *fiber.Ctx, err error, operation string) error {
	if errors.Is(err, services.ErrNotFound) {
		return utils.NotFoundResponse(c, err.Error())
	}
	return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, operation)
}
