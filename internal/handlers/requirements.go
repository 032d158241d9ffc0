package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/briefworks/rfpdb/internal/services"
	"github.com/briefworks/rfpdb/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// RequirementHandler handles item-level routes
type RequirementHandler struct {
	Service *services.ProjectService
}

// Update handles PATCH /api/projects/:id/requirements/:reqId
// @Summary Update a requirement (HITL)
// @Description Partial update over an explicit allow-list of item fields; unknown keys are rejected. Set is_accepted to true/false to accept/reject, or null to reset to undecided.
// @Tags Requirements
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param reqId path int true "Requirement (item) ID"
// @Param body body services.ItemUpdate true "Fields to update"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /projects/{id}/requirements/{reqId} [patch]
func (h *RequirementHandler) Update(c *fiber.Ctx) error {
	itemID, err := parseIDParam(c, "reqId")
	if err != nil {
		return utils.ValidationErrorResponse(c, "Invalid requirement id")
	}

	// Unknown fields are rejected rather than silently ignored.
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.DisallowUnknownFields()
	var upd services.ItemUpdate
	if err := decoder.Decode(&upd); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid input: "+err.Error())
	}

	item, err := h.Service.UpdateRequirement(itemID, upd)
	if err != nil {
		return serviceErrorResponse(c, err, "updateRequirement")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":                  item.ID,
		"name":                item.Name,
		"category":            item.Category,
		"technical_specs":     item.TechnicalSpecs,
		"material_preference": item.MaterialPreference,
		"color_preference":    item.ColorPreference,
		"brand_preference":    item.BrandPreference,
		"special_instruction": item.SpecialInstruction,
		"quantity":            item.Quantity,
		"confidence":          item.Confidence,
		"is_accepted":         item.IsAccepted,
	})
}

// AddItem handles POST /api/spaces/:spaceId/items
// @Summary Add an item to an existing space
// @Tags Requirements
// @Accept json
// @Produce json
// @Param spaceId path int true "Space ID"
// @Param body body services.ItemCreate true "Item to add"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /spaces/{spaceId}/items [post]
func (h *RequirementHandler) AddItem(c *fiber.Ctx) error {
	spaceID, err := parseIDParam(c, "spaceId")
	if err != nil {
		return utils.ValidationErrorResponse(c, "Invalid space id")
	}

	var payload services.ItemCreate
	if err := c.BodyParser(&payload); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid input")
	}

	item, err := h.Service.AddItemToSpace(spaceID, payload)
	if err != nil {
		return serviceErrorResponse(c, err, "addItem")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"item_id":  item.ID,
		"space_id": spaceID,
	})
}
