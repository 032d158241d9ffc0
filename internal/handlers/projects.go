package handlers

import (
	"github.com/briefworks/rfpdb/internal/services"
	"github.com/briefworks/rfpdb/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// ProjectHandler handles project routes
type ProjectHandler struct {
	Service *services.ProjectService
}

// PromptAddRequest is the prompt-add payload
type PromptAddRequest struct {
	Prompt string `json:"prompt"`
}

// Get handles GET /api/projects/:id
// @Summary Get project metadata
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /projects/{id} [get]
func (h *ProjectHandler) Get(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ValidationErrorResponse(c, "Invalid project id")
	}

	project, err := h.Service.GetProject(projectID)
	if err != nil {
		return serviceErrorResponse(c, err, "getProject")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":           project.ID,
		"name":         project.Name,
		"client_type":  project.ClientType,
		"location":     project.Location,
		"timeline":     project.Timeline,
		"budget_range": project.BudgetRange,
		"created_at":   project.CreatedAt,
	})
}

// GetAnalysis handles GET /api/projects/:id/analysis
// @Summary Get extraction results for a project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} services.ProjectAnalysis
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /projects/{id}/analysis [get]
func (h *ProjectHandler) GetAnalysis(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ValidationErrorResponse(c, "Invalid project id")
	}

	analysis, err := h.Service.GetProjectAnalysis(projectID)
	if err != nil {
		return serviceErrorResponse(c, err, "getAnalysis")
	}
	return c.Status(fiber.StatusOK).JSON(analysis)
}

// AddSpace handles POST /api/projects/:id/spaces
// @Summary Add a space to a project
// @Description Manually add a new space, optionally with items
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param body body services.SpaceCreate true "Space to add"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /projects/{id}/spaces [post]
func (h *ProjectHandler) AddSpace(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ValidationErrorResponse(c, "Invalid project id")
	}

	var payload services.SpaceCreate
	if err := c.BodyParser(&payload); err != nil {
		return utils.ValidationErrorResponse(c, "Invalid input")
	}
	if payload.RoomType == "" {
		return utils.ValidationErrorResponse(c, "room_type is required")
	}

	space, err := h.Service.AddSpaceWithItems(projectID, payload)
	if err != nil {
		return serviceErrorResponse(c, err, "addSpace")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"space_id":   space.ID,
		"project_id": projectID,
	})
}

// PromptAdd handles POST /api/projects/:id/prompt-add
// @Summary Add spaces/items via a natural-language prompt
// @Description Strictly additive; existing spaces and items are never changed
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param body body PromptAddRequest true "Prompt"
// @Success 200 {object} services.MergeResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /projects/{id}/prompt-add [post]
func (h *ProjectHandler) PromptAdd(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ValidationErrorResponse(c, "Invalid project id")
	}

	var body PromptAddRequest
	if err := c.BodyParser(&body); err != nil || body.Prompt == "" {
		return utils.ValidationErrorResponse(c, "prompt is required")
	}

	result, err := h.Service.Merger.MergeAdditions(c.Context(), projectID, body.Prompt)
	if err != nil {
		return serviceErrorResponse(c, err, "promptAdd")
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

// Export handles GET /api/projects/:id/export
// @Summary Export accepted requirements
// @Description format=json returns the nested form; format=csv returns {"csv": "..."} with one row per accepted item
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Param format query string false "json or csv" default(json)
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /projects/{id}/export [get]
func (h *ProjectHandler) Export(c *fiber.Ctx) error {
	projectID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ValidationErrorResponse(c, "Invalid project id")
	}

	switch c.Query("format", "json") {
	case "json":
		analysis, err := h.Service.ExportAnalysis(projectID)
		if err != nil {
			return serviceErrorResponse(c, err, "export")
		}
		return c.Status(fiber.StatusOK).JSON(analysis)

	case "csv":
		rows, err := h.Service.ExportRows(projectID)
		if err != nil {
			return serviceErrorResponse(c, err, "export")
		}
		content, err := services.RenderCSV(rows)
		if err != nil {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "export")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"csv": content})

	default:
		return utils.ValidationErrorResponse(c, "Unsupported export format")
	}
}
