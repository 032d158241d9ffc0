package handlers

import (
	"errors"
	"log"

	"github.com/briefworks/rfpdb/internal/gateway"
	"github.com/briefworks/rfpdb/internal/services"
	"github.com/briefworks/rfpdb/internal/utils"
	"github.com/gofiber/fiber/v2"
)

// DocumentHandler handles document upload, listing, and analysis routes
type DocumentHandler struct {
	Service *services.ProjectService
}

// Upload handles POST /api/upload
// @Summary Upload an RFP document
// @Description Upload a brief; does not create a project or trigger analysis
// @Tags Documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Document file"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /upload [post]
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return utils.ValidationErrorResponse(c, "Missing file")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "upload")
	}
	defer src.Close()

	document, err := h.Service.UploadDocument(fileHeader.Filename, src)
	if err != nil {
		log.Printf("File upload failed: filename=%s: %v", fileHeader.Filename, err)
		return utils.ErrorResponse(c, "Upload failed", fiber.StatusInternalServerError, "upload")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"document_id": document.ID,
		"message":     "Document uploaded successfully",
		"filename":    document.Filename,
	})
}

// List handles GET /api/documents
// @Summary List uploaded documents
// @Tags Documents
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	documents, err := h.Service.ListDocuments()
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listDocuments")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"documents": documents})
}

// Analyze handles POST /api/documents/:id/analyze
// @Summary Analyze an uploaded document
// @Description Runs the extraction pipeline and creates or replaces the linked project
// @Tags Documents
// @Produce json
// @Param id path int true "Document ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 422 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Security BearerAuth
// @Router /documents/{id}/analyze [post]
func (h *DocumentHandler) Analyze(c *fiber.Ctx) error {
	documentID, err := parseIDParam(c, "id")
	if err != nil {
		return utils.ValidationErrorResponse(c, "Invalid document id")
	}

	analysis, err := h.Service.AnalyzeDocument(c.Context(), documentID)
	if err != nil {
		if errors.Is(err, gateway.ErrUnsupportedFormat) {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusUnprocessableEntity, "analyze")
		}
		return serviceErrorResponse(c, err, "analyze")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Analysis complete",
		"data":    analysis,
	})
}
