package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/briefworks/rfpdb/internal/config"
	"github.com/briefworks/rfpdb/internal/extraction"
	"github.com/briefworks/rfpdb/internal/models"
	"github.com/briefworks/rfpdb/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// ProjectService is the stateless facade over documents, projects, and
// requirements. The reconciler and merger are injected so handlers and
// tests can swap oracle wiring.
type ProjectService struct {
	DB         *gorm.DB
	DBType     string
	UploadDir  string
	Reconciler *Reconciler
	Merger     *Merger
}

// NewProjectService wires a ProjectService.
func NewProjectService(db *gorm.DB, cfg *config.Config, reconciler *Reconciler, merger *Merger) *ProjectService {
	return &ProjectService{
		DB:         db,
		DBType:     cfg.DBType,
		UploadDir:  cfg.UploadDir,
		Reconciler: reconciler,
		Merger:     merger,
	}
}

// DocumentSummary is the list-view shape for uploaded documents.
type DocumentSummary struct {
	ID          uint64    `json:"id"`
	Filename    string    `json:"filename"`
	UploadDate  time.Time `json:"upload_date"`
	ProjectID   *uint64   `json:"project_id"`
	HasAnalysis bool      `json:"has_analysis"`
}

// ItemCreate is the input shape for manually added items.
type ItemCreate struct {
	Name               *string  `json:"name"`
	Category           *string  `json:"category"`
	TechnicalSpecs     *string  `json:"technical_specs"`
	MaterialPreference *string  `json:"material_preference"`
	ColorPreference    *string  `json:"color_preference"`
	BrandPreference    *string  `json:"brand_preference"`
	SpecialInstruction *string  `json:"special_instruction"`
	Quantity           *int     `json:"quantity"`
	Confidence         *float64 `json:"confidence"`
	IsAccepted         *bool    `json:"is_accepted"`
}

// SpaceCreate is the input shape for manually added spaces.
type SpaceCreate struct {
	RoomType  string       `json:"room_type"`
	Dimension *string      `json:"dimension"`
	Area      *string      `json:"area"`
	Items     []ItemCreate `json:"items"`
}

// ItemUpdate is the explicit allow-list of mutable item fields for the
// HITL PATCH operation. Unknown JSON keys are rejected at the handler.
// IsAccepted is tri-state: an explicit null resets to undecided.
type ItemUpdate struct {
	Name               *string            `json:"name"`
	Category           *string            `json:"category"`
	TechnicalSpecs     *string            `json:"technical_specs"`
	MaterialPreference *string            `json:"material_preference"`
	ColorPreference    *string            `json:"color_preference"`
	BrandPreference    *string            `json:"brand_preference"`
	SpecialInstruction *string            `json:"special_instruction"`
	Quantity           *int               `json:"quantity"`
	Confidence         *float64           `json:"confidence"`
	IsAccepted         types.OptionalBool `json:"is_accepted"`
}

// UploadDocument stores the file bytes and records the document, without
// creating a project or triggering analysis.
func (s *ProjectService) UploadDocument(filename string, src io.Reader) (*models.Document, error) {
	storedName := fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(filename))
	storedPath := filepath.Join(s.UploadDir, storedName)

	dst, err := os.Create(storedPath)
	if err != nil {
		return nil, fmt.Errorf("storing upload: %w", err)
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return nil, fmt.Errorf("storing upload: %w", err)
	}

	document := models.Document{
		Filename: filepath.Base(filename),
		FilePath: &storedPath,
	}
	if err := s.DB.Create(&document).Error; err != nil {
		return nil, err
	}

	log.Printf("Document upload recorded: id=%d filename=%s", document.ID, document.Filename)
	return &document, nil
}

// ListDocuments returns all uploaded documents, newest first.
func (s *ProjectService) ListDocuments() ([]DocumentSummary, error) {
	var documents []models.Document
	if err := s.DB.Order("upload_date DESC").Find(&documents).Error; err != nil {
		return nil, err
	}

	summaries := make([]DocumentSummary, 0, len(documents))
	for _, doc := range documents {
		summaries = append(summaries, DocumentSummary{
			ID:          doc.ID,
			Filename:    doc.Filename,
			UploadDate:  doc.UploadDate,
			ProjectID:   doc.ProjectID,
			HasAnalysis: doc.ProjectID != nil,
		})
	}
	return summaries, nil
}

// AnalyzeDocument runs the reconciliation pipeline for a document and
// returns the resulting project analysis.
func (s *ProjectService) AnalyzeDocument(ctx context.Context, documentID uint64) (*ProjectAnalysis, error) {
	var document models.Document
	if err := s.DB.First(&document, documentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("document %d: %w", documentID, ErrNotFound)
		}
		return nil, err
	}

	log.Printf("Starting document analysis: document=%d", documentID)

	projectID, err := s.Reconciler.ReconcileFromDocument(ctx, &document)
	if err != nil {
		log.Printf("Document analysis failed: document=%d: %v", documentID, err)
		return nil, err
	}

	log.Printf("Document analysis complete: document=%d project=%d", documentID, projectID)
	return s.GetProjectAnalysis(projectID)
}

// GetProject returns project metadata by id.
func (s *ProjectService) GetProject(projectID uint64) (*models.Project, error) {
	var project models.Project
	if err := s.DB.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %d: %w", projectID, ErrNotFound)
		}
		return nil, err
	}
	return &project, nil
}

// GetProjectAnalysis returns the full project with its spaces and items.
func (s *ProjectService) GetProjectAnalysis(projectID uint64) (*ProjectAnalysis, error) {
	query := s.DB.Preload("Spaces.Items").Preload("Spaces")
	if s.DBType == "mysql" || s.DBType == "mariadb" {
		query = query.Clauses(hints.New("MAX_EXECUTION_TIME(5000)"))
	}

	var project models.Project
	if err := query.First(&project, projectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %d: %w", projectID, ErrNotFound)
		}
		return nil, err
	}

	return buildAnalysis(&project), nil
}

// AddSpaceWithItems manually adds a space, optionally with items, to a
// project.
func (s *ProjectService) AddSpaceWithItems(projectID uint64, payload SpaceCreate) (*models.Space, error) {
	if _, err := s.GetProject(projectID); err != nil {
		return nil, err
	}

	space := models.Space{
		ProjectID: projectID,
		RoomType:  payload.RoomType,
		Dimension: payload.Dimension,
		Area:      payload.Area,
	}
	if err := s.DB.Create(&space).Error; err != nil {
		return nil, err
	}

	for _, itemData := range payload.Items {
		item := buildItem(space.ID, itemData)
		if err := s.DB.Create(&item).Error; err != nil {
			return nil, err
		}
		space.Items = append(space.Items, item)
	}

	log.Printf("Space added with items: project=%d space=%d items=%d", projectID, space.ID, len(space.Items))
	return &space, nil
}

// AddItemToSpace manually adds an item to an existing space.
func (s *ProjectService) AddItemToSpace(spaceID uint64, payload ItemCreate) (*models.Item, error) {
	var space models.Space
	if err := s.DB.First(&space, spaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("space %d: %w", spaceID, ErrNotFound)
		}
		return nil, err
	}

	item := buildItem(spaceID, payload)
	item.IsAccepted = payload.IsAccepted
	if err := s.DB.Create(&item).Error; err != nil {
		return nil, err
	}

	log.Printf("Item added to space: space=%d item=%d", spaceID, item.ID)
	return &item, nil
}

// UpdateRequirement applies a partial update to an item. Only allow-listed
// fields change; the version counter bumps on every successful update.
func (s *ProjectService) UpdateRequirement(itemID uint64, upd ItemUpdate) (*models.Item, error) {
	var item models.Item
	if err := s.DB.First(&item, itemID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item %d: %w", itemID, ErrNotFound)
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if upd.Name != nil {
		updates["name"] = *upd.Name
	}
	if upd.Category != nil {
		updates["category"] = extraction.CanonicalCategory(*upd.Category)
	}
	if upd.TechnicalSpecs != nil {
		updates["technical_specs"] = *upd.TechnicalSpecs
	}
	if upd.MaterialPreference != nil {
		updates["material_preference"] = *upd.MaterialPreference
	}
	if upd.ColorPreference != nil {
		updates["color_preference"] = *upd.ColorPreference
	}
	if upd.BrandPreference != nil {
		updates["brand_preference"] = *upd.BrandPreference
	}
	if upd.SpecialInstruction != nil {
		updates["special_instruction"] = *upd.SpecialInstruction
	}
	if upd.Quantity != nil {
		updates["quantity"] = *upd.Quantity
	}
	if upd.Confidence != nil {
		updates["confidence"] = *extraction.NormalizeConfidence(upd.Confidence)
	}
	if upd.IsAccepted.Present {
		updates["is_accepted"] = upd.IsAccepted.Value
	}

	if len(updates) > 0 {
		updates["version"] = gorm.Expr("version + 1")
		if err := s.DB.Model(&item).Updates(updates).Error; err != nil {
			return nil, err
		}
		if err := s.DB.First(&item, itemID).Error; err != nil {
			return nil, err
		}
	}

	log.Printf("Requirement updated: item=%d space=%d", item.ID, item.SpaceID)
	return &item, nil
}

// buildItem maps a manual input payload onto an item row, applying the
// same name/category/confidence resolution as the pipeline.
func buildItem(spaceID uint64, payload ItemCreate) models.Item {
	category := extraction.CategoryOthers
	if payload.Category != nil {
		category = extraction.CanonicalCategory(*payload.Category)
	}
	name := category
	if payload.Name != nil && *payload.Name != "" {
		name = *payload.Name
	}
	return models.Item{
		SpaceID:            spaceID,
		Name:               name,
		Category:           category,
		TechnicalSpecs:     payload.TechnicalSpecs,
		MaterialPreference: payload.MaterialPreference,
		ColorPreference:    payload.ColorPreference,
		BrandPreference:    payload.BrandPreference,
		SpecialInstruction: payload.SpecialInstruction,
		Quantity:           payload.Quantity,
		Confidence:         extraction.NormalizeConfidence(payload.Confidence),
	}
}
