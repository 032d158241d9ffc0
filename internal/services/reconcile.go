package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/briefworks/rfpdb/internal/extraction"
	"github.com/briefworks/rfpdb/internal/gateway"
	"github.com/briefworks/rfpdb/internal/locks"
	"github.com/briefworks/rfpdb/internal/models"
	"github.com/briefworks/rfpdb/internal/oracle"
	"gorm.io/gorm"
)

// Reconciler owns the create-or-update-project-from-document operation:
// parse, extract, evaluate, then sync the project's space/item subtree to
// the evaluated extraction. Stateless; all dependencies are injected.
type Reconciler struct {
	DB        *gorm.DB
	Parser    gateway.Parser
	Extractor oracle.Extractor
	Evaluator oracle.Evaluator
	Locks     *locks.ProjectLocks
}

// NewReconciler wires a Reconciler.
func NewReconciler(db *gorm.DB, parser gateway.Parser, ext oracle.Extractor, eval oracle.Evaluator, l *locks.ProjectLocks) *Reconciler {
	return &Reconciler{DB: db, Parser: parser, Extractor: ext, Evaluator: eval, Locks: l}
}

// ReconcileFromDocument analyzes a document and creates or replaces the
// linked project's subtree. Returns the project id.
//
// Sequencing and failure states:
//  1. parse / extract / evaluate — any failure aborts with no side effects
//  2. project metadata upsert commits on its own, so the project has a
//     durable identity before the subtree is touched
//  3. subtree delete + recreate + document link run in one transaction
//
// Re-running analysis always fully replaces the subtree, discarding prior
// human edits (acceptance flags, manual corrections). That is deliberate;
// callers that need to preserve edits must not re-trigger analysis.
func (r *Reconciler) ReconcileFromDocument(ctx context.Context, document *models.Document) (uint64, error) {
	if document.FilePath == nil {
		return 0, fmt.Errorf("document %d has no stored file", document.ID)
	}

	// 1) Parse document
	content, err := r.Parser.Parse(*document.FilePath)
	if err != nil {
		log.Printf("Failed to parse document %d: %v", document.ID, err)
		return 0, err
	}
	log.Printf("Document %d parsed", document.ID)

	// 2) Extract structured requirements, then recalibrate confidence
	draft, err := r.Extractor.Extract(ctx, content.Text)
	if err != nil {
		log.Printf("Extraction failed for document %d: %v", document.ID, err)
		return 0, err
	}

	evaluated, err := r.Evaluator.Evaluate(ctx, content.Text, draft)
	if err != nil {
		log.Printf("Confidence evaluation failed for document %d: %v", document.ID, err)
		return 0, err
	}

	// The evaluator must be a structural echo of the draft. When it
	// drifts, confidence is advisory but structure is load-bearing, so
	// the draft wins and the recalibration is discarded.
	if drift := extraction.ShapeDrift(draft, evaluated); drift != "" {
		log.Printf("Evaluator output drifted from draft for document %d (%s); keeping draft", document.ID, drift)
		evaluated = draft
	}
	log.Printf("Extraction and evaluation completed for document %d", document.ID)

	// Existing projects are locked across metadata upsert and subtree
	// replacement so a concurrent merge cannot interleave.
	if document.ProjectID != nil {
		unlock := r.Locks.Lock(*document.ProjectID)
		defer unlock()
	}

	// 3) Upsert project metadata (commits immediately)
	project, err := r.upsertProject(document, &evaluated.ProjectMetadata)
	if err != nil {
		return 0, err
	}

	if document.ProjectID == nil {
		// Freshly created project id; no contention possible yet, but the
		// lock still guards against a concurrent merge arriving mid-replace.
		unlock := r.Locks.Lock(project.ID)
		defer unlock()
	}

	// 4) Replace the space/item subtree and link the document, atomically
	err = r.DB.Transaction(func(tx *gorm.DB) error {
		if err := replaceSubtree(tx, project.ID, evaluated.Spaces.Slice()); err != nil {
			return err
		}
		return tx.Model(document).Update("project_id", project.ID).Error
	})
	if err != nil {
		log.Printf("Subtree replacement failed for project %d: %v", project.ID, err)
		return 0, err
	}
	document.ProjectID = &project.ID

	log.Printf("Reconciliation complete: document %d -> project %d", document.ID, project.ID)
	return project.ID, nil
}

// upsertProject reuses the project a document is already linked to, or
// creates a new one. The project name falls back to the document's
// filename when the oracle found none.
func (r *Reconciler) upsertProject(document *models.Document, metadata *extraction.ProjectMetadata) (*models.Project, error) {
	name := document.Filename
	if metadata.Name != nil && *metadata.Name != "" {
		name = *metadata.Name
	}

	var project models.Project
	if document.ProjectID != nil {
		err := r.DB.First(&project, *document.ProjectID).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if project.ID == 0 {
		project = models.Project{
			Name:        name,
			ClientType:  metadata.ClientType,
			Location:    metadata.Location,
			Timeline:    metadata.Timeline,
			BudgetRange: metadata.BudgetRange,
		}
		if err := r.DB.Create(&project).Error; err != nil {
			return nil, err
		}
		log.Printf("Project %d created for document %d", project.ID, document.ID)
		return &project, nil
	}

	project.Name = name
	project.ClientType = metadata.ClientType
	project.Location = metadata.Location
	project.Timeline = metadata.Timeline
	project.BudgetRange = metadata.BudgetRange
	project.Version++
	if err := r.DB.Save(&project).Error; err != nil {
		return nil, err
	}
	log.Printf("Project %d metadata updated from document %d", project.ID, document.ID)
	return &project, nil
}

// replaceSubtree deletes every space (and transitively every item) owned
// by the project and recreates the subtree from the evaluated extraction.
// Confidence is normalized once here; is_accepted starts unset.
func replaceSubtree(tx *gorm.DB, projectID uint64, spaces []extraction.SpaceRequirements) error {
	// Soft deletes do not cascade, so items go first.
	spaceIDs := tx.Model(&models.Space{}).Select("id").Where("project_id = ?", projectID)
	if err := tx.Where("space_id IN (?)", spaceIDs).Delete(&models.Item{}).Error; err != nil {
		return err
	}
	if err := tx.Where("project_id = ?", projectID).Delete(&models.Space{}).Error; err != nil {
		return err
	}

	for _, spaceData := range spaces {
		space := models.Space{
			ProjectID: projectID,
			RoomType:  spaceData.RoomType,
			Dimension: spaceData.Dimension,
			Area:      spaceData.Area,
		}
		if err := tx.Create(&space).Error; err != nil {
			return err
		}

		items := spaceData.Items.Slice()
		if len(items) == 0 {
			continue
		}
		rows := make([]models.Item, 0, len(items))
		for _, itemData := range items {
			rows = append(rows, models.Item{
				SpaceID:            space.ID,
				Name:               itemData.ResolvedName(),
				Category:           extraction.CanonicalCategory(itemData.Category),
				TechnicalSpecs:     itemData.TechnicalSpecs,
				MaterialPreference: itemData.MaterialPreference,
				ColorPreference:    itemData.ColorPreference,
				BrandPreference:    itemData.BrandPreference,
				SpecialInstruction: itemData.SpecialInstruction,
				Quantity:           itemData.Quantity.Ptr(),
				Confidence:         extraction.NormalizeConfidence(itemData.Confidence.Ptr()),
				IsAccepted:         nil,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return err
		}
	}

	return nil
}
