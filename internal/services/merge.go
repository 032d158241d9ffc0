package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/briefworks/rfpdb/internal/extraction"
	"github.com/briefworks/rfpdb/internal/locks"
	"github.com/briefworks/rfpdb/internal/models"
	"github.com/briefworks/rfpdb/internal/oracle"
	"gorm.io/gorm"
)

// Merger owns the prompt-add operation: fold oracle-proposed additions
// into an existing project. Strictly additive; no existing space or item
// is ever mutated or deleted.
type Merger struct {
	DB       *gorm.DB
	Proposer oracle.AdditionProposer
	Locks    *locks.ProjectLocks
}

// NewMerger wires a Merger.
func NewMerger(db *gorm.DB, proposer oracle.AdditionProposer, l *locks.ProjectLocks) *Merger {
	return &Merger{DB: db, Proposer: proposer, Locks: l}
}

// MergeResult lists the identifiers of every record the merge created.
// Pre-existing record ids never appear here.
type MergeResult struct {
	CreatedSpaceIDs []uint64 `json:"created_spaces"`
	CreatedItemIDs  []uint64 `json:"created_items"`
}

// MergeAdditions asks the addition oracle for new spaces/items matching
// the user prompt and appends them to the project. Proposed spaces are
// matched against existing ones by case-insensitive room_type equality
// (first match wins); unmatched proposals create a new space, which
// immediately joins the match set so a later proposal in the same batch
// can land in it.
//
// Item/space creation is not wrapped in a rollback boundary; on a store
// failure the returned MergeResult holds the ids created before the
// failure and is ground truth for what exists.
func (m *Merger) MergeAdditions(ctx context.Context, projectID uint64, prompt string) (*MergeResult, error) {
	unlock := m.Locks.Lock(projectID)
	defer unlock()

	var project models.Project
	err := m.DB.Preload("Spaces.Items").Preload("Spaces").First(&project, projectID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("project %d: %w", projectID, ErrNotFound)
		}
		return nil, err
	}

	summary := summarizeSpaces(project.Spaces)

	additions, err := m.Proposer.ProposeAdditions(ctx, summary, prompt)
	if err != nil {
		log.Printf("Prompt-based additions failed for project %d: %v", projectID, err)
		return nil, err
	}

	result := &MergeResult{
		CreatedSpaceIDs: []uint64{},
		CreatedItemIDs:  []uint64{},
	}

	for _, spaceAdd := range additions {
		target := matchSpace(project.Spaces, spaceAdd.RoomType)
		if target == nil {
			newSpace := models.Space{
				ProjectID: projectID,
				RoomType:  spaceAdd.RoomType,
				Dimension: spaceAdd.Dimension,
				Area:      spaceAdd.Area,
			}
			if err := m.DB.Create(&newSpace).Error; err != nil {
				return result, err
			}
			project.Spaces = append(project.Spaces, newSpace)
			target = &project.Spaces[len(project.Spaces)-1]
			result.CreatedSpaceIDs = append(result.CreatedSpaceIDs, newSpace.ID)
		}

		for _, itemAdd := range spaceAdd.Items.Slice() {
			item := models.Item{
				SpaceID:            target.ID,
				Name:               itemAdd.ResolvedName(),
				Category:           extraction.CanonicalCategory(itemAdd.Category),
				TechnicalSpecs:     itemAdd.TechnicalSpecs,
				MaterialPreference: itemAdd.MaterialPreference,
				ColorPreference:    itemAdd.ColorPreference,
				BrandPreference:    itemAdd.BrandPreference,
				SpecialInstruction: itemAdd.SpecialInstruction,
				Quantity:           itemAdd.Quantity.Ptr(),
				Confidence:         extraction.NormalizeConfidence(itemAdd.Confidence.Ptr()),
				IsAccepted:         nil,
			}
			if err := m.DB.Create(&item).Error; err != nil {
				return result, err
			}
			result.CreatedItemIDs = append(result.CreatedItemIDs, item.ID)
		}
	}

	log.Printf("Prompt-based additions applied to project %d: %d spaces, %d items",
		projectID, len(result.CreatedSpaceIDs), len(result.CreatedItemIDs))
	return result, nil
}

// summarizeSpaces builds the compact context the addition oracle sees:
// one line per space with its items and quantities (default 1), joined
// with "; ", or a fixed sentinel for an empty project.
func summarizeSpaces(spaces []models.Space) string {
	if len(spaces) == 0 {
		return "No spaces yet."
	}

	lines := make([]string, 0, len(spaces))
	for _, space := range spaces {
		if len(space.Items) == 0 {
			lines = append(lines, fmt.Sprintf("%s: no items", space.RoomType))
			continue
		}
		parts := make([]string, 0, len(space.Items))
		for _, item := range space.Items {
			qty := 1
			if item.Quantity != nil {
				qty = *item.Quantity
			}
			parts = append(parts, fmt.Sprintf("%s (qty %d)", item.Name, qty))
		}
		lines = append(lines, fmt.Sprintf("%s: %s", space.RoomType, strings.Join(parts, ", ")))
	}
	return strings.Join(lines, "; ")
}

// matchSpace finds the first space whose room_type equals the proposal's,
// case-insensitively.
func matchSpace(spaces []models.Space, roomType string) *models.Space {
	for i := range spaces {
		if strings.EqualFold(spaces[i].RoomType, roomType) {
			return &spaces[i]
		}
	}
	return nil
}
