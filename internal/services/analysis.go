package services

import (
	"time"

	"github.com/briefworks/rfpdb/internal/models"
)

// ItemView is the API shape for one requirement.
type ItemView struct {
	ID                 uint64   `json:"id"`
	Name               string   `json:"name"`
	Category           string   `json:"category"`
	TechnicalSpecs     *string  `json:"technical_specs"`
	MaterialPreference *string  `json:"material_preference"`
	ColorPreference    *string  `json:"color_preference"`
	BrandPreference    *string  `json:"brand_preference"`
	SpecialInstruction *string  `json:"special_instruction"`
	Quantity           *int     `json:"quantity"`
	Confidence         *float64 `json:"confidence"`
	IsAccepted         *bool    `json:"is_accepted"`
}

// SpaceView is the API shape for one space with its items.
type SpaceView struct {
	ID        uint64     `json:"id"`
	RoomType  string     `json:"room_type"`
	Dimension *string    `json:"dimension"`
	Area      *string    `json:"area"`
	Items     []ItemView `json:"items"`
}

// ProjectAnalysis is the full nested view of a project's extraction state.
type ProjectAnalysis struct {
	ID          uint64      `json:"id"`
	Name        string      `json:"name"`
	ClientType  *string     `json:"client_type"`
	Location    *string     `json:"location"`
	Timeline    *string     `json:"timeline"`
	BudgetRange *string     `json:"budget_range"`
	CreatedAt   time.Time   `json:"created_at"`
	Spaces      []SpaceView `json:"spaces"`
}

// buildAnalysis flattens a preloaded project into its API view.
func buildAnalysis(project *models.Project) *ProjectAnalysis {
	analysis := &ProjectAnalysis{
		ID:          project.ID,
		Name:        project.Name,
		ClientType:  project.ClientType,
		Location:    project.Location,
		Timeline:    project.Timeline,
		BudgetRange: project.BudgetRange,
		CreatedAt:   project.CreatedAt,
		Spaces:      make([]SpaceView, 0, len(project.Spaces)),
	}

	for _, space := range project.Spaces {
		view := SpaceView{
			ID:        space.ID,
			RoomType:  space.RoomType,
			Dimension: space.Dimension,
			Area:      space.Area,
			Items:     make([]ItemView, 0, len(space.Items)),
		}
		for _, item := range space.Items {
			view.Items = append(view.Items, ItemView{
				ID:                 item.ID,
				Name:               item.Name,
				Category:           item.Category,
				TechnicalSpecs:     item.TechnicalSpecs,
				MaterialPreference: item.MaterialPreference,
				ColorPreference:    item.ColorPreference,
				BrandPreference:    item.BrandPreference,
				SpecialInstruction: item.SpecialInstruction,
				Quantity:           item.Quantity,
				Confidence:         item.Confidence,
				IsAccepted:         item.IsAccepted,
			})
		}
		analysis.Spaces = append(analysis.Spaces, view)
	}

	return analysis
}
