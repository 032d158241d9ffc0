package services

import (
	"encoding/csv"
	"log"
	"strconv"
	"strings"
)

// ExportRow is one accepted item in the flattened tabular export form.
type ExportRow struct {
	ProjectName    string `json:"project_name"`
	Space          string `json:"space"`
	ItemName       string `json:"item_name"`
	Category       string `json:"category"`
	TechnicalSpecs string `json:"technical_specs"`
	Material       string `json:"material"`
	Color          string `json:"color"`
	Brand          string `json:"brand"`
	Quantity       string `json:"quantity"`
}

// ExportAnalysis returns the project's nested analysis filtered down to
// accepted items. An item appears iff is_accepted is exactly true; spaces
// with zero accepted items are omitted entirely.
func (s *ProjectService) ExportAnalysis(projectID uint64) (*ProjectAnalysis, error) {
	analysis, err := s.GetProjectAnalysis(projectID)
	if err != nil {
		return nil, err
	}

	filtered := make([]SpaceView, 0, len(analysis.Spaces))
	for _, space := range analysis.Spaces {
		accepted := make([]ItemView, 0, len(space.Items))
		for _, item := range space.Items {
			if item.IsAccepted != nil && *item.IsAccepted {
				accepted = append(accepted, item)
			}
		}
		if len(accepted) == 0 {
			continue
		}
		space.Items = accepted
		filtered = append(filtered, space)
	}
	analysis.Spaces = filtered

	log.Printf("Exported requirements (json): project=%d spaces=%d", projectID, len(filtered))
	return analysis, nil
}

// ExportRows returns the accepted items as flattened rows, one per item.
func (s *ProjectService) ExportRows(projectID uint64) ([]ExportRow, error) {
	analysis, err := s.GetProjectAnalysis(projectID)
	if err != nil {
		return nil, err
	}

	rows := []ExportRow{}
	for _, space := range analysis.Spaces {
		for _, item := range space.Items {
			if item.IsAccepted == nil || !*item.IsAccepted {
				continue
			}
			rows = append(rows, ExportRow{
				ProjectName:    analysis.Name,
				Space:          space.RoomType,
				ItemName:       item.Name,
				Category:       item.Category,
				TechnicalSpecs: strOrEmpty(item.TechnicalSpecs),
				Material:       strOrEmpty(item.MaterialPreference),
				Color:          strOrEmpty(item.ColorPreference),
				Brand:          strOrEmpty(item.BrandPreference),
				Quantity:       intOrEmpty(item.Quantity),
			})
		}
	}

	log.Printf("Exported requirements (csv): project=%d rows=%d", projectID, len(rows))
	return rows, nil
}

// RenderCSV serializes export rows to CSV text with a header line.
func RenderCSV(rows []ExportRow) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write([]string{
		"project_name", "space", "item_name", "category",
		"technical_specs", "material", "color", "brand", "quantity",
	}); err != nil {
		return "", err
	}
	for _, row := range rows {
		if err := w.Write([]string{
			row.ProjectName, row.Space, row.ItemName, row.Category,
			row.TechnicalSpecs, row.Material, row.Color, row.Brand, row.Quantity,
		}); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}

func strOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intOrEmpty(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}
