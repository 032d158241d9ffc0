package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/briefworks/rfpdb/internal/config"
	"github.com/briefworks/rfpdb/internal/models"
	"github.com/briefworks/rfpdb/internal/types"
)

func newTestService(t *testing.T) *ProjectService {
	t.Helper()
	db := setupTestDB(t)
	cfg := &config.Config{DBType: "sqlite", UploadDir: t.TempDir()}
	return NewProjectService(db, cfg, nil, nil)
}

// TestUploadAndListDocuments verifies upload storage and list ordering
func TestUploadAndListDocuments(t *testing.T) {
	s := newTestService(t)

	first, err := s.UploadDocument("first_rfp.txt", strings.NewReader("first brief"))
	if err != nil {
		t.Fatalf("UploadDocument failed: %v", err)
	}
	if first.FilePath == nil || !strings.HasSuffix(*first.FilePath, "_first_rfp.txt") {
		t.Errorf("Expected uuid-prefixed stored path, got %v", first.FilePath)
	}
	if _, err := s.UploadDocument("second_rfp.txt", strings.NewReader("second brief")); err != nil {
		t.Fatalf("UploadDocument failed: %v", err)
	}

	docs, err := s.ListDocuments()
	if err != nil {
		t.Fatalf("ListDocuments failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("Expected 2 documents, got %d", len(docs))
	}
	for _, doc := range docs {
		if doc.HasAnalysis {
			t.Errorf("Expected has_analysis false before analysis, got true for %d", doc.ID)
		}
		if doc.ProjectID != nil {
			t.Errorf("Expected unlinked document, got project %d", *doc.ProjectID)
		}
	}
}

// TestGetProjectNotFound verifies the sentinel error
func TestGetProjectNotFound(t *testing.T) {
	s := newTestService(t)
	if _, err := s.GetProject(42); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

// TestAddSpaceWithItems verifies manual space creation
func TestAddSpaceWithItems(t *testing.T) {
	s := newTestService(t)

	project := models.Project{Name: "Acme HQ Fit-Out"}
	s.DB.Create(&project)

	space, err := s.AddSpaceWithItems(project.ID, SpaceCreate{
		RoomType:  "Conference Room",
		Dimension: strPtr("15x20"),
		Items: []ItemCreate{
			{Name: strPtr("Conference Table"), Category: strPtr("furniture"), Quantity: intPtr(1)},
			{Category: strPtr("fixture"), Confidence: floatPtr64(2.5)},
		},
	})
	if err != nil {
		t.Fatalf("AddSpaceWithItems failed: %v", err)
	}
	if len(space.Items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(space.Items))
	}
	// Nameless items fall back to their canonical category
	if space.Items[1].Name != "Fixture" || space.Items[1].Category != "Fixture" {
		t.Errorf("Expected category fallback name, got %+v", space.Items[1])
	}
	if space.Items[1].Confidence == nil || *space.Items[1].Confidence != 1.0 {
		t.Errorf("Expected manual confidence clamped, got %v", space.Items[1].Confidence)
	}

	// Unknown project is rejected before any write
	if _, err := s.AddSpaceWithItems(999, SpaceCreate{RoomType: "Attic"}); err == nil {
		t.Error("Expected not found error for unknown project")
	}
}

// TestAddItemToSpace verifies manual item creation
func TestAddItemToSpace(t *testing.T) {
	s := newTestService(t)

	project := models.Project{Name: "Acme HQ Fit-Out"}
	s.DB.Create(&project)
	space := models.Space{ProjectID: project.ID, RoomType: "Kitchen"}
	s.DB.Create(&space)

	item, err := s.AddItemToSpace(space.ID, ItemCreate{
		Name:       strPtr("Espresso Machine"),
		Category:   strPtr("Appliance"),
		IsAccepted: boolPtr(true),
	})
	if err != nil {
		t.Fatalf("AddItemToSpace failed: %v", err)
	}
	// Manual items may arrive pre-accepted, unlike pipeline items
	if item.IsAccepted == nil || !*item.IsAccepted {
		t.Errorf("Expected manual acceptance preserved, got %v", item.IsAccepted)
	}

	if _, err := s.AddItemToSpace(999, ItemCreate{}); err == nil {
		t.Error("Expected not found error for unknown space")
	}
}

// TestUpdateRequirement verifies the allow-list PATCH semantics
func TestUpdateRequirement(t *testing.T) {
	s := newTestService(t)

	project := models.Project{Name: "Acme HQ Fit-Out"}
	s.DB.Create(&project)
	space := models.Space{ProjectID: project.ID, RoomType: "Kitchen"}
	s.DB.Create(&space)
	item := models.Item{SpaceID: space.ID, Name: "Refrigerator", Category: "Appliance"}
	s.DB.Create(&item)

	updated, err := s.UpdateRequirement(item.ID, ItemUpdate{
		Name:       strPtr("French Door Refrigerator"),
		Category:   strPtr("appliance"),
		Confidence: floatPtr64(1.8),
		IsAccepted: types.OptionalBool{Present: true, Value: boolPtr(true)},
	})
	if err != nil {
		t.Fatalf("UpdateRequirement failed: %v", err)
	}
	if updated.Name != "French Door Refrigerator" {
		t.Errorf("Expected updated name, got %q", updated.Name)
	}
	if updated.Category != "Appliance" {
		t.Errorf("Expected canonical category, got %q", updated.Category)
	}
	if updated.Confidence == nil || *updated.Confidence != 1.0 {
		t.Errorf("Expected patched confidence clamped, got %v", updated.Confidence)
	}
	if updated.IsAccepted == nil || !*updated.IsAccepted {
		t.Errorf("Expected accepted, got %v", updated.IsAccepted)
	}
	if updated.Version != 2 {
		t.Errorf("Expected version bump to 2, got %d", updated.Version)
	}

	// Explicit null resets acceptance to undecided
	reset, err := s.UpdateRequirement(item.ID, ItemUpdate{
		IsAccepted: types.OptionalBool{Present: true, Value: nil},
	})
	if err != nil {
		t.Fatalf("UpdateRequirement reset failed: %v", err)
	}
	if reset.IsAccepted != nil {
		t.Errorf("Expected acceptance reset to nil, got %v", *reset.IsAccepted)
	}
	if reset.Version != 3 {
		t.Errorf("Expected version 3, got %d", reset.Version)
	}

	// An all-absent patch is a no-op and does not bump the version
	same, err := s.UpdateRequirement(item.ID, ItemUpdate{})
	if err != nil {
		t.Fatalf("UpdateRequirement no-op failed: %v", err)
	}
	if same.Version != 3 {
		t.Errorf("Expected version unchanged on no-op, got %d", same.Version)
	}
}

// TestExport verifies accepted-only filtering and CSV rendering
func TestExport(t *testing.T) {
	s := newTestService(t)

	project := models.Project{Name: "Acme HQ Fit-Out"}
	s.DB.Create(&project)

	kitchen := models.Space{ProjectID: project.ID, RoomType: "Kitchen"}
	s.DB.Create(&kitchen)
	lobby := models.Space{ProjectID: project.ID, RoomType: "Lobby"}
	s.DB.Create(&lobby)

	s.DB.Create(&models.Item{SpaceID: kitchen.ID, Name: "Refrigerator", Category: "Appliance", Quantity: intPtr(1), IsAccepted: boolPtr(true)})
	s.DB.Create(&models.Item{SpaceID: kitchen.ID, Name: "Bar Stool", Category: "Furniture", IsAccepted: boolPtr(false)})
	s.DB.Create(&models.Item{SpaceID: kitchen.ID, Name: "Pendant Light", Category: "Fixture"}) // undecided
	s.DB.Create(&models.Item{SpaceID: lobby.ID, Name: "Sofa", Category: "Furniture"})          // undecided only

	analysis, err := s.ExportAnalysis(project.ID)
	if err != nil {
		t.Fatalf("ExportAnalysis failed: %v", err)
	}
	// Lobby has no accepted items and is omitted entirely
	if len(analysis.Spaces) != 1 || analysis.Spaces[0].RoomType != "Kitchen" {
		t.Fatalf("Expected only Kitchen in export, got %+v", analysis.Spaces)
	}
	if len(analysis.Spaces[0].Items) != 1 || analysis.Spaces[0].Items[0].Name != "Refrigerator" {
		t.Errorf("Expected only the accepted item, got %+v", analysis.Spaces[0].Items)
	}

	rows, err := s.ExportRows(project.ID)
	if err != nil {
		t.Fatalf("ExportRows failed: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("Expected 1 export row, got %d", len(rows))
	}
	if rows[0].ProjectName != "Acme HQ Fit-Out" || rows[0].Space != "Kitchen" || rows[0].Quantity != "1" {
		t.Errorf("Unexpected row: %+v", rows[0])
	}

	csvText, err := RenderCSV(rows)
	if err != nil {
		t.Fatalf("RenderCSV failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(csvText), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header + 1 row, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "project_name,space,item_name,category") {
		t.Errorf("Unexpected CSV header: %q", lines[0])
	}
	if !strings.Contains(lines[1], "Refrigerator") {
		t.Errorf("Unexpected CSV row: %q", lines[1])
	}
}

func floatPtr64(f float64) *float64 { return &f }
