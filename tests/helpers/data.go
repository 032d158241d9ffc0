package helpers

import (
	"testing"

	"github.com/briefworks/rfpdb/internal/models"
	"gorm.io/gorm"
)

// CreateTestProject creates a project with the given name
func CreateTestProject(t *testing.T, db *gorm.DB, name string) *models.Project {
	t.Helper()
	project := models.Project{Name: name}
	if err := db.Create(&project).Error; err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}
	return &project
}

// CreateTestSpace creates a space under the given project
func CreateTestSpace(t *testing.T, db *gorm.DB, projectID uint64, roomType string) *models.Space {
	t.Helper()
	space := models.Space{ProjectID: projectID, RoomType: roomType}
	if err := db.Create(&space).Error; err != nil {
		t.Fatalf("Failed to create space: %v", err)
	}
	return &space
}

// CreateTestItem creates an item under the given space
func CreateTestItem(t *testing.T, db *gorm.DB, spaceID uint64, name, category string) *models.Item {
	t.Helper()
	item := models.Item{SpaceID: spaceID, Name: name, Category: category}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("Failed to create item: %v", err)
	}
	return &item
}

// CreateTestDocument creates an uploaded document record, optionally linked
// to a project
func CreateTestDocument(t *testing.T, db *gorm.DB, filename string, filePath *string, projectID *uint64) *models.Document {
	t.Helper()
	document := models.Document{Filename: filename, FilePath: filePath, ProjectID: projectID}
	if err := db.Create(&document).Error; err != nil {
		t.Fatalf("Failed to create document: %v", err)
	}
	return &document
}
