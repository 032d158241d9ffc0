package models

import (
	"time"

	"gorm.io/gorm"
)

// Audit carries the generic audit columns shared by every table:
// actor-stamped create/update/delete metadata, soft delete, and an
// optimistic version counter.
type Audit struct {
	CreatedAt time.Time      `json:"created_at"`
	CreatedBy *string        `gorm:"size:255" json:"created_by,omitempty"`
	UpdatedAt time.Time      `json:"updated_at"`
	UpdatedBy *string        `gorm:"size:255" json:"updated_by,omitempty"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy *string        `gorm:"size:255" json:"-"`
	Version   int            `gorm:"not null;default:1" json:"version"`
}

// Project is the top-level record for one client engagement.
type Project struct {
	ID          uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string  `gorm:"size:255;not null" json:"name"`
	ClientType  *string `gorm:"size:255" json:"client_type,omitempty"`
	Location    *string `gorm:"size:255" json:"location,omitempty"`
	Timeline    *string `gorm:"size:255" json:"timeline,omitempty"`
	BudgetRange *string `gorm:"size:255" json:"budget_range,omitempty"`
	Audit

	Spaces    []Space    `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"spaces,omitempty"`
	Documents []Document `gorm:"foreignKey:ProjectID" json:"documents,omitempty"`
}

// Document is an uploaded brief. ProjectID stays null until the document
// has been analyzed; at most one project is ever linked to a document.
type Document struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID  *uint64   `gorm:"index" json:"project_id,omitempty"`
	Filename   string    `gorm:"size:255;not null" json:"filename"`
	FilePath   *string   `gorm:"size:512" json:"file_path,omitempty"`
	UploadDate time.Time `gorm:"autoCreateTime" json:"upload_date"`
	ParseMeta  JSON      `json:"parse_meta,omitempty"`
	Audit
}

// Space is a room or area within a project. RoomType is the natural key
// the merge algorithm matches on, case-insensitively.
type Space struct {
	ID        uint64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ProjectID uint64  `gorm:"not null;index" json:"project_id"`
	RoomType  string  `gorm:"size:255;not null" json:"room_type"`
	Dimension *string `gorm:"size:255" json:"dimension,omitempty"`
	Area      *string `gorm:"size:255" json:"area,omitempty"`
	Audit

	Items []Item `gorm:"foreignKey:SpaceID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// Item is one extracted requirement within a space. Confidence, when set,
// is always in [0,1]; IsAccepted is the tri-state human-in-the-loop gate
// (nil = undecided).
type Item struct {
	ID                 uint64   `gorm:"primaryKey;autoIncrement" json:"id"`
	SpaceID            uint64   `gorm:"not null;index" json:"space_id"`
	Name               string   `gorm:"size:255;not null" json:"name"`
	Category           string   `gorm:"size:64;not null" json:"category"`
	TechnicalSpecs     *string  `gorm:"size:1024" json:"technical_specs,omitempty"`
	MaterialPreference *string  `gorm:"size:255" json:"material_preference,omitempty"`
	ColorPreference    *string  `gorm:"size:255" json:"color_preference,omitempty"`
	BrandPreference    *string  `gorm:"size:255" json:"brand_preference,omitempty"`
	SpecialInstruction *string  `gorm:"size:1024" json:"special_instruction,omitempty"`
	Quantity           *int     `json:"quantity,omitempty"`
	Confidence         *float64 `json:"confidence,omitempty"`
	IsAccepted         *bool    `json:"is_accepted,omitempty"`
	Audit
}

// TableName overrides the table name for Project
func (Project) TableName() string {
	return "projects"
}

// TableName overrides the table name for Document
func (Document) TableName() string {
	return "documents"
}

// TableName overrides the table name for Space
func (Space) TableName() string {
	return "spaces"
}

// TableName overrides the table name for Item
func (Item) TableName() string {
	return "items"
}
