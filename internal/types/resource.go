package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	ResourceTypeVideo = "video"
	ResourceTypePDF   = "pdf"
	ResourceTypeImage = "image"
	ResourceTypeFile  = "file"
)

type Resource struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"module_id"`
	Module       *CourseModule  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	Title        string         `gorm:"column:title;not null" json:"title"`
	ResourceType string         `gorm:"column:resource_type;not null;default:'file'" json:"resource_type"`
	FilePath     string         `gorm:"column:file_path" json:"file_path"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Resource) TableName() string { return "resource" }

func (r *Resource) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
