package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ResourceView is an append-only fact, unique per (student, resource);
// re-viewing does not duplicate.
type ResourceView struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_student_resource,unique" json:"student_id"`
	Student    *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	ResourceID uuid.UUID      `gorm:"type:uuid;not null;index:idx_student_resource,unique" json:"resource_id"`
	Resource   *Resource      `gorm:"constraint:OnDelete:CASCADE;foreignKey:ResourceID;references:ID" json:"resource,omitempty"`
	ViewedOn   time.Time      `gorm:"column:viewed_on;not null" json:"viewed_on"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ResourceView) TableName() string { return "resource_view" }

func (rv *ResourceView) BeforeCreate(tx *gorm.DB) error {
	if rv.ID == uuid.Nil {
		rv.ID = uuid.New()
	}
	if rv.ViewedOn.IsZero() {
		rv.ViewedOn = time.Now().UTC()
	}
	return nil
}
