package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LevelBeginner     = "Beginner"
	LevelIntermediate = "Intermediate"
	LevelAdvanced     = "Advanced"
)

type Course struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	InstructorID      uuid.UUID      `gorm:"type:uuid;not null;index" json:"instructor_id"`
	Instructor        *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:InstructorID;references:ID" json:"instructor,omitempty"`
	Title             string         `gorm:"column:title;not null" json:"title"`
	Description       string         `gorm:"column:description" json:"description"`
	Level             string         `gorm:"column:level;not null;default:'Beginner'" json:"level"`
	EstimatedDuration int            `gorm:"column:estimated_duration;not null;default:1" json:"estimated_duration"`
	StartDate         time.Time      `gorm:"column:start_date" json:"start_date"`
	EndDate           time.Time      `gorm:"column:end_date" json:"end_date"`
	ImagePath         string         `gorm:"column:image_path" json:"image_path"`
	CreatedAt         time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Course) TableName() string { return "course" }

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
