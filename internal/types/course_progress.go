package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CourseProgress is the per-enrollment rollup across Progress rows.
// Derived entirely from Progress and graded submissions; never
// hand-edited.
type CourseProgress struct {
	ID                       uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EnrollmentID             uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"enrollment_id"`
	Enrollment               *Enrollment    `gorm:"constraint:OnDelete:CASCADE;foreignKey:EnrollmentID;references:ID" json:"enrollment,omitempty"`
	OverallCompletionPercent float64        `gorm:"column:overall_completion_percent;not null;default:0" json:"overall_completion_percent"`
	ModulesCompleted         int            `gorm:"column:modules_completed;not null;default:0" json:"modules_completed"`
	TotalModules             int            `gorm:"column:total_modules;not null;default:0" json:"total_modules"`
	AverageScore             *float64       `gorm:"column:average_score" json:"average_score,omitempty"`
	CreatedAt                time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt                time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt                gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (CourseProgress) TableName() string { return "course_progress" }

func (cp *CourseProgress) BeforeCreate(tx *gorm.DB) error {
	if cp.ID == uuid.Nil {
		cp.ID = uuid.New()
	}
	return nil
}
