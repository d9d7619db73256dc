package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Progress holds per-module completion state for one enrollment. It is
// always recomputed from current event counts, never patched
// incrementally.
type Progress struct {
	ID                   uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EnrollmentID         uuid.UUID      `gorm:"type:uuid;not null;index:idx_enrollment_module,unique" json:"enrollment_id"`
	Enrollment           *Enrollment    `gorm:"constraint:OnDelete:CASCADE;foreignKey:EnrollmentID;references:ID" json:"enrollment,omitempty"`
	ModuleID             uuid.UUID      `gorm:"type:uuid;not null;index:idx_enrollment_module,unique" json:"module_id"`
	Module               *CourseModule  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	CompletionPercent    float64        `gorm:"column:completion_percent;not null;default:0" json:"completion_percent"`
	ResourcesViewed      int            `gorm:"column:resources_viewed;not null;default:0" json:"resources_viewed"`
	TotalResources       int            `gorm:"column:total_resources;not null;default:0" json:"total_resources"`
	EvaluationsCompleted int            `gorm:"column:evaluations_completed;not null;default:0" json:"evaluations_completed"`
	TotalEvaluations     int            `gorm:"column:total_evaluations;not null;default:0" json:"total_evaluations"`
	IsCompleted          bool           `gorm:"column:is_completed;not null;default:false" json:"is_completed"`
	CompletedOn          *time.Time     `gorm:"column:completed_on" json:"completed_on,omitempty"`
	CreatedAt            time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt            time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Progress) TableName() string { return "progress" }

func (p *Progress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
