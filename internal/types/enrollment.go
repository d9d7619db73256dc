package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enrollment is unique per (student, course). Only the certified flag is
// ever mutated after creation.
type Enrollment struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID  uuid.UUID      `gorm:"type:uuid;not null;index:idx_student_course,unique" json:"student_id"`
	Student    *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	CourseID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_student_course,unique" json:"course_id"`
	Course     *Course        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	EnrolledOn time.Time      `gorm:"column:enrolled_on;not null" json:"enrolled_on"`
	Certified  bool           `gorm:"column:certified;not null;default:false" json:"certified"`
	CreatedAt  time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Enrollment) TableName() string { return "enrollment" }

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.EnrolledOn.IsZero() {
		e.EnrolledOn = time.Now().UTC()
	}
	return nil
}
