package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Certificate is a one-time credential record. The (student, course)
// unique index is the atomic issuance guard under concurrent qualifying
// events.
type Certificate struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID         uuid.UUID      `gorm:"type:uuid;not null;index:idx_cert_student_course,unique" json:"student_id"`
	Student           *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	CourseID          uuid.UUID      `gorm:"type:uuid;not null;index:idx_cert_student_course,unique" json:"course_id"`
	Course            *Course        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	CertificateNumber string         `gorm:"column:certificate_number;uniqueIndex;not null" json:"certificate_number"`
	IssuedOn          time.Time      `gorm:"column:issued_on;not null" json:"issued_on"`
	FilePath          string         `gorm:"column:file_path" json:"file_path"`
	CreatedAt         time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Certificate) TableName() string { return "certificate" }

func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.IssuedOn.IsZero() {
		c.IssuedOn = time.Now().UTC()
	}
	return nil
}
