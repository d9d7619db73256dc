package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubmittedAnswer struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	SubmissionID   uuid.UUID      `gorm:"type:uuid;not null;index:idx_submission_question,unique" json:"submission_id"`
	Submission     *Submission    `gorm:"constraint:OnDelete:CASCADE;foreignKey:SubmissionID;references:ID" json:"submission,omitempty"`
	QuestionID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_submission_question,unique" json:"question_id"`
	Question       *Question      `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	SelectedOption string         `gorm:"column:selected_option" json:"selected_option"`
	IsCorrect      bool           `gorm:"column:is_correct;not null;default:false" json:"is_correct"`
	PointsEarned   float64        `gorm:"column:points_earned;not null;default:0" json:"points_earned"`
	CreatedAt      time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (SubmittedAnswer) TableName() string { return "submitted_answer" }

func (a *SubmittedAnswer) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
