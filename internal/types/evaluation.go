package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EvaluationTypeQuiz       = "Quiz"
	EvaluationTypeAssignment = "Assignment"
)

type Evaluation struct {
	ID                 uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ModuleID           uuid.UUID      `gorm:"type:uuid;not null;index" json:"module_id"`
	Module             *CourseModule  `gorm:"constraint:OnDelete:CASCADE;foreignKey:ModuleID;references:ID" json:"module,omitempty"`
	Title              string         `gorm:"column:title;not null" json:"title"`
	Description        string         `gorm:"column:description" json:"description"`
	EvaluationType     string         `gorm:"column:evaluation_type;not null;default:'Quiz'" json:"evaluation_type"`
	Deadline           time.Time      `gorm:"column:deadline" json:"deadline"`
	MaxScore           float64        `gorm:"column:max_score;not null;default:100" json:"max_score"`
	PassingScore       float64        `gorm:"column:passing_score;not null;default:60" json:"passing_score"`
	AllowRetake        bool           `gorm:"column:allow_retake;not null;default:false" json:"allow_retake"`
	MaxAttempts        int            `gorm:"column:max_attempts;not null;default:1" json:"max_attempts"`
	ShowCorrectAnswers bool           `gorm:"column:show_correct_answers;not null;default:true" json:"show_correct_answers"`
	TimeLimitMinutes   *int           `gorm:"column:time_limit_minutes" json:"time_limit_minutes,omitempty"`
	CreatedAt          time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Evaluation) TableName() string { return "evaluation" }

func (e *Evaluation) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
