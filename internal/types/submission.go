package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SubmissionStatusPending = "pending"
	SubmissionStatusGraded  = "graded"
	SubmissionStatusLate    = "late"
)

// Submission is unique per (evaluation, student, attempt_number) so
// retakes create new rows instead of overwriting history.
type Submission struct {
	ID                uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EvaluationID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_eval_student_attempt,unique" json:"evaluation_id"`
	Evaluation        *Evaluation    `gorm:"constraint:OnDelete:CASCADE;foreignKey:EvaluationID;references:ID" json:"evaluation,omitempty"`
	StudentID         uuid.UUID      `gorm:"type:uuid;not null;index:idx_eval_student_attempt,unique" json:"student_id"`
	Student           *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:StudentID;references:ID" json:"student,omitempty"`
	AttemptNumber     int            `gorm:"column:attempt_number;not null;default:1;index:idx_eval_student_attempt,unique" json:"attempt_number"`
	Score             float64        `gorm:"column:score;not null;default:0" json:"score"`
	MaxScore          float64        `gorm:"column:max_score;not null;default:0" json:"max_score"`
	Percentage        float64        `gorm:"column:percentage;not null;default:0" json:"percentage"`
	Passed            bool           `gorm:"column:passed;not null;default:false" json:"passed"`
	Status            string         `gorm:"column:status;not null;default:'pending'" json:"status"`
	InstructorComment string         `gorm:"column:instructor_comment" json:"instructor_comment"`
	FilePath          string         `gorm:"column:file_path" json:"file_path"`
	SubmittedOn       time.Time      `gorm:"column:submitted_on;not null" json:"submitted_on"`
	GradedOn          *time.Time     `gorm:"column:graded_on" json:"graded_on,omitempty"`
	CreatedAt         time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Submission) TableName() string { return "submission" }

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.SubmittedOn.IsZero() {
		s.SubmittedOn = time.Now().UTC()
	}
	return nil
}
