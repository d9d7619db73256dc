package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Question struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EvaluationID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"evaluation_id"`
	Evaluation    *Evaluation    `gorm:"constraint:OnDelete:CASCADE;foreignKey:EvaluationID;references:ID" json:"evaluation,omitempty"`
	Text          string         `gorm:"column:text;not null" json:"text"`
	Option1       string         `gorm:"column:option1;not null" json:"option1"`
	Option2       string         `gorm:"column:option2;not null" json:"option2"`
	Option3       string         `gorm:"column:option3;not null" json:"option3"`
	Option4       string         `gorm:"column:option4;not null" json:"option4"`
	CorrectOption string         `gorm:"column:correct_option;not null" json:"correct_option"`
	Points        float64        `gorm:"column:points;not null;default:1" json:"points"`
	Order         int            `gorm:"column:order;not null;default:0" json:"order"`
	CreatedAt     time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Question) TableName() string { return "question" }

func (q *Question) BeforeCreate(tx *gorm.DB) error {
	if q.ID == uuid.Nil {
		q.ID = uuid.New()
	}
	return nil
}
