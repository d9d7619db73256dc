package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotificationTypeGeneral           = "general"
	NotificationTypeEnrollment        = "enrollment"
	NotificationTypeGradeReceived     = "grade_received"
	NotificationTypeCertificateEarned = "certificate_earned"
	NotificationTypeDeadlineReminder  = "deadline_reminder"
)

const (
	NotificationPriorityLow    = "low"
	NotificationPriorityMedium = "medium"
	NotificationPriorityHigh   = "high"
)

type Notification struct {
	ID                  uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	RecipientID         uuid.UUID      `gorm:"type:uuid;not null;index" json:"recipient_id"`
	Recipient           *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:RecipientID;references:ID" json:"recipient,omitempty"`
	Title               string         `gorm:"column:title;not null" json:"title"`
	Message             string         `gorm:"column:message;not null" json:"message"`
	NotificationType    string         `gorm:"column:notification_type;not null;default:'general';index" json:"notification_type"`
	Priority            string         `gorm:"column:priority;not null;default:'medium'" json:"priority"`
	RelatedCourseID     *uuid.UUID     `gorm:"type:uuid;index" json:"related_course_id,omitempty"`
	RelatedEvaluationID *uuid.UUID     `gorm:"type:uuid;index" json:"related_evaluation_id,omitempty"`
	ActionURL           string         `gorm:"column:action_url" json:"action_url"`
	Metadata            datatypes.JSON `gorm:"type:jsonb;column:metadata" json:"metadata,omitempty"`
	IsRead              bool           `gorm:"column:is_read;not null;default:false" json:"is_read"`
	SentOn              time.Time      `gorm:"column:sent_on;not null" json:"sent_on"`
	CreatedAt           time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Notification) TableName() string { return "notification" }

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.SentOn.IsZero() {
		n.SentOn = time.Now().UTC()
	}
	return nil
}
