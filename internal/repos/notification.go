package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edusphere/edusphere-backend/internal/logger"
	"github.com/edusphere/edusphere-backend/internal/types"
)

type NotificationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Notification) error
	GetByRecipientID(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, unreadOnly bool) ([]*types.Notification, error)
	CountByRecipientAndCourse(ctx context.Context, tx *gorm.DB, recipientID, courseID uuid.UUID, notificationType string) (int, error)
	ExistsForEvaluationOnDay(ctx context.Context, tx *gorm.DB, recipientID, evaluationID uuid.UUID, notificationType string, day time.Time) (bool, error)
	MarkRead(ctx context.Context, tx *gorm.DB, id, recipientID uuid.UUID) error
	MarkAllRead(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID) error
}

type notificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewNotificationRepo(db *gorm.DB, baseLog *logger.Logger) NotificationRepo {
	return &notificationRepo{db: db, log: baseLog.With("repo", "NotificationRepo")}
}

func (r *notificationRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Notification) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil || row.RecipientID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *notificationRepo) GetByRecipientID(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID, unreadOnly bool) ([]*types.Notification, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Notification
	if recipientID == uuid.Nil {
		return results, nil
	}
	q := transaction.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if err := q.Order("sent_on DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *notificationRepo) CountByRecipientAndCourse(ctx context.Context, tx *gorm.DB, recipientID, courseID uuid.UUID, notificationType string) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	q := transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("recipient_id = ?", recipientID)
	if courseID != uuid.Nil {
		q = q.Where("related_course_id = ?", courseID)
	}
	if notificationType != "" {
		q = q.Where("notification_type = ?", notificationType)
	}
	if err := q.Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *notificationRepo) ExistsForEvaluationOnDay(ctx context.Context, tx *gorm.DB, recipientID, evaluationID uuid.UUID, notificationType string, day time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("recipient_id = ? AND related_evaluation_id = ? AND notification_type = ? AND sent_on >= ? AND sent_on < ?",
			recipientID, evaluationID, notificationType, dayStart, dayEnd).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *notificationRepo) MarkRead(ctx context.Context, tx *gorm.DB, id, recipientID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil || recipientID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Update("is_read", true).Error
}

func (r *notificationRepo) MarkAllRead(ctx context.Context, tx *gorm.DB, recipientID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if recipientID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true).Error
}
