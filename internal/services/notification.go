package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edusphere/edusphere-backend/internal/logger"
	"github.com/edusphere/edusphere-backend/internal/repos"
	"github.com/edusphere/edusphere-backend/internal/sse"
	"github.com/edusphere/edusphere-backend/internal/types"
)

type NotificationService interface {
	Notify(ctx context.Context, tx *gorm.DB, n *types.Notification) error
	List(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*types.Notification, error)
	MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) error
}

type notificationService struct {
	db               *gorm.DB
	log              *logger.Logger
	notificationRepo repos.NotificationRepo
	hub              *sse.SSEHub
}

func NewNotificationService(
	db *gorm.DB,
	baseLog *logger.Logger,
	notificationRepo repos.NotificationRepo,
	hub *sse.SSEHub,
) NotificationService {
	return &notificationService{
		db:               db,
		log:              baseLog.With("service", "NotificationService"),
		notificationRepo: notificationRepo,
		hub:              hub,
	}
}

// Notify stores the notification and pushes it to the recipient's SSE
// channel. The stored row is the durable copy; a missed push is not an
// error.
func (ns *notificationService) Notify(ctx context.Context, tx *gorm.DB, n *types.Notification) error {
	if n == nil || n.RecipientID == uuid.Nil {
		return nil
	}
	if err := ns.notificationRepo.Create(ctx, tx, n); err != nil {
		ns.log.Error("Notify failed", "recipientID", n.RecipientID, "error", err)
		return fmt.Errorf("create notification: %w", err)
	}
	if ns.hub != nil {
		ns.hub.Publish(ctx, sse.SSEMessage{
			Channel: n.RecipientID.String(),
			Event:   sse.SSEEventNotificationCreated,
			Data:    map[string]any{"notification": n},
		})
	}
	return nil
}

func (ns *notificationService) List(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*types.Notification, error) {
	return ns.notificationRepo.GetByRecipientID(ctx, nil, recipientID, unreadOnly)
}

func (ns *notificationService) MarkRead(ctx context.Context, recipientID, notificationID uuid.UUID) error {
	return ns.notificationRepo.MarkRead(ctx, nil, notificationID, recipientID)
}

func (ns *notificationService) MarkAllRead(ctx context.Context, recipientID uuid.UUID) error {
	return ns.notificationRepo.MarkAllRead(ctx, nil, recipientID)
}
