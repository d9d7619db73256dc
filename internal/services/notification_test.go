package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusphere/edusphere-backend/internal/types"
)

func TestNotificationLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	recipient := env.createUser(t, "student", types.RoleStudent)
	other := env.createUser(t, "other", types.RoleStudent)

	for _, title := range []string{"first", "second"} {
		require.NoError(t, env.notificationSvc.Notify(ctx, nil, &types.Notification{
			RecipientID:      recipient.ID,
			Title:            title,
			Message:          "hello",
			NotificationType: types.NotificationTypeGeneral,
			Priority:         types.NotificationPriorityLow,
		}))
	}
	require.NoError(t, env.notificationSvc.Notify(ctx, nil, &types.Notification{
		RecipientID:      other.ID,
		Title:            "not yours",
		Message:          "hello",
		NotificationType: types.NotificationTypeGeneral,
		Priority:         types.NotificationPriorityLow,
	}))

	all, err := env.notificationSvc.List(ctx, recipient.ID, false)
	require.NoError(t, err)
	require.Len(t, all, 2)

	require.NoError(t, env.notificationSvc.MarkRead(ctx, recipient.ID, all[0].ID))

	unread, err := env.notificationSvc.List(ctx, recipient.ID, true)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	// Marking someone else's notification is a silent no-op.
	require.NoError(t, env.notificationSvc.MarkRead(ctx, other.ID, all[1].ID))
	unread, err = env.notificationSvc.List(ctx, recipient.ID, true)
	require.NoError(t, err)
	assert.Len(t, unread, 1)

	require.NoError(t, env.notificationSvc.MarkAllRead(ctx, recipient.ID))
	unread, err = env.notificationSvc.List(ctx, recipient.ID, true)
	require.NoError(t, err)
	assert.Empty(t, unread)
}

func TestNotifyIgnoresEmptyNotification(t *testing.T) {
	env := newTestEnv(t)
	require.NoError(t, env.notificationSvc.Notify(context.Background(), nil, nil))

	var count int64
	require.NoError(t, env.db.Model(&types.Notification{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}
