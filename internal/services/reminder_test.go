package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusphere/edusphere-backend/internal/types"
)

func TestDeadlineReminders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, "teach", types.RoleInstructor)
	diligent := env.createUser(t, "diligent", types.RoleStudent)
	procrastinator := env.createUser(t, "procrastinator", types.RoleStudent)
	course := env.createCourse(t, instructor, "Deadline Course")
	module := env.createModule(t, course, 1, "Module")
	eval := env.createEvaluation(t, module, &types.Evaluation{
		Title:    "Final Project",
		Deadline: time.Now().UTC().AddDate(0, 0, 2),
	})
	env.enroll(t, diligent, course)
	env.enroll(t, procrastinator, course)

	env.createGradedSubmission(t, eval, diligent, 1, 95, true)

	// Dry run reports without writing.
	report, err := env.reminderSvc.SendDeadlineReminders(ctx, 2, true)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Evaluations)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 0, env.countNotifications(t, procrastinator.ID, types.NotificationTypeDeadlineReminder))

	report, err = env.reminderSvc.SendDeadlineReminders(ctx, 2, false)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Sent)
	assert.Equal(t, 1, env.countNotifications(t, procrastinator.ID, types.NotificationTypeDeadlineReminder))
	assert.Equal(t, 0, env.countNotifications(t, diligent.ID, types.NotificationTypeDeadlineReminder))

	// A second run the same day does not nag again.
	report, err = env.reminderSvc.SendDeadlineReminders(ctx, 2, false)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Sent)
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 1, env.countNotifications(t, procrastinator.ID, types.NotificationTypeDeadlineReminder))
}

func TestDeadlineRemindersIgnoreOtherDays(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, "teach", types.RoleInstructor)
	student := env.createUser(t, "student", types.RoleStudent)
	course := env.createCourse(t, instructor, "Far Future Course")
	module := env.createModule(t, course, 1, "Module")
	env.createEvaluation(t, module, &types.Evaluation{
		Title:    "Distant Quiz",
		Deadline: time.Now().UTC().AddDate(0, 0, 10),
	})
	env.enroll(t, student, course)

	report, err := env.reminderSvc.SendDeadlineReminders(ctx, 2, false)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Evaluations)
	assert.Equal(t, 0, report.Sent)
}
