package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusphere/edusphere-backend/internal/types"
)

func TestEnrollIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, "teach", types.RoleInstructor)
	student := env.createUser(t, "student", types.RoleStudent)
	course := env.createCourse(t, instructor, "Go Basics")

	enrollment, created, err := env.enrollmentSvc.Enroll(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, enrollment)
	assert.Equal(t, 1, env.countNotifications(t, instructor.ID, types.NotificationTypeEnrollment))

	again, created, err := env.enrollmentSvc.Enroll(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, enrollment.ID, again.ID)
	// No duplicate notification for an existing enrollment.
	assert.Equal(t, 1, env.countNotifications(t, instructor.ID, types.NotificationTypeEnrollment))
}

func TestEnrollUnknownCourseFails(t *testing.T) {
	env := newTestEnv(t)
	student := env.createUser(t, "student", types.RoleStudent)

	_, _, err := env.enrollmentSvc.Enroll(context.Background(), student.ID, uuid.New())
	assert.Error(t, err)
}

func TestUnenrollPurgesDerivedState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, "teach", types.RoleInstructor)
	student := env.createUser(t, "student", types.RoleStudent)
	course := env.createCourse(t, instructor, "Go Basics")
	module := env.createModule(t, course, 1, "Module")
	resource := env.createResource(t, module, "Lesson")

	_, _, err := env.enrollmentSvc.Enroll(ctx, student.ID, course.ID)
	require.NoError(t, err)
	_, err = env.progressSvc.MarkResourceViewed(ctx, student.ID, resource.ID)
	require.NoError(t, err)

	var progressRows int64
	require.NoError(t, env.db.Model(&types.Progress{}).Count(&progressRows).Error)
	require.Equal(t, int64(1), progressRows)

	require.NoError(t, env.enrollmentSvc.Unenroll(ctx, student.ID, course.ID))

	var enrollments, progress, rollups int64
	require.NoError(t, env.db.Model(&types.Enrollment{}).Count(&enrollments).Error)
	require.NoError(t, env.db.Model(&types.Progress{}).Count(&progress).Error)
	require.NoError(t, env.db.Model(&types.CourseProgress{}).Count(&rollups).Error)
	assert.Equal(t, int64(0), enrollments)
	assert.Equal(t, int64(0), progress)
	assert.Equal(t, int64(0), rollups)

	// The view fact survives; a fresh enrollment starts clean.
	var views int64
	require.NoError(t, env.db.Model(&types.ResourceView{}).Count(&views).Error)
	assert.Equal(t, int64(1), views)

	fresh, created, err := env.enrollmentSvc.Enroll(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, fresh)
}

func TestListEnrollments(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, "teach", types.RoleInstructor)
	student := env.createUser(t, "student", types.RoleStudent)
	c1 := env.createCourse(t, instructor, "Go Basics")
	c2 := env.createCourse(t, instructor, "Advanced Go")

	_, _, err := env.enrollmentSvc.Enroll(ctx, student.ID, c1.ID)
	require.NoError(t, err)
	_, _, err = env.enrollmentSvc.Enroll(ctx, student.ID, c2.ID)
	require.NoError(t, err)

	mine, err := env.enrollmentSvc.ListForStudent(ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	roster, err := env.enrollmentSvc.ListForCourse(ctx, c1.ID)
	require.NoError(t, err)
	assert.Len(t, roster, 1)
}
