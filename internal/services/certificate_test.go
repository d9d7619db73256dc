package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusphere/edusphere-backend/internal/types"
)

func TestCertificateRequiresEveryEvaluationPassed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, "teach", types.RoleInstructor)
	student := env.createUser(t, "student", types.RoleStudent)
	course := env.createCourse(t, instructor, "Strict Course")
	module := env.createModule(t, course, 1, "Only Module")
	r1 := env.createResource(t, module, "Lesson")
	eval := env.createEvaluation(t, module, &types.Evaluation{Title: "Final Quiz", AllowRetake: true, MaxAttempts: 3})
	enrollment := env.enroll(t, student, course)

	_, err := env.progressSvc.MarkResourceViewed(ctx, student.ID, r1.ID)
	require.NoError(t, err)
	env.createGradedSubmission(t, eval, student, 1, 40, false)

	rollup, err := env.progressSvc.RecomputeEnrollment(ctx, nil, enrollment)
	require.NoError(t, err)
	// A failed but graded attempt still counts toward completion.
	assert.Equal(t, 100.0, rollup.OverallCompletionPercent)

	cert, err := env.certificateSvc.GetForStudentAndCourse(ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.Nil(t, cert)
	assert.False(t, env.reloadEnrollment(t, enrollment.ID).Certified)

	// A later passing attempt unlocks the certificate.
	env.createGradedSubmission(t, eval, student, 2, 85, true)
	_, err = env.progressSvc.RecomputeEnrollment(ctx, nil, enrollment)
	require.NoError(t, err)

	cert, err = env.certificateSvc.GetForStudentAndCourse(ctx, student.ID, course.ID)
	require.NoError(t, err)
	require.NotNil(t, cert)
	assert.True(t, strings.HasPrefix(cert.CertificateNumber, "CERT-"))
	assert.True(t, env.reloadEnrollment(t, enrollment.ID).Certified)
	assert.Equal(t, 1, env.countNotifications(t, student.ID, types.NotificationTypeCertificateEarned))
}

func TestCertificateIsIssuedExactlyOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, "teach", types.RoleInstructor)
	student := env.createUser(t, "student", types.RoleStudent)
	course := env.createCourse(t, instructor, "Short Course")
	module := env.createModule(t, course, 1, "Only Module")
	r1 := env.createResource(t, module, "Lesson")
	enrollment := env.enroll(t, student, course)

	_, err := env.progressSvc.MarkResourceViewed(ctx, student.ID, r1.ID)
	require.NoError(t, err)

	first, err := env.certificateSvc.GetForStudentAndCourse(ctx, student.ID, course.ID)
	require.NoError(t, err)
	require.NotNil(t, first)

	// Repeated qualifying events must not mint a second certificate.
	cert, created, err := env.certificateSvc.TryIssue(ctx, nil, env.reloadEnrollment(t, enrollment.ID))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, cert.ID)

	_, err = env.progressSvc.RecomputeEnrollment(ctx, nil, env.reloadEnrollment(t, enrollment.ID))
	require.NoError(t, err)

	var certRows int64
	require.NoError(t, env.db.Model(&types.Certificate{}).Count(&certRows).Error)
	assert.Equal(t, int64(1), certRows)
	assert.Equal(t, 1, env.countNotifications(t, student.ID, types.NotificationTypeCertificateEarned))
}

func TestTryIssueIgnoresMissingEnrollment(t *testing.T) {
	env := newTestEnv(t)

	cert, created, err := env.certificateSvc.TryIssue(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Nil(t, cert)
	assert.False(t, created)
}
