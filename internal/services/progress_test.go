package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusphere/edusphere-backend/internal/types"
)

func TestMarkResourceViewedRecomputesProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, "teach", types.RoleInstructor)
	student := env.createUser(t, "student", types.RoleStudent)
	course := env.createCourse(t, instructor, "Intro to Go")
	module := env.createModule(t, course, 1, "Basics")
	r1 := env.createResource(t, module, "Lesson 1")
	r2 := env.createResource(t, module, "Lesson 2")
	enrollment := env.enroll(t, student, course)

	progress, err := env.progressSvc.MarkResourceViewed(ctx, student.ID, r1.ID)
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.Equal(t, 50.0, progress.CompletionPercent)
	assert.Equal(t, 1, progress.ResourcesViewed)
	assert.Equal(t, 2, progress.TotalResources)
	assert.False(t, progress.IsCompleted)

	// Re-viewing the same resource changes nothing.
	progress, err = env.progressSvc.MarkResourceViewed(ctx, student.ID, r1.ID)
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.Equal(t, 50.0, progress.CompletionPercent)
	assert.Equal(t, 1, progress.ResourcesViewed)

	progress, err = env.progressSvc.MarkResourceViewed(ctx, student.ID, r2.ID)
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.Equal(t, 100.0, progress.CompletionPercent)
	assert.True(t, progress.IsCompleted)
	assert.NotNil(t, progress.CompletedOn)

	rollup, rows, err := env.progressSvc.GetCourseProgress(ctx, enrollment.ID)
	require.NoError(t, err)
	require.NotNil(t, rollup)
	assert.Equal(t, 100.0, rollup.OverallCompletionPercent)
	assert.Equal(t, 1, rollup.ModulesCompleted)
	assert.Equal(t, 1, rollup.TotalModules)
	assert.Len(t, rows, 1)

	// The course has no evaluations, so full completion certifies.
	cert, err := env.certificateSvc.GetForStudentAndCourse(ctx, student.ID, course.ID)
	require.NoError(t, err)
	require.NotNil(t, cert)
	assert.True(t, env.reloadEnrollment(t, enrollment.ID).Certified)
}

func TestModuleWithoutContentScoresZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, "teach", types.RoleInstructor)
	student := env.createUser(t, "student", types.RoleStudent)
	course := env.createCourse(t, instructor, "Empty Course")
	module := env.createModule(t, course, 1, "Empty Module")
	enrollment := env.enroll(t, student, course)

	progress, err := env.progressSvc.RecomputeModuleProgress(ctx, nil, enrollment, module.ID)
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.Equal(t, 0.0, progress.CompletionPercent)
	assert.False(t, progress.IsCompleted)
}

func TestCompletionDoesNotRegress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, "teach", types.RoleInstructor)
	student := env.createUser(t, "student", types.RoleStudent)
	course := env.createCourse(t, instructor, "Go Basics")
	module := env.createModule(t, course, 1, "Basics")
	r1 := env.createResource(t, module, "Lesson 1")
	enrollment := env.enroll(t, student, course)

	progress, err := env.progressSvc.MarkResourceViewed(ctx, student.ID, r1.ID)
	require.NoError(t, err)
	require.True(t, progress.IsCompleted)
	require.NotNil(t, progress.CompletedOn)
	completedOn := *progress.CompletedOn

	// New content lowers the percentage but never un-completes the
	// module, and the original completion timestamp survives.
	env.createResource(t, module, "Lesson 2")
	progress, err = env.progressSvc.RecomputeModuleProgress(ctx, nil, enrollment, module.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, progress.CompletionPercent)
	assert.True(t, progress.IsCompleted)
	require.NotNil(t, progress.CompletedOn)
	assert.Equal(t, completedOn.Unix(), progress.CompletedOn.Unix())
}

func TestViewWithoutEnrollmentIsKeptAsFactOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, "teach", types.RoleInstructor)
	student := env.createUser(t, "student", types.RoleStudent)
	course := env.createCourse(t, instructor, "Go Basics")
	module := env.createModule(t, course, 1, "Basics")
	r1 := env.createResource(t, module, "Lesson 1")

	progress, err := env.progressSvc.MarkResourceViewed(ctx, student.ID, r1.ID)
	require.NoError(t, err)
	assert.Nil(t, progress)

	var views int64
	require.NoError(t, env.db.Model(&types.ResourceView{}).
		Where("student_id = ? AND resource_id = ?", student.ID, r1.ID).
		Count(&views).Error)
	assert.Equal(t, int64(1), views)

	var progressRows int64
	require.NoError(t, env.db.Model(&types.Progress{}).Count(&progressRows).Error)
	assert.Equal(t, int64(0), progressRows)
}

func TestCourseRollupAveragesModulesAndScores(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, "teach", types.RoleInstructor)
	student := env.createUser(t, "student", types.RoleStudent)
	course := env.createCourse(t, instructor, "Two Module Course")
	m1 := env.createModule(t, course, 1, "First")
	m2 := env.createModule(t, course, 2, "Second")
	env.createResource(t, m1, "Unviewed Lesson")
	eval := env.createEvaluation(t, m2, &types.Evaluation{Title: "Quiz"})
	enrollment := env.enroll(t, student, course)

	env.createGradedSubmission(t, eval, student, 1, 80, true)

	rollup, err := env.progressSvc.RecomputeEnrollment(ctx, nil, enrollment)
	require.NoError(t, err)
	require.NotNil(t, rollup)
	// m1 at 0%, m2 at 100%.
	assert.Equal(t, 50.0, rollup.OverallCompletionPercent)
	assert.Equal(t, 1, rollup.ModulesCompleted)
	assert.Equal(t, 2, rollup.TotalModules)
	require.NotNil(t, rollup.AverageScore)
	assert.Equal(t, 80.0, *rollup.AverageScore)
}

func TestRollupAveragesOnlyTouchedModules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, "teach", types.RoleInstructor)
	student := env.createUser(t, "student", types.RoleStudent)
	course := env.createCourse(t, instructor, "Two Module Course")
	m1 := env.createModule(t, course, 1, "First")
	env.createModule(t, course, 2, "Second")
	r1 := env.createResource(t, m1, "Lesson 1")
	enrollment := env.enroll(t, student, course)

	progress, err := env.progressSvc.MarkResourceViewed(ctx, student.ID, r1.ID)
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.Equal(t, 100.0, progress.CompletionPercent)

	// The second module has no progress row yet, so it stays out of
	// the average while total_modules still reports the full count.
	rollup, rows, err := env.progressSvc.GetCourseProgress(ctx, enrollment.ID)
	require.NoError(t, err)
	require.NotNil(t, rollup)
	require.Len(t, rows, 1)
	assert.Equal(t, 100.0, rollup.OverallCompletionPercent)
	assert.Equal(t, 1, rollup.ModulesCompleted)
	assert.Equal(t, 2, rollup.TotalModules)

	// The course has no evaluations, so the 100% rollup certifies.
	cert, err := env.certificateSvc.GetForStudentAndCourse(ctx, student.ID, course.ID)
	require.NoError(t, err)
	require.NotNil(t, cert)
	assert.True(t, env.reloadEnrollment(t, enrollment.ID).Certified)
}

func TestProgressConvergesRegardlessOfEventOrder(t *testing.T) {
	type event int
	const (
		viewFirst event = iota
		viewSecond
		gradeQuiz
	)
	orders := [][]event{
		{viewFirst, gradeQuiz, viewSecond},
		{gradeQuiz, viewSecond, viewFirst},
		{viewSecond, viewFirst, gradeQuiz},
	}

	type outcome struct {
		percent     float64
		viewed      int
		evals       int
		isCompleted bool
		overall     float64
		completed   int
		total       int
		avgScore    float64
	}

	run := func(t *testing.T, order []event) outcome {
		env := newTestEnv(t)
		ctx := context.Background()

		instructor := env.createUser(t, "teach", types.RoleInstructor)
		student := env.createUser(t, "student", types.RoleStudent)
		course := env.createCourse(t, instructor, "Ordered Course")
		module := env.createModule(t, course, 1, "Basics")
		r1 := env.createResource(t, module, "Lesson 1")
		r2 := env.createResource(t, module, "Lesson 2")
		eval := env.createEvaluation(t, module, &types.Evaluation{Title: "Quiz"})
		enrollment := env.enroll(t, student, course)

		for _, ev := range order {
			switch ev {
			case viewFirst:
				_, err := env.progressSvc.MarkResourceViewed(ctx, student.ID, r1.ID)
				require.NoError(t, err)
			case viewSecond:
				_, err := env.progressSvc.MarkResourceViewed(ctx, student.ID, r2.ID)
				require.NoError(t, err)
			case gradeQuiz:
				env.createGradedSubmission(t, eval, student, 1, 85, true)
				_, err := env.progressSvc.RecomputeModuleProgress(ctx, nil, enrollment, module.ID)
				require.NoError(t, err)
				_, err = env.progressSvc.RecomputeCourseProgress(ctx, nil, enrollment)
				require.NoError(t, err)
			}
		}

		rollup, rows, err := env.progressSvc.GetCourseProgress(ctx, enrollment.ID)
		require.NoError(t, err)
		require.NotNil(t, rollup)
		require.Len(t, rows, 1)
		require.NotNil(t, rollup.AverageScore)
		return outcome{
			percent:     rows[0].CompletionPercent,
			viewed:      rows[0].ResourcesViewed,
			evals:       rows[0].EvaluationsCompleted,
			isCompleted: rows[0].IsCompleted,
			overall:     rollup.OverallCompletionPercent,
			completed:   rollup.ModulesCompleted,
			total:       rollup.TotalModules,
			avgScore:    *rollup.AverageScore,
		}
	}

	// Every ordering of the same event set lands on the same state.
	first := run(t, orders[0])
	assert.Equal(t, 100.0, first.percent)
	assert.Equal(t, 2, first.viewed)
	assert.Equal(t, 1, first.evals)
	assert.True(t, first.isCompleted)
	assert.Equal(t, 100.0, first.overall)
	for _, order := range orders[1:] {
		assert.Equal(t, first, run(t, order))
	}
}

func TestRecomputeEnrollmentIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, "teach", types.RoleInstructor)
	student := env.createUser(t, "student", types.RoleStudent)
	course := env.createCourse(t, instructor, "Go Basics")
	module := env.createModule(t, course, 1, "Basics")
	r1 := env.createResource(t, module, "Lesson 1")
	env.createResource(t, module, "Lesson 2")
	enrollment := env.enroll(t, student, course)

	_, err := env.progressSvc.MarkResourceViewed(ctx, student.ID, r1.ID)
	require.NoError(t, err)

	first, err := env.progressSvc.RecomputeEnrollment(ctx, nil, enrollment)
	require.NoError(t, err)
	second, err := env.progressSvc.RecomputeEnrollment(ctx, nil, enrollment)
	require.NoError(t, err)

	assert.Equal(t, first.OverallCompletionPercent, second.OverallCompletionPercent)

	var progressRows, rollupRows int64
	require.NoError(t, env.db.Model(&types.Progress{}).Count(&progressRows).Error)
	require.NoError(t, env.db.Model(&types.CourseProgress{}).Count(&rollupRows).Error)
	assert.Equal(t, int64(1), progressRows)
	assert.Equal(t, int64(1), rollupRows)
}
