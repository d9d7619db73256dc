package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusphere/edusphere-backend/internal/types"
)

func TestSubmitQuizGradesSynchronously(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, "teach", types.RoleInstructor)
	student := env.createUser(t, "student", types.RoleStudent)
	course := env.createCourse(t, instructor, "Quiz Course")
	module := env.createModule(t, course, 1, "Module")
	eval := env.createEvaluation(t, module, &types.Evaluation{Title: "Quiz", ShowCorrectAnswers: true})
	q1 := env.createQuestion(t, eval, "A", 2)
	q2 := env.createQuestion(t, eval, "C", 2)
	enrollment := env.enroll(t, student, course)

	result, err := env.quizSvc.SubmitQuiz(ctx, student.ID, eval.ID, []QuizAnswer{
		{QuestionID: q1.ID, SelectedOption: "a"}, // case-insensitive match
		{QuestionID: q2.ID, SelectedOption: "B"},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Submission)

	submission := result.Submission
	assert.Equal(t, 1, submission.AttemptNumber)
	assert.Equal(t, 2.0, submission.Score)
	assert.Equal(t, 4.0, submission.MaxScore)
	assert.Equal(t, 50.0, submission.Percentage)
	assert.False(t, submission.Passed)
	assert.Equal(t, types.SubmissionStatusGraded, submission.Status)
	assert.NotNil(t, submission.GradedOn)

	require.Len(t, result.Answers, 2)
	for _, a := range result.Answers {
		if a.QuestionID == q1.ID {
			assert.True(t, a.IsCorrect)
			assert.Equal(t, 2.0, a.PointsEarned)
		} else {
			assert.False(t, a.IsCorrect)
			assert.Equal(t, 0.0, a.PointsEarned)
		}
	}

	assert.Equal(t, 1, env.countNotifications(t, student.ID, types.NotificationTypeGradeReceived))

	progress, err := env.progressRepo.GetByEnrollmentAndModule(ctx, nil, enrollment.ID, module.ID)
	require.NoError(t, err)
	require.NotNil(t, progress)
	assert.Equal(t, 1, progress.EvaluationsCompleted)
	assert.Equal(t, 100.0, progress.CompletionPercent)
}

func TestSubmitQuizHidesAnswersWhenConfigured(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, "teach", types.RoleInstructor)
	student := env.createUser(t, "student", types.RoleStudent)
	course := env.createCourse(t, instructor, "Quiz Course")
	module := env.createModule(t, course, 1, "Module")
	eval := env.createEvaluation(t, module, &types.Evaluation{Title: "Quiz"})
	// Zero-valued fields with a column default are skipped on insert,
	// so flip the flag explicitly.
	require.NoError(t, env.db.Model(eval).Update("show_correct_answers", false).Error)
	q1 := env.createQuestion(t, eval, "A", 1)
	env.enroll(t, student, course)

	result, err := env.quizSvc.SubmitQuiz(ctx, student.ID, eval.ID, []QuizAnswer{
		{QuestionID: q1.ID, SelectedOption: "A"},
	})
	require.NoError(t, err)
	assert.Nil(t, result.Answers)
	assert.True(t, result.Submission.Passed)
}

func TestQuizAttemptPolicy(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, "teach", types.RoleInstructor)
	student := env.createUser(t, "student", types.RoleStudent)
	course := env.createCourse(t, instructor, "Policy Course")
	module := env.createModule(t, course, 1, "Module")
	env.enroll(t, student, course)

	answer := func(eval *types.Evaluation, q *types.Question) []QuizAnswer {
		return []QuizAnswer{{QuestionID: q.ID, SelectedOption: "A"}}
	}

	noRetake := env.createEvaluation(t, module, &types.Evaluation{Title: "One Shot", AllowRetake: false})
	nq := env.createQuestion(t, noRetake, "A", 1)
	_, err := env.quizSvc.SubmitQuiz(ctx, student.ID, noRetake.ID, answer(noRetake, nq))
	require.NoError(t, err)
	_, err = env.quizSvc.SubmitQuiz(ctx, student.ID, noRetake.ID, answer(noRetake, nq))
	assert.Error(t, err)

	limited := env.createEvaluation(t, module, &types.Evaluation{Title: "Two Tries", AllowRetake: true, MaxAttempts: 2})
	lq := env.createQuestion(t, limited, "A", 1)
	first, err := env.quizSvc.SubmitQuiz(ctx, student.ID, limited.ID, answer(limited, lq))
	require.NoError(t, err)
	assert.Equal(t, 1, first.Submission.AttemptNumber)
	second, err := env.quizSvc.SubmitQuiz(ctx, student.ID, limited.ID, answer(limited, lq))
	require.NoError(t, err)
	assert.Equal(t, 2, second.Submission.AttemptNumber)
	_, err = env.quizSvc.SubmitQuiz(ctx, student.ID, limited.ID, answer(limited, lq))
	assert.Error(t, err)
}

func TestSubmitQuizRequiresEnrollment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, "teach", types.RoleInstructor)
	outsider := env.createUser(t, "outsider", types.RoleStudent)
	course := env.createCourse(t, instructor, "Members Only")
	module := env.createModule(t, course, 1, "Module")
	eval := env.createEvaluation(t, module, &types.Evaluation{Title: "Quiz"})
	q := env.createQuestion(t, eval, "A", 1)

	_, err := env.quizSvc.SubmitQuiz(ctx, outsider.ID, eval.ID, []QuizAnswer{
		{QuestionID: q.ID, SelectedOption: "A"},
	})
	assert.Error(t, err)
}

func TestAssignmentSubmissionAndGrading(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, "teach", types.RoleInstructor)
	student := env.createUser(t, "student", types.RoleStudent)
	stranger := env.createUser(t, "stranger", types.RoleInstructor)
	course := env.createCourse(t, instructor, "Assignment Course")
	module := env.createModule(t, course, 1, "Module")
	eval := env.createEvaluation(t, module, &types.Evaluation{
		Title:          "Essay",
		EvaluationType: types.EvaluationTypeAssignment,
		Deadline:       time.Now().UTC().Add(48 * time.Hour),
	})
	env.enroll(t, student, course)

	submission, err := env.quizSvc.SubmitAssignment(ctx, student.ID, eval.ID, "uploads/essay.pdf")
	require.NoError(t, err)
	assert.Equal(t, types.SubmissionStatusPending, submission.Status)
	assert.Equal(t, "uploads/essay.pdf", submission.FilePath)
	assert.Equal(t, 1, env.countNotifications(t, instructor.ID, types.NotificationTypeGeneral))

	_, err = env.quizSvc.GradeSubmission(ctx, stranger.ID, submission.ID, 90, "nope")
	assert.Error(t, err)

	// Out-of-range scores clamp to the evaluation's max.
	graded, err := env.quizSvc.GradeSubmission(ctx, instructor.ID, submission.ID, 150, "well done")
	require.NoError(t, err)
	assert.Equal(t, 100.0, graded.Score)
	assert.Equal(t, 100.0, graded.Percentage)
	assert.True(t, graded.Passed)
	assert.Equal(t, types.SubmissionStatusGraded, graded.Status)
	assert.Equal(t, "well done", graded.InstructorComment)
	assert.Equal(t, 1, env.countNotifications(t, student.ID, types.NotificationTypeGradeReceived))
}

func TestLateAssignmentIsFlagged(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	instructor := env.createUser(t, "teach", types.RoleInstructor)
	student := env.createUser(t, "student", types.RoleStudent)
	course := env.createCourse(t, instructor, "Deadline Course")
	module := env.createModule(t, course, 1, "Module")
	eval := env.createEvaluation(t, module, &types.Evaluation{
		Title:          "Overdue Essay",
		EvaluationType: types.EvaluationTypeAssignment,
		Deadline:       time.Now().UTC().Add(-24 * time.Hour),
	})
	env.enroll(t, student, course)

	submission, err := env.quizSvc.SubmitAssignment(ctx, student.ID, eval.ID, "uploads/late.pdf")
	require.NoError(t, err)
	assert.Equal(t, types.SubmissionStatusLate, submission.Status)
}
