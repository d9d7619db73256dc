package services

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/edusphere/edusphere-backend/internal/db"
	"github.com/edusphere/edusphere-backend/internal/logger"
	"github.com/edusphere/edusphere-backend/internal/repos"
	"github.com/edusphere/edusphere-backend/internal/types"
)

// testEnv wires the real repos and services against an in-memory
// sqlite database. No graph store and no SSE hub: both are optional at
// runtime too.
type testEnv struct {
	db  *gorm.DB
	log *logger.Logger

	userRepo         repos.UserRepo
	courseRepo       repos.CourseRepo
	moduleRepo       repos.CourseModuleRepo
	resourceRepo     repos.ResourceRepo
	evaluationRepo   repos.EvaluationRepo
	questionRepo     repos.QuestionRepo
	enrollmentRepo   repos.EnrollmentRepo
	submissionRepo   repos.SubmissionRepo
	answerRepo       repos.SubmittedAnswerRepo
	viewRepo         repos.ResourceViewRepo
	progressRepo     repos.ProgressRepo
	courseProgRepo   repos.CourseProgressRepo
	certificateRepo  repos.CertificateRepo
	notificationRepo repos.NotificationRepo

	notificationSvc NotificationService
	certificateSvc  CertificateService
	progressSvc     ProgressService
	quizSvc         QuizService
	enrollmentSvc   EnrollmentService
	reminderSvc     ReminderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	log, err := logger.New("production")
	require.NoError(t, err)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrateAll(gdb))

	env := &testEnv{
		db:               gdb,
		log:              log,
		userRepo:         repos.NewUserRepo(gdb, log),
		courseRepo:       repos.NewCourseRepo(gdb, log),
		moduleRepo:       repos.NewCourseModuleRepo(gdb, log),
		resourceRepo:     repos.NewResourceRepo(gdb, log),
		evaluationRepo:   repos.NewEvaluationRepo(gdb, log),
		questionRepo:     repos.NewQuestionRepo(gdb, log),
		enrollmentRepo:   repos.NewEnrollmentRepo(gdb, log),
		submissionRepo:   repos.NewSubmissionRepo(gdb, log),
		answerRepo:       repos.NewSubmittedAnswerRepo(gdb, log),
		viewRepo:         repos.NewResourceViewRepo(gdb, log),
		progressRepo:     repos.NewProgressRepo(gdb, log),
		courseProgRepo:   repos.NewCourseProgressRepo(gdb, log),
		certificateRepo:  repos.NewCertificateRepo(gdb, log),
		notificationRepo: repos.NewNotificationRepo(gdb, log),
	}

	env.notificationSvc = NewNotificationService(gdb, log, env.notificationRepo, nil)
	env.certificateSvc = NewCertificateService(gdb, log,
		env.certificateRepo, env.enrollmentRepo, env.evaluationRepo,
		env.submissionRepo, env.courseRepo, env.notificationSvc)
	env.progressSvc = NewProgressService(gdb, log,
		env.enrollmentRepo, env.moduleRepo, env.resourceRepo,
		env.evaluationRepo, env.viewRepo, env.submissionRepo,
		env.progressRepo, env.courseProgRepo, env.certificateSvc)
	env.quizSvc = NewQuizService(gdb, log,
		env.evaluationRepo, env.questionRepo, env.submissionRepo,
		env.answerRepo, env.enrollmentRepo, env.moduleRepo,
		env.courseRepo, env.progressSvc, env.notificationSvc)
	env.enrollmentSvc = NewEnrollmentService(gdb, log,
		env.enrollmentRepo, env.courseRepo, env.progressRepo,
		env.courseProgRepo, env.notificationSvc, nil)
	env.reminderSvc = NewReminderService(gdb, log,
		env.evaluationRepo, env.moduleRepo, env.enrollmentRepo,
		env.submissionRepo, env.notificationRepo, env.notificationSvc)
	return env
}

func (e *testEnv) createUser(t *testing.T, username, role string) *types.User {
	t.Helper()
	user := &types.User{
		Username: username,
		Email:    username + "@example.com",
		Password: "not-a-real-hash",
		Role:     role,
		IsActive: true,
	}
	require.NoError(t, e.db.Create(user).Error)
	return user
}

func (e *testEnv) createCourse(t *testing.T, instructor *types.User, title string) *types.Course {
	t.Helper()
	course := &types.Course{
		InstructorID: instructor.ID,
		Title:        title,
		Level:        types.LevelBeginner,
	}
	require.NoError(t, e.db.Create(course).Error)
	return course
}

func (e *testEnv) createModule(t *testing.T, course *types.Course, index int, title string) *types.CourseModule {
	t.Helper()
	module := &types.CourseModule{
		CourseID: course.ID,
		Index:    index,
		Title:    title,
	}
	require.NoError(t, e.db.Create(module).Error)
	return module
}

func (e *testEnv) createResource(t *testing.T, module *types.CourseModule, title string) *types.Resource {
	t.Helper()
	resource := &types.Resource{
		ModuleID:     module.ID,
		Title:        title,
		ResourceType: types.ResourceTypeVideo,
	}
	require.NoError(t, e.db.Create(resource).Error)
	return resource
}

func (e *testEnv) createEvaluation(t *testing.T, module *types.CourseModule, eval *types.Evaluation) *types.Evaluation {
	t.Helper()
	eval.ModuleID = module.ID
	if eval.Title == "" {
		eval.Title = "Evaluation"
	}
	if eval.EvaluationType == "" {
		eval.EvaluationType = types.EvaluationTypeQuiz
	}
	if eval.MaxScore == 0 {
		eval.MaxScore = 100
	}
	if eval.PassingScore == 0 {
		eval.PassingScore = 60
	}
	require.NoError(t, e.db.Create(eval).Error)
	return eval
}

func (e *testEnv) createQuestion(t *testing.T, eval *types.Evaluation, correct string, points float64) *types.Question {
	t.Helper()
	question := &types.Question{
		EvaluationID:  eval.ID,
		Text:          "Pick one",
		Option1:       "first",
		Option2:       "second",
		Option3:       "third",
		Option4:       "fourth",
		CorrectOption: correct,
		Points:        points,
	}
	require.NoError(t, e.db.Create(question).Error)
	return question
}

func (e *testEnv) enroll(t *testing.T, student *types.User, course *types.Course) *types.Enrollment {
	t.Helper()
	enrollment := &types.Enrollment{
		StudentID: student.ID,
		CourseID:  course.ID,
	}
	require.NoError(t, e.db.Create(enrollment).Error)
	return enrollment
}

func (e *testEnv) createGradedSubmission(t *testing.T, eval *types.Evaluation, student *types.User, attempt int, percentage float64, passed bool) *types.Submission {
	t.Helper()
	now := time.Now().UTC()
	submission := &types.Submission{
		EvaluationID:  eval.ID,
		StudentID:     student.ID,
		AttemptNumber: attempt,
		Score:         percentage,
		MaxScore:      100,
		Percentage:    percentage,
		Passed:        passed,
		Status:        types.SubmissionStatusGraded,
		GradedOn:      &now,
	}
	require.NoError(t, e.db.Create(submission).Error)
	return submission
}

func (e *testEnv) reloadEnrollment(t *testing.T, id uuid.UUID) *types.Enrollment {
	t.Helper()
	var enrollment types.Enrollment
	require.NoError(t, e.db.First(&enrollment, "id = ?", id).Error)
	return &enrollment
}

func (e *testEnv) countNotifications(t *testing.T, recipientID uuid.UUID, notificationType string) int {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&types.Notification{}).
		Where("recipient_id = ? AND notification_type = ?", recipientID, notificationType).
		Count(&count).Error)
	return int(count)
}
