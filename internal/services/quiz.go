package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edusphere/edusphere-backend/internal/logger"
	"github.com/edusphere/edusphere-backend/internal/repos"
	"github.com/edusphere/edusphere-backend/internal/types"
)

// QuizAnswer pairs a question with the option the student picked
// ("A".."D").
type QuizAnswer struct {
	QuestionID     uuid.UUID `json:"question_id"`
	SelectedOption string    `json:"selected_option"`
}

type QuizResult struct {
	Submission *types.Submission        `json:"submission"`
	Answers    []*types.SubmittedAnswer `json:"answers,omitempty"`
}

type QuizService interface {
	SubmitQuiz(ctx context.Context, studentID, evaluationID uuid.UUID, answers []QuizAnswer) (*QuizResult, error)
	SubmitAssignment(ctx context.Context, studentID, evaluationID uuid.UUID, filePath string) (*types.Submission, error)
	GradeSubmission(ctx context.Context, graderID, submissionID uuid.UUID, score float64, comment string) (*types.Submission, error)
}

type quizService struct {
	db              *gorm.DB
	log             *logger.Logger
	evaluationRepo  repos.EvaluationRepo
	questionRepo    repos.QuestionRepo
	submissionRepo  repos.SubmissionRepo
	answerRepo      repos.SubmittedAnswerRepo
	enrollmentRepo  repos.EnrollmentRepo
	moduleRepo      repos.CourseModuleRepo
	courseRepo      repos.CourseRepo
	progressSvc     ProgressService
	notificationSvc NotificationService
}

func NewQuizService(
	db *gorm.DB,
	baseLog *logger.Logger,
	evaluationRepo repos.EvaluationRepo,
	questionRepo repos.QuestionRepo,
	submissionRepo repos.SubmissionRepo,
	answerRepo repos.SubmittedAnswerRepo,
	enrollmentRepo repos.EnrollmentRepo,
	moduleRepo repos.CourseModuleRepo,
	courseRepo repos.CourseRepo,
	progressSvc ProgressService,
	notificationSvc NotificationService,
) QuizService {
	return &quizService{
		db:              db,
		log:             baseLog.With("service", "QuizService"),
		evaluationRepo:  evaluationRepo,
		questionRepo:    questionRepo,
		submissionRepo:  submissionRepo,
		answerRepo:      answerRepo,
		enrollmentRepo:  enrollmentRepo,
		moduleRepo:      moduleRepo,
		courseRepo:      courseRepo,
		progressSvc:     progressSvc,
		notificationSvc: notificationSvc,
	}
}

// SubmitQuiz grades synchronously: each answer matching the question's
// correct option earns the question's points, and the attempt passes
// when the percentage reaches the evaluation's passing score.
func (qs *quizService) SubmitQuiz(ctx context.Context, studentID, evaluationID uuid.UUID, answers []QuizAnswer) (*QuizResult, error) {
	evaluation, enrollment, err := qs.loadForSubmission(ctx, studentID, evaluationID)
	if err != nil {
		return nil, err
	}
	if evaluation.EvaluationType != types.EvaluationTypeQuiz {
		return nil, fmt.Errorf("evaluation %s is not a quiz", evaluationID)
	}

	attempts, err := qs.checkAttemptPolicy(ctx, evaluation, studentID)
	if err != nil {
		return nil, err
	}

	questions, err := qs.questionRepo.GetByEvaluationID(ctx, nil, evaluationID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("quiz %s has no questions", evaluationID)
	}

	selected := make(map[uuid.UUID]string, len(answers))
	for _, a := range answers {
		selected[a.QuestionID] = strings.ToUpper(strings.TrimSpace(a.SelectedOption))
	}

	var score, totalPoints float64
	graded := make([]*types.SubmittedAnswer, 0, len(questions))
	for _, q := range questions {
		totalPoints += q.Points
		pick := selected[q.ID]
		correct := pick != "" && pick == strings.ToUpper(q.CorrectOption)
		earned := 0.0
		if correct {
			earned = q.Points
			score += q.Points
		}
		graded = append(graded, &types.SubmittedAnswer{
			QuestionID:     q.ID,
			SelectedOption: pick,
			IsCorrect:      correct,
			PointsEarned:   earned,
		})
	}

	percentage := 0.0
	if totalPoints > 0 {
		percentage = score / totalPoints * 100
	}
	now := time.Now().UTC()
	submission := &types.Submission{
		EvaluationID:  evaluationID,
		StudentID:     studentID,
		AttemptNumber: attempts + 1,
		Score:         score,
		MaxScore:      totalPoints,
		Percentage:    percentage,
		Passed:        percentage >= evaluation.PassingScore,
		Status:        types.SubmissionStatusGraded,
		GradedOn:      &now,
	}
	if err := qs.submissionRepo.Create(ctx, nil, submission); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}
	for _, a := range graded {
		a.SubmissionID = submission.ID
	}
	if err := qs.answerRepo.Create(ctx, nil, graded); err != nil {
		return nil, fmt.Errorf("store answers: %w", err)
	}

	qs.afterGrading(ctx, enrollment, evaluation, submission)

	result := &QuizResult{Submission: submission}
	if evaluation.ShowCorrectAnswers {
		result.Answers = graded
	}
	return result, nil
}

// SubmitAssignment stores an ungraded attempt; it counts toward module
// completion only after an instructor grades it.
func (qs *quizService) SubmitAssignment(ctx context.Context, studentID, evaluationID uuid.UUID, filePath string) (*types.Submission, error) {
	evaluation, _, err := qs.loadForSubmission(ctx, studentID, evaluationID)
	if err != nil {
		return nil, err
	}
	if evaluation.EvaluationType != types.EvaluationTypeAssignment {
		return nil, fmt.Errorf("evaluation %s is not an assignment", evaluationID)
	}

	attempts, err := qs.checkAttemptPolicy(ctx, evaluation, studentID)
	if err != nil {
		return nil, err
	}

	status := types.SubmissionStatusPending
	if !evaluation.Deadline.IsZero() && time.Now().After(evaluation.Deadline) {
		status = types.SubmissionStatusLate
	}
	submission := &types.Submission{
		EvaluationID:  evaluationID,
		StudentID:     studentID,
		AttemptNumber: attempts + 1,
		MaxScore:      evaluation.MaxScore,
		Status:        status,
		FilePath:      filePath,
	}
	if err := qs.submissionRepo.Create(ctx, nil, submission); err != nil {
		return nil, fmt.Errorf("create submission: %w", err)
	}

	if module, err := qs.moduleRepo.GetByID(ctx, nil, evaluation.ModuleID); err == nil && module != nil {
		if course, err := qs.courseRepo.GetByID(ctx, nil, module.CourseID); err == nil && course != nil {
			evalID := evaluation.ID
			notifErr := qs.notificationSvc.Notify(ctx, nil, &types.Notification{
				RecipientID:         course.InstructorID,
				Title:               "Assignment submitted",
				Message:             fmt.Sprintf("A submission for %q is waiting to be graded.", evaluation.Title),
				NotificationType:    types.NotificationTypeGeneral,
				Priority:            types.NotificationPriorityMedium,
				RelatedCourseID:     &course.ID,
				RelatedEvaluationID: &evalID,
			})
			if notifErr != nil {
				qs.log.Error("Assignment notification failed", "submissionID", submission.ID, "error", notifErr)
			}
		}
	}
	return submission, nil
}

func (qs *quizService) GradeSubmission(ctx context.Context, graderID, submissionID uuid.UUID, score float64, comment string) (*types.Submission, error) {
	submission, err := qs.submissionRepo.GetByID(ctx, nil, submissionID)
	if err != nil {
		return nil, fmt.Errorf("load submission: %w", err)
	}
	if submission == nil {
		return nil, fmt.Errorf("submission %s not found", submissionID)
	}
	evaluation, err := qs.evaluationRepo.GetByID(ctx, nil, submission.EvaluationID)
	if err != nil || evaluation == nil {
		return nil, fmt.Errorf("load evaluation: %w", err)
	}

	module, err := qs.moduleRepo.GetByID(ctx, nil, evaluation.ModuleID)
	if err != nil || module == nil {
		return nil, fmt.Errorf("load module: %w", err)
	}
	course, err := qs.courseRepo.GetByID(ctx, nil, module.CourseID)
	if err != nil || course == nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if course.InstructorID != graderID {
		return nil, fmt.Errorf("user %s is not the course instructor", graderID)
	}

	if score < 0 {
		score = 0
	}
	if score > evaluation.MaxScore {
		score = evaluation.MaxScore
	}
	percentage := 0.0
	if evaluation.MaxScore > 0 {
		percentage = score / evaluation.MaxScore * 100
	}
	now := time.Now().UTC()
	submission.Score = score
	submission.MaxScore = evaluation.MaxScore
	submission.Percentage = percentage
	submission.Passed = percentage >= evaluation.PassingScore
	submission.Status = types.SubmissionStatusGraded
	submission.InstructorComment = comment
	submission.GradedOn = &now
	if err := qs.submissionRepo.Update(ctx, nil, submission); err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}

	enrollment, err := qs.enrollmentRepo.GetByStudentAndCourse(ctx, nil, submission.StudentID, course.ID)
	if err == nil && enrollment != nil {
		qs.afterGrading(ctx, enrollment, evaluation, submission)
	}
	return submission, nil
}

func (qs *quizService) loadForSubmission(ctx context.Context, studentID, evaluationID uuid.UUID) (*types.Evaluation, *types.Enrollment, error) {
	evaluation, err := qs.evaluationRepo.GetByID(ctx, nil, evaluationID)
	if err != nil {
		return nil, nil, fmt.Errorf("load evaluation: %w", err)
	}
	if evaluation == nil {
		return nil, nil, fmt.Errorf("evaluation %s not found", evaluationID)
	}
	module, err := qs.moduleRepo.GetByID(ctx, nil, evaluation.ModuleID)
	if err != nil || module == nil {
		return nil, nil, fmt.Errorf("load module: %w", err)
	}
	enrollment, err := qs.enrollmentRepo.GetByStudentAndCourse(ctx, nil, studentID, module.CourseID)
	if err != nil {
		return nil, nil, fmt.Errorf("load enrollment: %w", err)
	}
	if enrollment == nil {
		return nil, nil, fmt.Errorf("student %s is not enrolled in this course", studentID)
	}
	return evaluation, enrollment, nil
}

func (qs *quizService) checkAttemptPolicy(ctx context.Context, evaluation *types.Evaluation, studentID uuid.UUID) (int, error) {
	attempts, err := qs.submissionRepo.CountByEvaluationAndStudent(ctx, nil, evaluation.ID, studentID)
	if err != nil {
		return 0, fmt.Errorf("count attempts: %w", err)
	}
	if attempts > 0 && !evaluation.AllowRetake {
		return 0, fmt.Errorf("retakes are not allowed for %q", evaluation.Title)
	}
	if evaluation.AllowRetake && evaluation.MaxAttempts > 0 && attempts >= evaluation.MaxAttempts {
		return 0, fmt.Errorf("attempt limit reached for %q", evaluation.Title)
	}
	return attempts, nil
}

// afterGrading sends the grade notification and refreshes the derived
// progress. Both are best-effort relative to the stored submission.
func (qs *quizService) afterGrading(ctx context.Context, enrollment *types.Enrollment, evaluation *types.Evaluation, submission *types.Submission) {
	notifErr := qs.notificationSvc.Notify(ctx, nil, &types.Notification{
		RecipientID:         submission.StudentID,
		Title:               "Grade received",
		Message:             fmt.Sprintf("You scored %.1f%% on %q.", submission.Percentage, evaluation.Title),
		NotificationType:    types.NotificationTypeGradeReceived,
		Priority:            types.NotificationPriorityMedium,
		RelatedCourseID:     &enrollment.CourseID,
		RelatedEvaluationID: &evaluation.ID,
	})
	if notifErr != nil {
		qs.log.Error("Grade notification failed", "submissionID", submission.ID, "error", notifErr)
	}

	if _, err := qs.progressSvc.RecomputeModuleProgress(ctx, nil, enrollment, evaluation.ModuleID); err != nil {
		qs.log.Error("Module progress recompute failed", "enrollmentID", enrollment.ID, "error", err)
		return
	}
	if _, err := qs.progressSvc.RecomputeCourseProgress(ctx, nil, enrollment); err != nil {
		qs.log.Error("Course progress recompute failed", "enrollmentID", enrollment.ID, "error", err)
	}
}
