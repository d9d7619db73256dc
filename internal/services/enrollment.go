package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edusphere/edusphere-backend/internal/graph"
	"github.com/edusphere/edusphere-backend/internal/logger"
	"github.com/edusphere/edusphere-backend/internal/repos"
	"github.com/edusphere/edusphere-backend/internal/types"
)

type EnrollmentService interface {
	Enroll(ctx context.Context, studentID, courseID uuid.UUID) (*types.Enrollment, bool, error)
	Unenroll(ctx context.Context, studentID, courseID uuid.UUID) error
	ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*types.Enrollment, error)
	ListForCourse(ctx context.Context, courseID uuid.UUID) ([]*types.Enrollment, error)
}

type enrollmentService struct {
	db              *gorm.DB
	log             *logger.Logger
	enrollmentRepo  repos.EnrollmentRepo
	courseRepo      repos.CourseRepo
	progressRepo    repos.ProgressRepo
	courseProgRepo  repos.CourseProgressRepo
	notificationSvc NotificationService
	graphRunner     graph.Runner
}

func NewEnrollmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	enrollmentRepo repos.EnrollmentRepo,
	courseRepo repos.CourseRepo,
	progressRepo repos.ProgressRepo,
	courseProgRepo repos.CourseProgressRepo,
	notificationSvc NotificationService,
	graphRunner graph.Runner,
) EnrollmentService {
	return &enrollmentService{
		db:              db,
		log:             baseLog.With("service", "EnrollmentService"),
		enrollmentRepo:  enrollmentRepo,
		courseRepo:      courseRepo,
		progressRepo:    progressRepo,
		courseProgRepo:  courseProgRepo,
		notificationSvc: notificationSvc,
		graphRunner:     graphRunner,
	}
}

// Enroll is idempotent: re-enrolling returns the existing row with
// created=false and sends no second notification.
func (es *enrollmentService) Enroll(ctx context.Context, studentID, courseID uuid.UUID) (*types.Enrollment, bool, error) {
	course, err := es.courseRepo.GetByID(ctx, nil, courseID)
	if err != nil {
		return nil, false, fmt.Errorf("load course: %w", err)
	}
	if course == nil {
		return nil, false, fmt.Errorf("course %s not found", courseID)
	}

	enrollment, created, err := es.enrollmentRepo.GetOrCreate(ctx, nil, studentID, courseID)
	if err != nil {
		return nil, false, fmt.Errorf("enroll: %w", err)
	}
	if !created {
		return enrollment, false, nil
	}

	// The instructor hears about new students, not the student about
	// their own action.
	notifErr := es.notificationSvc.Notify(ctx, nil, &types.Notification{
		RecipientID:      course.InstructorID,
		Title:            "New enrollment",
		Message:          fmt.Sprintf("A student enrolled in %q.", course.Title),
		NotificationType: types.NotificationTypeEnrollment,
		Priority:         types.NotificationPriorityLow,
		RelatedCourseID:  &courseID,
	})
	if notifErr != nil {
		es.log.Error("Enrollment notification failed", "enrollmentID", enrollment.ID, "error", notifErr)
	}

	// Graph mirror is best-effort; the recommendation engine tolerates
	// lag behind the relational store.
	if es.graphRunner != nil {
		if err := graph.UpsertEnrollments(ctx, es.graphRunner, []*types.Enrollment{enrollment}, nil); err != nil {
			es.log.Warn("Graph enrollment mirror failed", "enrollmentID", enrollment.ID, "error", err)
		}
	}
	return enrollment, true, nil
}

// Unenroll drops the enrollment and every derived row under it. Event
// facts (views, submissions) are kept; re-enrolling recomputes from
// them.
func (es *enrollmentService) Unenroll(ctx context.Context, studentID, courseID uuid.UUID) error {
	enrollment, err := es.enrollmentRepo.GetByStudentAndCourse(ctx, nil, studentID, courseID)
	if err != nil {
		return fmt.Errorf("load enrollment: %w", err)
	}
	if enrollment == nil {
		return nil
	}

	err = es.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := es.progressRepo.FullDeleteByEnrollmentID(ctx, tx, enrollment.ID); err != nil {
			return err
		}
		if err := es.courseProgRepo.FullDeleteByEnrollmentID(ctx, tx, enrollment.ID); err != nil {
			return err
		}
		return es.enrollmentRepo.FullDelete(ctx, tx, enrollment.ID)
	})
	if err != nil {
		return fmt.Errorf("unenroll: %w", err)
	}

	if es.graphRunner != nil {
		if err := graph.RemoveEnrollment(ctx, es.graphRunner, studentID, courseID); err != nil {
			es.log.Warn("Graph enrollment removal failed", "enrollmentID", enrollment.ID, "error", err)
		}
	}
	return nil
}

func (es *enrollmentService) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*types.Enrollment, error) {
	return es.enrollmentRepo.GetByStudentID(ctx, nil, studentID)
}

func (es *enrollmentService) ListForCourse(ctx context.Context, courseID uuid.UUID) ([]*types.Enrollment, error) {
	return es.enrollmentRepo.GetByCourseID(ctx, nil, courseID)
}
