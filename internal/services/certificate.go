package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edusphere/edusphere-backend/internal/logger"
	"github.com/edusphere/edusphere-backend/internal/repos"
	"github.com/edusphere/edusphere-backend/internal/types"
)

type CertificateService interface {
	// TryIssue runs the certification check for an enrollment that
	// reached full completion. Returns (nil, false, nil) when the
	// stricter all-evaluations-passed requirement is not met.
	TryIssue(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) (*types.Certificate, bool, error)
	ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*types.Certificate, error)
	GetForStudentAndCourse(ctx context.Context, studentID, courseID uuid.UUID) (*types.Certificate, error)
}

type certificateService struct {
	db              *gorm.DB
	log             *logger.Logger
	certificateRepo repos.CertificateRepo
	enrollmentRepo  repos.EnrollmentRepo
	evaluationRepo  repos.EvaluationRepo
	submissionRepo  repos.SubmissionRepo
	courseRepo      repos.CourseRepo
	notificationSvc NotificationService
}

func NewCertificateService(
	db *gorm.DB,
	baseLog *logger.Logger,
	certificateRepo repos.CertificateRepo,
	enrollmentRepo repos.EnrollmentRepo,
	evaluationRepo repos.EvaluationRepo,
	submissionRepo repos.SubmissionRepo,
	courseRepo repos.CourseRepo,
	notificationSvc NotificationService,
) CertificateService {
	return &certificateService{
		db:              db,
		log:             baseLog.With("service", "CertificateService"),
		certificateRepo: certificateRepo,
		enrollmentRepo:  enrollmentRepo,
		evaluationRepo:  evaluationRepo,
		submissionRepo:  submissionRepo,
		courseRepo:      courseRepo,
		notificationSvc: notificationSvc,
	}
}

// TryIssue requires a passing submission for every evaluation of the
// course, which is deliberately stricter than the completion rollup:
// a student can sit at 100% completion with a failed quiz and still
// not certify.
func (cs *certificateService) TryIssue(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) (*types.Certificate, bool, error) {
	if enrollment == nil || enrollment.ID == uuid.Nil {
		return nil, false, nil
	}

	existing, err := cs.certificateRepo.GetByStudentAndCourse(ctx, tx, enrollment.StudentID, enrollment.CourseID)
	if err != nil {
		return nil, false, fmt.Errorf("load certificate: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	evaluations, err := cs.evaluationRepo.GetByCourseID(ctx, tx, enrollment.CourseID)
	if err != nil {
		return nil, false, fmt.Errorf("load evaluations: %w", err)
	}
	for _, eval := range evaluations {
		passed, err := cs.submissionRepo.HasPassed(ctx, tx, eval.ID, enrollment.StudentID)
		if err != nil {
			return nil, false, fmt.Errorf("check evaluation %s: %w", eval.ID, err)
		}
		if !passed {
			cs.log.Debug("Certification blocked by unpassed evaluation",
				"enrollmentID", enrollment.ID, "evaluationID", eval.ID)
			return nil, false, nil
		}
	}

	// A duplicate (student, course) pair reads back the winner; a
	// duplicate certificate number leaves both nil, so retry with a
	// fresh number.
	var cert *types.Certificate
	var created bool
	for attempt := 0; attempt < 3; attempt++ {
		cert, created, err = cs.certificateRepo.GetOrCreate(ctx, tx, &types.Certificate{
			StudentID:         enrollment.StudentID,
			CourseID:          enrollment.CourseID,
			CertificateNumber: newCertificateNumber(),
		})
		if err != nil {
			return nil, false, fmt.Errorf("issue certificate: %w", err)
		}
		if cert != nil {
			break
		}
	}
	if cert == nil {
		return nil, false, fmt.Errorf("certificate number collision for enrollment %s", enrollment.ID)
	}
	if !created {
		return cert, false, nil
	}

	if err := cs.enrollmentRepo.SetCertified(ctx, tx, enrollment.ID, true); err != nil {
		cs.log.Error("SetCertified failed after issuance", "enrollmentID", enrollment.ID, "error", err)
	}

	courseTitle := ""
	if course, err := cs.courseRepo.GetByID(ctx, tx, enrollment.CourseID); err == nil && course != nil {
		courseTitle = course.Title
	}
	notifErr := cs.notificationSvc.Notify(ctx, tx, &types.Notification{
		RecipientID:      enrollment.StudentID,
		Title:            "Certificate earned",
		Message:          fmt.Sprintf("Congratulations! You earned a certificate for %q (%s).", courseTitle, cert.CertificateNumber),
		NotificationType: types.NotificationTypeCertificateEarned,
		Priority:         types.NotificationPriorityHigh,
		RelatedCourseID:  &enrollment.CourseID,
	})
	if notifErr != nil {
		cs.log.Error("Certificate notification failed", "certificateID", cert.ID, "error", notifErr)
	}

	cs.log.Info("Certificate issued",
		"studentID", enrollment.StudentID,
		"courseID", enrollment.CourseID,
		"number", cert.CertificateNumber)
	return cert, true, nil
}

func (cs *certificateService) ListForStudent(ctx context.Context, studentID uuid.UUID) ([]*types.Certificate, error) {
	return cs.certificateRepo.GetByStudentID(ctx, nil, studentID)
}

func (cs *certificateService) GetForStudentAndCourse(ctx context.Context, studentID, courseID uuid.UUID) (*types.Certificate, error) {
	return cs.certificateRepo.GetByStudentAndCourse(ctx, nil, studentID, courseID)
}

// newCertificateNumber yields CERT-XXXXXXXX with 8 uppercase hex
// characters. Collisions are absorbed by the unique index on
// certificate_number.
func newCertificateNumber() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "CERT-" + strings.ToUpper(raw[:8])
}
