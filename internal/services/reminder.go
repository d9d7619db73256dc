package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/edusphere/edusphere-backend/internal/logger"
	"github.com/edusphere/edusphere-backend/internal/repos"
	"github.com/edusphere/edusphere-backend/internal/types"
)

type ReminderReport struct {
	Evaluations int `json:"evaluations"`
	Sent        int `json:"sent"`
	Skipped     int `json:"skipped"`
}

type ReminderService interface {
	// SendDeadlineReminders notifies enrolled students about evaluations
	// due daysAhead days from now. Students who already submitted, or who
	// were already reminded today, are skipped. With dryRun the report is
	// produced without writing anything.
	SendDeadlineReminders(ctx context.Context, daysAhead int, dryRun bool) (*ReminderReport, error)
}

type reminderService struct {
	db               *gorm.DB
	log              *logger.Logger
	evaluationRepo   repos.EvaluationRepo
	moduleRepo       repos.CourseModuleRepo
	enrollmentRepo   repos.EnrollmentRepo
	submissionRepo   repos.SubmissionRepo
	notificationRepo repos.NotificationRepo
	notificationSvc  NotificationService
}

func NewReminderService(
	db *gorm.DB,
	baseLog *logger.Logger,
	evaluationRepo repos.EvaluationRepo,
	moduleRepo repos.CourseModuleRepo,
	enrollmentRepo repos.EnrollmentRepo,
	submissionRepo repos.SubmissionRepo,
	notificationRepo repos.NotificationRepo,
	notificationSvc NotificationService,
) ReminderService {
	return &reminderService{
		db:               db,
		log:              baseLog.With("service", "ReminderService"),
		evaluationRepo:   evaluationRepo,
		moduleRepo:       moduleRepo,
		enrollmentRepo:   enrollmentRepo,
		submissionRepo:   submissionRepo,
		notificationRepo: notificationRepo,
		notificationSvc:  notificationSvc,
	}
}

func (rs *reminderService) SendDeadlineReminders(ctx context.Context, daysAhead int, dryRun bool) (*ReminderReport, error) {
	if daysAhead < 0 {
		daysAhead = 0
	}
	now := time.Now().UTC()
	targetDay := now.AddDate(0, 0, daysAhead)

	evaluations, err := rs.evaluationRepo.GetByDeadlineDate(ctx, nil, targetDay)
	if err != nil {
		return nil, fmt.Errorf("load evaluations: %w", err)
	}

	report := &ReminderReport{Evaluations: len(evaluations)}
	for _, eval := range evaluations {
		module, err := rs.moduleRepo.GetByID(ctx, nil, eval.ModuleID)
		if err != nil || module == nil {
			rs.log.Warn("Skipping evaluation with unresolved module", "evaluationID", eval.ID, "error", err)
			continue
		}
		enrollments, err := rs.enrollmentRepo.GetByCourseID(ctx, nil, module.CourseID)
		if err != nil {
			rs.log.Warn("Skipping course with unreadable enrollments", "courseID", module.CourseID, "error", err)
			continue
		}

		for _, enrollment := range enrollments {
			submitted, err := rs.submissionRepo.ExistsByEvaluationAndStudent(ctx, nil, eval.ID, enrollment.StudentID)
			if err != nil {
				rs.log.Warn("Submission check failed", "evaluationID", eval.ID, "studentID", enrollment.StudentID, "error", err)
				continue
			}
			if submitted {
				report.Skipped++
				continue
			}

			already, err := rs.notificationRepo.ExistsForEvaluationOnDay(ctx, nil,
				enrollment.StudentID, eval.ID, types.NotificationTypeDeadlineReminder, now)
			if err != nil {
				rs.log.Warn("Reminder dedupe check failed", "evaluationID", eval.ID, "studentID", enrollment.StudentID, "error", err)
				continue
			}
			if already {
				report.Skipped++
				continue
			}

			if dryRun {
				report.Sent++
				continue
			}

			evalID := eval.ID
			err = rs.notificationSvc.Notify(ctx, nil, &types.Notification{
				RecipientID:         enrollment.StudentID,
				Title:               "Deadline approaching",
				Message:             fmt.Sprintf("%q is due on %s.", eval.Title, eval.Deadline.Format("2006-01-02")),
				NotificationType:    types.NotificationTypeDeadlineReminder,
				Priority:            types.NotificationPriorityHigh,
				RelatedCourseID:     &module.CourseID,
				RelatedEvaluationID: &evalID,
			})
			if err != nil {
				rs.log.Error("Reminder notification failed", "evaluationID", eval.ID, "studentID", enrollment.StudentID, "error", err)
				continue
			}
			report.Sent++
		}
	}

	rs.log.Info("Deadline reminder run finished",
		"evaluations", report.Evaluations,
		"sent", report.Sent,
		"skipped", report.Skipped,
		"dryRun", dryRun)
	return report, nil
}
