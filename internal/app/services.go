package app

import (
	"gorm.io/gorm"

	"github.com/edusphere/edusphere-backend/internal/graph"
	"github.com/edusphere/edusphere-backend/internal/logger"
	"github.com/edusphere/edusphere-backend/internal/sse"
	"github.com/edusphere/edusphere-backend/internal/services"
)

type Services struct {
	Notification   services.NotificationService
	Certificate    services.CertificateService
	Progress       services.ProgressService
	Quiz           services.QuizService
	Enrollment     services.EnrollmentService
	GraphSync      services.GraphSyncService
	Recommendation services.RecommendationService
	Reminder       services.ReminderService
	Auth           services.AuthService
}

func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	cfg Config,
	r Repos,
	hub *sse.SSEHub,
	runner graph.Runner,
) Services {
	notification := services.NewNotificationService(db, log, r.Notification, hub)
	certificate := services.NewCertificateService(db, log,
		r.Certificate, r.Enrollment, r.Evaluation, r.Submission, r.Course, notification)
	progress := services.NewProgressService(db, log,
		r.Enrollment, r.CourseModule, r.Resource, r.Evaluation,
		r.ResourceView, r.Submission, r.Progress, r.CourseProgress, certificate)
	quiz := services.NewQuizService(db, log,
		r.Evaluation, r.Question, r.Submission, r.SubmittedAnswer,
		r.Enrollment, r.CourseModule, r.Course, progress, notification)
	enrollment := services.NewEnrollmentService(db, log,
		r.Enrollment, r.Course, r.Progress, r.CourseProgress, notification, runner)
	graphSync := services.NewGraphSyncService(db, log, runner,
		r.User, r.Course, r.CourseModule, r.Resource, r.Evaluation,
		r.Question, r.Enrollment, r.Submission, r.ResourceView, r.CourseProgress)
	recommendation := services.NewRecommendationService(log, runner)
	reminder := services.NewReminderService(db, log,
		r.Evaluation, r.CourseModule, r.Enrollment, r.Submission, r.Notification, notification)
	auth := services.NewAuthService(db, log, r.User, graphSync, cfg.JWTSecretKey, cfg.AccessTokenTTL)

	return Services{
		Notification:   notification,
		Certificate:    certificate,
		Progress:       progress,
		Quiz:           quiz,
		Enrollment:     enrollment,
		GraphSync:      graphSync,
		Recommendation: recommendation,
		Reminder:       reminder,
		Auth:           auth,
	}
}
