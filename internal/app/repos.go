package app

import (
	"gorm.io/gorm"

	"github.com/edusphere/edusphere-backend/internal/logger"
	"github.com/edusphere/edusphere-backend/internal/repos"
)

type Repos struct {
	User            repos.UserRepo
	Course          repos.CourseRepo
	CourseModule    repos.CourseModuleRepo
	Resource        repos.ResourceRepo
	Evaluation      repos.EvaluationRepo
	Question        repos.QuestionRepo
	Enrollment      repos.EnrollmentRepo
	ResourceView    repos.ResourceViewRepo
	Submission      repos.SubmissionRepo
	SubmittedAnswer repos.SubmittedAnswerRepo
	Progress        repos.ProgressRepo
	CourseProgress  repos.CourseProgressRepo
	Certificate     repos.CertificateRepo
	Notification    repos.NotificationRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	return Repos{
		User:            repos.NewUserRepo(db, log),
		Course:          repos.NewCourseRepo(db, log),
		CourseModule:    repos.NewCourseModuleRepo(db, log),
		Resource:        repos.NewResourceRepo(db, log),
		Evaluation:      repos.NewEvaluationRepo(db, log),
		Question:        repos.NewQuestionRepo(db, log),
		Enrollment:      repos.NewEnrollmentRepo(db, log),
		ResourceView:    repos.NewResourceViewRepo(db, log),
		Submission:      repos.NewSubmissionRepo(db, log),
		SubmittedAnswer: repos.NewSubmittedAnswerRepo(db, log),
		Progress:        repos.NewProgressRepo(db, log),
		CourseProgress:  repos.NewCourseProgressRepo(db, log),
		Certificate:     repos.NewCertificateRepo(db, log),
		Notification:    repos.NewNotificationRepo(db, log),
	}
}
