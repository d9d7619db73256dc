package db

import (
	"gorm.io/gorm"

	"github.com/edusphere/edusphere-backend/internal/types"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(

		// =========================
		// Identity
		// =========================
		&types.User{},

		// =========================
		// Course catalog
		// =========================
		&types.Course{},
		&types.CourseModule{},
		&types.Resource{},
		&types.Evaluation{},
		&types.Question{},

		// =========================
		// Enrollment + event facts
		// =========================
		&types.Enrollment{},
		&types.ResourceView{},
		&types.Submission{},
		&types.SubmittedAnswer{},

		// =========================
		// Derived state
		// =========================
		&types.Progress{},
		&types.CourseProgress{},
		&types.Certificate{},

		// =========================
		// Notifications
		// =========================
		&types.Notification{},
	)
}
