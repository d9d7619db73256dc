package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/edusphere/edusphere-backend/internal/logger"
	"github.com/edusphere/edusphere-backend/internal/types"
)

type CourseProgressRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.CourseProgress) error
	GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*types.CourseProgress, error)
	FullDeleteByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) error
}

type courseProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseProgressRepo(db *gorm.DB, baseLog *logger.Logger) CourseProgressRepo {
	return &courseProgressRepo{db: db, log: baseLog.With("repo", "CourseProgressRepo")}
}

func (r *courseProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.CourseProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil || row.EnrollmentID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "enrollment_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"overall_completion_percent",
				"modules_completed",
				"total_modules",
				"average_score",
				"updated_at",
			}),
		}).
		Create(row).Error
}

func (r *courseProgressRepo) GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) (*types.CourseProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if enrollmentID == uuid.Nil {
		return nil, nil
	}
	var result types.CourseProgress
	if err := transaction.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *courseProgressRepo) FullDeleteByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if enrollmentID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Unscoped().
		Where("enrollment_id = ?", enrollmentID).
		Delete(&types.CourseProgress{}).Error
}
