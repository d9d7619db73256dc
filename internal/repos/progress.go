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

type ProgressRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, row *types.Progress) error
	GetByEnrollmentAndModule(ctx context.Context, tx *gorm.DB, enrollmentID, moduleID uuid.UUID) (*types.Progress, error)
	GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.Progress, error)
	FullDeleteByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) error
}

type progressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProgressRepo(db *gorm.DB, baseLog *logger.Logger) ProgressRepo {
	return &progressRepo{db: db, log: baseLog.With("repo", "ProgressRepo")}
}

// Upsert writes the full recomputed row keyed by (enrollment, module).
// An explicit column list keeps zero values (counts of 0, is_completed
// false) from being dropped on conflict.
func (r *progressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.Progress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil || row.EnrollmentID == uuid.Nil || row.ModuleID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "enrollment_id"}, {Name: "module_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"completion_percent",
				"resources_viewed",
				"total_resources",
				"evaluations_completed",
				"total_evaluations",
				"is_completed",
				"completed_on",
				"updated_at",
			}),
		}).
		Create(row).Error
}

func (r *progressRepo) GetByEnrollmentAndModule(ctx context.Context, tx *gorm.DB, enrollmentID, moduleID uuid.UUID) (*types.Progress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if enrollmentID == uuid.Nil || moduleID == uuid.Nil {
		return nil, nil
	}
	var result types.Progress
	if err := transaction.WithContext(ctx).
		Where("enrollment_id = ? AND module_id = ?", enrollmentID, moduleID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *progressRepo) GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.Progress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Progress
	if enrollmentID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *progressRepo) FullDeleteByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) error {
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
		Delete(&types.Progress{}).Error
}
