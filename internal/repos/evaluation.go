package repos

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edusphere/edusphere-backend/internal/logger"
	"github.com/edusphere/edusphere-backend/internal/types"
)

type EvaluationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.Evaluation) ([]*types.Evaluation, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Evaluation, error)
	GetByModuleID(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) ([]*types.Evaluation, error)
	CountByModuleID(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) (int, error)
	GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Evaluation, error)
	GetByDeadlineDate(ctx context.Context, tx *gorm.DB, day time.Time) ([]*types.Evaluation, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Evaluation, error)
}

type evaluationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEvaluationRepo(db *gorm.DB, baseLog *logger.Logger) EvaluationRepo {
	return &evaluationRepo{db: db, log: baseLog.With("repo", "EvaluationRepo")}
}

func (r *evaluationRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Evaluation) ([]*types.Evaluation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.Evaluation{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *evaluationRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Evaluation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var result types.Evaluation
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *evaluationRepo) GetByModuleID(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) ([]*types.Evaluation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Evaluation
	if moduleID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("module_id = ?", moduleID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *evaluationRepo) CountByModuleID(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Evaluation{}).
		Where("module_id = ?", moduleID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *evaluationRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Evaluation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Evaluation
	if courseID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Joins("JOIN course_module ON course_module.id = evaluation.module_id").
		Where("course_module.course_id = ?", courseID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *evaluationRepo) GetByDeadlineDate(ctx context.Context, tx *gorm.DB, day time.Time) ([]*types.Evaluation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.Add(24 * time.Hour)
	var results []*types.Evaluation
	if err := transaction.WithContext(ctx).
		Where("deadline >= ? AND deadline < ?", dayStart, dayEnd).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *evaluationRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Evaluation, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Evaluation
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
