package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edusphere/edusphere-backend/internal/logger"
	"github.com/edusphere/edusphere-backend/internal/types"
)

type ResourceViewRepo interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, studentID, resourceID uuid.UUID) (*types.ResourceView, bool, error)
	CountDistinctByStudentAndModule(ctx context.Context, tx *gorm.DB, studentID, moduleID uuid.UUID) (int, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.ResourceView, error)
}

type resourceViewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewResourceViewRepo(db *gorm.DB, baseLog *logger.Logger) ResourceViewRepo {
	return &resourceViewRepo{db: db, log: baseLog.With("repo", "ResourceViewRepo")}
}

func (r *resourceViewRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, studentID, resourceID uuid.UUID) (*types.ResourceView, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if studentID == uuid.Nil || resourceID == uuid.Nil {
		return nil, false, nil
	}

	var existing types.ResourceView
	err := transaction.WithContext(ctx).
		Where("student_id = ? AND resource_id = ?", studentID, resourceID).
		First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	row := &types.ResourceView{StudentID: studentID, ResourceID: resourceID}
	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			err = transaction.WithContext(ctx).
				Where("student_id = ? AND resource_id = ?", studentID, resourceID).
				First(&existing).Error
			return &existing, false, err
		}
		return nil, false, err
	}
	return row, true, nil
}

func (r *resourceViewRepo) CountDistinctByStudentAndModule(ctx context.Context, tx *gorm.DB, studentID, moduleID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if studentID == uuid.Nil || moduleID == uuid.Nil {
		return 0, nil
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ResourceView{}).
		Joins("JOIN resource ON resource.id = resource_view.resource_id").
		Where("resource_view.student_id = ? AND resource.module_id = ?", studentID, moduleID).
		Distinct("resource_view.resource_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *resourceViewRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.ResourceView, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.ResourceView
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
