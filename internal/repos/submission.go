package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edusphere/edusphere-backend/internal/logger"
	"github.com/edusphere/edusphere-backend/internal/types"
)

type SubmissionRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Submission) error
	Update(ctx context.Context, tx *gorm.DB, row *types.Submission) error
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Submission, error)
	GetLastAttempt(ctx context.Context, tx *gorm.DB, evaluationID, studentID uuid.UUID) (*types.Submission, error)
	CountByEvaluationAndStudent(ctx context.Context, tx *gorm.DB, evaluationID, studentID uuid.UUID) (int, error)
	ExistsByEvaluationAndStudent(ctx context.Context, tx *gorm.DB, evaluationID, studentID uuid.UUID) (bool, error)
	HasPassed(ctx context.Context, tx *gorm.DB, evaluationID, studentID uuid.UUID) (bool, error)
	CountDistinctGradedEvaluations(ctx context.Context, tx *gorm.DB, studentID, moduleID uuid.UUID) (int, error)
	AverageGradedPercentage(ctx context.Context, tx *gorm.DB, studentID, courseID uuid.UUID) (*float64, error)
	GetByEvaluationID(ctx context.Context, tx *gorm.DB, evaluationID uuid.UUID) ([]*types.Submission, error)
	GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Submission, error)
}

type submissionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmissionRepo(db *gorm.DB, baseLog *logger.Logger) SubmissionRepo {
	return &submissionRepo{db: db, log: baseLog.With("repo", "SubmissionRepo")}
}

func (r *submissionRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Submission) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).Create(row).Error
}

func (r *submissionRepo) Update(ctx context.Context, tx *gorm.DB, row *types.Submission) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil || row.ID == uuid.Nil {
		return nil
	}
	return transaction.WithContext(ctx).Save(row).Error
}

func (r *submissionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if id == uuid.Nil {
		return nil, nil
	}
	var result types.Submission
	if err := transaction.WithContext(ctx).Where("id = ?", id).First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *submissionRepo) GetLastAttempt(ctx context.Context, tx *gorm.DB, evaluationID, studentID uuid.UUID) (*types.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if evaluationID == uuid.Nil || studentID == uuid.Nil {
		return nil, nil
	}
	var result types.Submission
	if err := transaction.WithContext(ctx).
		Where("evaluation_id = ? AND student_id = ?", evaluationID, studentID).
		Order("attempt_number DESC").
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *submissionRepo) CountByEvaluationAndStudent(ctx context.Context, tx *gorm.DB, evaluationID, studentID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Submission{}).
		Where("evaluation_id = ? AND student_id = ?", evaluationID, studentID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *submissionRepo) ExistsByEvaluationAndStudent(ctx context.Context, tx *gorm.DB, evaluationID, studentID uuid.UUID) (bool, error) {
	count, err := r.CountByEvaluationAndStudent(ctx, tx, evaluationID, studentID)
	return count > 0, err
}

func (r *submissionRepo) HasPassed(ctx context.Context, tx *gorm.DB, evaluationID, studentID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Submission{}).
		Where("evaluation_id = ? AND student_id = ? AND passed = ?", evaluationID, studentID, true).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *submissionRepo) CountDistinctGradedEvaluations(ctx context.Context, tx *gorm.DB, studentID, moduleID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if studentID == uuid.Nil || moduleID == uuid.Nil {
		return 0, nil
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Submission{}).
		Joins("JOIN evaluation ON evaluation.id = submission.evaluation_id").
		Where("submission.student_id = ? AND evaluation.module_id = ? AND submission.status = ?",
			studentID, moduleID, types.SubmissionStatusGraded).
		Distinct("submission.evaluation_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *submissionRepo) AverageGradedPercentage(ctx context.Context, tx *gorm.DB, studentID, courseID uuid.UUID) (*float64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if studentID == uuid.Nil || courseID == uuid.Nil {
		return nil, nil
	}
	var avg *float64
	if err := transaction.WithContext(ctx).
		Model(&types.Submission{}).
		Joins("JOIN evaluation ON evaluation.id = submission.evaluation_id").
		Joins("JOIN course_module ON course_module.id = evaluation.module_id").
		Where("submission.student_id = ? AND course_module.course_id = ? AND submission.status = ?",
			studentID, courseID, types.SubmissionStatusGraded).
		Select("AVG(submission.percentage)").
		Scan(&avg).Error; err != nil {
		return nil, err
	}
	return avg, nil
}

func (r *submissionRepo) GetByEvaluationID(ctx context.Context, tx *gorm.DB, evaluationID uuid.UUID) ([]*types.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Submission
	if evaluationID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("Student").
		Where("evaluation_id = ?", evaluationID).
		Order("submitted_on DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *submissionRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Submission, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Submission
	if err := transaction.WithContext(ctx).Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
