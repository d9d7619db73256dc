package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edusphere/edusphere-backend/internal/logger"
	"github.com/edusphere/edusphere-backend/internal/types"
)

type SubmittedAnswerRepo interface {
	Create(ctx context.Context, tx *gorm.DB, rows []*types.SubmittedAnswer) error
	GetBySubmissionID(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) ([]*types.SubmittedAnswer, error)
}

type submittedAnswerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSubmittedAnswerRepo(db *gorm.DB, baseLog *logger.Logger) SubmittedAnswerRepo {
	return &submittedAnswerRepo{db: db, log: baseLog.With("repo", "SubmittedAnswerRepo")}
}

func (r *submittedAnswerRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.SubmittedAnswer) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}

func (r *submittedAnswerRepo) GetBySubmissionID(ctx context.Context, tx *gorm.DB, submissionID uuid.UUID) ([]*types.SubmittedAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SubmittedAnswer
	if submissionID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("Question").
		Where("submission_id = ?", submissionID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
