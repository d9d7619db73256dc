package repos

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edusphere/edusphere-backend/internal/logger"
	"github.com/edusphere/edusphere-backend/internal/types"
)

type CertificateRepo interface {
	// GetOrCreate is the atomic issuance guard: the (student, course)
	// unique index decides the winner under concurrent qualifying
	// events, and the loser reads back the existing row.
	GetOrCreate(ctx context.Context, tx *gorm.DB, row *types.Certificate) (*types.Certificate, bool, error)
	GetByStudentAndCourse(ctx context.Context, tx *gorm.DB, studentID, courseID uuid.UUID) (*types.Certificate, error)
	GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Certificate, error)
}

type certificateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCertificateRepo(db *gorm.DB, baseLog *logger.Logger) CertificateRepo {
	return &certificateRepo{db: db, log: baseLog.With("repo", "CertificateRepo")}
}

func (r *certificateRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, row *types.Certificate) (*types.Certificate, bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil || row.StudentID == uuid.Nil || row.CourseID == uuid.Nil {
		return nil, false, nil
	}

	existing, err := r.GetByStudentAndCourse(ctx, transaction, row.StudentID, row.CourseID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	if err := transaction.WithContext(ctx).Create(row).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, err := r.GetByStudentAndCourse(ctx, transaction, row.StudentID, row.CourseID)
			return existing, false, err
		}
		return nil, false, err
	}
	return row, true, nil
}

func (r *certificateRepo) GetByStudentAndCourse(ctx context.Context, tx *gorm.DB, studentID, courseID uuid.UUID) (*types.Certificate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if studentID == uuid.Nil || courseID == uuid.Nil {
		return nil, nil
	}
	var result types.Certificate
	if err := transaction.WithContext(ctx).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &result, nil
}

func (r *certificateRepo) GetByStudentID(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) ([]*types.Certificate, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Certificate
	if studentID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Preload("Course").
		Where("student_id = ?", studentID).
		Order("issued_on DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
