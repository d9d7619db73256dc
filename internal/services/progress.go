package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edusphere/edusphere-backend/internal/logger"
	"github.com/edusphere/edusphere-backend/internal/repos"
	"github.com/edusphere/edusphere-backend/internal/types"
)

type ProgressService interface {
	// MarkResourceViewed records the view event and, when the student
	// is enrolled in the owning course, recomputes module and course
	// progress. A view by a non-enrolled student is kept as a fact but
	// triggers nothing.
	MarkResourceViewed(ctx context.Context, studentID, resourceID uuid.UUID) (*types.Progress, error)
	RecomputeModuleProgress(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment, moduleID uuid.UUID) (*types.Progress, error)
	RecomputeCourseProgress(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) (*types.CourseProgress, error)
	// RecomputeEnrollment rebuilds every module row and the rollup for
	// one enrollment from current event counts.
	RecomputeEnrollment(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) (*types.CourseProgress, error)
	GetCourseProgress(ctx context.Context, enrollmentID uuid.UUID) (*types.CourseProgress, []*types.Progress, error)
}

type progressService struct {
	db               *gorm.DB
	log              *logger.Logger
	enrollmentRepo   repos.EnrollmentRepo
	moduleRepo       repos.CourseModuleRepo
	resourceRepo     repos.ResourceRepo
	evaluationRepo   repos.EvaluationRepo
	resourceViewRepo repos.ResourceViewRepo
	submissionRepo   repos.SubmissionRepo
	progressRepo     repos.ProgressRepo
	courseProgRepo   repos.CourseProgressRepo
	certificateSvc   CertificateService
}

func NewProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	enrollmentRepo repos.EnrollmentRepo,
	moduleRepo repos.CourseModuleRepo,
	resourceRepo repos.ResourceRepo,
	evaluationRepo repos.EvaluationRepo,
	resourceViewRepo repos.ResourceViewRepo,
	submissionRepo repos.SubmissionRepo,
	progressRepo repos.ProgressRepo,
	courseProgRepo repos.CourseProgressRepo,
	certificateSvc CertificateService,
) ProgressService {
	return &progressService{
		db:               db,
		log:              baseLog.With("service", "ProgressService"),
		enrollmentRepo:   enrollmentRepo,
		moduleRepo:       moduleRepo,
		resourceRepo:     resourceRepo,
		evaluationRepo:   evaluationRepo,
		resourceViewRepo: resourceViewRepo,
		submissionRepo:   submissionRepo,
		progressRepo:     progressRepo,
		courseProgRepo:   courseProgRepo,
		certificateSvc:   certificateSvc,
	}
}

func (ps *progressService) MarkResourceViewed(ctx context.Context, studentID, resourceID uuid.UUID) (*types.Progress, error) {
	resource, err := ps.resourceRepo.GetByID(ctx, nil, resourceID)
	if err != nil {
		return nil, fmt.Errorf("load resource: %w", err)
	}
	if resource == nil {
		return nil, fmt.Errorf("resource %s not found", resourceID)
	}

	if _, _, err := ps.resourceViewRepo.GetOrCreate(ctx, nil, studentID, resourceID); err != nil {
		return nil, fmt.Errorf("record view: %w", err)
	}

	module, err := ps.moduleRepo.GetByID(ctx, nil, resource.ModuleID)
	if err != nil {
		return nil, fmt.Errorf("load module: %w", err)
	}
	if module == nil {
		return nil, nil
	}

	enrollment, err := ps.enrollmentRepo.GetByStudentAndCourse(ctx, nil, studentID, module.CourseID)
	if err != nil {
		return nil, fmt.Errorf("load enrollment: %w", err)
	}
	if enrollment == nil {
		ps.log.Debug("View recorded without enrollment; skipping recompute",
			"studentID", studentID, "resourceID", resourceID)
		return nil, nil
	}

	progress, err := ps.RecomputeModuleProgress(ctx, nil, enrollment, module.ID)
	if err != nil {
		return nil, err
	}
	if _, err := ps.RecomputeCourseProgress(ctx, nil, enrollment); err != nil {
		return nil, err
	}
	return progress, nil
}

// RecomputeModuleProgress derives the module row from scratch: distinct
// viewed resources plus distinct graded evaluations over the module's
// total items. is_completed never regresses once set.
func (ps *progressService) RecomputeModuleProgress(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment, moduleID uuid.UUID) (*types.Progress, error) {
	if enrollment == nil || enrollment.ID == uuid.Nil || moduleID == uuid.Nil {
		return nil, nil
	}

	totalResources, err := ps.resourceRepo.CountByModuleID(ctx, tx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("count resources: %w", err)
	}
	totalEvaluations, err := ps.evaluationRepo.CountByModuleID(ctx, tx, moduleID)
	if err != nil {
		return nil, fmt.Errorf("count evaluations: %w", err)
	}
	viewed, err := ps.resourceViewRepo.CountDistinctByStudentAndModule(ctx, tx, enrollment.StudentID, moduleID)
	if err != nil {
		return nil, fmt.Errorf("count views: %w", err)
	}
	completedEvals, err := ps.submissionRepo.CountDistinctGradedEvaluations(ctx, tx, enrollment.StudentID, moduleID)
	if err != nil {
		return nil, fmt.Errorf("count graded evaluations: %w", err)
	}

	percent := completionPercent(viewed, totalResources, completedEvals, totalEvaluations)

	row := &types.Progress{
		EnrollmentID:         enrollment.ID,
		ModuleID:             moduleID,
		CompletionPercent:    percent,
		ResourcesViewed:      viewed,
		TotalResources:       totalResources,
		EvaluationsCompleted: completedEvals,
		TotalEvaluations:     totalEvaluations,
		IsCompleted:          percent >= 100,
	}

	existing, err := ps.progressRepo.GetByEnrollmentAndModule(ctx, tx, enrollment.ID, moduleID)
	if err != nil {
		return nil, fmt.Errorf("load progress: %w", err)
	}
	if existing != nil && existing.IsCompleted {
		row.IsCompleted = true
		row.CompletedOn = existing.CompletedOn
	}
	if row.IsCompleted && row.CompletedOn == nil {
		now := time.Now().UTC()
		row.CompletedOn = &now
	}

	if err := ps.progressRepo.Upsert(ctx, tx, row); err != nil {
		return nil, fmt.Errorf("upsert progress: %w", err)
	}
	return row, nil
}

// RecomputeCourseProgress averages completion_percent across the
// enrollment's existing module rows; modules the student has not
// touched have no row yet and stay out of the denominator. Hitting
// 100% on an uncertified enrollment triggers the certification check.
func (ps *progressService) RecomputeCourseProgress(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) (*types.CourseProgress, error) {
	if enrollment == nil || enrollment.ID == uuid.Nil {
		return nil, nil
	}

	modules, err := ps.moduleRepo.GetByCourseID(ctx, tx, enrollment.CourseID)
	if err != nil {
		return nil, fmt.Errorf("load modules: %w", err)
	}

	rows, err := ps.progressRepo.GetByEnrollmentID(ctx, tx, enrollment.ID)
	if err != nil {
		return nil, fmt.Errorf("load progress rows: %w", err)
	}
	byModule := make(map[uuid.UUID]*types.Progress, len(rows))
	for _, p := range rows {
		byModule[p.ModuleID] = p
	}

	var sum float64
	counted := 0
	completed := 0
	for _, m := range modules {
		p, ok := byModule[m.ID]
		if !ok {
			continue
		}
		counted++
		sum += p.CompletionPercent
		if p.IsCompleted {
			completed++
		}
	}
	overall := 0.0
	if counted > 0 {
		overall = clampPercent(sum / float64(counted))
	}

	avgScore, err := ps.submissionRepo.AverageGradedPercentage(ctx, tx, enrollment.StudentID, enrollment.CourseID)
	if err != nil {
		return nil, fmt.Errorf("average score: %w", err)
	}

	rollup := &types.CourseProgress{
		EnrollmentID:             enrollment.ID,
		OverallCompletionPercent: overall,
		ModulesCompleted:         completed,
		TotalModules:             len(modules),
		AverageScore:             avgScore,
	}
	if err := ps.courseProgRepo.Upsert(ctx, tx, rollup); err != nil {
		return nil, fmt.Errorf("upsert course progress: %w", err)
	}

	if overall >= 100 && !enrollment.Certified && ps.certificateSvc != nil {
		if _, _, err := ps.certificateSvc.TryIssue(ctx, tx, enrollment); err != nil {
			// Certification must not fail the progress write.
			ps.log.Error("Certification check failed", "enrollmentID", enrollment.ID, "error", err)
		}
	}
	return rollup, nil
}

func (ps *progressService) RecomputeEnrollment(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) (*types.CourseProgress, error) {
	if enrollment == nil || enrollment.ID == uuid.Nil {
		return nil, nil
	}
	modules, err := ps.moduleRepo.GetByCourseID(ctx, tx, enrollment.CourseID)
	if err != nil {
		return nil, fmt.Errorf("load modules: %w", err)
	}
	for _, m := range modules {
		if _, err := ps.RecomputeModuleProgress(ctx, tx, enrollment, m.ID); err != nil {
			return nil, err
		}
	}
	return ps.RecomputeCourseProgress(ctx, tx, enrollment)
}

func (ps *progressService) GetCourseProgress(ctx context.Context, enrollmentID uuid.UUID) (*types.CourseProgress, []*types.Progress, error) {
	rollup, err := ps.courseProgRepo.GetByEnrollmentID(ctx, nil, enrollmentID)
	if err != nil {
		return nil, nil, err
	}
	rows, err := ps.progressRepo.GetByEnrollmentID(ctx, nil, enrollmentID)
	if err != nil {
		return nil, nil, err
	}
	return rollup, rows, nil
}

// completionPercent treats resources and evaluations as equal-weight
// items. A module with no items reports 0, not 100.
func completionPercent(viewed, totalResources, completedEvals, totalEvaluations int) float64 {
	totalItems := totalResources + totalEvaluations
	if totalItems == 0 {
		return 0
	}
	done := viewed + completedEvals
	return clampPercent(float64(done) / float64(totalItems) * 100)
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
