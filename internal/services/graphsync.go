package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edusphere/edusphere-backend/internal/graph"
	"github.com/edusphere/edusphere-backend/internal/logger"
	"github.com/edusphere/edusphere-backend/internal/repos"
	"github.com/edusphere/edusphere-backend/internal/types"
)

// SyncReport tallies one full synchronization run. Steps are
// independent: a failed step is recorded and the run continues.
type SyncReport struct {
	Users       int      `json:"users"`
	Courses     int      `json:"courses"`
	Modules     int      `json:"modules"`
	Resources   int      `json:"resources"`
	Evaluations int      `json:"evaluations"`
	Questions   int      `json:"questions"`
	Enrollments int      `json:"enrollments"`
	Submissions int      `json:"submissions"`
	Views       int      `json:"views"`
	Errors      []string `json:"errors,omitempty"`
}

type GraphSyncService interface {
	// SyncAll replays the whole relational catalog into the graph in
	// dependency order.
	SyncAll(ctx context.Context) (*SyncReport, error)
	SyncUser(ctx context.Context, user *types.User) error
	SyncEnrollment(ctx context.Context, enrollment *types.Enrollment, completionPercent float64) error
	// EnsureSkills seeds the skill catalog and links each course to the
	// skills its title and description mention. Returns the number of
	// courses that got links.
	EnsureSkills(ctx context.Context) (int, error)
}

type graphSyncService struct {
	db               *gorm.DB
	log              *logger.Logger
	runner           graph.Runner
	userRepo         repos.UserRepo
	courseRepo       repos.CourseRepo
	moduleRepo       repos.CourseModuleRepo
	resourceRepo     repos.ResourceRepo
	evaluationRepo   repos.EvaluationRepo
	questionRepo     repos.QuestionRepo
	enrollmentRepo   repos.EnrollmentRepo
	submissionRepo   repos.SubmissionRepo
	resourceViewRepo repos.ResourceViewRepo
	courseProgRepo   repos.CourseProgressRepo
}

func NewGraphSyncService(
	db *gorm.DB,
	baseLog *logger.Logger,
	runner graph.Runner,
	userRepo repos.UserRepo,
	courseRepo repos.CourseRepo,
	moduleRepo repos.CourseModuleRepo,
	resourceRepo repos.ResourceRepo,
	evaluationRepo repos.EvaluationRepo,
	questionRepo repos.QuestionRepo,
	enrollmentRepo repos.EnrollmentRepo,
	submissionRepo repos.SubmissionRepo,
	resourceViewRepo repos.ResourceViewRepo,
	courseProgRepo repos.CourseProgressRepo,
) GraphSyncService {
	return &graphSyncService{
		db:               db,
		log:              baseLog.With("service", "GraphSyncService"),
		runner:           runner,
		userRepo:         userRepo,
		courseRepo:       courseRepo,
		moduleRepo:       moduleRepo,
		resourceRepo:     resourceRepo,
		evaluationRepo:   evaluationRepo,
		questionRepo:     questionRepo,
		enrollmentRepo:   enrollmentRepo,
		submissionRepo:   submissionRepo,
		resourceViewRepo: resourceViewRepo,
		courseProgRepo:   courseProgRepo,
	}
}

func (gs *graphSyncService) SyncAll(ctx context.Context) (*SyncReport, error) {
	if gs.runner == nil {
		return nil, fmt.Errorf("graph store not configured")
	}
	report := &SyncReport{}

	fail := func(step string, err error) {
		gs.log.Error("Graph sync step failed", "step", step, "error", err)
		report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", step, err))
	}

	if users, err := gs.userRepo.GetAll(ctx, nil); err != nil {
		fail("users", err)
	} else if err := graph.UpsertUsers(ctx, gs.runner, users); err != nil {
		fail("users", err)
	} else {
		report.Users = len(users)
	}

	if courses, err := gs.courseRepo.GetAll(ctx, nil); err != nil {
		fail("courses", err)
	} else if err := graph.UpsertCourses(ctx, gs.runner, courses); err != nil {
		fail("courses", err)
	} else {
		report.Courses = len(courses)
	}

	if modules, err := gs.moduleRepo.GetAll(ctx, nil); err != nil {
		fail("modules", err)
	} else if err := graph.UpsertModules(ctx, gs.runner, modules); err != nil {
		fail("modules", err)
	} else {
		report.Modules = len(modules)
	}

	if resources, err := gs.resourceRepo.GetAll(ctx, nil); err != nil {
		fail("resources", err)
	} else if err := graph.UpsertResources(ctx, gs.runner, resources); err != nil {
		fail("resources", err)
	} else {
		report.Resources = len(resources)
	}

	if evaluations, err := gs.evaluationRepo.GetAll(ctx, nil); err != nil {
		fail("evaluations", err)
	} else if err := graph.UpsertEvaluations(ctx, gs.runner, evaluations); err != nil {
		fail("evaluations", err)
	} else {
		report.Evaluations = len(evaluations)
	}

	if questions, err := gs.questionRepo.GetAll(ctx, nil); err != nil {
		fail("questions", err)
	} else if err := graph.UpsertQuestions(ctx, gs.runner, questions); err != nil {
		fail("questions", err)
	} else {
		report.Questions = len(questions)
	}

	if enrollments, err := gs.enrollmentRepo.GetAll(ctx, nil); err != nil {
		fail("enrollments", err)
	} else {
		completion := gs.completionSnapshots(ctx, enrollments)
		if err := graph.UpsertEnrollments(ctx, gs.runner, enrollments, completion); err != nil {
			fail("enrollments", err)
		} else {
			report.Enrollments = len(enrollments)
		}
	}

	if submissions, err := gs.submissionRepo.GetAll(ctx, nil); err != nil {
		fail("submissions", err)
	} else if err := graph.UpsertSubmissions(ctx, gs.runner, submissions); err != nil {
		fail("submissions", err)
	} else {
		report.Submissions = len(submissions)
	}

	if views, err := gs.resourceViewRepo.GetAll(ctx, nil); err != nil {
		fail("views", err)
	} else if err := graph.UpsertResourceViews(ctx, gs.runner, views); err != nil {
		fail("views", err)
	} else {
		report.Views = len(views)
	}

	gs.log.Info("Graph sync finished",
		"users", report.Users,
		"courses", report.Courses,
		"enrollments", report.Enrollments,
		"errors", len(report.Errors))
	return report, nil
}

func (gs *graphSyncService) completionSnapshots(ctx context.Context, enrollments []*types.Enrollment) map[uuid.UUID]float64 {
	out := make(map[uuid.UUID]float64, len(enrollments))
	for _, e := range enrollments {
		if e == nil {
			continue
		}
		rollup, err := gs.courseProgRepo.GetByEnrollmentID(ctx, nil, e.ID)
		if err != nil || rollup == nil {
			continue
		}
		out[e.ID] = rollup.OverallCompletionPercent
	}
	return out
}

func (gs *graphSyncService) SyncUser(ctx context.Context, user *types.User) error {
	if gs.runner == nil || user == nil {
		return nil
	}
	return graph.UpsertUsers(ctx, gs.runner, []*types.User{user})
}

func (gs *graphSyncService) SyncEnrollment(ctx context.Context, enrollment *types.Enrollment, completionPercent float64) error {
	if gs.runner == nil || enrollment == nil {
		return nil
	}
	return graph.UpsertEnrollments(ctx, gs.runner, []*types.Enrollment{enrollment},
		map[uuid.UUID]float64{enrollment.ID: completionPercent})
}

func (gs *graphSyncService) EnsureSkills(ctx context.Context) (int, error) {
	if gs.runner == nil {
		return 0, fmt.Errorf("graph store not configured")
	}
	if err := graph.UpsertSkillCatalog(ctx, gs.runner); err != nil {
		return 0, fmt.Errorf("seed skills: %w", err)
	}

	courses, err := gs.courseRepo.GetAll(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("load courses: %w", err)
	}
	linked := 0
	for _, c := range courses {
		skills := graph.SkillsForText(c.Title, c.Description)
		if len(skills) == 0 {
			continue
		}
		if err := graph.UpsertCourseSkills(ctx, gs.runner, c.ID, skills); err != nil {
			gs.log.Warn("Skill link failed", "courseID", c.ID, "error", err)
			continue
		}
		linked++
	}
	return linked, nil
}
