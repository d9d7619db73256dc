package services

import (
	"context"

	"github.com/edusphere/edusphere-backend/internal/graph"
	"github.com/edusphere/edusphere-backend/internal/logger"
)

const descriptionPreviewLen = 100

type RecommendationService interface {
	// Recommend returns up to limit courses for the student, collaborative
	// matches first, topped up with popular courses. A broken or absent
	// graph store yields an empty list, never an error surfaced to the
	// caller.
	Recommend(ctx context.Context, username string, limit int) []graph.RecommendationRow
	SimilarCourses(ctx context.Context, courseID string, limit int) []graph.SimilarCourseRow
	StudentStats(ctx context.Context, username string) *graph.StudentStats
	InstructorStats(ctx context.Context, username string) *graph.InstructorStats
}

type recommendationService struct {
	log    *logger.Logger
	runner graph.Runner
}

func NewRecommendationService(baseLog *logger.Logger, runner graph.Runner) RecommendationService {
	return &recommendationService{
		log:    baseLog.With("service", "RecommendationService"),
		runner: runner,
	}
}

func (rs *recommendationService) Recommend(ctx context.Context, username string, limit int) []graph.RecommendationRow {
	if rs.runner == nil || username == "" || limit <= 0 {
		return []graph.RecommendationRow{}
	}

	all := make([]graph.RecommendationRow, 0, limit*2)
	collab, err := graph.CollaborativeRecommendations(ctx, rs.runner, username, limit)
	if err != nil {
		rs.log.Warn("Collaborative filtering failed", "username", username, "error", err)
	} else {
		all = append(all, collab...)
	}

	if len(all) < limit {
		popular, err := graph.PopularRecommendations(ctx, rs.runner, username, limit)
		if err != nil {
			rs.log.Warn("Popular courses query failed", "username", username, "error", err)
		} else {
			all = append(all, popular...)
		}
	}

	// Dedupe by title; collaborative entries come first and win.
	seen := make(map[string]bool, len(all))
	unique := make([]graph.RecommendationRow, 0, limit)
	for _, rec := range all {
		if seen[rec.Title] {
			continue
		}
		seen[rec.Title] = true
		rec.Description = previewDescription(rec.Description)
		unique = append(unique, rec)
		if len(unique) >= limit {
			break
		}
	}
	return unique
}

func (rs *recommendationService) SimilarCourses(ctx context.Context, courseID string, limit int) []graph.SimilarCourseRow {
	if rs.runner == nil {
		return []graph.SimilarCourseRow{}
	}
	rows, err := graph.SimilarCourses(ctx, rs.runner, courseID, limit)
	if err != nil {
		rs.log.Warn("Similar courses query failed", "courseID", courseID, "error", err)
		return []graph.SimilarCourseRow{}
	}
	if rows == nil {
		rows = []graph.SimilarCourseRow{}
	}
	return rows
}

func (rs *recommendationService) StudentStats(ctx context.Context, username string) *graph.StudentStats {
	if rs.runner == nil {
		return &graph.StudentStats{}
	}
	stats, err := graph.QueryStudentStats(ctx, rs.runner, username)
	if err != nil || stats == nil {
		if err != nil {
			rs.log.Warn("Student stats query failed", "username", username, "error", err)
		}
		return &graph.StudentStats{}
	}
	return stats
}

func (rs *recommendationService) InstructorStats(ctx context.Context, username string) *graph.InstructorStats {
	if rs.runner == nil {
		return &graph.InstructorStats{}
	}
	stats, err := graph.QueryInstructorStats(ctx, rs.runner, username)
	if err != nil || stats == nil {
		if err != nil {
			rs.log.Warn("Instructor stats query failed", "username", username, "error", err)
		}
		return &graph.InstructorStats{}
	}
	return stats
}

// previewDescription truncates long descriptions for list payloads,
// counting characters, not bytes.
func previewDescription(s string) string {
	runes := []rune(s)
	if len(runes) <= descriptionPreviewLen {
		return s
	}
	return string(runes[:descriptionPreviewLen]) + "..."
}
