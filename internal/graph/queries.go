package graph

import (
	"context"
)

const (
	MethodCollaborative = "collaborative"
	MethodPopular       = "popular"
)

// RecommendationRow is one recommended course as it comes out of a
// traversal query.
type RecommendationRow struct {
	CourseID    string  `json:"course_id"`
	Title       string  `json:"title"`
	Level       string  `json:"level"`
	Description string  `json:"description"`
	ImagePath   string  `json:"image_path"`
	Score       float64 `json:"score"`
	Instructor  string  `json:"instructor"`
	Method      string  `json:"method"`
}

type SimilarCourseRow struct {
	CourseID        string  `json:"course_id"`
	Title           string  `json:"title"`
	Level           string  `json:"level"`
	SimilarityScore float64 `json:"similarity_score"`
	Instructor      string  `json:"instructor"`
}

type StudentStats struct {
	CoursesEnrolled   int     `json:"courses_enrolled"`
	AvgCompletion     float64 `json:"avg_completion"`
	EvaluationsPassed int     `json:"evaluations_passed"`
	ResourcesViewed   int     `json:"resources_viewed"`
}

type InstructorStats struct {
	CoursesCreated int `json:"courses_created"`
	TotalStudents  int `json:"total_students"`
}

// CollaborativeRecommendations walks shared enrollments: students who
// share a course with the target vote for the other courses they take.
func CollaborativeRecommendations(ctx context.Context, run Runner, username string, limit int) ([]RecommendationRow, error) {
	if run == nil || username == "" || limit <= 0 {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cypher := `
MATCH (me:User {username: $username})-[:ENROLLED_IN]->(mine:Course)
MATCH (other:User)-[:ENROLLED_IN]->(mine)
WHERE other.username <> $username
MATCH (other)-[:ENROLLED_IN]->(rec:Course)
WHERE NOT (me)-[:ENROLLED_IN]->(rec)
WITH rec, count(DISTINCT other) AS popularity
OPTIONAL MATCH (instructor:User)-[:TEACHES]->(rec)
RETURN rec.id AS course_id,
       rec.title AS title,
       rec.level AS level,
       rec.description AS description,
       rec.image_path AS image_path,
       popularity AS score,
       instructor.username AS instructor
ORDER BY popularity DESC
LIMIT $limit
`
	rows, err := run.ReadRows(ctx, cypher, map[string]any{
		"username": username,
		"limit":    limit,
	})
	if err != nil {
		return nil, err
	}
	return toRecommendationRows(rows, MethodCollaborative), nil
}

// PopularRecommendations counts enrollments per course, excluding
// courses the student already takes.
func PopularRecommendations(ctx context.Context, run Runner, username string, limit int) ([]RecommendationRow, error) {
	if run == nil || username == "" || limit <= 0 {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cypher := `
MATCH (c:Course)
WHERE NOT EXISTS {
    MATCH (me:User {username: $username})-[:ENROLLED_IN]->(c)
}
OPTIONAL MATCH (student:User)-[:ENROLLED_IN]->(c)
WITH c, count(student) AS enrollments
OPTIONAL MATCH (instructor:User)-[:TEACHES]->(c)
RETURN c.id AS course_id,
       c.title AS title,
       c.level AS level,
       c.description AS description,
       c.image_path AS image_path,
       enrollments AS score,
       instructor.username AS instructor
ORDER BY enrollments DESC
LIMIT $limit
`
	rows, err := run.ReadRows(ctx, cypher, map[string]any{
		"username": username,
		"limit":    limit,
	})
	if err != nil {
		return nil, err
	}
	return toRecommendationRows(rows, MethodPopular), nil
}

// SimilarCourses ranks other courses by shared students. The source
// course itself never appears in the result.
func SimilarCourses(ctx context.Context, run Runner, courseID string, limit int) ([]SimilarCourseRow, error) {
	if run == nil || courseID == "" || limit <= 0 {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cypher := `
MATCH (c:Course {id: $course_id})
MATCH (c)<-[:ENROLLED_IN]-(student:User)-[:ENROLLED_IN]->(similar:Course)
WHERE similar <> c
WITH similar, count(DISTINCT student) AS common_students
OPTIONAL MATCH (instructor:User)-[:TEACHES]->(similar)
RETURN similar.id AS course_id,
       similar.title AS title,
       similar.level AS level,
       common_students AS similarity_score,
       instructor.username AS instructor
ORDER BY common_students DESC
LIMIT $limit
`
	rows, err := run.ReadRows(ctx, cypher, map[string]any{
		"course_id": courseID,
		"limit":     limit,
	})
	if err != nil {
		return nil, err
	}

	out := make([]SimilarCourseRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, SimilarCourseRow{
			CourseID:        asString(row["course_id"]),
			Title:           asString(row["title"]),
			Level:           asString(row["level"]),
			SimilarityScore: asFloat(row["similarity_score"]),
			Instructor:      asString(row["instructor"]),
		})
	}
	return out, nil
}

func QueryStudentStats(ctx context.Context, run Runner, username string) (*StudentStats, error) {
	if run == nil || username == "" {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cypher := `
MATCH (u:User {username: $username})
OPTIONAL MATCH (u)-[e:ENROLLED_IN]->(c:Course)
WITH u, count(c) AS courses_enrolled, avg(e.completion_percent) AS avg_completion
OPTIONAL MATCH (u)-[s:SUBMITTED]->(eval:Evaluation)
WHERE s.passed = true
WITH u, courses_enrolled, avg_completion, count(DISTINCT eval) AS evals_passed
OPTIONAL MATCH (u)-[:VIEWED]->(r:Resource)
RETURN courses_enrolled,
       coalesce(avg_completion, 0) AS avg_completion,
       evals_passed,
       count(r) AS resources_viewed
`
	rows, err := run.ReadRows(ctx, cypher, map[string]any{"username": username})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &StudentStats{}, nil
	}
	row := rows[0]
	return &StudentStats{
		CoursesEnrolled:   asInt(row["courses_enrolled"]),
		AvgCompletion:     asFloat(row["avg_completion"]),
		EvaluationsPassed: asInt(row["evals_passed"]),
		ResourcesViewed:   asInt(row["resources_viewed"]),
	}, nil
}

func QueryInstructorStats(ctx context.Context, run Runner, username string) (*InstructorStats, error) {
	if run == nil || username == "" {
		return nil, nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	cypher := `
MATCH (u:User {username: $username})-[:TEACHES]->(c:Course)
OPTIONAL MATCH (student:User)-[:ENROLLED_IN]->(c)
RETURN count(DISTINCT c) AS courses_created,
       count(DISTINCT student) AS total_students
`
	rows, err := run.ReadRows(ctx, cypher, map[string]any{"username": username})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &InstructorStats{}, nil
	}
	row := rows[0]
	return &InstructorStats{
		CoursesCreated: asInt(row["courses_created"]),
		TotalStudents:  asInt(row["total_students"]),
	}, nil
}

func toRecommendationRows(rows []map[string]any, method string) []RecommendationRow {
	out := make([]RecommendationRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, RecommendationRow{
			CourseID:    asString(row["course_id"]),
			Title:       asString(row["title"]),
			Level:       asString(row["level"]),
			Description: asString(row["description"]),
			ImagePath:   asString(row["image_path"]),
			Score:       asFloat(row["score"]),
			Instructor:  asString(row["instructor"]),
			Method:      method,
		})
	}
	return out
}

// The driver hands back int64 for cypher integers and float64 for
// floats; OPTIONAL MATCH misses arrive as nil.

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int {
	switch n := v.(type) {
	case int64:
		return int(n)
	case int:
		return n
	case float64:
		return int(n)
	}
	return 0
}

func asFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	}
	return 0
}
