package graph

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/edusphere/edusphere-backend/internal/types"
)

// Nodes are keyed by the relational row id so renames never split a
// node. User additionally carries a unique username because the
// traversal queries address students and instructors by username.

func UpsertUsers(ctx context.Context, run Runner, users []*types.User) error {
	if run == nil || len(users) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	rows := make([]map[string]any, 0, len(users))
	for _, u := range users {
		if u == nil || u.ID == uuid.Nil || strings.TrimSpace(u.Username) == "" {
			continue
		}
		rows = append(rows, map[string]any{
			"id":         u.ID.String(),
			"username":   u.Username,
			"email":      u.Email,
			"first_name": u.FirstName,
			"last_name":  u.LastName,
			"role":       u.Role,
			"is_active":  u.IsActive,
			"synced_at":  now,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	cypher := `
UNWIND $rows AS row
MERGE (u:User {id: row.id})
SET u.username = row.username,
    u.email = row.email,
    u.first_name = row.first_name,
    u.last_name = row.last_name,
    u.role = row.role,
    u.is_active = row.is_active,
    u.synced_at = row.synced_at
`
	return run.WriteRows(ctx, cypher, map[string]any{"rows": rows})
}

// UpsertCourses merges Course nodes and the instructor TEACHES edge.
func UpsertCourses(ctx context.Context, run Runner, courses []*types.Course) error {
	if run == nil || len(courses) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	rows := make([]map[string]any, 0, len(courses))
	for _, c := range courses {
		if c == nil || c.ID == uuid.Nil {
			continue
		}
		rows = append(rows, map[string]any{
			"id":                 c.ID.String(),
			"instructor_id":      c.InstructorID.String(),
			"title":              c.Title,
			"description":        c.Description,
			"level":              c.Level,
			"estimated_duration": c.EstimatedDuration,
			"image_path":         c.ImagePath,
			"synced_at":          now,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	cypher := `
UNWIND $rows AS row
MERGE (c:Course {id: row.id})
SET c.title = row.title,
    c.description = row.description,
    c.level = row.level,
    c.estimated_duration = row.estimated_duration,
    c.image_path = row.image_path,
    c.synced_at = row.synced_at
WITH c, row
MATCH (i:User {id: row.instructor_id})
MERGE (i)-[:TEACHES]->(c)
`
	return run.WriteRows(ctx, cypher, map[string]any{"rows": rows})
}

func UpsertModules(ctx context.Context, run Runner, modules []*types.CourseModule) error {
	if run == nil || len(modules) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows := make([]map[string]any, 0, len(modules))
	for _, m := range modules {
		if m == nil || m.ID == uuid.Nil || m.CourseID == uuid.Nil {
			continue
		}
		rows = append(rows, map[string]any{
			"id":          m.ID.String(),
			"course_id":   m.CourseID.String(),
			"title":       m.Title,
			"description": m.Description,
			"order":       m.Index,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	cypher := `
UNWIND $rows AS row
MERGE (m:Module {id: row.id})
SET m.title = row.title,
    m.description = row.description,
    m.order = row.order
WITH m, row
MATCH (c:Course {id: row.course_id})
MERGE (c)-[rel:CONTAINS]->(m)
SET rel.order = row.order
`
	return run.WriteRows(ctx, cypher, map[string]any{"rows": rows})
}

func UpsertResources(ctx context.Context, run Runner, resources []*types.Resource) error {
	if run == nil || len(resources) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows := make([]map[string]any, 0, len(resources))
	for _, r := range resources {
		if r == nil || r.ID == uuid.Nil || r.ModuleID == uuid.Nil {
			continue
		}
		rows = append(rows, map[string]any{
			"id":            r.ID.String(),
			"module_id":     r.ModuleID.String(),
			"title":         r.Title,
			"resource_type": r.ResourceType,
			"file_path":     r.FilePath,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	cypher := `
UNWIND $rows AS row
MERGE (r:Resource {id: row.id})
SET r.title = row.title,
    r.resource_type = row.resource_type,
    r.file_path = row.file_path
WITH r, row
MATCH (m:Module {id: row.module_id})
MERGE (m)-[:HAS_RESOURCE]->(r)
`
	return run.WriteRows(ctx, cypher, map[string]any{"rows": rows})
}

func UpsertEvaluations(ctx context.Context, run Runner, evaluations []*types.Evaluation) error {
	if run == nil || len(evaluations) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows := make([]map[string]any, 0, len(evaluations))
	for _, e := range evaluations {
		if e == nil || e.ID == uuid.Nil || e.ModuleID == uuid.Nil {
			continue
		}
		rows = append(rows, map[string]any{
			"id":              e.ID.String(),
			"module_id":       e.ModuleID.String(),
			"title":           e.Title,
			"evaluation_type": e.EvaluationType,
			"max_score":       e.MaxScore,
			"passing_score":   e.PassingScore,
			"allow_retake":    e.AllowRetake,
			"max_attempts":    e.MaxAttempts,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	cypher := `
UNWIND $rows AS row
MERGE (e:Evaluation {id: row.id})
SET e.title = row.title,
    e.evaluation_type = row.evaluation_type,
    e.max_score = row.max_score,
    e.passing_score = row.passing_score,
    e.allow_retake = row.allow_retake,
    e.max_attempts = row.max_attempts
WITH e, row
MATCH (m:Module {id: row.module_id})
MERGE (m)-[:HAS_EVALUATION]->(e)
`
	return run.WriteRows(ctx, cypher, map[string]any{"rows": rows})
}

func UpsertQuestions(ctx context.Context, run Runner, questions []*types.Question) error {
	if run == nil || len(questions) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows := make([]map[string]any, 0, len(questions))
	for _, q := range questions {
		if q == nil || q.ID == uuid.Nil || q.EvaluationID == uuid.Nil {
			continue
		}
		rows = append(rows, map[string]any{
			"id":            q.ID.String(),
			"evaluation_id": q.EvaluationID.String(),
			"text":          q.Text,
			"points":        q.Points,
			"order":         q.Order,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	cypher := `
UNWIND $rows AS row
MERGE (q:Question {id: row.id})
SET q.text = row.text,
    q.points = row.points,
    q.order = row.order
WITH q, row
MATCH (e:Evaluation {id: row.evaluation_id})
MERGE (e)-[:HAS_QUESTION]->(q)
`
	return run.WriteRows(ctx, cypher, map[string]any{"rows": rows})
}

// UpsertEnrollments mirrors the ENROLLED_IN edge with a completion
// snapshot. The snapshot is advisory for traversal queries; the
// relational store stays the source of truth.
func UpsertEnrollments(ctx context.Context, run Runner, enrollments []*types.Enrollment, completionByEnrollment map[uuid.UUID]float64) error {
	if run == nil || len(enrollments) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows := make([]map[string]any, 0, len(enrollments))
	for _, e := range enrollments {
		if e == nil || e.StudentID == uuid.Nil || e.CourseID == uuid.Nil {
			continue
		}
		rows = append(rows, map[string]any{
			"student_id":         e.StudentID.String(),
			"course_id":          e.CourseID.String(),
			"enrolled_on":        e.EnrolledOn.UTC().Format(time.RFC3339Nano),
			"certified":          e.Certified,
			"completion_percent": completionByEnrollment[e.ID],
		})
	}
	if len(rows) == 0 {
		return nil
	}

	cypher := `
UNWIND $rows AS row
MATCH (u:User {id: row.student_id})
MATCH (c:Course {id: row.course_id})
MERGE (u)-[rel:ENROLLED_IN]->(c)
SET rel.enrolled_on = row.enrolled_on,
    rel.certified = row.certified,
    rel.completion_percent = row.completion_percent
`
	return run.WriteRows(ctx, cypher, map[string]any{"rows": rows})
}

func RemoveEnrollment(ctx context.Context, run Runner, studentID, courseID uuid.UUID) error {
	if run == nil || studentID == uuid.Nil || courseID == uuid.Nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cypher := `
MATCH (u:User {id: $student_id})-[rel:ENROLLED_IN]->(c:Course {id: $course_id})
DELETE rel
`
	return run.WriteRows(ctx, cypher, map[string]any{
		"student_id": studentID.String(),
		"course_id":  courseID.String(),
	})
}

// UpsertSubmissions keeps one SUBMITTED edge per attempt, keyed by the
// submission row id.
func UpsertSubmissions(ctx context.Context, run Runner, submissions []*types.Submission) error {
	if run == nil || len(submissions) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows := make([]map[string]any, 0, len(submissions))
	for _, s := range submissions {
		if s == nil || s.ID == uuid.Nil || s.StudentID == uuid.Nil || s.EvaluationID == uuid.Nil {
			continue
		}
		rows = append(rows, map[string]any{
			"id":             s.ID.String(),
			"student_id":     s.StudentID.String(),
			"evaluation_id":  s.EvaluationID.String(),
			"submitted_on":   s.SubmittedOn.UTC().Format(time.RFC3339Nano),
			"score":          s.Score,
			"max_score":      s.MaxScore,
			"percentage":     s.Percentage,
			"passed":         s.Passed,
			"attempt_number": s.AttemptNumber,
			"status":         s.Status,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	cypher := `
UNWIND $rows AS row
MATCH (u:User {id: row.student_id})
MATCH (e:Evaluation {id: row.evaluation_id})
MERGE (u)-[rel:SUBMITTED {id: row.id}]->(e)
SET rel.submitted_on = row.submitted_on,
    rel.score = row.score,
    rel.max_score = row.max_score,
    rel.percentage = row.percentage,
    rel.passed = row.passed,
    rel.attempt_number = row.attempt_number,
    rel.status = row.status
`
	return run.WriteRows(ctx, cypher, map[string]any{"rows": rows})
}

func UpsertResourceViews(ctx context.Context, run Runner, views []*types.ResourceView) error {
	if run == nil || len(views) == 0 {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows := make([]map[string]any, 0, len(views))
	for _, v := range views {
		if v == nil || v.StudentID == uuid.Nil || v.ResourceID == uuid.Nil {
			continue
		}
		rows = append(rows, map[string]any{
			"student_id":  v.StudentID.String(),
			"resource_id": v.ResourceID.String(),
			"viewed_on":   v.ViewedOn.UTC().Format(time.RFC3339Nano),
		})
	}
	if len(rows) == 0 {
		return nil
	}

	cypher := `
UNWIND $rows AS row
MATCH (u:User {id: row.student_id})
MATCH (r:Resource {id: row.resource_id})
MERGE (u)-[rel:VIEWED]->(r)
SET rel.viewed_on = row.viewed_on
`
	return run.WriteRows(ctx, cypher, map[string]any{"rows": rows})
}

// UpsertCourseSkills merges Skill nodes and TEACHES_SKILL edges for one
// course. Skills are keyed by lowercase name so tagging is
// case-insensitive.
func UpsertCourseSkills(ctx context.Context, run Runner, courseID uuid.UUID, skills []string) error {
	if run == nil || courseID == uuid.Nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}

	rows := make([]map[string]any, 0, len(skills))
	for _, s := range skills {
		name := strings.TrimSpace(s)
		if name == "" {
			continue
		}
		rows = append(rows, map[string]any{
			"key":  strings.ToLower(name),
			"name": name,
		})
	}
	if len(rows) == 0 {
		return nil
	}

	cypher := `
MATCH (c:Course {id: $course_id})
UNWIND $rows AS row
MERGE (s:Skill {key: row.key})
ON CREATE SET s.name = row.name
MERGE (c)-[:TEACHES_SKILL]->(s)
`
	return run.WriteRows(ctx, cypher, map[string]any{
		"course_id": courseID.String(),
		"rows":      rows,
	})
}
