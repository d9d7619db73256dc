package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edusphere/edusphere-backend/internal/graph"
	"github.com/edusphere/edusphere-backend/internal/logger"
)

// fakeRunner routes reads by a substring of the cypher text and
// records every write.
type fakeRunner struct {
	rows     map[string][]map[string]any
	readErr  error
	writeErr error
	failOn   string
	writes   []fakeWrite
}

type fakeWrite struct {
	cypher string
	params map[string]any
}

func (f *fakeRunner) ReadRows(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	for marker, rows := range f.rows {
		if strings.Contains(cypher, marker) {
			return rows, nil
		}
	}
	return nil, nil
}

func (f *fakeRunner) WriteRows(ctx context.Context, cypher string, params map[string]any) error {
	if f.failOn != "" && strings.Contains(cypher, f.failOn) {
		return errors.New("write rejected")
	}
	f.writes = append(f.writes, fakeWrite{cypher: cypher, params: params})
	return f.writeErr
}

func (f *fakeRunner) cypherWritten(marker string) bool {
	for _, w := range f.writes {
		if strings.Contains(w.cypher, marker) {
			return true
		}
	}
	return false
}

func testLog(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("production")
	require.NoError(t, err)
	return log
}

func recRow(title string, score int64) map[string]any {
	return map[string]any{
		"course_id":   "c-" + strings.ToLower(title),
		"title":       title,
		"level":       "Beginner",
		"description": "About " + title,
		"image_path":  nil,
		"score":       score,
		"instructor":  "teach",
	}
}

func TestRecommendMergesCollaborativeAndPopular(t *testing.T) {
	run := &fakeRunner{rows: map[string][]map[string]any{
		"popularity": {recRow("Go Basics", 3)},
		"count(student)": {
			recRow("Go Basics", 9),
			recRow("Rust Basics", 7),
		},
	}}
	svc := NewRecommendationService(testLog(t), run)

	recs := svc.Recommend(context.Background(), "student", 5)
	require.Len(t, recs, 2)
	assert.Equal(t, "Go Basics", recs[0].Title)
	assert.Equal(t, graph.MethodCollaborative, recs[0].Method)
	assert.Equal(t, 3.0, recs[0].Score)
	assert.Equal(t, "Rust Basics", recs[1].Title)
	assert.Equal(t, graph.MethodPopular, recs[1].Method)
}

func TestRecommendRespectsLimit(t *testing.T) {
	run := &fakeRunner{rows: map[string][]map[string]any{
		"count(student)": {
			recRow("A", 5), recRow("B", 4), recRow("C", 3), recRow("D", 2),
		},
	}}
	svc := NewRecommendationService(testLog(t), run)

	recs := svc.Recommend(context.Background(), "student", 2)
	require.Len(t, recs, 2)
	assert.Equal(t, "A", recs[0].Title)
	assert.Equal(t, "B", recs[1].Title)
}

func TestRecommendTruncatesLongDescriptions(t *testing.T) {
	row := recRow("Verbose", 1)
	row["description"] = strings.Repeat("x", 150)
	run := &fakeRunner{rows: map[string][]map[string]any{
		"popularity": {row},
	}}
	svc := NewRecommendationService(testLog(t), run)

	recs := svc.Recommend(context.Background(), "student", 5)
	require.Len(t, recs, 1)
	assert.Equal(t, strings.Repeat("x", 100)+"...", recs[0].Description)
}

func TestRecommendDegradesToEmptyWhenGraphIsDown(t *testing.T) {
	run := &fakeRunner{readErr: errors.New("connection refused")}
	svc := NewRecommendationService(testLog(t), run)

	recs := svc.Recommend(context.Background(), "student", 5)
	assert.NotNil(t, recs)
	assert.Empty(t, recs)

	noGraph := NewRecommendationService(testLog(t), nil)
	assert.Empty(t, noGraph.Recommend(context.Background(), "student", 5))
	assert.Empty(t, noGraph.SimilarCourses(context.Background(), "c-1", 5))
	assert.Equal(t, &graph.StudentStats{}, noGraph.StudentStats(context.Background(), "student"))
	assert.Equal(t, &graph.InstructorStats{}, noGraph.InstructorStats(context.Background(), "teach"))
}

func TestSimilarCoursesParsesRows(t *testing.T) {
	run := &fakeRunner{rows: map[string][]map[string]any{
		"similarity_score": {{
			"course_id":        "c-2",
			"title":            "Advanced Go",
			"level":            "Advanced",
			"similarity_score": int64(4),
			"instructor":       "teach",
		}},
	}}
	svc := NewRecommendationService(testLog(t), run)

	rows := svc.SimilarCourses(context.Background(), "c-1", 5)
	require.Len(t, rows, 1)
	assert.Equal(t, "Advanced Go", rows[0].Title)
	assert.Equal(t, 4.0, rows[0].SimilarityScore)
}

func TestStudentStatsCoercesDriverTypes(t *testing.T) {
	run := &fakeRunner{rows: map[string][]map[string]any{
		"courses_enrolled": {{
			"courses_enrolled": int64(3),
			"avg_completion":   72.5,
			"evals_passed":     int64(4),
			"resources_viewed": int64(9),
		}},
	}}
	svc := NewRecommendationService(testLog(t), run)

	stats := svc.StudentStats(context.Background(), "student")
	require.NotNil(t, stats)
	assert.Equal(t, 3, stats.CoursesEnrolled)
	assert.Equal(t, 72.5, stats.AvgCompletion)
	assert.Equal(t, 4, stats.EvaluationsPassed)
	assert.Equal(t, 9, stats.ResourcesViewed)
}

func TestInstructorStatsParsesRows(t *testing.T) {
	run := &fakeRunner{rows: map[string][]map[string]any{
		"courses_created": {{
			"courses_created": int64(2),
			"total_students":  int64(40),
		}},
	}}
	svc := NewRecommendationService(testLog(t), run)

	stats := svc.InstructorStats(context.Background(), "teach")
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.CoursesCreated)
	assert.Equal(t, 40, stats.TotalStudents)
}
