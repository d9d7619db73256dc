package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/edusphere/edusphere-backend/internal/graph"
	"github.com/edusphere/edusphere-backend/internal/requestdata"
	"github.com/edusphere/edusphere-backend/internal/services"
	"github.com/edusphere/edusphere-backend/internal/types"
)

const defaultRecommendationLimit = 5

type RecommendationHandler struct {
	recommendationService services.RecommendationService
	enrollmentService     services.EnrollmentService
	certificateService    services.CertificateService
}

func NewRecommendationHandler(
	recommendationService services.RecommendationService,
	enrollmentService services.EnrollmentService,
	certificateService services.CertificateService,
) *RecommendationHandler {
	return &RecommendationHandler{
		recommendationService: recommendationService,
		enrollmentService:     enrollmentService,
		certificateService:    certificateService,
	}
}

func (rh *RecommendationHandler) Recommendations(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	limit := queryInt(c, "limit", defaultRecommendationLimit)
	recs := rh.recommendationService.Recommend(c.Request.Context(), rd.Username, limit)
	c.JSON(http.StatusOK, gin.H{"recommendations": recs})
}

func (rh *RecommendationHandler) SimilarCourses(c *gin.Context) {
	courseID := c.Param("id")
	limit := queryInt(c, "limit", 3)
	similar := rh.recommendationService.SimilarCourses(c.Request.Context(), courseID, limit)
	c.JSON(http.StatusOK, gin.H{"similar_courses": similar})
}

// Dashboard fans the independent reads out concurrently; the graph-backed
// parts degrade to empty rather than failing the page.
func (rh *RecommendationHandler) Dashboard(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	ctx := c.Request.Context()

	var (
		recs         []graph.RecommendationRow
		stats        *graph.StudentStats
		enrollments  []*types.Enrollment
		certificates []*types.Certificate
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		recs = rh.recommendationService.Recommend(gctx, rd.Username, defaultRecommendationLimit)
		return nil
	})
	g.Go(func() error {
		stats = rh.recommendationService.StudentStats(gctx, rd.Username)
		return nil
	})
	g.Go(func() error {
		var err error
		enrollments, err = rh.enrollmentService.ListForStudent(gctx, rd.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		certificates, err = rh.certificateService.ListForStudent(gctx, rd.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"recommendations": recs,
		"stats":           stats,
		"enrollments":     enrollments,
		"certificates":    certificates,
	})
}

func (rh *RecommendationHandler) InstructorStats(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
		return
	}
	stats := rh.recommendationService.InstructorStats(c.Request.Context(), rd.Username)
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
