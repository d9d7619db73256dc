package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/edusphere/edusphere-backend/internal/handlers"
	"github.com/edusphere/edusphere-backend/internal/middleware"
	"github.com/edusphere/edusphere-backend/internal/types"
)

type RouterConfig struct {
	ServiceName           string
	AllowOrigins          []string
	AuthHandler           *handlers.AuthHandler
	AuthMiddleware        *middleware.AuthMiddleware
	ProgressHandler       *handlers.ProgressHandler
	QuizHandler           *handlers.QuizHandler
	EnrollmentHandler     *handlers.EnrollmentHandler
	RecommendationHandler *handlers.RecommendationHandler
	NotificationHandler   *handlers.NotificationHandler
	CertificateHandler    *handlers.CertificateHandler
	GraphSyncHandler      *handlers.GraphSyncHandler
	SSEHandler            *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.AttachTraceContext())

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.Healthcheck)
	api := router.Group("/api")
	{
		api.POST("/register", cfg.AuthHandler.Register)
		api.POST("/login", cfg.AuthHandler.Login)
	}

	// Protected
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	{
		// SSE
		protected.GET("/sse/stream", cfg.SSEHandler.Stream)

		// Events & progress
		protected.POST("/resources/:id/view", cfg.ProgressHandler.MarkResourceViewed)
		protected.GET("/enrollments/:id/progress", cfg.ProgressHandler.GetCourseProgress)

		// Evaluations
		protected.POST("/evaluations/:id/submit-quiz", cfg.QuizHandler.SubmitQuiz)
		protected.POST("/evaluations/:id/submit-assignment", cfg.QuizHandler.SubmitAssignment)
		protected.POST("/submissions/:id/grade",
			cfg.AuthMiddleware.RequireRole(types.RoleInstructor), cfg.QuizHandler.GradeSubmission)

		// Enrollment
		protected.POST("/courses/:id/enroll", cfg.EnrollmentHandler.Enroll)
		protected.POST("/courses/:id/unenroll", cfg.EnrollmentHandler.Unenroll)
		protected.GET("/enrollments", cfg.EnrollmentHandler.ListMine)

		// Recommendations & stats
		protected.GET("/recommendations", cfg.RecommendationHandler.Recommendations)
		protected.GET("/courses/:id/similar", cfg.RecommendationHandler.SimilarCourses)
		protected.GET("/dashboard", cfg.RecommendationHandler.Dashboard)
		protected.GET("/instructor/stats",
			cfg.AuthMiddleware.RequireRole(types.RoleInstructor), cfg.RecommendationHandler.InstructorStats)

		// Notifications
		protected.GET("/notifications", cfg.NotificationHandler.List)
		protected.PATCH("/notifications/:id/read", cfg.NotificationHandler.MarkRead)
		protected.PATCH("/notifications", cfg.NotificationHandler.MarkAllRead)

		// Certificates
		protected.GET("/certificates", cfg.CertificateHandler.ListMine)
		protected.GET("/courses/:id/certificate", cfg.CertificateHandler.GetForCourse)

		// Admin
		admin := protected.Group("/admin")
		admin.Use(cfg.AuthMiddleware.RequireRole(types.RoleAdmin))
		{
			admin.POST("/graph/sync", cfg.GraphSyncHandler.SyncAll)
			admin.POST("/graph/skills", cfg.GraphSyncHandler.EnsureSkills)
		}
	}

	return router
}
