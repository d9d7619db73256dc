package app

import (
	"github.com/edusphere/edusphere-backend/internal/handlers"
	"github.com/edusphere/edusphere-backend/internal/logger"
	"github.com/edusphere/edusphere-backend/internal/middleware"
	"github.com/edusphere/edusphere-backend/internal/server"
	"github.com/edusphere/edusphere-backend/internal/sse"
)

func wireRouter(cfg Config, log *logger.Logger, s Services, hub *sse.SSEHub) *server.RouterConfig {
	return &server.RouterConfig{
		ServiceName:           cfg.ServiceName,
		AllowOrigins:          cfg.AllowOrigins,
		AuthHandler:           handlers.NewAuthHandler(s.Auth),
		AuthMiddleware:        middleware.NewAuthMiddleware(log, s.Auth),
		ProgressHandler:       handlers.NewProgressHandler(s.Progress),
		QuizHandler:           handlers.NewQuizHandler(s.Quiz),
		EnrollmentHandler:     handlers.NewEnrollmentHandler(s.Enrollment),
		RecommendationHandler: handlers.NewRecommendationHandler(s.Recommendation, s.Enrollment, s.Certificate),
		NotificationHandler:   handlers.NewNotificationHandler(s.Notification),
		CertificateHandler:    handlers.NewCertificateHandler(s.Certificate),
		GraphSyncHandler:      handlers.NewGraphSyncHandler(s.GraphSync),
		SSEHandler:            handlers.NewSSEHandler(hub),
	}
}
