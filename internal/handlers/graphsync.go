package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edusphere/edusphere-backend/internal/services"
)

// GraphSyncHandler exposes the admin-only bulk synchronization
// endpoints.
type GraphSyncHandler struct {
	graphSyncService services.GraphSyncService
}

func NewGraphSyncHandler(graphSyncService services.GraphSyncService) *GraphSyncHandler {
	return &GraphSyncHandler{graphSyncService: graphSyncService}
}

func (gh *GraphSyncHandler) SyncAll(c *gin.Context) {
	report, err := gh.graphSyncService.SyncAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": report})
}

func (gh *GraphSyncHandler) EnsureSkills(c *gin.Context) {
	linked, err := gh.graphSyncService.EnsureSkills(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses_linked": linked})
}
