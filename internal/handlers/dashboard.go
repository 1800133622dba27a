package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/taskflowhq/taskflow/internal/services"
	"github.com/taskflowhq/taskflow/pkg/response"
)

type DashboardHandler struct {
	dashboardService *services.DashboardService
}

func NewDashboardHandler(db *gorm.DB, activity *services.ActivityService) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: services.NewDashboardService(db, activity),
	}
}

// Stats returns the dashboard counters
// GET /api/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.dashboardService.Stats(c.Request.Context(), identity(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stats)
}

// Activity returns the recent activity feed
// GET /api/dashboard/activity
func (h *DashboardHandler) Activity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	entries, err := h.dashboardService.RecentActivity(c.Request.Context(), identity(c), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, entries)
}
