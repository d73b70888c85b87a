package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"pmadmin/console/internal/models"
)

func (h HandlerSet) DashboardProjectStats(c *gin.Context) {
	ok(c, h.dashboard.ProjectStats(c.Request.Context()))
}

func (h HandlerSet) DashboardEmployeeStats(c *gin.Context) {
	ok(c, h.dashboard.EmployeeStats(c.Request.Context()))
}

func (h HandlerSet) DashboardOverview(c *gin.Context) {
	ok(c, h.dashboard.Overview(c.Request.Context()))
}

func (h HandlerSet) DashboardActivities(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			h.failErr(c, models.FieldErrors{"limit": "must be a non-negative number"})
			return
		}
		limit = n
	}
	ok(c, h.dashboard.Activities(c.Request.Context(), limit))
}

func (h HandlerSet) DashboardHealth(c *gin.Context) {
	ok(c, h.dashboard.Health(c.Request.Context()))
}
