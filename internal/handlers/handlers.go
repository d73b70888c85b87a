package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"pmadmin/console/internal/config"
	"pmadmin/console/internal/middleware"
	"pmadmin/console/internal/models"
	"pmadmin/console/internal/service"
)

type HandlerSet struct {
	log       zerolog.Logger
	cfg       *config.AppConfig
	auth      *service.AuthService
	employees *service.EmployeeService
	projects  *service.ProjectService
	dashboard *service.DashboardService
	started   time.Time
}

func NewHandlerSet(
	log zerolog.Logger,
	cfg *config.AppConfig,
	auth *service.AuthService,
	employees *service.EmployeeService,
	projects *service.ProjectService,
	dashboard *service.DashboardService,
) HandlerSet {
	return HandlerSet{
		log:       log,
		cfg:       cfg,
		auth:      auth,
		employees: employees,
		projects:  projects,
		dashboard: dashboard,
		started:   time.Now(),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	admin := middleware.RequireRoles(models.BackendRoleAdmin)
	managers := middleware.RequireRoles(models.BackendRoleAdmin, models.BackendRoleProjectManager)

	router.GET("/healthz", h.Health)

	auth := router.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
	}

	protected := router.Group("")
	protected.Use(middleware.Auth(h.auth))

	protectedAuth := protected.Group("/auth")
	{
		protectedAuth.POST("/logout", h.Logout)
		protectedAuth.POST("/logout-all", h.LogoutAll)
	}

	employees := protected.Group("/employees")
	{
		employees.GET("", managers, h.ListEmployees)
		employees.POST("", admin, h.CreateEmployee)
		employees.GET("/profile", h.Profile)
		employees.GET("/:id", h.GetEmployee)
		employees.PUT("/:id", admin, h.UpdateEmployee)
		employees.DELETE("/:id", admin, h.DeleteEmployee)
		employees.GET("/:id/projects", h.EmployeeProjects)
		employees.POST("/:id/projects/:projectId", managers, h.AssignProject)
		employees.DELETE("/:id/projects/:projectId", managers, h.UnassignProject)
		employees.POST("/:id/change-password", h.ChangePassword)
		employees.PATCH("/:id/lock", admin, h.setLocked(true))
		employees.PATCH("/:id/unlock", admin, h.setLocked(false))
		employees.PATCH("/:id/enable", admin, h.setEnabled(true))
		employees.PATCH("/:id/disable", admin, h.setEnabled(false))
	}

	projects := protected.Group("/projects")
	{
		projects.GET("", h.ListProjects)
		projects.POST("", managers, h.CreateProject)
		projects.GET("/search", h.SearchProjects)
		projects.GET("/stats", h.ProjectStats)
		projects.GET("/:id", h.GetProject)
		projects.PUT("/:id", managers, h.UpdateProject)
		projects.DELETE("/:id", admin, h.DeleteProject)
		projects.GET("/:id/employees", h.ProjectMembers)
		projects.POST("/:id/employees", managers, h.AssignEmployees)
		projects.POST("/:id/employees/:employeeId", managers, h.AssignEmployee)
		projects.DELETE("/:id/employees/:employeeId", managers, h.RemoveEmployee)
	}

	dashboard := protected.Group("/dashboard")
	{
		dashboard.GET("/projects/stats", h.DashboardProjectStats)
		dashboard.GET("/employees/stats", h.DashboardEmployeeStats)
		dashboard.GET("/overview", h.DashboardOverview)
		dashboard.GET("/activities", h.DashboardActivities)
		dashboard.GET("/system/health", h.DashboardHealth)
	}
}
