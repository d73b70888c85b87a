package service

import (
	"context"
	"runtime"
	"time"

	"pmadmin/console/internal/models"
	"pmadmin/console/internal/repository"
)

const defaultActivityLimit = 10

type DashboardService struct {
	projects   *ProjectService
	employees  *repository.EmployeeRepository
	sessions   *repository.SessionRepository
	activities *repository.ActivityRepository
}

func NewDashboardService(
	projects *ProjectService,
	employees *repository.EmployeeRepository,
	sessions *repository.SessionRepository,
	activities *repository.ActivityRepository,
) *DashboardService {
	return &DashboardService{
		projects:   projects,
		employees:  employees,
		sessions:   sessions,
		activities: activities,
	}
}

func (s *DashboardService) ProjectStats(ctx context.Context) models.ProjectStatsPayload {
	return s.projects.Stats(ctx)
}

func (s *DashboardService) EmployeeStats(ctx context.Context) models.EmployeeStatsPayload {
	stats := models.EmployeeStatsPayload{
		EmployeesByDepartment: map[string]int{},
		EmployeesByLevel:      map[string]int{},
	}
	for _, e := range s.employees.All(ctx) {
		stats.TotalEmployees++
		switch {
		case e.IsLocked:
			stats.LockedEmployees++
		case !e.IsEnabled:
			stats.InactiveEmployees++
		default:
			stats.ActiveEmployees++
		}
		if e.Department != "" {
			stats.EmployeesByDepartment[e.Department]++
		}
		if e.Level != "" {
			stats.EmployeesByLevel[e.Level]++
		}
	}
	return stats
}

func (s *DashboardService) Overview(ctx context.Context) models.OverviewPayload {
	projects := s.ProjectStats(ctx)
	employees := s.EmployeeStats(ctx)
	return models.OverviewPayload{ProjectStats: &projects, EmployeeStats: &employees}
}

func (s *DashboardService) Activities(ctx context.Context, limit int) []models.Activity {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	return s.activities.Recent(ctx, limit)
}

// Health reports process-level figures. The stub has no disk or CPU sampling,
// so those stay zero.
func (s *DashboardService) Health(ctx context.Context) models.SystemHealth {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	memoryUsage := 0.0
	if mem.Sys > 0 {
		memoryUsage = float64(mem.HeapInuse) / float64(mem.Sys) * 100
	}

	status := models.HealthHealthy
	switch {
	case memoryUsage >= 95:
		status = models.HealthCritical
	case memoryUsage >= 85:
		status = models.HealthWarning
	}

	return models.SystemHealth{
		Status:            status,
		Uptime:            100,
		MemoryUsage:       memoryUsage,
		ActiveConnections: s.sessions.Count(ctx),
		LastUpdated:       time.Now().UTC(),
	}
}
