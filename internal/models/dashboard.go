package models

import "time"

// ProjectStatsPayload is the wire shape of /dashboard/projects/stats.
type ProjectStatsPayload struct {
	TotalProjects     int            `json:"totalProjects"`
	ActiveProjects    int            `json:"activeProjects"`
	CompletedProjects int            `json:"completedProjects"`
	PendingProjects   int            `json:"pendingProjects"`
	CanceledProjects  int            `json:"canceledProjects"`
	ProjectsByStatus  map[string]int `json:"projectsByStatus"`
	ProjectsByType    map[string]int `json:"projectsByType"`
}

// EmployeeStatsPayload is the wire shape of /dashboard/employees/stats.
type EmployeeStatsPayload struct {
	TotalEmployees        int            `json:"totalEmployees"`
	ActiveEmployees       int            `json:"activeEmployees"`
	LockedEmployees       int            `json:"lockedEmployees"`
	InactiveEmployees     int            `json:"inactiveEmployees"`
	EmployeesByDepartment map[string]int `json:"employeesByDepartment"`
	EmployeesByLevel      map[string]int `json:"employeesByLevel"`
}

// OverviewPayload is the wire shape of /dashboard/overview.
type OverviewPayload struct {
	ProjectStats  *ProjectStatsPayload  `json:"projectStats"`
	EmployeeStats *EmployeeStatsPayload `json:"employeeStats"`
}

type ProjectStats struct {
	TotalProjects         int     `json:"totalProjects"`
	ActiveProjects        int     `json:"activeProjects"`
	CompletedProjects     int     `json:"completedProjects"`
	PlannedProjects       int     `json:"plannedProjects"`
	CancelledProjects     int     `json:"cancelledProjects"`
	ProjectCompletionRate float64 `json:"projectCompletionRate"`
}

type EmployeeStats struct {
	TotalEmployees        int            `json:"totalEmployees"`
	ActiveEmployees       int            `json:"activeEmployees"`
	LockedEmployees       int            `json:"lockedEmployees"`
	DisabledEmployees     int            `json:"disabledEmployees"`
	EmployeesByDepartment map[string]int `json:"employeesByDepartment"`
	EmployeesByLevel      map[string]int `json:"employeesByLevel"`
}

type ProjectBreakdown struct {
	TotalProjects    int            `json:"totalProjects"`
	ProjectsByStatus map[string]int `json:"projectsByStatus"`
	ProjectsByType   map[string]int `json:"projectsByType"`
	CompletionRate   float64        `json:"completionRate"`
}

type Overview struct {
	ProjectStats     ProjectStats     `json:"projectStats"`
	EmployeeStats    EmployeeStats    `json:"employeeStats"`
	ProjectBreakdown ProjectBreakdown `json:"projectBreakdown"`
}

type ActivityType string

const (
	ActivityProject  ActivityType = "project"
	ActivityEmployee ActivityType = "employee"
	ActivitySystem   ActivityType = "system"
)

type Activity struct {
	ID          int64        `json:"id"`
	Type        ActivityType `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
	User        string       `json:"user,omitempty"`
}

type HealthStatus string

const (
	HealthHealthy  HealthStatus = "healthy"
	HealthWarning  HealthStatus = "warning"
	HealthCritical HealthStatus = "critical"
)

type SystemHealth struct {
	Status            HealthStatus `json:"status"`
	Uptime            float64      `json:"uptime"`
	MemoryUsage       float64      `json:"memoryUsage"`
	CPUUsage          float64      `json:"cpuUsage"`
	DiskUsage         float64      `json:"diskUsage"`
	ActiveConnections int          `json:"activeConnections"`
	LastUpdated       time.Time    `json:"lastUpdated"`
}

// CompletionRate is completed/total as a percentage, zero when there are no
// projects.
func CompletionRate(completed, total int) float64 {
	if total <= 0 || completed <= 0 {
		return 0
	}
	return float64(completed) / float64(total) * 100
}

func (p ProjectStatsPayload) Stats() ProjectStats {
	return ProjectStats{
		TotalProjects:         p.TotalProjects,
		ActiveProjects:        p.ActiveProjects,
		CompletedProjects:     p.CompletedProjects,
		PlannedProjects:       p.PendingProjects,
		CancelledProjects:     p.CanceledProjects,
		ProjectCompletionRate: CompletionRate(p.CompletedProjects, p.TotalProjects),
	}
}

func (p ProjectStatsPayload) Breakdown() ProjectBreakdown {
	return ProjectBreakdown{
		TotalProjects:    p.TotalProjects,
		ProjectsByStatus: nonNilCounts(p.ProjectsByStatus),
		ProjectsByType:   nonNilCounts(p.ProjectsByType),
		CompletionRate:   CompletionRate(p.CompletedProjects, p.TotalProjects),
	}
}

func (p EmployeeStatsPayload) Stats() EmployeeStats {
	return EmployeeStats{
		TotalEmployees:        p.TotalEmployees,
		ActiveEmployees:       p.ActiveEmployees,
		LockedEmployees:       p.LockedEmployees,
		DisabledEmployees:     p.InactiveEmployees,
		EmployeesByDepartment: nonNilCounts(p.EmployeesByDepartment),
		EmployeesByLevel:      nonNilCounts(p.EmployeesByLevel),
	}
}

func nonNilCounts(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}
