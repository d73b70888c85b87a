package service

import (
	"context"
	"fmt"

	"pmadmin/console/internal/models"
	"pmadmin/console/internal/repository"
	"pmadmin/console/internal/security"
)

type seedEmployee struct {
	name, email, department, position, level string
	roleID                                   int64
}

var seedEmployees = []seedEmployee{
	{"Alice Admin", "admin@example.com", "Management", "Administrator", "Senior", 1},
	{"Paul Manager", "pm@example.com", "Management", "Project Manager", "Senior", 2},
	{"Eve Employee", "employee@example.com", "Development", "Developer", "Mid", 3},
	{"Dan Designer", "dan@example.com", "Design", "UI Designer", "Junior", 3},
}

var seedProjects = []models.CreateProjectRequest{
	{ProjectCode: "ALPHA", Name: "Project Alpha", PMEmail: "pm@example.com", StartDate: "2024-01-15", EndDate: "2024-12-31",
		ProjectStatus: models.ProjectStatusInProgress, ProjectType: models.ProjectTypeInternal, Budget: 120000},
	{ProjectCode: "BETA", Name: "Project Beta", PMEmail: "pm@example.com", StartDate: "2023-03-01", EndDate: "2023-11-30",
		ProjectStatus: models.ProjectStatusCompleted, ProjectType: models.ProjectTypeExternal, Budget: 80000},
	{ProjectCode: "GAMMA", Name: "Project Gamma", PMEmail: "admin@example.com", StartDate: "2025-02-01", EndDate: "2025-09-30",
		ProjectStatus: models.ProjectStatusPlanning, ProjectType: models.ProjectTypeResearch},
}

// Seed fills empty repositories with a small demo organisation. Every seeded
// account uses password.
func Seed(ctx context.Context, employees *repository.EmployeeRepository, projects *repository.ProjectRepository, password string) error {
	hash, err := security.HashPassword(password)
	if err != nil {
		return err
	}

	created := map[string]int64{}
	for _, e := range seedEmployees {
		role, err := employees.Role(ctx, e.roleID)
		if err != nil {
			return err
		}
		rec, err := employees.Create(ctx, repository.EmployeeRecord{
			Employee: models.Employee{
				Name:       e.name,
				Email:      e.email,
				Department: e.department,
				Position:   e.position,
				Level:      e.level,
				IsEnabled:  true,
				Role:       role,
			},
			PasswordHash: hash,
		})
		if err != nil {
			return fmt.Errorf("seed employee %s: %w", e.email, err)
		}
		created[e.email] = rec.ID
	}

	for i, p := range seedProjects {
		rec, err := projects.Create(ctx, repository.ProjectRecord{
			Project: models.Project{
				ProjectCode:   p.ProjectCode,
				Name:          p.Name,
				PMEmail:       p.PMEmail,
				StartDate:     p.StartDate,
				EndDate:       p.EndDate,
				ProjectType:   p.ProjectType,
				ProjectStatus: p.ProjectStatus,
				Budget:        p.Budget,
			},
		})
		if err != nil {
			return fmt.Errorf("seed project %s: %w", p.ProjectCode, err)
		}
		if i == 0 {
			if _, err := projects.AddMembers(ctx, rec.ID, created["employee@example.com"], created["dan@example.com"]); err != nil {
				return err
			}
		}
	}
	return nil
}
