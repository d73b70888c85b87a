package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"pmadmin/console/internal/models"
	"pmadmin/console/internal/repository"
)

type ProjectFilter struct {
	PageRequest
	Search        string
	ProjectType   string
	ProjectStatus string
	StartDateFrom string
	StartDateTo   string
	PMEmail       string
}

var projectSortKeys = map[string]func(a, b models.Project) int{
	"id":          func(a, b models.Project) int { return compareInt64(a.ID, b.ID) },
	"name":        func(a, b models.Project) int { return compareFold(a.Name, b.Name) },
	"projectCode": func(a, b models.Project) int { return strings.Compare(a.ProjectCode, b.ProjectCode) },
	"startDate":   func(a, b models.Project) int { return strings.Compare(a.StartDate, b.StartDate) },
	"endDate":     func(a, b models.Project) int { return strings.Compare(a.EndDate, b.EndDate) },
	"budget": func(a, b models.Project) int {
		switch {
		case a.Budget < b.Budget:
			return -1
		case a.Budget > b.Budget:
			return 1
		}
		return 0
	},
}

type ProjectService struct {
	projects   *repository.ProjectRepository
	employees  *repository.EmployeeRepository
	activities *repository.ActivityRepository
	log        zerolog.Logger
}

func NewProjectService(
	projects *repository.ProjectRepository,
	employees *repository.EmployeeRepository,
	activities *repository.ActivityRepository,
	log zerolog.Logger,
) *ProjectService {
	return &ProjectService{
		projects:   projects,
		employees:  employees,
		activities: activities,
		log:        log,
	}
}

func (s *ProjectService) List(ctx context.Context, filter ProjectFilter) models.Page[models.Project] {
	var matched []models.Project
	for _, rec := range s.projects.All(ctx) {
		if filter.Search != "" && !containsFold(rec.Name, filter.Search) && !containsFold(rec.ProjectCode, filter.Search) && !containsFold(rec.Description, filter.Search) {
			continue
		}
		if filter.ProjectType != "" && !strings.EqualFold(string(rec.ProjectType), filter.ProjectType) {
			continue
		}
		if filter.ProjectStatus != "" && !strings.EqualFold(string(rec.ProjectStatus), filter.ProjectStatus) {
			continue
		}
		if filter.PMEmail != "" && !strings.EqualFold(rec.PMEmail, filter.PMEmail) {
			continue
		}
		// ISO dates compare lexically.
		if filter.StartDateFrom != "" && rec.StartDate < filter.StartDateFrom {
			continue
		}
		if filter.StartDateTo != "" && rec.StartDate > filter.StartDateTo {
			continue
		}
		matched = append(matched, s.hydrate(ctx, rec))
	}

	page := filter.PageRequest.normalized()
	sortBy(matched, page.SortBy, page.descending(), projectSortKeys, "id")
	return models.NewPage(matched, page.Page, page.Size)
}

func (s *ProjectService) Get(ctx context.Context, id int64) (models.Project, error) {
	rec, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return models.Project{}, err
	}
	return s.hydrate(ctx, rec), nil
}

func (s *ProjectService) Create(ctx context.Context, actor Principal, req models.CreateProjectRequest) (models.Project, error) {
	if err := req.Validate(); err != nil {
		return models.Project{}, err
	}
	if _, err := s.employees.FindByEmail(ctx, req.PMEmail); err != nil {
		return models.Project{}, models.FieldErrors{"pmEmail": "no employee with this email"}
	}

	status := req.ProjectStatus
	if status == "" {
		status = models.ProjectStatusPlanning
	}
	projectType := req.ProjectType
	if projectType == "" {
		projectType = models.ProjectTypeInternal
	}

	rec, err := s.projects.Create(ctx, repository.ProjectRecord{
		Project: models.Project{
			ProjectCode:   req.ProjectCode,
			Name:          strings.TrimSpace(req.Name),
			PMEmail:       strings.ToLower(req.PMEmail),
			StartDate:     req.StartDate,
			EndDate:       req.EndDate,
			ProjectType:   projectType,
			ProjectStatus: status,
			Description:   req.Description,
			Budget:        req.Budget,
		},
	})
	if err != nil {
		return models.Project{}, err
	}

	s.record(ctx, actor, "Project Created", fmt.Sprintf("%s was created", rec.Name))
	return s.hydrate(ctx, rec), nil
}

func (s *ProjectService) Update(ctx context.Context, actor Principal, id int64, req models.UpdateProjectRequest) (models.Project, error) {
	if err := req.Validate(); err != nil {
		return models.Project{}, err
	}
	if req.PMEmail != "" {
		if _, err := s.employees.FindByEmail(ctx, req.PMEmail); err != nil {
			return models.Project{}, models.FieldErrors{"pmEmail": "no employee with this email"}
		}
	}

	var previous models.ProjectStatus
	rec, err := s.projects.Update(ctx, id, func(rec *repository.ProjectRecord) error {
		previous = rec.ProjectStatus
		setIfNotEmpty(&rec.Name, req.Name)
		setIfNotEmpty(&rec.PMEmail, strings.ToLower(req.PMEmail))
		setIfNotEmpty(&rec.Description, req.Description)
		setIfNotEmpty(&rec.StartDate, req.StartDate)
		setIfNotEmpty(&rec.EndDate, req.EndDate)
		if req.ProjectStatus != "" {
			rec.ProjectStatus = req.ProjectStatus
		}
		if req.ProjectType != "" {
			rec.ProjectType = req.ProjectType
		}
		if req.Budget > 0 {
			rec.Budget = req.Budget
		}

		start, errStart := time.Parse(models.DateLayout, rec.StartDate)
		end, errEnd := time.Parse(models.DateLayout, rec.EndDate)
		if errStart == nil && errEnd == nil && end.Before(start) {
			return models.FieldErrors{"endDate": "end date must not be before start date"}
		}
		return nil
	})
	if err != nil {
		return models.Project{}, err
	}

	description := fmt.Sprintf("%s was updated", rec.Name)
	if previous != rec.ProjectStatus {
		description = fmt.Sprintf("%s status changed to %s", rec.Name, rec.ProjectStatus)
	}
	s.record(ctx, actor, "Project Updated", description)
	return s.hydrate(ctx, rec), nil
}

func (s *ProjectService) Delete(ctx context.Context, actor Principal, id int64) error {
	rec, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.projects.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actor, "Project Deleted", fmt.Sprintf("%s was deleted", rec.Name))
	return nil
}

func (s *ProjectService) AddEmployees(ctx context.Context, actor Principal, id int64, employeeIDs ...int64) (models.Project, error) {
	if len(employeeIDs) == 0 {
		return models.Project{}, models.FieldErrors{"employeeIds": "at least one employee is required"}
	}
	for _, employeeID := range employeeIDs {
		if _, err := s.employees.GetByID(ctx, employeeID); err != nil {
			return models.Project{}, err
		}
	}

	rec, err := s.projects.AddMembers(ctx, id, employeeIDs...)
	if err != nil {
		return models.Project{}, err
	}

	s.record(ctx, actor, "Team Updated", fmt.Sprintf("%d employee(s) assigned to %s", len(employeeIDs), rec.Name))
	return s.hydrate(ctx, rec), nil
}

func (s *ProjectService) RemoveEmployee(ctx context.Context, actor Principal, id, employeeID int64) (models.Project, error) {
	rec, err := s.projects.RemoveMember(ctx, id, employeeID)
	if err != nil {
		return models.Project{}, err
	}
	s.record(ctx, actor, "Team Updated", fmt.Sprintf("employee %d removed from %s", employeeID, rec.Name))
	return s.hydrate(ctx, rec), nil
}

func (s *ProjectService) Members(ctx context.Context, id int64) ([]models.ProjectEmployee, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return p.Employees, nil
}

// Search matches the term against name, code and description.
func (s *ProjectService) Search(ctx context.Context, term string) []models.Project {
	page := s.List(ctx, ProjectFilter{
		PageRequest: PageRequest{Size: maxPageSize},
		Search:      strings.TrimSpace(term),
	})
	return page.Content
}

func (s *ProjectService) Stats(ctx context.Context) models.ProjectStatsPayload {
	stats := models.ProjectStatsPayload{
		ProjectsByStatus: map[string]int{},
		ProjectsByType:   map[string]int{},
	}
	for _, rec := range s.projects.All(ctx) {
		stats.TotalProjects++
		stats.ProjectsByStatus[string(rec.ProjectStatus)]++
		stats.ProjectsByType[string(rec.ProjectType)]++
		switch rec.ProjectStatus {
		case models.ProjectStatusInProgress:
			stats.ActiveProjects++
		case models.ProjectStatusCompleted:
			stats.CompletedProjects++
		case models.ProjectStatusPlanning:
			stats.PendingProjects++
		case models.ProjectStatusCancelled:
			stats.CanceledProjects++
		}
	}
	return stats
}

func (s *ProjectService) hydrate(ctx context.Context, rec repository.ProjectRecord) models.Project {
	p := rec.Project
	p.Employees = make([]models.ProjectEmployee, 0, len(rec.MemberIDs))
	for _, id := range rec.MemberIDs {
		e, err := s.employees.GetByID(ctx, id)
		if err != nil {
			continue
		}
		p.Employees = append(p.Employees, models.ProjectEmployee{
			ID:       e.ID,
			Code:     e.Code,
			Name:     e.Name,
			Email:    e.Email,
			Position: e.Position,
			Level:    e.Level,
		})
	}
	return p
}

func (s *ProjectService) record(ctx context.Context, actor Principal, title, description string) {
	s.activities.Append(ctx, models.Activity{
		Type:        models.ActivityProject,
		Title:       title,
		Description: description,
		User:        actor.Employee.Email,
	})
}
