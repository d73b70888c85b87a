package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"pmadmin/console/internal/models"
	"pmadmin/console/internal/repository"
	"pmadmin/console/internal/security"
)

type EmployeeFilter struct {
	PageRequest
	Search     string
	Name       string
	Email      string
	Department string
	Level      string
	Role       string
	ProjectID  int64
}

var employeeSortKeys = map[string]func(a, b models.Employee) int{
	"id":          func(a, b models.Employee) int { return compareInt64(a.ID, b.ID) },
	"name":        func(a, b models.Employee) int { return compareFold(a.Name, b.Name) },
	"email":       func(a, b models.Employee) int { return compareFold(a.Email, b.Email) },
	"department":  func(a, b models.Employee) int { return compareFold(a.Department, b.Department) },
	"level":       func(a, b models.Employee) int { return compareFold(a.Level, b.Level) },
	"createdDate": func(a, b models.Employee) int { return strings.Compare(a.CreatedDate, b.CreatedDate) },
}

type EmployeeService struct {
	employees  *repository.EmployeeRepository
	projects   *repository.ProjectRepository
	sessions   *repository.SessionRepository
	activities *repository.ActivityRepository
	log        zerolog.Logger
}

func NewEmployeeService(
	employees *repository.EmployeeRepository,
	projects *repository.ProjectRepository,
	sessions *repository.SessionRepository,
	activities *repository.ActivityRepository,
	log zerolog.Logger,
) *EmployeeService {
	return &EmployeeService{
		employees:  employees,
		projects:   projects,
		sessions:   sessions,
		activities: activities,
		log:        log,
	}
}

func (s *EmployeeService) List(ctx context.Context, filter EmployeeFilter) models.Page[models.Employee] {
	var members map[int64]bool
	if filter.ProjectID > 0 {
		members = map[int64]bool{}
		if p, err := s.projects.GetByID(ctx, filter.ProjectID); err == nil {
			for _, id := range p.MemberIDs {
				members[id] = true
			}
		}
	}

	var matched []models.Employee
	for _, e := range s.employees.All(ctx) {
		if filter.Search != "" && !containsFold(e.Name, filter.Search) && !containsFold(e.Email, filter.Search) && !containsFold(e.Code, filter.Search) {
			continue
		}
		if filter.Name != "" && !containsFold(e.Name, filter.Name) {
			continue
		}
		if filter.Email != "" && !containsFold(e.Email, filter.Email) {
			continue
		}
		if filter.Department != "" && !strings.EqualFold(e.Department, filter.Department) {
			continue
		}
		if filter.Level != "" && !strings.EqualFold(e.Level, filter.Level) {
			continue
		}
		if filter.Role != "" && !strings.EqualFold(e.Role.Name, filter.Role) {
			continue
		}
		if members != nil && !members[e.ID] {
			continue
		}
		matched = append(matched, s.hydrate(ctx, e))
	}

	page := filter.PageRequest.normalized()
	sortBy(matched, page.SortBy, page.descending(), employeeSortKeys, "id")
	return models.NewPage(matched, page.Page, page.Size)
}

func (s *EmployeeService) Get(ctx context.Context, id int64) (models.Employee, error) {
	rec, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return models.Employee{}, err
	}
	return s.hydrate(ctx, rec.Employee), nil
}

// GetFor returns the employee when actor may see it: themselves, or any
// employee for admins and project managers.
func (s *EmployeeService) GetFor(ctx context.Context, actor Principal, id int64) (models.Employee, error) {
	if actor.Employee.ID != id && !canManagePeople(actor) {
		return models.Employee{}, ErrForbidden
	}
	return s.Get(ctx, id)
}

func (s *EmployeeService) Create(ctx context.Context, actor Principal, req models.CreateEmployeeRequest) (models.Employee, error) {
	if err := req.Validate(); err != nil {
		return models.Employee{}, err
	}
	role, err := s.employees.Role(ctx, req.RoleID)
	if err != nil {
		return models.Employee{}, models.FieldErrors{"roleId": "unknown role"}
	}
	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return models.Employee{}, err
	}

	rec, err := s.employees.Create(ctx, repository.EmployeeRecord{
		Employee: models.Employee{
			Name:        strings.TrimSpace(req.Name),
			Email:       req.Email,
			Phone:       req.Phone,
			Gender:      req.Gender,
			DateOfBirth: req.DateOfBirth,
			Department:  req.Department,
			Position:    req.Position,
			Level:       req.Level,
			Address:     req.Address,
			IsEnabled:   true,
			Role:        role,
		},
		PasswordHash: hash,
	})
	if err != nil {
		return models.Employee{}, err
	}

	s.record(ctx, actor, "New Employee Added", fmt.Sprintf("%s joined %s", rec.Name, orDefault(rec.Department, "the company")))
	return s.hydrate(ctx, rec.Employee), nil
}

func (s *EmployeeService) Update(ctx context.Context, actor Principal, id int64, req models.UpdateEmployeeRequest) (models.Employee, error) {
	if err := req.Validate(); err != nil {
		return models.Employee{}, err
	}

	var role *models.EmployeeRole
	if req.RoleID != 0 {
		r, err := s.employees.Role(ctx, req.RoleID)
		if err != nil {
			return models.Employee{}, models.FieldErrors{"roleId": "unknown role"}
		}
		role = &r
	}

	rec, err := s.employees.Update(ctx, id, func(rec *repository.EmployeeRecord) error {
		setIfNotEmpty(&rec.Name, req.Name)
		setIfNotEmpty(&rec.Email, req.Email)
		setIfNotEmpty(&rec.Gender, req.Gender)
		setIfNotEmpty(&rec.DateOfBirth, req.DateOfBirth)
		setIfNotEmpty(&rec.Department, req.Department)
		setIfNotEmpty(&rec.Position, req.Position)
		setIfNotEmpty(&rec.Level, req.Level)
		setIfNotEmpty(&rec.Phone, req.Phone)
		setIfNotEmpty(&rec.Address, req.Address)
		if role != nil {
			rec.Role = *role
		}
		return nil
	})
	if err != nil {
		return models.Employee{}, err
	}

	s.record(ctx, actor, "Employee Updated", fmt.Sprintf("%s profile was updated", rec.Name))
	return s.hydrate(ctx, rec.Employee), nil
}

func (s *EmployeeService) Delete(ctx context.Context, actor Principal, id int64) error {
	if actor.Employee.ID == id {
		return models.FieldErrors{"id": "you cannot delete your own account"}
	}
	rec, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.employees.Delete(ctx, id); err != nil {
		return err
	}
	s.projects.RemoveEmployeeEverywhere(ctx, id)
	if _, err := s.sessions.DeleteByEmployee(ctx, id); err != nil {
		s.log.Warn().Err(err).Int64("employee_id", id).Msg("drop sessions of deleted employee failed")
	}

	s.record(ctx, actor, "Employee Removed", fmt.Sprintf("%s was removed", rec.Name))
	return nil
}

func (s *EmployeeService) AssignProject(ctx context.Context, actor Principal, employeeID, projectID int64) error {
	rec, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	p, err := s.projects.AddMembers(ctx, projectID, employeeID)
	if err != nil {
		return err
	}
	s.record(ctx, actor, "Employee Assigned", fmt.Sprintf("%s assigned to %s", rec.Name, p.Name))
	return nil
}

func (s *EmployeeService) UnassignProject(ctx context.Context, actor Principal, employeeID, projectID int64) error {
	rec, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return err
	}
	p, err := s.projects.RemoveMember(ctx, projectID, employeeID)
	if err != nil {
		return err
	}
	s.record(ctx, actor, "Employee Unassigned", fmt.Sprintf("%s removed from %s", rec.Name, p.Name))
	return nil
}

// ProjectNames lists the names of the employee's projects.
func (s *EmployeeService) ProjectNames(ctx context.Context, actor Principal, employeeID int64) ([]string, error) {
	e, err := s.GetFor(ctx, actor, employeeID)
	if err != nil {
		return nil, err
	}
	return e.ProjectNames, nil
}

// ChangePassword lets employees change their own password and admins change
// anyone's. The current password is always checked.
func (s *EmployeeService) ChangePassword(ctx context.Context, actor Principal, id int64, req models.ChangePasswordRequest) error {
	if actor.Employee.ID != id && !actor.IsAdmin() {
		return ErrForbidden
	}
	if err := req.Validate(); err != nil {
		return err
	}

	rec, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return err
	}
	ok, err := security.VerifyPassword(req.CurrentPassword, rec.PasswordHash)
	if err != nil || !ok {
		return ErrWrongPassword
	}

	hash, err := security.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if _, err := s.employees.Update(ctx, id, func(rec *repository.EmployeeRecord) error {
		rec.PasswordHash = hash
		return nil
	}); err != nil {
		return err
	}

	s.record(ctx, actor, "Password Changed", fmt.Sprintf("password changed for %s", rec.Name))
	return nil
}

func (s *EmployeeService) SetLocked(ctx context.Context, actor Principal, id int64, locked bool) (models.Employee, error) {
	title := "Employee Unlocked"
	if locked {
		title = "Employee Locked"
	}
	return s.setFlag(ctx, actor, id, title, func(rec *repository.EmployeeRecord) { rec.IsLocked = locked }, locked)
}

func (s *EmployeeService) SetEnabled(ctx context.Context, actor Principal, id int64, enabled bool) (models.Employee, error) {
	title := "Employee Disabled"
	if enabled {
		title = "Employee Enabled"
	}
	return s.setFlag(ctx, actor, id, title, func(rec *repository.EmployeeRecord) { rec.IsEnabled = enabled }, !enabled)
}

func (s *EmployeeService) setFlag(ctx context.Context, actor Principal, id int64, title string, apply func(*repository.EmployeeRecord), revoke bool) (models.Employee, error) {
	if revoke && actor.Employee.ID == id {
		return models.Employee{}, models.FieldErrors{"id": "you cannot lock or disable your own account"}
	}
	rec, err := s.employees.Update(ctx, id, func(rec *repository.EmployeeRecord) error {
		apply(rec)
		return nil
	})
	if err != nil {
		return models.Employee{}, err
	}
	if revoke {
		if _, err := s.sessions.DeleteByEmployee(ctx, id); err != nil {
			s.log.Warn().Err(err).Int64("employee_id", id).Msg("drop sessions failed")
		}
	}

	s.record(ctx, actor, title, rec.Name)
	return s.hydrate(ctx, rec.Employee), nil
}

func (s *EmployeeService) hydrate(ctx context.Context, e models.Employee) models.Employee {
	names := []string{}
	for _, p := range s.projects.ProjectsOf(ctx, e.ID) {
		names = append(names, p.Name)
	}
	e.ProjectNames = names
	return e
}

func (s *EmployeeService) record(ctx context.Context, actor Principal, title, description string) {
	s.activities.Append(ctx, models.Activity{
		Type:        models.ActivityEmployee,
		Title:       title,
		Description: description,
		User:        actor.Employee.Email,
	})
}

func canManagePeople(p Principal) bool {
	return p.IsAdmin() || p.Role() == models.BackendRoleProjectManager
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

// IsNotFound reports whether err is one of the repository not-found errors.
func IsNotFound(err error) bool {
	return errors.Is(err, repository.ErrEmployeeNotFound) ||
		errors.Is(err, repository.ErrProjectNotFound) ||
		errors.Is(err, repository.ErrRoleNotFound)
}
