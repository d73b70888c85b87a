package pmapi

import (
	"context"
	"fmt"
	"net/url"

	"pmadmin/console/internal/apiclient"
	"pmadmin/console/internal/models"
)

const employeesPath = "/employees"

type EmployeeService struct {
	client Requester
}

func NewEmployeeService(client Requester) *EmployeeService {
	return &EmployeeService{client: client}
}

func (s *EmployeeService) List(ctx context.Context, query models.EmployeeQuery) (models.Page[models.Employee], error) {
	q := url.Values{}
	setInt(q, "page", query.Page)
	setInt(q, "size", query.Size)
	setString(q, "search", query.Search)
	setString(q, "name", query.Name)
	setString(q, "email", query.Email)
	setString(q, "department", query.Department)
	setString(q, "level", query.Level)
	setString(q, "role", query.Role)
	if query.ProjectID > 0 {
		q.Set("projectId", id(query.ProjectID))
	}
	setString(q, "sortBy", query.SortBy)
	setString(q, "sortDir", query.SortDir)

	return get[models.Page[models.Employee]](ctx, s.client, withQuery(employeesPath, q))
}

func (s *EmployeeService) Get(ctx context.Context, employeeID int64) (models.Employee, error) {
	return get[models.Employee](ctx, s.client, employeesPath+"/"+id(employeeID))
}

// Profile returns the employee record of the logged-in user.
func (s *EmployeeService) Profile(ctx context.Context) (models.Employee, error) {
	return get[models.Employee](ctx, s.client, employeesPath+"/profile")
}

func (s *EmployeeService) Create(ctx context.Context, req models.CreateEmployeeRequest) (models.Employee, error) {
	if err := req.Validate(); err != nil {
		return models.Employee{}, err
	}
	env, err := s.client.Post(ctx, employeesPath, req)
	if err != nil {
		return models.Employee{}, err
	}
	return apiclient.Decode[models.Employee](env)
}

func (s *EmployeeService) Update(ctx context.Context, employeeID int64, req models.UpdateEmployeeRequest) (models.Employee, error) {
	if err := req.Validate(); err != nil {
		return models.Employee{}, err
	}
	env, err := s.client.Put(ctx, employeesPath+"/"+id(employeeID), req)
	if err != nil {
		return models.Employee{}, err
	}
	return apiclient.Decode[models.Employee](env)
}

func (s *EmployeeService) Delete(ctx context.Context, employeeID int64) error {
	_, err := s.client.Delete(ctx, employeesPath+"/"+id(employeeID))
	return err
}

func (s *EmployeeService) AssignProject(ctx context.Context, employeeID, projectID int64) error {
	_, err := s.client.Post(ctx, fmt.Sprintf("%s/%d/projects/%d", employeesPath, employeeID, projectID), nil)
	return err
}

func (s *EmployeeService) UnassignProject(ctx context.Context, employeeID, projectID int64) error {
	_, err := s.client.Delete(ctx, fmt.Sprintf("%s/%d/projects/%d", employeesPath, employeeID, projectID))
	return err
}

// Projects returns the names of the projects the employee works on.
func (s *EmployeeService) Projects(ctx context.Context, employeeID int64) ([]string, error) {
	names, err := get[[]string](ctx, s.client, fmt.Sprintf("%s/%d/projects", employeesPath, employeeID))
	if err != nil {
		return nil, err
	}
	if names == nil {
		names = []string{}
	}
	return names, nil
}

func (s *EmployeeService) ChangePassword(ctx context.Context, employeeID int64, req models.ChangePasswordRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	_, err := s.client.Post(ctx, fmt.Sprintf("%s/%d/change-password", employeesPath, employeeID), req)
	return err
}

func (s *EmployeeService) Lock(ctx context.Context, employeeID int64) (models.Employee, error) {
	return s.toggle(ctx, employeeID, "lock")
}

func (s *EmployeeService) Unlock(ctx context.Context, employeeID int64) (models.Employee, error) {
	return s.toggle(ctx, employeeID, "unlock")
}

func (s *EmployeeService) Enable(ctx context.Context, employeeID int64) (models.Employee, error) {
	return s.toggle(ctx, employeeID, "enable")
}

func (s *EmployeeService) Disable(ctx context.Context, employeeID int64) (models.Employee, error) {
	return s.toggle(ctx, employeeID, "disable")
}

func (s *EmployeeService) toggle(ctx context.Context, employeeID int64, action string) (models.Employee, error) {
	env, err := s.client.Patch(ctx, fmt.Sprintf("%s/%d/%s", employeesPath, employeeID, action), nil)
	if err != nil {
		return models.Employee{}, err
	}
	return apiclient.Decode[models.Employee](env)
}
