package pmapi

import (
	"context"
	"fmt"
	"net/url"

	"pmadmin/console/internal/apiclient"
	"pmadmin/console/internal/models"
)

const projectsPath = "/projects"

type ProjectService struct {
	client Requester
}

func NewProjectService(client Requester) *ProjectService {
	return &ProjectService{client: client}
}

func (s *ProjectService) List(ctx context.Context, query models.ProjectQuery) (models.Page[models.Project], error) {
	q := url.Values{}
	setInt(q, "page", query.Page)
	setInt(q, "size", query.Size)
	setString(q, "search", query.Search)
	setString(q, "projectType", string(query.ProjectType))
	setString(q, "projectStatus", string(query.ProjectStatus))
	setString(q, "startDateFrom", query.StartDateFrom)
	setString(q, "startDateTo", query.StartDateTo)
	setString(q, "pmEmail", query.PMEmail)
	setString(q, "sortBy", query.SortBy)
	setString(q, "sortDir", query.SortDir)

	return get[models.Page[models.Project]](ctx, s.client, withQuery(projectsPath, q))
}

func (s *ProjectService) Get(ctx context.Context, projectID int64) (models.Project, error) {
	return get[models.Project](ctx, s.client, projectsPath+"/"+id(projectID))
}

func (s *ProjectService) Create(ctx context.Context, req models.CreateProjectRequest) (models.Project, error) {
	if err := req.Validate(); err != nil {
		return models.Project{}, err
	}
	env, err := s.client.Post(ctx, projectsPath, req)
	if err != nil {
		return models.Project{}, err
	}
	return apiclient.Decode[models.Project](env)
}

func (s *ProjectService) Update(ctx context.Context, projectID int64, req models.UpdateProjectRequest) (models.Project, error) {
	if err := req.Validate(); err != nil {
		return models.Project{}, err
	}
	env, err := s.client.Put(ctx, projectsPath+"/"+id(projectID), req)
	if err != nil {
		return models.Project{}, err
	}
	return apiclient.Decode[models.Project](env)
}

func (s *ProjectService) Delete(ctx context.Context, projectID int64) error {
	_, err := s.client.Delete(ctx, projectsPath+"/"+id(projectID))
	return err
}

func (s *ProjectService) AssignEmployee(ctx context.Context, projectID, employeeID int64) (models.Project, error) {
	env, err := s.client.Post(ctx, fmt.Sprintf("%s/%d/employees/%d", projectsPath, projectID, employeeID), nil)
	if err != nil {
		return models.Project{}, err
	}
	return apiclient.Decode[models.Project](env)
}

func (s *ProjectService) RemoveEmployee(ctx context.Context, projectID, employeeID int64) (models.Project, error) {
	env, err := s.client.Delete(ctx, fmt.Sprintf("%s/%d/employees/%d", projectsPath, projectID, employeeID))
	if err != nil {
		return models.Project{}, err
	}
	return apiclient.Decode[models.Project](env)
}

// AssignEmployees adds several employees in one request.
func (s *ProjectService) AssignEmployees(ctx context.Context, projectID int64, employeeIDs []int64) (models.Project, error) {
	req := models.AssignEmployeesRequest{EmployeeIDs: employeeIDs}
	if err := req.Validate(); err != nil {
		return models.Project{}, err
	}
	env, err := s.client.Post(ctx, fmt.Sprintf("%s/%d/employees", projectsPath, projectID), req)
	if err != nil {
		return models.Project{}, err
	}
	return apiclient.Decode[models.Project](env)
}

func (s *ProjectService) Employees(ctx context.Context, projectID int64) ([]models.ProjectEmployee, error) {
	return get[[]models.ProjectEmployee](ctx, s.client, fmt.Sprintf("%s/%d/employees", projectsPath, projectID))
}

func (s *ProjectService) Search(ctx context.Context, term string) ([]models.Project, error) {
	return get[[]models.Project](ctx, s.client, withQuery(projectsPath+"/search", url.Values{"q": {term}}))
}

func (s *ProjectService) Stats(ctx context.Context) (models.ProjectStats, error) {
	payload, err := get[models.ProjectStatsPayload](ctx, s.client, projectsPath+"/stats")
	if err != nil {
		return models.ProjectStats{}, err
	}
	return payload.Stats(), nil
}
