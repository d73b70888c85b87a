package pmapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pmadmin/console/internal/apiclient"
	"pmadmin/console/internal/models"
)

type call struct {
	method   string
	endpoint string
	body     any
}

// fakeClient answers by "METHOD endpoint"; unknown requests get a 404.
type fakeClient struct {
	mu        sync.Mutex
	calls     []call
	responses map[string]string
	errs      map[string]error
}

func newFakeClient() *fakeClient {
	return &fakeClient{responses: map[string]string{}, errs: map[string]error{}}
}

func (f *fakeClient) respond(method, endpoint, data string) {
	f.responses[method+" "+endpoint] = data
}

func (f *fakeClient) fail(method, endpoint string, err error) {
	f.errs[method+" "+endpoint] = err
}

func (f *fakeClient) do(method, endpoint string, body any) (*apiclient.Envelope, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{method: method, endpoint: endpoint, body: body})

	key := method + " " + endpoint
	if err, ok := f.errs[key]; ok {
		return nil, err
	}
	data, ok := f.responses[key]
	if !ok {
		return nil, &apiclient.APIError{Code: 404, Message: "Not Found", Kind: apiclient.KindHTTP, Status: http.StatusNotFound}
	}
	return &apiclient.Envelope{Code: 200, Message: "Success", Data: json.RawMessage(data)}, nil
}

func (f *fakeClient) Get(_ context.Context, endpoint string) (*apiclient.Envelope, error) {
	return f.do(http.MethodGet, endpoint, nil)
}

func (f *fakeClient) Post(_ context.Context, endpoint string, body any) (*apiclient.Envelope, error) {
	return f.do(http.MethodPost, endpoint, body)
}

func (f *fakeClient) Put(_ context.Context, endpoint string, body any) (*apiclient.Envelope, error) {
	return f.do(http.MethodPut, endpoint, body)
}

func (f *fakeClient) Patch(_ context.Context, endpoint string, body any) (*apiclient.Envelope, error) {
	return f.do(http.MethodPatch, endpoint, body)
}

func (f *fakeClient) Delete(_ context.Context, endpoint string) (*apiclient.Envelope, error) {
	return f.do(http.MethodDelete, endpoint, nil)
}

func intPtr(v int) *int { return &v }

func TestEmployeeListQuery(t *testing.T) {
	client := newFakeClient()
	client.respond(http.MethodGet, "/employees?page=0&search=ann&size=10",
		`{"content":[{"id":1,"name":"Ann","email":"ann@x.com","projectNames":[]}],"page":0,"size":10,"totalElements":1,"totalPages":1,"isFirst":true,"isLast":true}`)

	page, err := NewEmployeeService(client).List(context.Background(), models.EmployeeQuery{
		Page:   intPtr(0),
		Size:   intPtr(10),
		Search: "ann",
	})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "Ann", page.Content[0].Name)
	assert.Equal(t, int64(1), page.TotalElements)
}

func TestEmployeeListOmitsEmptyFilters(t *testing.T) {
	client := newFakeClient()
	client.respond(http.MethodGet, "/employees", `{"content":[]}`)

	_, err := NewEmployeeService(client).List(context.Background(), models.EmployeeQuery{})
	require.NoError(t, err)
	assert.Equal(t, "/employees", client.calls[0].endpoint)
}

func TestEmployeeEndpoints(t *testing.T) {
	client := newFakeClient()
	client.respond(http.MethodGet, "/employees/7", `{"id":7,"name":"Bo"}`)
	client.respond(http.MethodGet, "/employees/profile", `{"id":3,"name":"Me"}`)
	client.respond(http.MethodPatch, "/employees/7/lock", `{"id":7,"isLocked":true}`)
	client.respond(http.MethodPatch, "/employees/7/disable", `{"id":7,"isEnabled":false}`)
	client.respond(http.MethodGet, "/employees/7/projects", `["Apollo","Zephyr"]`)
	client.respond(http.MethodPost, "/employees/7/projects/9", `null`)
	client.respond(http.MethodDelete, "/employees/7/projects/9", `null`)
	client.respond(http.MethodDelete, "/employees/7", `null`)

	svc := NewEmployeeService(client)
	ctx := context.Background()

	emp, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "Bo", emp.Name)

	me, err := svc.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), me.ID)

	locked, err := svc.Lock(ctx, 7)
	require.NoError(t, err)
	assert.True(t, locked.IsLocked)

	disabled, err := svc.Disable(ctx, 7)
	require.NoError(t, err)
	assert.False(t, disabled.IsEnabled)

	names, err := svc.Projects(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apollo", "Zephyr"}, names)

	require.NoError(t, svc.AssignProject(ctx, 7, 9))
	require.NoError(t, svc.UnassignProject(ctx, 7, 9))
	require.NoError(t, svc.Delete(ctx, 7))
}

func TestEmployeeCreateValidatesBeforeNetwork(t *testing.T) {
	client := newFakeClient()

	_, err := NewEmployeeService(client).Create(context.Background(), models.CreateEmployeeRequest{
		Name:  "",
		Email: "nope",
	})
	var fieldErrs models.FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Contains(t, fieldErrs, "email")
	assert.Contains(t, fieldErrs, "name")
	assert.Empty(t, client.calls)
}

func TestEmployeeCreateSurfacesServerError(t *testing.T) {
	client := newFakeClient()
	serverErr := &apiclient.APIError{Code: 4001, Message: "Email already exists", Kind: apiclient.KindHTTP, Status: 400}
	client.fail(http.MethodPost, "/employees", serverErr)

	_, err := NewEmployeeService(client).Create(context.Background(), models.CreateEmployeeRequest{
		Name:     "Ann",
		Email:    "ann@x.com",
		Password: "secret1",
		RoleID:   3,
	})
	assert.Same(t, serverErr, err)
	require.Len(t, client.calls, 1)
	assert.IsType(t, models.CreateEmployeeRequest{}, client.calls[0].body)
}

func TestChangePassword(t *testing.T) {
	client := newFakeClient()
	client.respond(http.MethodPost, "/employees/4/change-password", `null`)
	svc := NewEmployeeService(client)

	err := svc.ChangePassword(context.Background(), 4, models.ChangePasswordRequest{CurrentPassword: "same12", NewPassword: "same12"})
	require.Error(t, err)
	assert.Empty(t, client.calls)

	err = svc.ChangePassword(context.Background(), 4, models.ChangePasswordRequest{CurrentPassword: "old123", NewPassword: "new123"})
	require.NoError(t, err)
}

func TestProjectListQuery(t *testing.T) {
	client := newFakeClient()
	client.respond(http.MethodGet, "/projects?pmEmail=pm%40x.com&projectStatus=IN_PROGRESS&sortBy=name&sortDir=asc",
		`{"content":[{"id":2,"name":"Apollo","projectStatus":"IN_PROGRESS","employees":[]}],"totalElements":1}`)

	page, err := NewProjectService(client).List(context.Background(), models.ProjectQuery{
		ProjectStatus: models.ProjectStatusInProgress,
		PMEmail:       "pm@x.com",
		SortBy:        "name",
		SortDir:       "asc",
	})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, models.ProjectStatusInProgress, page.Content[0].ProjectStatus)
}

func TestProjectEndpoints(t *testing.T) {
	client := newFakeClient()
	client.respond(http.MethodGet, "/projects/search?q=apo+llo", `[{"id":2,"name":"Apollo"}]`)
	client.respond(http.MethodPost, "/projects/2/employees/5", `{"id":2,"employees":[{"id":5,"name":"Eve"}]}`)
	client.respond(http.MethodDelete, "/projects/2/employees/5", `{"id":2,"employees":[]}`)
	client.respond(http.MethodPost, "/projects/2/employees", `{"id":2,"employees":[{"id":5},{"id":6}]}`)
	client.respond(http.MethodGet, "/projects/2/employees", `[{"id":5,"name":"Eve"}]`)
	client.respond(http.MethodGet, "/projects/stats", `{"totalProjects":4,"completedProjects":1,"pendingProjects":2}`)

	svc := NewProjectService(client)
	ctx := context.Background()

	found, err := svc.Search(ctx, "apo llo")
	require.NoError(t, err)
	require.Len(t, found, 1)

	p, err := svc.AssignEmployee(ctx, 2, 5)
	require.NoError(t, err)
	assert.Len(t, p.Employees, 1)

	p, err = svc.RemoveEmployee(ctx, 2, 5)
	require.NoError(t, err)
	assert.Empty(t, p.Employees)

	p, err = svc.AssignEmployees(ctx, 2, []int64{5, 6})
	require.NoError(t, err)
	assert.Len(t, p.Employees, 2)
	last := client.calls[len(client.calls)-1]
	assert.Equal(t, models.AssignEmployeesRequest{EmployeeIDs: []int64{5, 6}}, last.body)

	members, err := svc.Employees(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Eve", members[0].Name)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.PlannedProjects)
	assert.InDelta(t, 25.0, stats.ProjectCompletionRate, 0.001)
}

func TestAssignEmployeesRequiresIDs(t *testing.T) {
	client := newFakeClient()
	_, err := NewProjectService(client).AssignEmployees(context.Background(), 2, nil)
	require.Error(t, err)
	assert.Empty(t, client.calls)
}

func TestProjectCreateValidatesDates(t *testing.T) {
	client := newFakeClient()
	_, err := NewProjectService(client).Create(context.Background(), models.CreateProjectRequest{
		ProjectCode: "P-1",
		Name:        "Apollo",
		PMEmail:     "pm@x.com",
		StartDate:   "2024-05-01",
		EndDate:     "2024-04-01",
	})
	var fieldErrs models.FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Contains(t, fieldErrs, "endDate")
	assert.Empty(t, client.calls)
}

func TestDashboardStatsMapping(t *testing.T) {
	client := newFakeClient()
	client.respond(http.MethodGet, "/dashboard/projects/stats",
		`{"totalProjects":10,"activeProjects":4,"completedProjects":3,"pendingProjects":2,"canceledProjects":1,"projectsByStatus":{"COMPLETED":3}}`)
	client.respond(http.MethodGet, "/dashboard/employees/stats",
		`{"totalEmployees":8,"activeEmployees":6,"lockedEmployees":1,"inactiveEmployees":1}`)

	svc := NewDashboardService(client, zerolog.Nop())
	ctx := context.Background()

	projects, err := svc.ProjectStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, projects.PlannedProjects)
	assert.Equal(t, 1, projects.CancelledProjects)
	assert.InDelta(t, 30.0, projects.ProjectCompletionRate, 0.001)

	employees, err := svc.EmployeeStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, employees.DisabledEmployees)
	assert.NotNil(t, employees.EmployeesByDepartment)

	breakdown, err := svc.ProjectBreakdown(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, breakdown.ProjectsByStatus["COMPLETED"])
	assert.NotNil(t, breakdown.ProjectsByType)
}

func TestDashboardZeroProjectsCompletionRate(t *testing.T) {
	client := newFakeClient()
	client.respond(http.MethodGet, "/dashboard/projects/stats", `{"totalProjects":0}`)

	stats, err := NewDashboardService(client, zerolog.Nop()).ProjectStats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.ProjectCompletionRate)
}

func TestOverviewFromCombinedEndpoint(t *testing.T) {
	client := newFakeClient()
	client.respond(http.MethodGet, "/dashboard/overview",
		`{"projectStats":{"totalProjects":2,"completedProjects":1},"employeeStats":{"totalEmployees":5}}`)

	overview, err := NewDashboardService(client, zerolog.Nop()).Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, overview.ProjectStats.TotalProjects)
	assert.Equal(t, 5, overview.EmployeeStats.TotalEmployees)
	assert.InDelta(t, 50.0, overview.ProjectBreakdown.CompletionRate, 0.001)
	assert.Len(t, client.calls, 1)
}

func TestOverviewFallsBackOn404(t *testing.T) {
	client := newFakeClient()
	client.respond(http.MethodGet, "/dashboard/projects/stats", `{"totalProjects":3}`)
	client.respond(http.MethodGet, "/dashboard/employees/stats", `{"totalEmployees":9}`)

	overview, err := NewDashboardService(client, zerolog.Nop()).Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, overview.ProjectStats.TotalProjects)
	assert.Equal(t, 9, overview.EmployeeStats.TotalEmployees)
	assert.Len(t, client.calls, 3)
}

func TestOverviewPropagatesOtherFailures(t *testing.T) {
	client := newFakeClient()
	client.fail(http.MethodGet, "/dashboard/overview",
		&apiclient.APIError{Code: 500, Message: "boom", Kind: apiclient.KindHTTP, Status: 500})

	_, err := NewDashboardService(client, zerolog.Nop()).Overview(context.Background())
	require.Error(t, err)
	assert.Len(t, client.calls, 1)
}

func TestOverviewFallbackFailure(t *testing.T) {
	client := newFakeClient()
	client.respond(http.MethodGet, "/dashboard/projects/stats", `{"totalProjects":3}`)
	client.fail(http.MethodGet, "/dashboard/employees/stats",
		&apiclient.APIError{Code: 403, Message: "Forbidden", Kind: apiclient.KindHTTP, Status: 403})

	_, err := NewDashboardService(client, zerolog.Nop()).Overview(context.Background())
	assert.True(t, apiclient.IsStatus(err, http.StatusForbidden))
}

func TestActivitiesAndHealthPropagateErrors(t *testing.T) {
	client := newFakeClient()
	svc := NewDashboardService(client, zerolog.Nop())

	_, err := svc.Activities(context.Background())
	assert.True(t, apiclient.IsStatus(err, http.StatusNotFound))

	_, err = svc.SystemHealth(context.Background())
	assert.True(t, apiclient.IsStatus(err, http.StatusNotFound))

	client.respond(http.MethodGet, "/dashboard/activities",
		`[{"id":1,"type":"project","title":"Created","description":"Apollo","timestamp":"2024-05-01T10:00:00Z"}]`)
	client.respond(http.MethodGet, "/dashboard/system/health", `{"status":"healthy","uptime":99.9}`)

	activities, err := svc.Activities(context.Background())
	require.NoError(t, err)
	require.Len(t, activities, 1)
	assert.Equal(t, models.ActivityProject, activities[0].Type)

	health, err := svc.SystemHealth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.HealthHealthy, health.Status)
}
