package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pmadmin/console/internal/apiclient"
	"pmadmin/console/internal/auth"
	"pmadmin/console/internal/config"
	"pmadmin/console/internal/models"
	"pmadmin/console/internal/pmapi"
	"pmadmin/console/internal/session"
)

func stubConfig() *config.AppConfig {
	return &config.AppConfig{
		Environment: "test",
		Stub: config.StubConfig{
			Security: config.SecurityConfig{
				JWTAccessSecret: "test-secret",
				JWTAccessTTL:    time.Minute,
				JWTRefreshTTL:   time.Hour,
				MaxSessions:     3,
			},
			SeedPassword: "admin123",
		},
	}
}

type console struct {
	store     *session.MemoryStore
	auth      *auth.Manager
	employees *pmapi.EmployeeService
	projects  *pmapi.ProjectService
	dashboard *pmapi.DashboardService
}

func newConsole(t *testing.T) *console {
	t.Helper()
	stub, err := NewStub(context.Background(), stubConfig(), zerolog.Nop())
	require.NoError(t, err)

	store := session.NewMemoryStore()
	client := apiclient.New("http://stub.local/api",
		apiclient.WithHTTPClient(&http.Client{Transport: stub.Transport()}),
		apiclient.WithTokenSource(session.TokenSource{Store: store}),
	)
	return &console{
		store:     store,
		auth:      auth.NewManager(client, store, zerolog.Nop()),
		employees: pmapi.NewEmployeeService(client),
		projects:  pmapi.NewProjectService(client),
		dashboard: pmapi.NewDashboardService(client, zerolog.Nop()),
	}
}

func TestConsoleAgainstStub(t *testing.T) {
	c := newConsole(t)
	ctx := context.Background()

	_, err := c.employees.Profile(ctx)
	require.Error(t, err)
	assert.True(t, apiclient.IsStatus(err, http.StatusUnauthorized))

	sess, err := c.auth.Login(ctx, "pm@example.com", "admin123")
	require.NoError(t, err)
	assert.Equal(t, models.RolePM, sess.User.Role)
	assert.Equal(t, "Paul Manager", sess.User.FullName)

	me, err := c.employees.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "pm@example.com", me.Email)

	size := 10
	page, err := c.projects.List(ctx, models.ProjectQuery{Size: &size, PMEmail: "pm@example.com"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, page.TotalElements)

	overview, err := c.dashboard.Overview(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, overview.ProjectStats.TotalProjects)
	assert.Equal(t, 4, overview.EmployeeStats.TotalEmployees)

	err = c.projects.Delete(ctx, 1)
	require.Error(t, err)
	apiErr, ok := apiclient.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.Code)

	require.NoError(t, c.auth.Logout(ctx))
	_, state, err := c.auth.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, auth.Anonymous, state)
}

func TestRefreshThroughStub(t *testing.T) {
	c := newConsole(t)
	ctx := context.Background()

	first, err := c.auth.Login(ctx, "admin@example.com", "admin123")
	require.NoError(t, err)

	second, err := c.auth.Refresh(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	token, ok, err := c.store.Get(ctx, session.KeyAccessToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, second.AccessToken, token)
}

func TestTransportHonoursCancelledContext(t *testing.T) {
	stub, err := NewStub(context.Background(), stubConfig(), zerolog.Nop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://stub.local/api/healthz", nil)
	require.NoError(t, err)

	_, err = stub.Transport().RoundTrip(req)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTransportServesHealth(t *testing.T) {
	stub, err := NewStub(context.Background(), stubConfig(), zerolog.Nop())
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, "http://stub.local/api/healthz", nil)
	require.NoError(t, err)

	resp, err := stub.Transport().RoundTrip(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Same(t, req, resp.Request)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestPurgeExpiredSessions(t *testing.T) {
	stub, err := NewStub(context.Background(), stubConfig(), zerolog.Nop())
	require.NoError(t, err)

	stub.PurgeExpiredSessions(context.Background())
	assert.Zero(t, stub.sessions.Count(context.Background()))
}
