package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pmadmin/console/internal/apiclient"
	"pmadmin/console/internal/models"
	"pmadmin/console/internal/session"
)

// recordingStore is a map store that also counts writes.
type recordingStore struct {
	mu     sync.Mutex
	values map[string]string
	sets   int
}

func newRecordingStore() *recordingStore {
	return &recordingStore{values: map[string]string{}}
}

func (s *recordingStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *recordingStore) Set(_ context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets++
	for k, v := range values {
		s.values[k] = v
	}
	return nil
}

func (s *recordingStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

type fakeBackend struct {
	role          string
	logoutStatus  int
	calls         []string
	lastAuthToken string
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.calls = append(f.calls, r.Method+" "+r.URL.RequestURI())
	f.lastAuthToken = r.Header.Get("Authorization")
	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case EndpointLogin:
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "admin123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401,"message":"Invalid email or password"}`))
			return
		}
		writeEnvelope(w, models.LoginResponse{
			AccessToken:  "access-1",
			RefreshToken: "refresh-1",
			TokenType:    "Bearer",
			EmployeeID:   42,
			Email:        req.Email,
			Name:         "Ada Admin",
			Role:         f.role,
		})
	case EndpointRefresh:
		var req models.RefreshTokenRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.RefreshToken != "refresh-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"code":401,"message":"Invalid refresh token"}`))
			return
		}
		writeEnvelope(w, models.LoginResponse{AccessToken: "access-2", RefreshToken: "refresh-2", Role: f.role})
	case EndpointLogout, EndpointLogoutAll:
		if f.logoutStatus != 0 {
			w.WriteHeader(f.logoutStatus)
			_, _ = w.Write([]byte(`{"code":500,"message":"boom"}`))
			return
		}
		writeEnvelope(w, nil)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func writeEnvelope(w http.ResponseWriter, data any) {
	_ = json.NewEncoder(w).Encode(map[string]any{"code": 200, "message": "Success", "data": data})
}

func newManager(t *testing.T, backend *fakeBackend) (*Manager, *recordingStore) {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	store := newRecordingStore()
	client := apiclient.New(srv.URL, apiclient.WithTokenSource(session.TokenSource{Store: store}))
	return NewManager(client, store, zerolog.Nop()), store
}

func TestLoginPersistsThreeKeys(t *testing.T) {
	mgr, store := newManager(t, &fakeBackend{role: "ADMIN"})

	sess, err := mgr.Login(context.Background(), "admin@x.com", "admin123")
	require.NoError(t, err)

	assert.Equal(t, models.RoleAdmin, sess.User.Role)
	assert.Equal(t, "42", sess.User.ID)
	assert.Equal(t, "Ada Admin", sess.User.FullName)

	assert.Len(t, store.values, 3)
	assert.Equal(t, 1, store.sets)
	assert.Equal(t, "access-1", store.values[session.KeyAccessToken])
	assert.Equal(t, "refresh-1", store.values[session.KeyRefreshToken])

	var user models.User
	require.NoError(t, json.Unmarshal([]byte(store.values[session.KeyUser]), &user))
	assert.Equal(t, sess.User, user)
}

func TestLoginMapsRoles(t *testing.T) {
	for backendRole, want := range map[string]models.Role{
		"ADMIN":           models.RoleAdmin,
		"PROJECT_MANAGER": models.RolePM,
		"pm":              models.RolePM,
		"EMPLOYEE":        models.RoleEmployee,
		"AUDITOR":         models.RoleEmployee,
	} {
		mgr, _ := newManager(t, &fakeBackend{role: backendRole})
		sess, err := mgr.Login(context.Background(), "someone@x.com", "admin123")
		require.NoError(t, err)
		assert.Equal(t, want, sess.User.Role, backendRole)
	}
}

func TestLoginFailureSurfacesServerMessage(t *testing.T) {
	backend := &fakeBackend{role: "ADMIN"}
	mgr, store := newManager(t, backend)

	_, err := mgr.Login(context.Background(), "admin@x.com", "wrong")
	require.Error(t, err)

	apiErr, ok := apiclient.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, "Invalid email or password", apiErr.Message)
	assert.Empty(t, store.values)
	assert.Len(t, backend.calls, 1)
}

func TestLoginValidatesLocally(t *testing.T) {
	backend := &fakeBackend{role: "ADMIN"}
	mgr, _ := newManager(t, backend)

	_, err := mgr.Login(context.Background(), "", "")
	var fieldErrs models.FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Empty(t, backend.calls)
}

func TestLogoutClearsEvenWhenRemoteFails(t *testing.T) {
	backend := &fakeBackend{role: "ADMIN", logoutStatus: http.StatusInternalServerError}
	mgr, store := newManager(t, backend)
	ctx := context.Background()

	_, err := mgr.Login(ctx, "admin@x.com", "admin123")
	require.NoError(t, err)

	require.NoError(t, mgr.Logout(ctx))
	assert.Empty(t, store.values)
	assert.Equal(t, "Bearer access-1", backend.lastAuthToken)

	_, state, err := mgr.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, Anonymous, state)
}

func TestLogoutAllSendsEmail(t *testing.T) {
	backend := &fakeBackend{role: "ADMIN"}
	mgr, store := newManager(t, backend)
	ctx := context.Background()

	_, err := mgr.Login(ctx, "admin@x.com", "admin123")
	require.NoError(t, err)
	require.NoError(t, mgr.LogoutAll(ctx, "admin@x.com"))

	assert.Contains(t, backend.calls, "POST /auth/logout-all?email=admin%40x.com")
	assert.Empty(t, store.values)
}

func TestLogoutAllForAnotherAccountKeepsSession(t *testing.T) {
	backend := &fakeBackend{role: "ADMIN"}
	mgr, store := newManager(t, backend)
	ctx := context.Background()

	_, err := mgr.Login(ctx, "admin@x.com", "admin123")
	require.NoError(t, err)
	require.NoError(t, mgr.LogoutAll(ctx, "eve@x.com"))
	assert.Equal(t, "access-1", store.values[session.KeyAccessToken])

	backend.logoutStatus = http.StatusInternalServerError
	err = mgr.LogoutAll(ctx, "eve@x.com")
	require.Error(t, err)
	assert.True(t, apiclient.IsStatus(err, http.StatusInternalServerError))
	assert.Equal(t, "access-1", store.values[session.KeyAccessToken])
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	mgr, store := newManager(t, &fakeBackend{role: "PROJECT_MANAGER"})

	_, state, err := mgr.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, Anonymous, state)

	_, err = mgr.Login(ctx, "pm@x.com", "admin123")
	require.NoError(t, err)

	sess, state, err := mgr.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, Authenticated, state)
	assert.Equal(t, models.RolePM, sess.User.Role)
	assert.Equal(t, "refresh-1", sess.RefreshToken)

	// user without token
	require.NoError(t, store.Delete(ctx, session.KeyAccessToken))
	_, state, err = mgr.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, Anonymous, state)
	assert.Contains(t, store.values, session.KeyUser, "partial data is not cleared")

	// token with garbage user
	require.NoError(t, store.Set(ctx, map[string]string{
		session.KeyAccessToken: "tok",
		session.KeyUser:        "{garbage",
	}))
	_, state, err = mgr.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, Anonymous, state)
}

func TestRestoreDowngradesUnknownRole(t *testing.T) {
	ctx := context.Background()
	mgr, store := newManager(t, &fakeBackend{})

	require.NoError(t, store.Set(ctx, map[string]string{
		session.KeyAccessToken: "tok",
		session.KeyUser:        `{"id":"9","email":"x@x.com","fullName":"X","role":"root"}`,
	}))

	sess, state, err := mgr.Restore(ctx)
	require.NoError(t, err)
	assert.Equal(t, Authenticated, state)
	assert.Equal(t, models.RoleEmployee, sess.User.Role)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{role: "ADMIN"}
	mgr, store := newManager(t, backend)

	_, err := mgr.Refresh(ctx)
	require.ErrorIs(t, err, ErrNoRefreshToken)
	assert.Empty(t, backend.calls)

	_, err = mgr.Login(ctx, "admin@x.com", "admin123")
	require.NoError(t, err)

	sess, err := mgr.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "access-2", sess.AccessToken)
	assert.Equal(t, "access-2", store.values[session.KeyAccessToken])
	assert.Equal(t, "refresh-2", store.values[session.KeyRefreshToken])
	assert.Equal(t, models.RoleAdmin, sess.User.Role)
}

func TestTokenExpiry(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	got, err := TokenExpiry(token)
	require.NoError(t, err)
	assert.True(t, exp.Equal(got))

	_, err = TokenExpiry("not-a-token")
	assert.Error(t, err)
}
