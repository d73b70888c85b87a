package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pmadmin/console/internal/models"
	"pmadmin/console/internal/service"
)

type tokenTable map[string]service.Principal

func (t tokenTable) Authenticate(_ context.Context, token string) (service.Principal, error) {
	if token == "locked" {
		return service.Principal{}, service.ErrAccountLocked
	}
	p, ok := t[token]
	if !ok {
		return service.Principal{}, errors.New("unknown token")
	}
	return p, nil
}

func principal(role string) service.Principal {
	return service.Principal{Employee: models.Employee{ID: 1, Role: models.EmployeeRole{Name: role}}, SessionID: "s"}
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID(), Logger(zerolog.Nop()), Recovery(zerolog.Nop()), CORS(nil))

	tokens := tokenTable{
		"admin":    principal(models.BackendRoleAdmin),
		"employee": principal(models.BackendRoleEmployee),
	}
	protected := engine.Group("/", Auth(tokens))
	protected.GET("/me", func(c *gin.Context) {
		p, _ := CurrentPrincipal(c)
		c.String(http.StatusOK, p.Role())
	})
	protected.GET("/admin", RequireRoles(models.BackendRoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	engine.GET("/panic", func(c *gin.Context) { panic("boom") })
	return engine
}

func serve(engine *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestAuthMiddleware(t *testing.T) {
	engine := newEngine()

	rec := serve(engine, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"code":401,"message":"Authentication required"}`, rec.Body.String())

	rec = serve(engine, http.MethodGet, "/me", "bogus")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(engine, http.MethodGet, "/me", "locked")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(engine, http.MethodGet, "/me", "employee")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.BackendRoleEmployee, rec.Body.String())
}

func TestRequireRoles(t *testing.T) {
	engine := newEngine()

	assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/admin", "employee").Code)
	assert.Equal(t, http.StatusNoContent, serve(engine, http.MethodGet, "/admin", "admin").Code)
}

func TestRecoveryWritesEnvelope(t *testing.T) {
	rec := serve(newEngine(), http.MethodGet, "/panic", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":500`)
}

func TestRequestID(t *testing.T) {
	engine := newEngine()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set(requestIDHeader, strings.Repeat("x", 100))
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Len(t, rec.Header().Get(requestIDHeader), 36)
}

func TestCORSPreflight(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORS([]string{"http://allowed.test"}))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://allowed.test")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://allowed.test", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.test")
	rec = httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
