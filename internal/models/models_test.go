package models

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapBackendRole(t *testing.T) {
	cases := map[string]Role{
		"ADMIN":           RoleAdmin,
		"admin":           RoleAdmin,
		" Admin ":         RoleAdmin,
		"PROJECT_MANAGER": RolePM,
		"project_manager": RolePM,
		"PM":              RolePM,
		"pm":              RolePM,
		"EMPLOYEE":        RoleEmployee,
		"SUPERADMIN":      RoleEmployee,
		"ROOT":            RoleEmployee,
		"":                RoleEmployee,
	}
	for in, want := range cases {
		assert.Equal(t, want, MapBackendRole(in), "backend role %q", in)
	}
}

func TestNewPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	first := NewPage(items, 0, 2)
	assert.Equal(t, []int{1, 2}, first.Content)
	assert.Equal(t, 3, first.TotalPages)
	assert.EqualValues(t, 5, first.TotalElements)
	assert.True(t, first.IsFirst)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrevious)
	assert.False(t, first.IsLast)

	last := NewPage(items, 2, 2)
	assert.Equal(t, []int{5}, last.Content)
	assert.True(t, last.IsLast)
	assert.False(t, last.HasNext)
	assert.True(t, last.HasPrevious)

	beyond := NewPage(items, 9, 2)
	assert.Empty(t, beyond.Content)

	huge := NewPage(items, math.MaxInt/2+1, 100)
	assert.Empty(t, huge.Content)
	assert.True(t, huge.HasPrevious)
	assert.False(t, huge.HasNext)
}

func TestFieldErrorsDetails(t *testing.T) {
	errs := FieldErrors{"name": "name is required", "email": "email is not valid"}
	assert.Equal(t, "email: email is not valid; name: name is required", errs.Details())
	assert.Equal(t, "validation failed: "+errs.Details(), errs.Error())
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("admin@example.com"))
	assert.True(t, ValidEmail("admin@localhost"))
	assert.False(t, ValidEmail("admin"))
	assert.False(t, ValidEmail("Admin <admin@example.com>"))
	assert.False(t, ValidEmail(" admin@example.com"))
}

func TestCreateProjectRequestValidate(t *testing.T) {
	req := CreateProjectRequest{
		ProjectCode: "PRJ-1",
		Name:        "Alpha",
		PMEmail:     "pm@example.com",
		StartDate:   "2024-01-01",
		EndDate:     "2024-06-30",
		ProjectType: ProjectTypeInternal,
	}
	require.NoError(t, req.Validate())

	req.EndDate = "2023-12-31"
	req.PMEmail = "not-an-email"
	err := req.Validate()
	require.Error(t, err)

	var fieldErrs FieldErrors
	require.True(t, errors.As(err, &fieldErrs))
	assert.Contains(t, fieldErrs, "endDate")
	assert.Contains(t, fieldErrs, "pmEmail")
}

func TestLoginRequestValidate(t *testing.T) {
	assert.NoError(t, LoginRequest{Email: "admin@x.com", Password: "admin123"}.Validate())
	assert.NoError(t, LoginRequest{Email: "admin@localhost", Password: "admin123"}.Validate())

	err := LoginRequest{Email: "admin", Password: ""}.Validate()
	require.Error(t, err)
	assert.Equal(t, "validation failed: email: email is not valid; password: password is required", err.Error())
}

func TestProjectStatsPayloadMapping(t *testing.T) {
	payload := ProjectStatsPayload{
		TotalProjects:     8,
		ActiveProjects:    3,
		CompletedProjects: 2,
		PendingProjects:   2,
		CanceledProjects:  1,
	}

	stats := payload.Stats()
	assert.Equal(t, 2, stats.PlannedProjects)
	assert.Equal(t, 1, stats.CancelledProjects)
	assert.InDelta(t, 25.0, stats.ProjectCompletionRate, 0.0001)

	breakdown := payload.Breakdown()
	assert.NotNil(t, breakdown.ProjectsByStatus)
	assert.Zero(t, CompletionRate(0, 0))
}
