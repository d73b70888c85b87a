package repository

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"pmadmin/console/internal/models"
)

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrEmailTaken       = errors.New("email already exists")
	ErrRoleNotFound     = errors.New("role not found")
)

// EmployeeRecord is an employee plus the credentials the API never returns.
type EmployeeRecord struct {
	models.Employee
	PasswordHash []byte
}

// DefaultRoles are the role rows every stub starts with.
var DefaultRoles = []models.EmployeeRole{
	{ID: 1, Name: models.BackendRoleAdmin, Description: "Administrator"},
	{ID: 2, Name: models.BackendRoleProjectManager, Description: "Project manager"},
	{ID: 3, Name: models.BackendRoleEmployee, Description: "Employee"},
}

type EmployeeRepository struct {
	mu      sync.RWMutex
	nextID  int64
	rows    map[int64]EmployeeRecord
	byEmail map[string]int64
	roles   map[int64]models.EmployeeRole
}

func NewEmployeeRepository() *EmployeeRepository {
	roles := make(map[int64]models.EmployeeRole, len(DefaultRoles))
	for _, role := range DefaultRoles {
		roles[role.ID] = role
	}
	return &EmployeeRepository{
		rows:    map[int64]EmployeeRecord{},
		byEmail: map[string]int64{},
		roles:   roles,
	}
}

func (r *EmployeeRepository) Role(_ context.Context, id int64) (models.EmployeeRole, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	role, ok := r.roles[id]
	if !ok {
		return models.EmployeeRole{}, ErrRoleNotFound
	}
	return role, nil
}

// Create assigns the id and employee code and returns the stored record.
func (r *EmployeeRepository) Create(_ context.Context, rec EmployeeRecord) (EmployeeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := normalizeEmail(rec.Email)
	if _, taken := r.byEmail[email]; taken {
		return EmployeeRecord{}, ErrEmailTaken
	}

	r.nextID++
	rec.ID = r.nextID
	rec.Email = email
	if rec.Code == "" {
		rec.Code = employeeCode(rec.ID)
	}
	if rec.CreatedDate == "" {
		rec.CreatedDate = time.Now().UTC().Format(time.RFC3339)
	}
	rec.ProjectNames = nil

	r.rows[rec.ID] = rec
	r.byEmail[email] = rec.ID
	return rec, nil
}

func (r *EmployeeRepository) GetByID(_ context.Context, id int64) (EmployeeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.rows[id]
	if !ok {
		return EmployeeRecord{}, ErrEmployeeNotFound
	}
	return rec, nil
}

func (r *EmployeeRepository) FindByEmail(_ context.Context, email string) (EmployeeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byEmail[normalizeEmail(email)]
	if !ok {
		return EmployeeRecord{}, ErrEmployeeNotFound
	}
	return r.rows[id], nil
}

// All returns every employee ordered by id.
func (r *EmployeeRepository) All(_ context.Context) []models.Employee {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Employee, 0, len(r.rows))
	for _, rec := range r.rows {
		out = append(out, rec.Employee)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Update applies fn to the stored record under the write lock.
func (r *EmployeeRepository) Update(_ context.Context, id int64, fn func(*EmployeeRecord) error) (EmployeeRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.rows[id]
	if !ok {
		return EmployeeRecord{}, ErrEmployeeNotFound
	}
	oldEmail := rec.Email

	if err := fn(&rec); err != nil {
		return EmployeeRecord{}, err
	}
	rec.ID = id
	rec.Email = normalizeEmail(rec.Email)

	if rec.Email != oldEmail {
		if _, taken := r.byEmail[rec.Email]; taken {
			return EmployeeRecord{}, ErrEmailTaken
		}
		delete(r.byEmail, oldEmail)
		r.byEmail[rec.Email] = id
	}

	r.rows[id] = rec
	return rec, nil
}

func (r *EmployeeRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.rows[id]
	if !ok {
		return ErrEmployeeNotFound
	}
	delete(r.rows, id)
	delete(r.byEmail, rec.Email)
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func employeeCode(id int64) string {
	return "EMP" + padID(id)
}
