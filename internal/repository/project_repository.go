package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"pmadmin/console/internal/models"
)

var (
	ErrProjectNotFound  = errors.New("project not found")
	ErrProjectCodeTaken = errors.New("project code already exists")
)

// ProjectRecord is a project with its member ids. Employees on the embedded
// project is left empty; the service layer fills it in.
type ProjectRecord struct {
	models.Project
	MemberIDs []int64
}

type ProjectRepository struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]ProjectRecord
	codes  map[string]int64
}

func NewProjectRepository() *ProjectRepository {
	return &ProjectRepository{
		rows:  map[int64]ProjectRecord{},
		codes: map[string]int64{},
	}
}

func (r *ProjectRepository) Create(_ context.Context, rec ProjectRecord) (ProjectRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := strings.ToUpper(strings.TrimSpace(rec.ProjectCode))
	if _, taken := r.codes[code]; taken {
		return ProjectRecord{}, ErrProjectCodeTaken
	}

	r.nextID++
	rec.ID = r.nextID
	rec.ProjectCode = code
	if rec.CreatedDate == "" {
		rec.CreatedDate = time.Now().UTC().Format(time.RFC3339)
	}
	rec.Employees = nil
	rec.MemberIDs = append([]int64(nil), rec.MemberIDs...)

	r.rows[rec.ID] = rec
	r.codes[code] = rec.ID
	return clone(rec), nil
}

func (r *ProjectRepository) GetByID(_ context.Context, id int64) (ProjectRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.rows[id]
	if !ok {
		return ProjectRecord{}, ErrProjectNotFound
	}
	return clone(rec), nil
}

// All returns every project ordered by id.
func (r *ProjectRepository) All(_ context.Context) []ProjectRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]ProjectRecord, 0, len(r.rows))
	for _, rec := range r.rows {
		out = append(out, clone(rec))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Update applies fn to the stored record under the write lock.
func (r *ProjectRepository) Update(_ context.Context, id int64, fn func(*ProjectRecord) error) (ProjectRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.rows[id]
	if !ok {
		return ProjectRecord{}, ErrProjectNotFound
	}
	rec = clone(rec)
	code := rec.ProjectCode

	if err := fn(&rec); err != nil {
		return ProjectRecord{}, err
	}
	rec.ID = id
	rec.ProjectCode = code

	r.rows[id] = rec
	return clone(rec), nil
}

func (r *ProjectRepository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.rows[id]
	if !ok {
		return ErrProjectNotFound
	}
	delete(r.rows, id)
	delete(r.codes, rec.ProjectCode)
	return nil
}

// AddMembers adds the employees to the project, ignoring ones already on it.
func (r *ProjectRepository) AddMembers(ctx context.Context, id int64, employeeIDs ...int64) (ProjectRecord, error) {
	return r.Update(ctx, id, func(rec *ProjectRecord) error {
		for _, employeeID := range employeeIDs {
			if !containsID(rec.MemberIDs, employeeID) {
				rec.MemberIDs = append(rec.MemberIDs, employeeID)
			}
		}
		return nil
	})
}

func (r *ProjectRepository) RemoveMember(ctx context.Context, id int64, employeeID int64) (ProjectRecord, error) {
	return r.Update(ctx, id, func(rec *ProjectRecord) error {
		kept := rec.MemberIDs[:0]
		for _, m := range rec.MemberIDs {
			if m != employeeID {
				kept = append(kept, m)
			}
		}
		rec.MemberIDs = kept
		return nil
	})
}

// RemoveEmployeeEverywhere drops the employee from every project.
func (r *ProjectRepository) RemoveEmployeeEverywhere(_ context.Context, employeeID int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, rec := range r.rows {
		if !containsID(rec.MemberIDs, employeeID) {
			continue
		}
		rec = clone(rec)
		kept := rec.MemberIDs[:0]
		for _, m := range rec.MemberIDs {
			if m != employeeID {
				kept = append(kept, m)
			}
		}
		rec.MemberIDs = kept
		r.rows[id] = rec
	}
}

// ProjectsOf returns the projects the employee is a member of, ordered by id.
func (r *ProjectRepository) ProjectsOf(ctx context.Context, employeeID int64) []ProjectRecord {
	var out []ProjectRecord
	for _, rec := range r.All(ctx) {
		if containsID(rec.MemberIDs, employeeID) {
			out = append(out, rec)
		}
	}
	return out
}

func clone(rec ProjectRecord) ProjectRecord {
	rec.MemberIDs = append([]int64(nil), rec.MemberIDs...)
	return rec
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func padID(id int64) string {
	return fmt.Sprintf("%04d", id)
}
