package repository

import (
	"bytes"
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"pmadmin/console/internal/models"
)

var ErrSessionNotFound = errors.New("session not found")

type SessionRepository struct {
	mu   sync.RWMutex
	rows map[string]models.Session
	now  func() time.Time
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{
		rows: map[string]models.Session{},
		now:  time.Now,
	}
}

// Create inserts the session, or replaces the one with the same id.
func (r *SessionRepository) Create(_ context.Context, session models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	if existing, ok := r.rows[session.ID]; ok {
		session.CreatedAt = existing.CreatedAt
	} else {
		session.CreatedAt = now
	}
	session.LastSeenAt = now
	r.rows[session.ID] = session
	return nil
}

func (r *SessionRepository) CountByEmployee(_ context.Context, employeeID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, s := range r.rows {
		if s.EmployeeID == employeeID {
			count++
		}
	}
	return count, nil
}

// DeleteOldestSessions keeps the keepLatest most recently seen sessions of
// the employee and drops the rest.
func (r *SessionRepository) DeleteOldestSessions(_ context.Context, employeeID int64, keepLatest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var owned []models.Session
	for _, s := range r.rows {
		if s.EmployeeID == employeeID {
			owned = append(owned, s)
		}
	}
	sort.Slice(owned, func(i, j int) bool { return owned[i].LastSeenAt.After(owned[j].LastSeenAt) })

	for i := keepLatest; i < len(owned); i++ {
		delete(r.rows, owned[i].ID)
	}
	return nil
}

func (r *SessionRepository) GetByID(_ context.Context, id string) (models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.rows[id]
	if !ok {
		return models.Session{}, ErrSessionNotFound
	}
	return s, nil
}

func (r *SessionRepository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return ErrSessionNotFound
	}
	delete(r.rows, id)
	return nil
}

// DeleteByEmployee drops every session of the employee and reports how many
// there were.
func (r *SessionRepository) DeleteByEmployee(_ context.Context, employeeID int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.rows {
		if s.EmployeeID == employeeID {
			delete(r.rows, id)
			removed++
		}
	}
	return removed, nil
}

func (r *SessionRepository) FindByRefreshHash(_ context.Context, refreshHash []byte) (models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.rows {
		if bytes.Equal(s.RefreshTokenHash, refreshHash) {
			return s, nil
		}
	}
	return models.Session{}, ErrSessionNotFound
}

func (r *SessionRepository) Touch(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	s.LastSeenAt = r.now()
	r.rows[sessionID] = s
	return nil
}

// DeleteExpired drops sessions whose refresh window has passed.
func (r *SessionRepository) DeleteExpired(_ context.Context) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	removed := 0
	for id, s := range r.rows {
		if s.ExpiresAt.Before(now) {
			delete(r.rows, id)
			removed++
		}
	}
	return removed
}

func (r *SessionRepository) Count(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}
