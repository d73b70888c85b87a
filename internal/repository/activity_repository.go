package repository

import (
	"context"
	"sync"
	"time"

	"pmadmin/console/internal/models"
)

const defaultActivityCapacity = 200

// ActivityRepository keeps the most recent activities in a ring.
type ActivityRepository struct {
	mu       sync.Mutex
	nextID   int64
	items    []models.Activity
	capacity int
	now      func() time.Time
}

func NewActivityRepository(capacity int) *ActivityRepository {
	if capacity <= 0 {
		capacity = defaultActivityCapacity
	}
	return &ActivityRepository{capacity: capacity, now: time.Now}
}

func (r *ActivityRepository) Append(_ context.Context, activity models.Activity) models.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	activity.ID = r.nextID
	if activity.Timestamp.IsZero() {
		activity.Timestamp = r.now().UTC()
	}

	r.items = append(r.items, activity)
	if over := len(r.items) - r.capacity; over > 0 {
		r.items = append(r.items[:0:0], r.items[over:]...)
	}
	return activity
}

// Recent returns up to limit activities, newest first.
func (r *ActivityRepository) Recent(_ context.Context, limit int) []models.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > len(r.items) {
		limit = len(r.items)
	}
	out := make([]models.Activity, 0, limit)
	for i := len(r.items) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.items[i])
	}
	return out
}
