package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cadence-tools/cadenced/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ScheduleRepository is an in-memory schedule registry. Persisting
// recurrence rules is out of scope, so there is no database behind it;
// the store is a mutex-guarded map and contents are lost on restart.
type ScheduleRepository struct {
	logger *zap.Logger

	mu        sync.RWMutex
	schedules map[uuid.UUID]models.Schedule
}

func NewScheduleRepository(logger *zap.Logger) *ScheduleRepository {
	return &ScheduleRepository{
		logger:    logger,
		schedules: make(map[uuid.UUID]models.Schedule),
	}
}

func (r *ScheduleRepository) Create(ctx context.Context, schedule *models.Schedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.schedules[schedule.ID] = clone(schedule)
	r.logger.Debug("schedule created", zap.String("id", schedule.ID.String()), zap.String("name", schedule.Name))
	return nil
}

// GetByID returns nil without error when the schedule does not exist
// or has been deleted.
func (r *ScheduleRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Schedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.schedules[id]
	if !ok || s.Status == models.ScheduleStatusDeleted {
		return nil, nil
	}
	out := clone(&s)
	return &out, nil
}

// Update replaces a stored schedule. Returns false when the schedule
// does not exist or has been deleted.
func (r *ScheduleRepository) Update(ctx context.Context, schedule *models.Schedule) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.schedules[schedule.ID]
	if !ok || existing.Status == models.ScheduleStatusDeleted {
		return false, nil
	}
	now := time.Now()
	schedule.UpdatedAt = &now
	r.schedules[schedule.ID] = clone(schedule)
	return true, nil
}

// Delete soft-deletes a schedule. Returns false when it does not exist
// or was already deleted.
func (r *ScheduleRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.schedules[id]
	if !ok || s.Status == models.ScheduleStatusDeleted {
		return false, nil
	}
	s.Status = models.ScheduleStatusDeleted
	now := time.Now()
	s.UpdatedAt = &now
	r.schedules[id] = s
	r.logger.Debug("schedule deleted", zap.String("id", id.String()))
	return true, nil
}

// ListByTags returns non-deleted schedules carrying every tag in the
// filter (an empty tag list matches all), newest first, paginated.
// The second return value is the total match count before pagination.
func (r *ScheduleRepository) ListByTags(ctx context.Context, filter models.ScheduleFilter) ([]models.Schedule, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []models.Schedule
	for _, s := range r.schedules {
		if s.Status == models.ScheduleStatusDeleted {
			continue
		}
		if !hasAllTags(s.Tags, filter.Tags) {
			continue
		}
		matched = append(matched, clone(&s))
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID.String() < matched[j].ID.String()
	})

	total := len(matched)
	offset := (filter.Page - 1) * filter.Limit
	if offset >= total {
		return []models.Schedule{}, total, nil
	}
	end := offset + filter.Limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func hasAllTags(have, want []string) bool {
	for _, w := range want {
		found := false
		for _, h := range have {
			if h == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// clone copies a schedule so callers never share slices with the store.
func clone(s *models.Schedule) models.Schedule {
	out := *s
	out.Tags = append([]string(nil), s.Tags...)
	if s.UpdatedAt != nil {
		t := *s.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}
