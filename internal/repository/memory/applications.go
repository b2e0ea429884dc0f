package memory

import (
	"context"
	"sync"

	"campus-recruit/internal/domain/application"

	"github.com/google/uuid"
)

type ApplicationRepository struct {
	mu    sync.RWMutex
	items []application.Application
}

func NewApplicationRepository() *ApplicationRepository {
	return &ApplicationRepository{}
}

func (r *ApplicationRepository) Create(ctx context.Context, a application.Application) (application.Application, error) {
	if err := ctx.Err(); err != nil {
		return application.Application{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.JobID == a.JobID && existing.StudentID == a.StudentID {
			return application.Application{}, application.ErrAlreadyApplied
		}
	}

	now := utcNow()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = application.StatusApplied
	}
	a.AppliedAt = now
	a.UpdatedAt = now
	r.items = append(r.items, a.Clone())
	return a.Clone(), nil
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexByID(id); i >= 0 {
		return r.items[i].Clone(), nil
	}
	return application.Application{}, application.ErrNotFound
}

func (r *ApplicationRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]application.Application, error) {
	return r.filter(func(a application.Application) bool { return a.StudentID == studentID }), nil
}

func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]application.Application, error) {
	return r.filter(func(a application.Application) bool { return a.JobID == jobID }), nil
}

func (r *ApplicationRepository) Update(ctx context.Context, id uuid.UUID, fn func(*application.Application) error) (application.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(id)
	if i < 0 {
		return application.Application{}, application.ErrNotFound
	}

	next := r.items[i].Clone()
	if err := fn(&next); err != nil {
		return application.Application{}, err
	}
	next.ID = id
	r.items[i] = next
	return next.Clone(), nil
}

func (r *ApplicationRepository) DeleteByStudent(ctx context.Context, studentID uuid.UUID) error {
	r.remove(func(a application.Application) bool { return a.StudentID == studentID })
	return nil
}

func (r *ApplicationRepository) DeleteByJob(ctx context.Context, jobID uuid.UUID) error {
	r.remove(func(a application.Application) bool { return a.JobID == jobID })
	return nil
}

func (r *ApplicationRepository) Count(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.items), nil
}

func (r *ApplicationRepository) remove(drop func(application.Application) bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0]
	for _, a := range r.items {
		if !drop(a) {
			kept = append(kept, a)
		}
	}
	r.items = kept
}

func (r *ApplicationRepository) filter(keep func(application.Application) bool) []application.Application {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]application.Application, 0)
	for _, a := range r.items {
		if keep(a) {
			out = append(out, a.Clone())
		}
	}
	return out
}

func (r *ApplicationRepository) indexByID(id uuid.UUID) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}
