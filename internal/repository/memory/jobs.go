package memory

import (
	"context"
	"sync"

	"campus-recruit/internal/domain/job"

	"github.com/google/uuid"
)

type JobRepository struct {
	mu    sync.RWMutex
	items []job.Posting
}

func NewJobRepository() *JobRepository {
	return &JobRepository{}
}

func (r *JobRepository) Create(ctx context.Context, p job.Posting) (job.Posting, error) {
	if err := ctx.Err(); err != nil {
		return job.Posting{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := utcNow()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = job.StatusActive
	}
	if p.Requirements == nil {
		p.Requirements = []string{}
	}
	if p.Applicants == nil {
		p.Applicants = []uuid.UUID{}
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	r.items = append(r.items, p.Clone())
	return p.Clone(), nil
}

func (r *JobRepository) GetByID(ctx context.Context, id uuid.UUID) (job.Posting, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexByID(id); i >= 0 {
		return r.items[i].Clone(), nil
	}
	return job.Posting{}, job.ErrNotFound
}

func (r *JobRepository) ListActive(ctx context.Context) ([]job.Posting, error) {
	return r.filter(func(p job.Posting) bool { return p.Status == job.StatusActive }), nil
}

func (r *JobRepository) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]job.Posting, error) {
	return r.filter(func(p job.Posting) bool { return p.RecruiterID == recruiterID }), nil
}

func (r *JobRepository) ListAll(ctx context.Context) ([]job.Posting, error) {
	return r.filter(func(job.Posting) bool { return true }), nil
}

func (r *JobRepository) Update(ctx context.Context, id uuid.UUID, fn func(*job.Posting) error) (job.Posting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(id)
	if i < 0 {
		return job.Posting{}, job.ErrNotFound
	}

	next := r.items[i].Clone()
	if err := fn(&next); err != nil {
		return job.Posting{}, err
	}
	next.ID = id
	next.RecruiterID = r.items[i].RecruiterID
	next.CreatedAt = r.items[i].CreatedAt
	next.UpdatedAt = utcNow()
	r.items[i] = next
	return next.Clone(), nil
}

func (r *JobRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(id)
	if i < 0 {
		return job.ErrNotFound
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

func (r *JobRepository) DeleteByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []uuid.UUID
	kept := r.items[:0]
	for _, p := range r.items {
		if p.RecruiterID == recruiterID {
			removed = append(removed, p.ID)
			continue
		}
		kept = append(kept, p)
	}
	r.items = kept
	return removed, nil
}

func (r *JobRepository) RemoveApplicant(ctx context.Context, studentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.items {
		applicants := r.items[i].Applicants[:0]
		for _, id := range r.items[i].Applicants {
			if id != studentID {
				applicants = append(applicants, id)
			}
		}
		r.items[i].Applicants = applicants
	}
	return nil
}

func (r *JobRepository) filter(keep func(job.Posting) bool) []job.Posting {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]job.Posting, 0)
	for _, p := range r.items {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	return out
}

func (r *JobRepository) indexByID(id uuid.UUID) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}
