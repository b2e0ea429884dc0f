package memory

import (
	"context"
	"sync"

	"campus-recruit/internal/domain/verification"

	"github.com/google/uuid"
)

type VerificationRepository struct {
	mu    sync.RWMutex
	items []verification.Record
}

func NewVerificationRepository() *VerificationRepository {
	return &VerificationRepository{}
}

func (r *VerificationRepository) Create(ctx context.Context, rec verification.Record) (verification.Record, error) {
	if err := ctx.Err(); err != nil {
		return verification.Record{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	rec.Status = verification.StatusPending
	rec.SubmittedAt = utcNow()
	r.items = append(r.items, rec.Clone())
	return rec.Clone(), nil
}

func (r *VerificationRepository) GetByID(ctx context.Context, id uuid.UUID) (verification.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexByID(id); i >= 0 {
		return r.items[i].Clone(), nil
	}
	return verification.Record{}, verification.ErrNotFound
}

func (r *VerificationRepository) List(ctx context.Context, status verification.Status) ([]verification.Record, error) {
	return r.filter(func(rec verification.Record) bool {
		return status == "" || rec.Status == status
	}), nil
}

func (r *VerificationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]verification.Record, error) {
	return r.filter(func(rec verification.Record) bool { return rec.UserID == userID }), nil
}

func (r *VerificationRepository) Update(ctx context.Context, id uuid.UUID, fn func(*verification.Record) error) (verification.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(id)
	if i < 0 {
		return verification.Record{}, verification.ErrNotFound
	}

	next := r.items[i].Clone()
	if err := fn(&next); err != nil {
		return verification.Record{}, err
	}
	next.ID = id
	r.items[i] = next
	return next.Clone(), nil
}

func (r *VerificationRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.items[:0]
	for _, rec := range r.items {
		if rec.UserID != userID {
			kept = append(kept, rec)
		}
	}
	r.items = kept
	return nil
}

func (r *VerificationRepository) filter(keep func(verification.Record) bool) []verification.Record {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]verification.Record, 0)
	for _, rec := range r.items {
		if keep(rec) {
			out = append(out, rec.Clone())
		}
	}
	return out
}

func (r *VerificationRepository) indexByID(id uuid.UUID) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}
