package memory

import (
	"context"
	"sync"

	"campus-recruit/internal/domain/student"

	"github.com/google/uuid"
)

type StudentRepository struct {
	mu    sync.RWMutex
	items []student.Profile
}

func NewStudentRepository() *StudentRepository {
	return &StudentRepository{}
}

func (r *StudentRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (student.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexByUser(userID); i >= 0 {
		return r.items[i].Clone(), nil
	}
	return student.Profile{}, student.ErrNotFound
}

func (r *StudentRepository) Upsert(ctx context.Context, userID uuid.UUID, fn func(*student.Profile) error) (student.Profile, error) {
	return r.modify(ctx, userID, true, fn)
}

func (r *StudentRepository) Update(ctx context.Context, userID uuid.UUID, fn func(*student.Profile) error) (student.Profile, error) {
	return r.modify(ctx, userID, false, fn)
}

func (r *StudentRepository) modify(ctx context.Context, userID uuid.UUID, create bool, fn func(*student.Profile) error) (student.Profile, error) {
	if err := ctx.Err(); err != nil {
		return student.Profile{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	now := utcNow()
	i := r.indexByUser(userID)

	var next student.Profile
	switch {
	case i >= 0:
		next = r.items[i].Clone()
	case create:
		next = student.New(userID, now)
	default:
		return student.Profile{}, student.ErrNotFound
	}

	if fn != nil {
		if err := fn(&next); err != nil {
			return student.Profile{}, err
		}
	}
	next.UserID = userID
	next.UpdatedAt = now

	if i >= 0 {
		next.ID = r.items[i].ID
		r.items[i] = next
	} else {
		r.items = append(r.items, next)
	}
	return next.Clone(), nil
}

func (r *StudentRepository) DeleteByUserID(ctx context.Context, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if i := r.indexByUser(userID); i >= 0 {
		r.items = append(r.items[:i], r.items[i+1:]...)
	}
	return nil
}

func (r *StudentRepository) CountVerified(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, p := range r.items {
		if p.Verified {
			n++
		}
	}
	return n, nil
}

func (r *StudentRepository) indexByUser(userID uuid.UUID) int {
	for i := range r.items {
		if r.items[i].UserID == userID {
			return i
		}
	}
	return -1
}
