package memory

import (
	"context"
	"sync"

	"campus-recruit/internal/domain/account"

	"github.com/google/uuid"
)

type AccountRepository struct {
	mu    sync.RWMutex
	items []account.Account
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{}
}

func (r *AccountRepository) Create(ctx context.Context, a account.Account) (account.Account, error) {
	if err := ctx.Err(); err != nil {
		return account.Account{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Email == a.Email {
			return account.Account{}, account.ErrEmailTaken
		}
	}

	now := utcNow()
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = now
	a.UpdatedAt = now
	r.items = append(r.items, a)
	return a, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id uuid.UUID) (account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if i := r.indexByID(id); i >= 0 {
		return r.items[i], nil
	}
	return account.Account{}, account.ErrNotFound
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.items {
		if a.Email == email {
			return a, nil
		}
	}
	return account.Account{}, account.ErrNotFound
}

func (r *AccountRepository) List(ctx context.Context) ([]account.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]account.Account, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *AccountRepository) Update(ctx context.Context, id uuid.UUID, fn func(*account.Account) error) (account.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(id)
	if i < 0 {
		return account.Account{}, account.ErrNotFound
	}

	next := r.items[i]
	if err := fn(&next); err != nil {
		return account.Account{}, err
	}
	next.ID = id
	next.UpdatedAt = utcNow()
	r.items[i] = next
	return next, nil
}

func (r *AccountRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexByID(id)
	if i < 0 {
		return account.ErrNotFound
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

func (r *AccountRepository) CountByRole(ctx context.Context) (map[account.Role]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := map[account.Role]int{}
	for _, a := range r.items {
		out[a.Role]++
	}
	return out, nil
}

func (r *AccountRepository) indexByID(id uuid.UUID) int {
	for i := range r.items {
		if r.items[i].ID == id {
			return i
		}
	}
	return -1
}
