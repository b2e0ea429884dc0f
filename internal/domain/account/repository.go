package account

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("account not found")
	ErrEmailTaken = errors.New("email already registered")
)

type Repository interface {
	// Create inserts a new account. The email uniqueness check and the insert
	// happen atomically; a duplicate yields ErrEmailTaken.
	Create(ctx context.Context, a Account) (Account, error)
	GetByID(ctx context.Context, id uuid.UUID) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	List(ctx context.Context) ([]Account, error)
	Update(ctx context.Context, id uuid.UUID, fn func(*Account) error) (Account, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByRole(ctx context.Context) (map[Role]int, error)
}
