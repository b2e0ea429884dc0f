package verification

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("verification not found")

type Repository interface {
	Create(ctx context.Context, r Record) (Record, error)
	GetByID(ctx context.Context, id uuid.UUID) (Record, error)
	// List returns all records, or only those with the given status when status is non-empty.
	List(ctx context.Context, status Status) ([]Record, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]Record, error)
	Update(ctx context.Context, id uuid.UUID, fn func(*Record) error) (Record, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}
