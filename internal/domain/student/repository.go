package student

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("student profile not found")

type Repository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (Profile, error)
	// Upsert loads the profile owned by userID, creating an empty one if none
	// exists, applies fn and persists the result in one atomic step.
	Upsert(ctx context.Context, userID uuid.UUID, fn func(*Profile) error) (Profile, error)
	// Update is Upsert without the create: a missing profile yields ErrNotFound.
	Update(ctx context.Context, userID uuid.UUID, fn func(*Profile) error) (Profile, error)
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
	CountVerified(ctx context.Context) (int, error)
}
