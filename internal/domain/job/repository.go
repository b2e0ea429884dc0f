package job

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("job not found")

type Repository interface {
	Create(ctx context.Context, p Posting) (Posting, error)
	GetByID(ctx context.Context, id uuid.UUID) (Posting, error)
	ListActive(ctx context.Context) ([]Posting, error)
	ListByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]Posting, error)
	ListAll(ctx context.Context) ([]Posting, error)
	// Update applies fn to the stored posting under the collection's write lock.
	// An error from fn aborts the update and is returned unchanged.
	Update(ctx context.Context, id uuid.UUID, fn func(*Posting) error) (Posting, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByRecruiter(ctx context.Context, recruiterID uuid.UUID) ([]uuid.UUID, error)
	// RemoveApplicant drops studentID from every posting's applicant list.
	RemoveApplicant(ctx context.Context, studentID uuid.UUID) error
}
