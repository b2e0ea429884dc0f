package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound       = errors.New("application not found")
	ErrAlreadyApplied = errors.New("already applied to this job")
)

type Repository interface {
	// Create inserts an application; a second application for the same
	// (job, student) pair yields ErrAlreadyApplied.
	Create(ctx context.Context, a Application) (Application, error)
	GetByID(ctx context.Context, id uuid.UUID) (Application, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]Application, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]Application, error)
	Update(ctx context.Context, id uuid.UUID, fn func(*Application) error) (Application, error)
	DeleteByStudent(ctx context.Context, studentID uuid.UUID) error
	DeleteByJob(ctx context.Context, jobID uuid.UUID) error
	Count(ctx context.Context) (int, error)
}
