package application

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusApplied     Status = "applied"
	StatusShortlisted Status = "shortlisted"
	StatusRejected    Status = "rejected"
	StatusHired       Status = "hired"
)

var (
	ErrInvalidStatus     = errors.New("invalid application status")
	ErrInvalidTransition = errors.New("invalid application status transition")
)

func (s Status) Valid() bool {
	switch s {
	case StatusApplied, StatusShortlisted, StatusRejected, StatusHired:
		return true
	default:
		return false
	}
}

var transitions = map[Status][]Status{
	StatusApplied:     {StatusShortlisted, StatusRejected, StatusHired},
	StatusShortlisted: {StatusRejected, StatusHired},
}

type Application struct {
	ID        uuid.UUID
	JobID     uuid.UUID
	StudentID uuid.UUID
	Status    Status
	AIScore   *int
	AppliedAt time.Time
	UpdatedAt time.Time
}

// Advance moves the application to next if the transition is allowed.
func (a *Application) Advance(next Status, at time.Time) error {
	if !next.Valid() {
		return ErrInvalidStatus
	}
	for _, allowed := range transitions[a.Status] {
		if allowed == next {
			a.Status = next
			a.UpdatedAt = at
			return nil
		}
	}
	return ErrInvalidTransition
}

func (a Application) Clone() Application {
	out := a
	if a.AIScore != nil {
		v := *a.AIScore
		out.AIScore = &v
	}
	return out
}
