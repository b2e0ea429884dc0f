package verification

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

var (
	ErrInvalidStatus   = errors.New("invalid verification status")
	ErrAlreadyReviewed = errors.New("verification already reviewed")
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	default:
		return false
	}
}

// IsDecision reports whether s is a terminal review outcome.
func (s Status) IsDecision() bool {
	return s == StatusApproved || s == StatusRejected
}

type Record struct {
	ID           uuid.UUID
	StudentID    uuid.UUID
	UserID       uuid.UUID
	DocumentType string
	DocURL       string
	Status       Status
	AdminNotes   *string
	ReviewedBy   *uuid.UUID
	ReviewedAt   *time.Time
	SubmittedAt  time.Time
}

// Review moves a pending record to a terminal decision. Records leave pending
// exactly once and never return to it.
func (r *Record) Review(decision Status, notes *string, reviewer uuid.UUID, at time.Time) error {
	if !decision.IsDecision() {
		return ErrInvalidStatus
	}
	if r.Status != StatusPending {
		return ErrAlreadyReviewed
	}
	r.Status = decision
	r.AdminNotes = notes
	r.ReviewedBy = &reviewer
	reviewedAt := at
	r.ReviewedAt = &reviewedAt
	return nil
}

func (r Record) Clone() Record {
	out := r
	if r.AdminNotes != nil {
		v := *r.AdminNotes
		out.AdminNotes = &v
	}
	if r.ReviewedBy != nil {
		v := *r.ReviewedBy
		out.ReviewedBy = &v
	}
	if r.ReviewedAt != nil {
		v := *r.ReviewedAt
		out.ReviewedAt = &v
	}
	return out
}
