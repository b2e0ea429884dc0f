package job

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusClosed
}

type Posting struct {
	ID           uuid.UUID
	RecruiterID  uuid.UUID
	Title        string
	Description  string
	Requirements []string
	Location     *string
	JobType      *string
	Salary       *string
	Applicants   []uuid.UUID
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (p Posting) OwnedBy(accountID uuid.UUID) bool {
	return p.RecruiterID == accountID
}

func (p Posting) Clone() Posting {
	out := p
	out.Requirements = append([]string(nil), p.Requirements...)
	out.Applicants = append([]uuid.UUID(nil), p.Applicants...)
	if p.Location != nil {
		v := *p.Location
		out.Location = &v
	}
	if p.JobType != nil {
		v := *p.JobType
		out.JobType = &v
	}
	if p.Salary != nil {
		v := *p.Salary
		out.Salary = &v
	}
	return out
}

// HasApplicant reports whether the student account already applied.
func (p Posting) HasApplicant(studentID uuid.UUID) bool {
	for _, id := range p.Applicants {
		if id == studentID {
			return true
		}
	}
	return false
}
