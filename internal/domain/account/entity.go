package account

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleRecruiter, RoleAdmin:
		return true
	default:
		return false
	}
}

// SelfRegistrable reports whether the role may be chosen at public registration.
func (r Role) SelfRegistrable() bool {
	return r == RoleStudent || r == RoleRecruiter
}

type Account struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Suspended    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Sanitized returns a copy safe to hand to callers outside the auth flow.
func (a Account) Sanitized() Account {
	a.PasswordHash = ""
	return a
}
