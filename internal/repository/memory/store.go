// Package memory holds process-local implementations of the domain
// repositories. Nothing survives a restart. Each collection is guarded by its
// own mutex so every read-modify-write on that collection is serialized.
package memory

import (
	"time"

	"campus-recruit/internal/repository"
)

func NewStore() repository.Store {
	return repository.Store{
		Accounts:      NewAccountRepository(),
		Students:      NewStudentRepository(),
		Jobs:          NewJobRepository(),
		Verifications: NewVerificationRepository(),
		Applications:  NewApplicationRepository(),
	}
}

func utcNow() time.Time {
	return time.Now().UTC()
}
