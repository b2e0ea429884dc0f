package repository

import (
	"time"

	"campus-recruit/internal/database"
	"campus-recruit/internal/domain/account"
	"campus-recruit/internal/domain/application"
	"campus-recruit/internal/domain/job"
	"campus-recruit/internal/domain/student"
	"campus-recruit/internal/domain/verification"
)

// Store is the capability set every usecase depends on. It is built once at
// startup and passed down; there is no package-level instance.
type Store struct {
	Accounts      account.Repository
	Students      student.Repository
	Jobs          job.Repository
	Verifications verification.Repository
	Applications  application.Repository
}

// NewPostgresStore wires every repository to db. Each statement is bounded by
// queryTimeout when it is positive.
func NewPostgresStore(db database.DB, queryTimeout time.Duration) Store {
	return Store{
		Accounts:      NewPostgresAccountRepository(db, queryTimeout),
		Students:      NewPostgresStudentRepository(db, queryTimeout),
		Jobs:          NewPostgresJobRepository(db, queryTimeout),
		Verifications: NewPostgresVerificationRepository(db, queryTimeout),
		Applications:  NewPostgresApplicationRepository(db, queryTimeout),
	}
}
