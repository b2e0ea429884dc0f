package seeder

import (
	"context"
	"errors"
	"fmt"

	"campus-recruit/internal/domain/account"
	"campus-recruit/internal/domain/student"
	"campus-recruit/internal/repository"
	"campus-recruit/internal/usecase/auth"
)

type DemoAccount struct {
	Name     string
	Email    string
	Password string
	Role     account.Role
}

// DemoAccounts are the fixed credentials shown on the login page.
var DemoAccounts = []DemoAccount{
	{Name: "Test Student", Email: "student@test.com", Password: "Student123", Role: account.RoleStudent},
	{Name: "Test Recruiter", Email: "recruiter@test.com", Password: "Recruiter123", Role: account.RoleRecruiter},
	{Name: "Test Admin", Email: "admin@test.com", Password: "Admin123", Role: account.RoleAdmin},
}

type DemoAccountsSeeder struct {
	HashCost int
}

func (DemoAccountsSeeder) Name() string { return "demo_accounts" }

// Run creates each missing demo account. The store's atomic email check
// decides races, so concurrent runs still end with one account per email.
func (s DemoAccountsSeeder) Run(ctx context.Context, store repository.Store) error {
	for _, it := range DemoAccounts {
		hash, err := auth.HashPassword(it.Password, s.HashCost)
		if err != nil {
			return fmt.Errorf("hash %s: %w", it.Email, err)
		}

		created, err := store.Accounts.Create(ctx, account.Account{
			Name:         it.Name,
			Email:        it.Email,
			PasswordHash: hash,
			Role:         it.Role,
		})
		if errors.Is(err, account.ErrEmailTaken) {
			continue
		}
		if err != nil {
			return fmt.Errorf("create %s: %w", it.Email, err)
		}

		if created.Role != account.RoleStudent {
			continue
		}
		if _, err := store.Students.Upsert(ctx, created.ID, func(p *student.Profile) error {
			p.Skills = []string{"JavaScript", "React", "Node.js"}
			p.Education = []string{"Computer Science - Bachelor's"}
			return nil
		}); err != nil {
			return fmt.Errorf("profile %s: %w", it.Email, err)
		}
	}
	return nil
}
