package seeder

import (
	"context"
	"errors"
	"fmt"

	"campus-recruit/internal/domain/account"
	"campus-recruit/internal/domain/job"
	"campus-recruit/internal/repository"
)

const demoRecruiterEmail = "recruiter@test.com"

// DemoJobsSeeder gives the demo recruiter a few postings. It only runs while
// that recruiter has none, so edits made through the API are never undone.
type DemoJobsSeeder struct{}

func (DemoJobsSeeder) Name() string { return "demo_jobs" }

func (DemoJobsSeeder) Run(ctx context.Context, store repository.Store) error {
	rec, err := store.Accounts.GetByEmail(ctx, demoRecruiterEmail)
	if errors.Is(err, account.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	existing, err := store.Jobs.ListByRecruiter(ctx, rec.ID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}

	items := []struct {
		Title        string
		Description  string
		Requirements []string
		Location     string
		JobType      string
		Salary       string
	}{
		{
			Title:        "Frontend Developer Intern",
			Description:  "Build React interfaces for our campus hiring dashboard alongside senior engineers.",
			Requirements: []string{"JavaScript", "React", "HTML/CSS"},
			Location:     "Jakarta",
			JobType:      "Internship",
			Salary:       "IDR 4.000.000 / month",
		},
		{
			Title:        "Backend Engineer (Go)",
			Description:  "Build and maintain Go services, REST APIs, and PostgreSQL-backed systems.",
			Requirements: []string{"Go", "PostgreSQL", "REST APIs"},
			Location:     "Remote",
			JobType:      "Full-time",
		},
	}

	for _, it := range items {
		p := job.Posting{
			RecruiterID:  rec.ID,
			Title:        it.Title,
			Description:  it.Description,
			Requirements: it.Requirements,
			Location:     optional(it.Location),
			JobType:      optional(it.JobType),
			Salary:       optional(it.Salary),
			Status:       job.StatusActive,
		}
		if _, err := store.Jobs.Create(ctx, p); err != nil {
			return fmt.Errorf("create %q: %w", it.Title, err)
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
