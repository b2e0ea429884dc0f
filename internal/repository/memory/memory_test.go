package memory

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"campus-recruit/internal/domain/account"
	"campus-recruit/internal/domain/application"
	"campus-recruit/internal/domain/job"
	"campus-recruit/internal/domain/student"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

func TestAccountRepository_ConcurrentCreateSameEmail(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	var created, conflicts atomic.Int32
	var g errgroup.Group
	for i := 0; i < 32; i++ {
		g.Go(func() error {
			_, err := repo.Create(ctx, account.Account{Email: "race@test.com", Role: account.RoleStudent})
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, account.ErrEmailTaken):
				conflicts.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	if created.Load() != 1 {
		t.Fatalf("expected exactly one create, got %d", created.Load())
	}
	if conflicts.Load() != 31 {
		t.Fatalf("expected 31 conflicts, got %d", conflicts.Load())
	}
}

func TestAccountRepository_UpdateAbortsOnError(t *testing.T) {
	repo := NewAccountRepository()
	ctx := context.Background()

	a, err := repo.Create(ctx, account.Account{Email: "a@test.com", Name: "A", Role: account.RoleStudent})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	boom := errors.New("boom")
	_, err = repo.Update(ctx, a.ID, func(acc *account.Account) error {
		acc.Name = "changed"
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	got, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "A" {
		t.Fatalf("aborted update leaked: name=%q", got.Name)
	}
}

func TestJobRepository_ReadsAreSnapshots(t *testing.T) {
	repo := NewJobRepository()
	ctx := context.Background()

	p, err := repo.Create(ctx, job.Posting{RecruiterID: uuid.New(), Title: "Go", Requirements: []string{"go"}})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	list, _ := repo.ListActive(ctx)
	list[0].Requirements[0] = "mutated"
	list[0].Title = "mutated"

	got, _ := repo.GetByID(ctx, p.ID)
	if diff := cmp.Diff([]string{"go"}, got.Requirements); diff != "" {
		t.Fatalf("requirements changed through a read (-want +got):\n%s", diff)
	}
	if got.Title != "Go" {
		t.Fatalf("title changed through a read")
	}
}

func TestJobRepository_ConcurrentToggleIsSerialized(t *testing.T) {
	repo := NewJobRepository()
	ctx := context.Background()

	p, _ := repo.Create(ctx, job.Posting{RecruiterID: uuid.New(), Title: "t"})

	var g errgroup.Group
	for i := 0; i < 100; i++ {
		g.Go(func() error {
			_, err := repo.Update(ctx, p.ID, func(jp *job.Posting) error {
				jp.Applicants = append(jp.Applicants, uuid.New())
				return nil
			})
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := repo.GetByID(ctx, p.ID)
	if len(got.Applicants) != 100 {
		t.Fatalf("lost updates: expected 100 applicants, got %d", len(got.Applicants))
	}
}

func TestJobRepository_FiltersAndDeleteByRecruiter(t *testing.T) {
	repo := NewJobRepository()
	ctx := context.Background()

	owner := uuid.New()
	other := uuid.New()
	a, _ := repo.Create(ctx, job.Posting{RecruiterID: owner, Title: "a"})
	_, _ = repo.Create(ctx, job.Posting{RecruiterID: owner, Title: "b", Status: job.StatusClosed})
	_, _ = repo.Create(ctx, job.Posting{RecruiterID: other, Title: "c"})

	active, _ := repo.ListActive(ctx)
	if len(active) != 2 {
		t.Fatalf("expected 2 active, got %d", len(active))
	}
	mine, _ := repo.ListByRecruiter(ctx, owner)
	if len(mine) != 2 {
		t.Fatalf("expected 2 owned, got %d", len(mine))
	}

	removed, err := repo.DeleteByRecruiter(ctx, owner)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(removed) != 2 {
		t.Fatalf("expected 2 removed, got %d", len(removed))
	}
	if _, err := repo.GetByID(ctx, a.ID); !errors.Is(err, job.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	all, _ := repo.ListAll(ctx)
	if len(all) != 1 {
		t.Fatalf("expected 1 remaining, got %d", len(all))
	}
}

func TestStudentRepository_UpsertCreatesOnce(t *testing.T) {
	repo := NewStudentRepository()
	ctx := context.Background()
	userID := uuid.New()

	if _, err := repo.GetByUserID(ctx, userID); !errors.Is(err, student.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	first, err := repo.Upsert(ctx, userID, func(p *student.Profile) error {
		p.Skills = []string{"Go"}
		return nil
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	second, err := repo.Upsert(ctx, userID, func(p *student.Profile) error {
		p.Education = []string{"CS"}
		return nil
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected the same profile id across upserts")
	}
	if diff := cmp.Diff([]string{"Go"}, second.Skills); diff != "" {
		t.Fatalf("skills not preserved (-want +got):\n%s", diff)
	}
}

func TestApplicationRepository_DuplicateRejected(t *testing.T) {
	repo := NewApplicationRepository()
	ctx := context.Background()
	jobID, studentID := uuid.New(), uuid.New()

	if _, err := repo.Create(ctx, application.Application{JobID: jobID, StudentID: studentID}); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := repo.Create(ctx, application.Application{JobID: jobID, StudentID: studentID})
	if !errors.Is(err, application.ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
}

func TestStudentRepository_UpdateDoesNotCreate(t *testing.T) {
	repo := NewStudentRepository()
	ctx := context.Background()
	userID := uuid.New()

	if _, err := repo.Update(ctx, userID, func(p *student.Profile) error {
		p.Verified = true
		return nil
	}); !errors.Is(err, student.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByUserID(ctx, userID); !errors.Is(err, student.ErrNotFound) {
		t.Fatalf("update created a profile")
	}

	_, _ = repo.Upsert(ctx, userID, nil)
	got, err := repo.Update(ctx, userID, func(p *student.Profile) error {
		p.Verified = true
		return nil
	})
	if err != nil || !got.Verified {
		t.Fatalf("expected verified profile, got %+v (%v)", got, err)
	}
}
