package seeder

import (
	"context"
	"testing"

	"campus-recruit/internal/domain/account"
	"campus-recruit/internal/repository/memory"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

func TestRunner_Idempotent(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	r := Runner{Seeders: Defaults(bcrypt.MinCost)}

	for i := 0; i < 2; i++ {
		if err := r.Run(ctx, store); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	all, _ := store.Accounts.List(ctx)
	if len(all) != 3 {
		t.Fatalf("expected 3 accounts, got %d", len(all))
	}

	byRole, _ := store.Accounts.CountByRole(ctx)
	want := map[account.Role]int{account.RoleStudent: 1, account.RoleRecruiter: 1, account.RoleAdmin: 1}
	if diff := cmp.Diff(want, byRole); diff != "" {
		t.Fatalf("roles (-want +got):\n%s", diff)
	}

	rec, _ := store.Accounts.GetByEmail(ctx, "recruiter@test.com")
	jobs, _ := store.Jobs.ListByRecruiter(ctx, rec.ID)
	if len(jobs) != 2 {
		t.Fatalf("expected 2 demo jobs, got %d", len(jobs))
	}
}

func TestDemoAccounts_Credentials(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	if err := (DemoAccountsSeeder{HashCost: bcrypt.MinCost}).Run(ctx, store); err != nil {
		t.Fatalf("seed: %v", err)
	}

	for _, it := range DemoAccounts {
		acc, err := store.Accounts.GetByEmail(ctx, it.Email)
		if err != nil {
			t.Fatalf("%s missing: %v", it.Email, err)
		}
		if acc.Name != it.Name || acc.Role != it.Role {
			t.Fatalf("unexpected account %+v", acc)
		}
		if err := bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(it.Password)); err != nil {
			t.Fatalf("%s password mismatch", it.Email)
		}
	}

	stu, _ := store.Accounts.GetByEmail(ctx, "student@test.com")
	p, err := store.Students.GetByUserID(ctx, stu.ID)
	if err != nil {
		t.Fatalf("student profile: %v", err)
	}
	if diff := cmp.Diff([]string{"JavaScript", "React", "Node.js"}, p.Skills); diff != "" {
		t.Fatalf("skills (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Computer Science - Bachelor's"}, p.Education); diff != "" {
		t.Fatalf("education (-want +got):\n%s", diff)
	}
}

func TestDemoAccounts_ConcurrentRuns(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	s := DemoAccountsSeeder{HashCost: bcrypt.MinCost}

	var g errgroup.Group
	for i := 0; i < 4; i++ {
		g.Go(func() error { return s.Run(ctx, store) })
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	all, _ := store.Accounts.List(ctx)
	if len(all) != 3 {
		t.Fatalf("expected 3 accounts, got %d", len(all))
	}
}

func TestRunner_ConcurrentRunsSeedJobsOnce(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()
	r := Runner{Seeders: Defaults(bcrypt.MinCost), Lock: &MutexLocker{}}

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error { return r.Run(ctx, store) })
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("seed: %v", err)
	}

	rec, _ := store.Accounts.GetByEmail(ctx, "recruiter@test.com")
	jobs, _ := store.Jobs.ListByRecruiter(ctx, rec.ID)
	if len(jobs) != 2 {
		t.Fatalf("expected 2 demo jobs, got %d", len(jobs))
	}
}

type countingLocker struct {
	calls int
}

func (l *countingLocker) WithLock(ctx context.Context, fn func(context.Context) error) error {
	l.calls++
	return fn(ctx)
}

func TestRunner_HoldsLockForWholePass(t *testing.T) {
	store := memory.NewStore()
	lock := &countingLocker{}
	r := Runner{Seeders: Defaults(bcrypt.MinCost), Lock: lock}

	if err := r.Run(context.Background(), store); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if lock.calls != 1 {
		t.Fatalf("expected one lock acquisition per pass, got %d", lock.calls)
	}
}
