package admin

import (
	"context"
	"errors"
	"testing"

	"campus-recruit/internal/domain/account"
	"campus-recruit/internal/domain/application"
	"campus-recruit/internal/domain/job"
	"campus-recruit/internal/domain/student"
	"campus-recruit/internal/domain/verification"
	"campus-recruit/internal/events"
	"campus-recruit/internal/repository"
	"campus-recruit/internal/repository/memory"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

type fixture struct {
	svc       *Service
	store     repository.Store
	jobList   *countingInvalidator
	admin     account.Account
	admin2    account.Account
	student   account.Account
	recruiter account.Account
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	inv := &countingInvalidator{}

	mk := func(email string, role account.Role) account.Account {
		a, err := store.Accounts.Create(ctx, account.Account{Name: email, Email: email, PasswordHash: "hash", Role: role})
		if err != nil {
			t.Fatalf("create %s: %v", email, err)
		}
		return a
	}

	return fixture{
		svc:       NewService(store, inv, events.NewNotifier(events.Nop{}, nil), nil),
		store:     store,
		jobList:   inv,
		admin:     mk("admin@test.com", account.RoleAdmin),
		admin2:    mk("admin2@test.com", account.RoleAdmin),
		student:   mk("student@test.com", account.RoleStudent),
		recruiter: mk("recruiter@test.com", account.RoleRecruiter),
	}
}

func TestDeleteUser_Guards(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if err := f.svc.DeleteUser(ctx, f.admin.ID, f.admin.ID); !errors.Is(err, ErrSelfAction) {
		t.Fatalf("expected ErrSelfAction, got %v", err)
	}
	if err := f.svc.DeleteUser(ctx, f.admin.ID, f.admin2.ID); !errors.Is(err, ErrTargetIsAdmin) {
		t.Fatalf("expected ErrTargetIsAdmin, got %v", err)
	}
	if err := f.svc.DeleteUser(ctx, f.admin.ID, uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}

	users, _ := f.svc.ListUsers(ctx)
	if len(users) != 4 {
		t.Fatalf("guards must not delete anything, got %d users", len(users))
	}
	for _, u := range users {
		if u.PasswordHash != "" {
			t.Fatalf("password hash leaked for %s", u.Email)
		}
	}
}

func TestDeleteUser_CascadesStudent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	profile, _ := f.store.Students.Upsert(ctx, f.student.ID, nil)
	_, _ = f.store.Verifications.Create(ctx, verification.Record{StudentID: profile.ID, UserID: f.student.ID, DocumentType: "id_card"})
	p, _ := f.store.Jobs.Create(ctx, job.Posting{RecruiterID: f.recruiter.ID, Title: "t", Applicants: []uuid.UUID{f.student.ID}})
	_, _ = f.store.Applications.Create(ctx, application.Application{JobID: p.ID, StudentID: f.student.ID})

	if err := f.svc.DeleteUser(ctx, f.admin.ID, f.student.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, err := f.store.Accounts.GetByID(ctx, f.student.ID); !errors.Is(err, account.ErrNotFound) {
		t.Fatalf("account still present: %v", err)
	}
	if _, err := f.store.Students.GetByUserID(ctx, f.student.ID); !errors.Is(err, student.ErrNotFound) {
		t.Fatalf("profile still present: %v", err)
	}
	if recs, _ := f.store.Verifications.ListByUser(ctx, f.student.ID); len(recs) != 0 {
		t.Fatalf("verifications still present: %d", len(recs))
	}
	if apps, _ := f.store.Applications.ListByStudent(ctx, f.student.ID); len(apps) != 0 {
		t.Fatalf("applications still present: %d", len(apps))
	}
	got, _ := f.store.Jobs.GetByID(ctx, p.ID)
	if got.HasApplicant(f.student.ID) {
		t.Fatalf("student still listed as applicant")
	}
}

func TestDeleteUser_CascadesRecruiter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, _ := f.store.Jobs.Create(ctx, job.Posting{RecruiterID: f.recruiter.ID, Title: "t"})
	_, _ = f.store.Applications.Create(ctx, application.Application{JobID: p.ID, StudentID: f.student.ID})

	if err := f.svc.DeleteUser(ctx, f.admin.ID, f.recruiter.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.store.Jobs.GetByID(ctx, p.ID); !errors.Is(err, job.ErrNotFound) {
		t.Fatalf("posting still present: %v", err)
	}
	if apps, _ := f.store.Applications.ListByJob(ctx, p.ID); len(apps) != 0 {
		t.Fatalf("applications still present: %d", len(apps))
	}
	if f.jobList.calls != 1 {
		t.Fatalf("expected job list invalidation, got %d", f.jobList.calls)
	}
}

func TestSuspendUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.SuspendUser(ctx, f.admin.ID, f.admin.ID); !errors.Is(err, ErrSelfAction) {
		t.Fatalf("expected ErrSelfAction, got %v", err)
	}
	if _, err := f.svc.SuspendUser(ctx, f.admin.ID, f.admin2.ID); !errors.Is(err, ErrTargetIsAdmin) {
		t.Fatalf("expected ErrTargetIsAdmin, got %v", err)
	}

	acc, err := f.svc.SuspendUser(ctx, f.admin.ID, f.recruiter.ID)
	if err != nil {
		t.Fatalf("suspend: %v", err)
	}
	if !acc.Suspended {
		t.Fatalf("expected suspended account")
	}
}

func TestReviewVerification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	profile, _ := f.store.Students.Upsert(ctx, f.student.ID, nil)
	rec, _ := f.store.Verifications.Create(ctx, verification.Record{StudentID: profile.ID, UserID: f.student.ID, DocumentType: "id_card"})
	_, _ = f.store.Students.Upsert(ctx, f.student.ID, func(p *student.Profile) error {
		p.VerificationDocuments = append(p.VerificationDocuments, student.Document{VerificationID: rec.ID, Type: "id_card", Status: "pending"})
		return nil
	})

	if _, err := f.svc.ReviewVerification(ctx, f.admin.ID, rec.ID, verification.StatusPending, nil); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if _, err := f.svc.ReviewVerification(ctx, f.admin.ID, uuid.New(), verification.StatusApproved, nil); !errors.Is(err, ErrVerificationNotFound) {
		t.Fatalf("expected ErrVerificationNotFound, got %v", err)
	}

	notes := "  looks good "
	got, err := f.svc.ReviewVerification(ctx, f.admin.ID, rec.ID, verification.StatusApproved, &notes)
	if err != nil {
		t.Fatalf("review: %v", err)
	}
	if got.Status != verification.StatusApproved || got.AdminNotes == nil || *got.AdminNotes != "looks good" {
		t.Fatalf("unexpected record %+v", got)
	}

	p, _ := f.store.Students.GetByUserID(ctx, f.student.ID)
	if !p.Verified {
		t.Fatalf("expected profile verified")
	}
	if diff := cmp.Diff("approved", p.VerificationDocuments[0].Status); diff != "" {
		t.Fatalf("document status (-want +got):\n%s", diff)
	}

	if _, err := f.svc.ReviewVerification(ctx, f.admin.ID, rec.ID, verification.StatusRejected, nil); !errors.Is(err, ErrAlreadyReviewed) {
		t.Fatalf("expected ErrAlreadyReviewed, got %v", err)
	}

	pending, err := f.svc.ListVerifications(ctx, "pending")
	if err != nil || len(pending) != 0 {
		t.Fatalf("expected no pending records, got %d (%v)", len(pending), err)
	}
	if _, err := f.svc.ListVerifications(ctx, "archived"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestJobsAndAnalytics(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	active, _ := f.store.Jobs.Create(ctx, job.Posting{RecruiterID: f.recruiter.ID, Title: "a"})
	_, _ = f.store.Jobs.Create(ctx, job.Posting{RecruiterID: f.recruiter.ID, Title: "b", Status: job.StatusClosed})
	_, _ = f.store.Applications.Create(ctx, application.Application{JobID: active.ID, StudentID: f.student.ID})

	all, _ := f.svc.ListJobs(ctx)
	if len(all) != 2 {
		t.Fatalf("expected active and closed jobs, got %d", len(all))
	}

	got, err := f.svc.Analytics(ctx)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	want := Analytics{
		TotalUsers:        4,
		UsersByRole:       map[account.Role]int{account.RoleAdmin: 2, account.RoleStudent: 1, account.RoleRecruiter: 1},
		TotalJobs:         2,
		ActiveJobs:        1,
		TotalApplications: 1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("analytics (-want +got):\n%s", diff)
	}

	if err := f.svc.DeleteJob(ctx, f.admin.ID, active.ID); err != nil {
		t.Fatalf("delete job: %v", err)
	}
	if err := f.svc.DeleteJob(ctx, f.admin.ID, active.ID); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
	if n, _ := f.store.Applications.Count(ctx); n != 0 {
		t.Fatalf("expected applications removed, got %d", n)
	}
}

type failingProfileUpdates struct {
	student.Repository
}

func (failingProfileUpdates) Update(context.Context, uuid.UUID, func(*student.Profile) error) (student.Profile, error) {
	return student.Profile{}, errors.New("boom")
}

func TestReviewVerification_MirrorFailureKeepsDecision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	profile, _ := f.store.Students.Upsert(ctx, f.student.ID, nil)
	rec, _ := f.store.Verifications.Create(ctx, verification.Record{StudentID: profile.ID, UserID: f.student.ID, DocumentType: "id_card"})

	store := f.store
	store.Students = failingProfileUpdates{Repository: f.store.Students}
	svc := NewService(store, f.jobList, events.NewNotifier(events.Nop{}, nil), nil)

	got, err := svc.ReviewVerification(ctx, f.admin.ID, rec.ID, verification.StatusApproved, nil)
	if err != nil {
		t.Fatalf("expected the decision to stand, got %v", err)
	}
	if got.Status != verification.StatusApproved {
		t.Fatalf("unexpected status %s", got.Status)
	}
	stored, _ := f.store.Verifications.GetByID(ctx, rec.ID)
	if stored.Status != verification.StatusApproved {
		t.Fatalf("expected stored record approved, got %s", stored.Status)
	}
}

func TestReviewVerification_DeletedStudentGetsNoProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	profile, _ := f.store.Students.Upsert(ctx, f.student.ID, nil)
	rec, _ := f.store.Verifications.Create(ctx, verification.Record{StudentID: profile.ID, UserID: f.student.ID, DocumentType: "id_card"})
	if err := f.store.Students.DeleteByUserID(ctx, f.student.ID); err != nil {
		t.Fatalf("delete profile: %v", err)
	}

	if _, err := f.svc.ReviewVerification(ctx, f.admin.ID, rec.ID, verification.StatusApproved, nil); err != nil {
		t.Fatalf("review: %v", err)
	}
	if _, err := f.store.Students.GetByUserID(ctx, f.student.ID); !errors.Is(err, student.ErrNotFound) {
		t.Fatalf("expected no profile to be recreated, got %v", err)
	}
}
