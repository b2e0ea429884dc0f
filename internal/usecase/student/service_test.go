package student

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"campus-recruit/internal/domain/account"
	"campus-recruit/internal/domain/job"
	"campus-recruit/internal/domain/verification"
	"campus-recruit/internal/events"
	"campus-recruit/internal/repository"
	"campus-recruit/internal/repository/memory"
	"campus-recruit/internal/upload"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, evt events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

type countingStorage struct {
	mu   sync.Mutex
	puts int
}

func (s *countingStorage) Put(_ context.Context, key, _ string, _ []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	return "/uploads/" + key, nil
}

type countingInvalidator struct {
	mu    sync.Mutex
	calls int
}

func (c *countingInvalidator) Invalidate(context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
}

type fixture struct {
	svc     *Service
	store   repository.Store
	files   *countingStorage
	pub     *recordingPublisher
	jobList *countingInvalidator
	student account.Account
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	files := &countingStorage{}
	pub := &recordingPublisher{}
	inv := &countingInvalidator{}
	svc := NewService(store, files, inv, events.NewNotifier(pub, nil), nil)

	acc, err := store.Accounts.Create(context.Background(), account.Account{Name: "Alice", Email: "alice@test.com", Role: account.RoleStudent})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	return fixture{svc: svc, store: store, files: files, pub: pub, jobList: inv, student: acc}
}

func TestGetProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	view, err := f.svc.GetProfile(ctx, f.student.ID)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if view.Profile != nil {
		t.Fatalf("expected no profile yet")
	}
	if view.Account.Email != "alice@test.com" {
		t.Fatalf("unexpected account %+v", view.Account)
	}

	if _, err := f.svc.GetProfile(ctx, uuid.New()); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateProfile_PartialMerge(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	skills := []string{"Go", " ", "SQL"}
	phone := "0812"
	view, err := f.svc.UpdateProfile(ctx, f.student.ID, ProfileUpdate{Skills: &skills, Phone: &phone})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if diff := cmp.Diff([]string{"Go", "SQL"}, view.Profile.Skills); diff != "" {
		t.Fatalf("skills (-want +got):\n%s", diff)
	}

	name := "Alice Doe"
	bio := "hello"
	view, err = f.svc.UpdateProfile(ctx, f.student.ID, ProfileUpdate{Name: &name, Bio: &bio})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if view.Account.Name != "Alice Doe" {
		t.Fatalf("name not updated: %q", view.Account.Name)
	}
	if diff := cmp.Diff([]string{"Go", "SQL"}, view.Profile.Skills); diff != "" {
		t.Fatalf("skills lost on partial update (-want +got):\n%s", diff)
	}
	if view.Profile.Phone == nil || *view.Profile.Phone != "0812" {
		t.Fatalf("phone lost on partial update")
	}

	if _, err := f.svc.UpdateProfile(ctx, uuid.New(), ProfileUpdate{Name: &name}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUploadDocument_CreatesPendingVerification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	rec, err := f.svc.UploadDocument(ctx, f.student.ID, "id_card", upload.File{
		Name:        "my id.pdf",
		ContentType: upload.MIMEPDF,
		Data:        []byte("%PDF-1.4 fake"),
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if rec.Status != verification.StatusPending {
		t.Fatalf("expected pending, got %s", rec.Status)
	}
	if !strings.HasPrefix(rec.DocURL, "/uploads/documents/"+f.student.ID.String()+"-") || !strings.HasSuffix(rec.DocURL, "-my_id.pdf") {
		t.Fatalf("unexpected doc url %q", rec.DocURL)
	}

	profile, err := f.store.Students.GetByUserID(ctx, f.student.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if rec.StudentID != profile.ID {
		t.Fatalf("record not linked to profile")
	}
	if len(profile.VerificationDocuments) != 1 || profile.VerificationDocuments[0].VerificationID != rec.ID {
		t.Fatalf("document not mirrored on profile: %+v", profile.VerificationDocuments)
	}

	docs, _ := f.svc.ListDocuments(ctx, f.student.ID)
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if diff := cmp.Diff([]string{events.VerificationSubmitted}, f.pub.types()); diff != "" {
		t.Fatalf("events (-want +got):\n%s", diff)
	}
}

func TestUploadDocument_RejectionLeavesNoTrace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.UploadDocument(ctx, f.student.ID, "id_card", upload.File{
		Name:        "notes.txt",
		ContentType: "text/plain",
		Data:        []byte("hello"),
	})
	var rej *upload.Rejection
	if !errors.As(err, &rej) || !errors.Is(err, upload.ErrInvalidType) {
		t.Fatalf("expected invalid type rejection, got %v", err)
	}
	if !strings.Contains(rej.Message, "PDF, JPG, PNG, DOC, or DOCX") {
		t.Fatalf("message does not name allowed types: %q", rej.Message)
	}

	all, _ := f.store.Verifications.List(ctx, "")
	if len(all) != 0 {
		t.Fatalf("expected no verification records, got %d", len(all))
	}
	if f.files.puts != 0 {
		t.Fatalf("expected nothing stored, got %d puts", f.files.puts)
	}

	_, err = f.svc.UploadDocument(ctx, f.student.ID, " ", upload.File{Name: "a.pdf", ContentType: upload.MIMEPDF, Data: []byte("x")})
	if !errors.Is(err, ErrDocumentTypeMissing) {
		t.Fatalf("expected ErrDocumentTypeMissing, got %v", err)
	}
}

func TestUploadResume(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	url, err := f.svc.UploadResume(ctx, f.student.ID, upload.File{Name: "cv.doc", ContentType: upload.MIMEDOC, Data: []byte("doc bytes")})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/resumes/") {
		t.Fatalf("unexpected url %q", url)
	}
	profile, _ := f.store.Students.GetByUserID(ctx, f.student.ID)
	if profile.ResumeURL == nil || *profile.ResumeURL != url {
		t.Fatalf("resume url not saved")
	}

	big := make([]byte, upload.ResumePolicy.MaxBytes+1)
	if _, err := f.svc.UploadResume(ctx, f.student.ID, upload.File{Name: "big.pdf", ContentType: upload.MIMEPDF, Data: big}); !errors.Is(err, upload.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if _, err := f.svc.UploadResume(ctx, f.student.ID, upload.File{}); !errors.Is(err, upload.ErrMissingFile) {
		t.Fatalf("expected ErrMissingFile, got %v", err)
	}
}

func TestApply(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, _ := f.store.Jobs.Create(ctx, job.Posting{RecruiterID: uuid.New(), Title: "Go Intern", Requirements: []string{"Go"}})
	closed, _ := f.store.Jobs.Create(ctx, job.Posting{RecruiterID: uuid.New(), Title: "Old", Status: job.StatusClosed})

	app, err := f.svc.Apply(ctx, f.student.ID, p.ID)
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if app.AIScore == nil || *app.AIScore != MockAIScore {
		t.Fatalf("expected mock ai score")
	}

	got, _ := f.store.Jobs.GetByID(ctx, p.ID)
	if !got.HasApplicant(f.student.ID) {
		t.Fatalf("student not recorded as applicant")
	}
	if f.jobList.calls != 1 {
		t.Fatalf("expected job list invalidation, got %d", f.jobList.calls)
	}

	if _, err := f.svc.Apply(ctx, f.student.ID, p.ID); !errors.Is(err, ErrAlreadyApplied) {
		t.Fatalf("expected ErrAlreadyApplied, got %v", err)
	}
	if _, err := f.svc.Apply(ctx, f.student.ID, closed.ID); !errors.Is(err, ErrJobClosed) {
		t.Fatalf("expected ErrJobClosed, got %v", err)
	}
	if _, err := f.svc.Apply(ctx, f.student.ID, uuid.New()); !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}

	views, err := f.svc.ListApplications(ctx, f.student.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 1 || views[0].Job == nil || views[0].Job.ID != p.ID {
		t.Fatalf("unexpected applications %+v", views)
	}
}

func TestApply_ConcurrentSingleApplication(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, _ := f.store.Jobs.Create(ctx, job.Posting{RecruiterID: uuid.New(), Title: "t"})

	var g errgroup.Group
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			_, err := f.svc.Apply(ctx, f.student.ID, p.ID)
			if err != nil && !errors.Is(err, ErrAlreadyApplied) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	got, _ := f.store.Jobs.GetByID(ctx, p.ID)
	if len(got.Applicants) != 1 {
		t.Fatalf("expected 1 applicant, got %d", len(got.Applicants))
	}
	apps, _ := f.store.Applications.ListByJob(ctx, p.ID)
	if len(apps) != 1 {
		t.Fatalf("expected 1 application, got %d", len(apps))
	}
}
