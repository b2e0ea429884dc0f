package student

import (
	"context"
	"errors"
	"strings"
	"time"

	"campus-recruit/internal/domain/account"
	"campus-recruit/internal/domain/application"
	"campus-recruit/internal/domain/job"
	"campus-recruit/internal/domain/student"
	"campus-recruit/internal/domain/verification"
	"campus-recruit/internal/events"
	"campus-recruit/internal/repository"
	"campus-recruit/internal/storage"
	"campus-recruit/internal/upload"
	"campus-recruit/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// MockAIScore is attached to every new application until real scoring exists.
const MockAIScore = 75

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrDocumentTypeMissing = errors.New("file and document type are required")
	ErrJobNotFound         = errors.New("job not found")
	ErrJobClosed           = errors.New("job is closed")
	ErrAlreadyApplied      = errors.New("already applied")
	ErrInternal            = errors.New("internal error")
)

// ProfileView pairs the account with its profile. Profile is nil until the
// student first saves or uploads something.
type ProfileView struct {
	Account account.Account
	Profile *student.Profile
}

// ProfileUpdate is a partial merge; nil fields keep their stored value.
type ProfileUpdate struct {
	Name      *string
	Phone     *string
	Bio       *string
	Skills    *[]string
	Education *[]string
}

type ApplicationView struct {
	Application application.Application
	Job         *job.Posting
}

type Service struct {
	accounts      account.Repository
	students      student.Repository
	jobs          job.Repository
	verifications verification.Repository
	applications  application.Repository
	files         storage.Storage
	jobList       usecase.JobListInvalidator
	notifier      *events.Notifier
	logger        *zerolog.Logger
	now           func() time.Time
}

func NewService(store repository.Store, files storage.Storage, jobList usecase.JobListInvalidator, notifier *events.Notifier, logger *zerolog.Logger) *Service {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Service{
		accounts:      store.Accounts,
		students:      store.Students,
		jobs:          store.Jobs,
		verifications: store.Verifications,
		applications:  store.Applications,
		files:         files,
		jobList:       jobList,
		notifier:      notifier,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (ProfileView, error) {
	acc, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return ProfileView{}, ErrUserNotFound
		}
		return ProfileView{}, ErrInternal
	}

	view := ProfileView{Account: acc.Sanitized()}
	p, err := s.students.GetByUserID(ctx, userID)
	switch {
	case err == nil:
		view.Profile = &p
	case errors.Is(err, student.ErrNotFound):
	default:
		return ProfileView{}, ErrInternal
	}
	return view, nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, in ProfileUpdate) (ProfileView, error) {
	acc, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return ProfileView{}, ErrUserNotFound
		}
		return ProfileView{}, ErrInternal
	}

	if in.Name != nil && strings.TrimSpace(*in.Name) != "" {
		name := strings.TrimSpace(*in.Name)
		acc, err = s.accounts.Update(ctx, userID, func(a *account.Account) error {
			a.Name = name
			return nil
		})
		if err != nil {
			return ProfileView{}, ErrInternal
		}
	}

	p, err := s.students.Upsert(ctx, userID, func(p *student.Profile) error {
		if in.Phone != nil {
			p.Phone = optional(*in.Phone)
		}
		if in.Bio != nil {
			p.Bio = optional(*in.Bio)
		}
		if in.Skills != nil {
			p.Skills = cleanList(*in.Skills)
		}
		if in.Education != nil {
			p.Education = cleanList(*in.Education)
		}
		return nil
	})
	if err != nil {
		return ProfileView{}, ErrInternal
	}

	return ProfileView{Account: acc.Sanitized(), Profile: &p}, nil
}

// UploadDocument validates f, stores it and opens a pending verification.
// A rejected file leaves no record and nothing stored.
func (s *Service) UploadDocument(ctx context.Context, userID uuid.UUID, documentType string, f upload.File) (verification.Record, error) {
	documentType = strings.TrimSpace(documentType)
	if documentType == "" || len(f.Data) == 0 {
		return verification.Record{}, ErrDocumentTypeMissing
	}

	valid, err := upload.DocumentPolicy.Validate(f)
	if err != nil {
		return verification.Record{}, err
	}

	profile, err := s.students.Upsert(ctx, userID, nil)
	if err != nil {
		return verification.Record{}, ErrInternal
	}

	now := s.now()
	url, err := s.files.Put(ctx, storage.ObjectKey(storage.FolderDocuments, userID, now, valid.Name), valid.ContentType, valid.Data)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", userID.String()).Msg("store document failed")
		return verification.Record{}, ErrInternal
	}

	rec, err := s.verifications.Create(ctx, verification.Record{
		StudentID:    profile.ID,
		UserID:       userID,
		DocumentType: documentType,
		DocURL:       url,
		Status:       verification.StatusPending,
		SubmittedAt:  now,
	})
	if err != nil {
		return verification.Record{}, ErrInternal
	}

	if _, err := s.students.Upsert(ctx, userID, func(p *student.Profile) error {
		p.VerificationDocuments = append(p.VerificationDocuments, student.Document{
			VerificationID: rec.ID,
			Type:           rec.DocumentType,
			URL:            rec.DocURL,
			Status:         string(rec.Status),
			UploadedAt:     rec.SubmittedAt,
		})
		return nil
	}); err != nil {
		s.logger.Warn().Err(err).Str("verification_id", rec.ID.String()).Msg("mirror document on profile failed")
	}

	s.notifier.Notify(ctx, events.New(events.VerificationSubmitted, rec.ID.String(), userID.String(), map[string]any{
		"document_type": rec.DocumentType,
	}))
	return rec, nil
}

func (s *Service) ListDocuments(ctx context.Context, userID uuid.UUID) ([]verification.Record, error) {
	recs, err := s.verifications.ListByUser(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}
	return recs, nil
}

// UploadResume validates and stores f and points the profile at it.
func (s *Service) UploadResume(ctx context.Context, userID uuid.UUID, f upload.File) (string, error) {
	valid, err := upload.ResumePolicy.Validate(f)
	if err != nil {
		return "", err
	}

	url, err := s.files.Put(ctx, storage.ObjectKey(storage.FolderResumes, userID, s.now(), valid.Name), valid.ContentType, valid.Data)
	if err != nil {
		s.logger.Error().Err(err).Str("account_id", userID.String()).Msg("store resume failed")
		return "", ErrInternal
	}

	if _, err := s.students.Upsert(ctx, userID, func(p *student.Profile) error {
		p.ResumeURL = &url
		return nil
	}); err != nil {
		return "", ErrInternal
	}
	return url, nil
}

// Apply records userID as an applicant of an active posting. The applicant
// list and the application row are kept in step; a failed insert removes the
// applicant again.
func (s *Service) Apply(ctx context.Context, userID, jobID uuid.UUID) (application.Application, error) {
	_, err := s.jobs.Update(ctx, jobID, func(p *job.Posting) error {
		if p.Status != job.StatusActive {
			return ErrJobClosed
		}
		if p.HasApplicant(userID) {
			return ErrAlreadyApplied
		}
		p.Applicants = append(p.Applicants, userID)
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, job.ErrNotFound):
			return application.Application{}, ErrJobNotFound
		case errors.Is(err, ErrJobClosed), errors.Is(err, ErrAlreadyApplied):
			return application.Application{}, err
		default:
			return application.Application{}, ErrInternal
		}
	}

	score := MockAIScore
	app, err := s.applications.Create(ctx, application.Application{
		JobID:     jobID,
		StudentID: userID,
		Status:    application.StatusApplied,
		AIScore:   &score,
	})
	if err != nil {
		if errors.Is(err, application.ErrAlreadyApplied) {
			return application.Application{}, ErrAlreadyApplied
		}
		s.dropApplicant(ctx, jobID, userID)
		return application.Application{}, ErrInternal
	}

	if s.jobList != nil {
		s.jobList.Invalidate(ctx)
	}
	s.notifier.Notify(ctx, events.New(events.ApplicationCreated, app.ID.String(), userID.String(), map[string]any{
		"job_id": jobID.String(),
	}))
	return app, nil
}

func (s *Service) ListApplications(ctx context.Context, userID uuid.UUID) ([]ApplicationView, error) {
	apps, err := s.applications.ListByStudent(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]ApplicationView, 0, len(apps))
	for _, a := range apps {
		view := ApplicationView{Application: a}
		p, err := s.jobs.GetByID(ctx, a.JobID)
		switch {
		case err == nil:
			view.Job = &p
		case errors.Is(err, job.ErrNotFound):
		default:
			return nil, ErrInternal
		}
		out = append(out, view)
	}
	return out, nil
}

func (s *Service) dropApplicant(ctx context.Context, jobID, userID uuid.UUID) {
	_, err := s.jobs.Update(ctx, jobID, func(p *job.Posting) error {
		kept := p.Applicants[:0]
		for _, id := range p.Applicants {
			if id != userID {
				kept = append(kept, id)
			}
		}
		p.Applicants = kept
		return nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("job_id", jobID.String()).Msg("remove applicant failed")
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
