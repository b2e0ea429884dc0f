package admin

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
	"campus-recruit/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrSelfAction           = errors.New("cannot act on own account")
	ErrUserNotFound         = errors.New("user not found")
	ErrTargetIsAdmin        = errors.New("target account is an admin")
	ErrInvalidStatus        = errors.New("invalid verification status")
	ErrVerificationNotFound = errors.New("verification not found")
	ErrAlreadyReviewed      = errors.New("verification already reviewed")
	ErrJobNotFound          = errors.New("job not found")
	ErrInternal             = errors.New("internal error")
)

type Analytics struct {
	TotalUsers           int                  `json:"totalUsers"`
	UsersByRole          map[account.Role]int `json:"usersByRole"`
	TotalJobs            int                  `json:"totalJobs"`
	ActiveJobs           int                  `json:"activeJobs"`
	TotalApplications    int                  `json:"totalApplications"`
	VerifiedStudents     int                  `json:"verifiedStudents"`
	PendingVerifications int                  `json:"pendingVerifications"`
}

type Service struct {
	accounts      account.Repository
	students      student.Repository
	jobs          job.Repository
	verifications verification.Repository
	applications  application.Repository
	jobList       usecase.JobListInvalidator
	notifier      *events.Notifier
	logger        *zerolog.Logger
	now           func() time.Time
}

func NewService(store repository.Store, jobList usecase.JobListInvalidator, notifier *events.Notifier, logger *zerolog.Logger) *Service {
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
		jobList:       jobList,
		notifier:      notifier,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) ListUsers(ctx context.Context) ([]account.Account, error) {
	all, err := s.accounts.List(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	out := make([]account.Account, 0, len(all))
	for _, a := range all {
		out = append(out, a.Sanitized())
	}
	return out, nil
}

// target loads a non-admin account other than the caller.
func (s *Service) target(ctx context.Context, adminID, userID uuid.UUID) (account.Account, error) {
	if adminID == userID {
		return account.Account{}, ErrSelfAction
	}
	acc, err := s.accounts.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return account.Account{}, ErrUserNotFound
		}
		return account.Account{}, ErrInternal
	}
	if acc.Role == account.RoleAdmin {
		return account.Account{}, ErrTargetIsAdmin
	}
	return acc, nil
}

// DeleteUser removes the account and everything it owns: a student's profile,
// verifications and applications, or a recruiter's postings and the
// applications to them.
func (s *Service) DeleteUser(ctx context.Context, adminID, userID uuid.UUID) error {
	acc, err := s.target(ctx, adminID, userID)
	if err != nil {
		return err
	}

	if err := s.accounts.Delete(ctx, userID); err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return ErrUserNotFound
		}
		return ErrInternal
	}

	var cleanup []error
	switch acc.Role {
	case account.RoleStudent:
		cleanup = append(cleanup,
			s.applications.DeleteByStudent(ctx, userID),
			s.jobs.RemoveApplicant(ctx, userID),
			s.verifications.DeleteByUser(ctx, userID),
			s.students.DeleteByUserID(ctx, userID),
		)
	case account.RoleRecruiter:
		removed, err := s.jobs.DeleteByRecruiter(ctx, userID)
		cleanup = append(cleanup, err)
		for _, jobID := range removed {
			cleanup = append(cleanup, s.applications.DeleteByJob(ctx, jobID))
		}
	}
	if err := errors.Join(cleanup...); err != nil {
		s.logger.Error().Err(err).Str("account_id", userID.String()).Msg("cascade delete incomplete")
	}

	if s.jobList != nil {
		s.jobList.Invalidate(ctx)
	}
	s.notifier.Notify(ctx, events.New(events.AccountDeleted, userID.String(), adminID.String(), map[string]any{
		"role": string(acc.Role),
	}))
	return nil
}

func (s *Service) SuspendUser(ctx context.Context, adminID, userID uuid.UUID) (account.Account, error) {
	if _, err := s.target(ctx, adminID, userID); err != nil {
		return account.Account{}, err
	}

	acc, err := s.accounts.Update(ctx, userID, func(a *account.Account) error {
		a.Suspended = true
		a.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return account.Account{}, ErrUserNotFound
		}
		return account.Account{}, ErrInternal
	}

	s.notifier.Notify(ctx, events.New(events.AccountSuspended, userID.String(), adminID.String(), nil))
	return acc.Sanitized(), nil
}

// ListVerifications returns every record, or those in status when it is set.
func (s *Service) ListVerifications(ctx context.Context, status string) ([]verification.Record, error) {
	st := verification.Status(strings.TrimSpace(status))
	if st != "" && !st.Valid() {
		return nil, ErrInvalidStatus
	}
	out, err := s.verifications.List(ctx, st)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

// ReviewVerification decides a pending record once. Approval marks the
// owning profile verified; the decision is mirrored on the profile document.
// A failed mirror is logged and does not undo the decision.
func (s *Service) ReviewVerification(ctx context.Context, adminID, id uuid.UUID, decision verification.Status, notes *string) (verification.Record, error) {
	if !decision.IsDecision() {
		return verification.Record{}, ErrInvalidStatus
	}
	if notes != nil {
		n := strings.TrimSpace(*notes)
		if n == "" {
			notes = nil
		} else {
			notes = &n
		}
	}

	rec, err := s.verifications.Update(ctx, id, func(r *verification.Record) error {
		return r.Review(decision, notes, adminID, s.now())
	})
	if err != nil {
		switch {
		case errors.Is(err, verification.ErrNotFound):
			return verification.Record{}, ErrVerificationNotFound
		case errors.Is(err, verification.ErrAlreadyReviewed):
			return verification.Record{}, ErrAlreadyReviewed
		case errors.Is(err, verification.ErrInvalidStatus):
			return verification.Record{}, ErrInvalidStatus
		default:
			return verification.Record{}, ErrInternal
		}
	}

	// The record is the source of truth once decided; the profile only mirrors it.
	if _, err := s.students.Update(ctx, rec.UserID, func(p *student.Profile) error {
		for i := range p.VerificationDocuments {
			if p.VerificationDocuments[i].VerificationID == rec.ID {
				p.VerificationDocuments[i].Status = string(rec.Status)
			}
		}
		if rec.Status == verification.StatusApproved {
			p.Verified = true
		}
		return nil
	}); err != nil {
		lvl := zerolog.ErrorLevel
		if errors.Is(err, student.ErrNotFound) {
			lvl = zerolog.WarnLevel
		}
		s.logger.WithLevel(lvl).Err(err).
			Str("verification_id", rec.ID.String()).
			Str("user_id", rec.UserID.String()).
			Msg("mirror review to profile failed")
	}

	s.notifier.Notify(ctx, events.New(events.VerificationReviewed, rec.ID.String(), adminID.String(), map[string]any{
		"status":  string(rec.Status),
		"user_id": rec.UserID.String(),
	}))
	return rec, nil
}

func (s *Service) ListJobs(ctx context.Context) ([]job.Posting, error) {
	out, err := s.jobs.ListAll(ctx)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

// DeleteJob removes any posting regardless of owner.
func (s *Service) DeleteJob(ctx context.Context, adminID, jobID uuid.UUID) error {
	if err := s.jobs.Delete(ctx, jobID); err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return ErrJobNotFound
		}
		return ErrInternal
	}
	if err := s.applications.DeleteByJob(ctx, jobID); err != nil {
		s.logger.Warn().Err(err).Str("job_id", jobID.String()).Msg("delete job applications failed")
	}

	if s.jobList != nil {
		s.jobList.Invalidate(ctx)
	}
	s.notifier.Notify(ctx, events.New(events.JobDeleted, jobID.String(), adminID.String(), nil))
	return nil
}

func (s *Service) Analytics(ctx context.Context) (Analytics, error) {
	byRole, err := s.accounts.CountByRole(ctx)
	if err != nil {
		return Analytics{}, ErrInternal
	}
	jobs, err := s.jobs.ListAll(ctx)
	if err != nil {
		return Analytics{}, ErrInternal
	}
	apps, err := s.applications.Count(ctx)
	if err != nil {
		return Analytics{}, ErrInternal
	}
	verified, err := s.students.CountVerified(ctx)
	if err != nil {
		return Analytics{}, ErrInternal
	}
	pending, err := s.verifications.List(ctx, verification.StatusPending)
	if err != nil {
		return Analytics{}, ErrInternal
	}

	out := Analytics{
		UsersByRole:          map[account.Role]int{},
		TotalJobs:            len(jobs),
		TotalApplications:    apps,
		VerifiedStudents:     verified,
		PendingVerifications: len(pending),
	}
	for _, r := range []account.Role{account.RoleStudent, account.RoleRecruiter, account.RoleAdmin} {
		out.UsersByRole[r] = byRole[r]
		out.TotalUsers += byRole[r]
	}
	for _, p := range jobs {
		if p.Status == job.StatusActive {
			out.ActiveJobs++
		}
	}
	return out, nil
}
