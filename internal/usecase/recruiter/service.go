package recruiter

import (
	"context"
	"errors"
	"strings"
	"time"

	"campus-recruit/internal/domain/account"
	"campus-recruit/internal/domain/application"
	"campus-recruit/internal/domain/job"
	"campus-recruit/internal/domain/student"
	"campus-recruit/internal/events"
	"campus-recruit/internal/repository"
	"campus-recruit/internal/usecase"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var (
	ErrMissingJobFields         = errors.New("title, description and requirements are required")
	ErrInvalidJobStatus         = errors.New("invalid job status")
	ErrJobNotFound              = errors.New("job not found")
	ErrNotJobOwner              = errors.New("job owned by another recruiter")
	ErrApplicationNotFound      = errors.New("application not found")
	ErrInvalidApplicationStatus = errors.New("invalid application status")
	ErrInvalidTransition        = errors.New("invalid application status transition")
	ErrInternal                 = errors.New("internal error")
)

type JobInput struct {
	Title        string
	Description  string
	Requirements []string
	Location     *string
	JobType      *string
	Salary       *string
}

// JobUpdate is a partial merge; nil fields keep their stored value.
type JobUpdate struct {
	Title        *string
	Description  *string
	Requirements *[]string
	Location     *string
	JobType      *string
	Salary       *string
	Status       *job.Status
}

// ApplicantView is an application with the applying student's public data.
type ApplicantView struct {
	Application application.Application
	Student     *account.Account
	Profile     *student.Profile
}

type Service struct {
	accounts     account.Repository
	students     student.Repository
	jobs         job.Repository
	applications application.Repository
	jobList      usecase.JobListInvalidator
	notifier     *events.Notifier
	logger       *zerolog.Logger
	now          func() time.Time
}

func NewService(store repository.Store, jobList usecase.JobListInvalidator, notifier *events.Notifier, logger *zerolog.Logger) *Service {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Service{
		accounts:     store.Accounts,
		students:     store.Students,
		jobs:         store.Jobs,
		applications: store.Applications,
		jobList:      jobList,
		notifier:     notifier,
		logger:       logger,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) ListJobs(ctx context.Context, recruiterID uuid.UUID) ([]job.Posting, error) {
	out, err := s.jobs.ListByRecruiter(ctx, recruiterID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (s *Service) CreateJob(ctx context.Context, recruiterID uuid.UUID, in JobInput) (job.Posting, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	requirements := cleanList(in.Requirements)
	if title == "" || description == "" || len(requirements) == 0 {
		return job.Posting{}, ErrMissingJobFields
	}

	p, err := s.jobs.Create(ctx, job.Posting{
		RecruiterID:  recruiterID,
		Title:        title,
		Description:  description,
		Requirements: requirements,
		Location:     optional(in.Location),
		JobType:      optional(in.JobType),
		Salary:       optional(in.Salary),
		Status:       job.StatusActive,
	})
	if err != nil {
		return job.Posting{}, ErrInternal
	}

	s.changed(ctx, events.JobCreated, p, recruiterID)
	return p, nil
}

// AuthorizeJob reports whether recruiterID owns jobID.
func (s *Service) AuthorizeJob(ctx context.Context, recruiterID, jobID uuid.UUID) error {
	p, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return ErrJobNotFound
		}
		return ErrInternal
	}
	if !p.OwnedBy(recruiterID) {
		return ErrNotJobOwner
	}
	return nil
}

func (s *Service) UpdateJob(ctx context.Context, recruiterID, jobID uuid.UUID, in JobUpdate) (job.Posting, error) {
	if in.Status != nil && !in.Status.Valid() {
		return job.Posting{}, ErrInvalidJobStatus
	}

	p, err := s.jobs.Update(ctx, jobID, func(p *job.Posting) error {
		if !p.OwnedBy(recruiterID) {
			return ErrNotJobOwner
		}
		if in.Title != nil {
			if t := strings.TrimSpace(*in.Title); t != "" {
				p.Title = t
			}
		}
		if in.Description != nil {
			if d := strings.TrimSpace(*in.Description); d != "" {
				p.Description = d
			}
		}
		if in.Requirements != nil {
			if reqs := cleanList(*in.Requirements); len(reqs) > 0 {
				p.Requirements = reqs
			}
		}
		if in.Location != nil {
			p.Location = optional(in.Location)
		}
		if in.JobType != nil {
			p.JobType = optional(in.JobType)
		}
		if in.Salary != nil {
			p.Salary = optional(in.Salary)
		}
		if in.Status != nil {
			p.Status = *in.Status
		}
		p.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, job.ErrNotFound):
			return job.Posting{}, ErrJobNotFound
		case errors.Is(err, ErrNotJobOwner):
			return job.Posting{}, ErrNotJobOwner
		default:
			return job.Posting{}, ErrInternal
		}
	}

	s.changed(ctx, events.JobUpdated, p, recruiterID)
	return p, nil
}

// DeleteJob removes an owned posting and every application to it.
func (s *Service) DeleteJob(ctx context.Context, recruiterID, jobID uuid.UUID) error {
	p, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return ErrJobNotFound
		}
		return ErrInternal
	}
	if !p.OwnedBy(recruiterID) {
		return ErrNotJobOwner
	}

	if err := s.jobs.Delete(ctx, jobID); err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return ErrJobNotFound
		}
		return ErrInternal
	}
	if err := s.applications.DeleteByJob(ctx, jobID); err != nil {
		s.logger.Warn().Err(err).Str("job_id", jobID.String()).Msg("delete job applications failed")
	}

	s.changed(ctx, events.JobDeleted, p, recruiterID)
	return nil
}

func (s *Service) ListJobApplications(ctx context.Context, recruiterID, jobID uuid.UUID) ([]ApplicantView, error) {
	if err := s.AuthorizeJob(ctx, recruiterID, jobID); err != nil {
		return nil, err
	}

	apps, err := s.applications.ListByJob(ctx, jobID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]ApplicantView, 0, len(apps))
	for _, a := range apps {
		view := ApplicantView{Application: a}
		if acc, err := s.accounts.GetByID(ctx, a.StudentID); err == nil {
			acc = acc.Sanitized()
			view.Student = &acc
		}
		if p, err := s.students.GetByUserID(ctx, a.StudentID); err == nil {
			view.Profile = &p
		}
		out = append(out, view)
	}
	return out, nil
}

// UpdateApplicationStatus advances an application on a posting owned by recruiterID.
func (s *Service) UpdateApplicationStatus(ctx context.Context, recruiterID, applicationID uuid.UUID, status application.Status) (application.Application, error) {
	if !status.Valid() {
		return application.Application{}, ErrInvalidApplicationStatus
	}

	current, err := s.applications.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, ErrInternal
	}
	if err := s.AuthorizeJob(ctx, recruiterID, current.JobID); err != nil {
		return application.Application{}, err
	}

	updated, err := s.applications.Update(ctx, applicationID, func(a *application.Application) error {
		return a.Advance(status, s.now())
	})
	if err != nil {
		switch {
		case errors.Is(err, application.ErrNotFound):
			return application.Application{}, ErrApplicationNotFound
		case errors.Is(err, application.ErrInvalidTransition):
			return application.Application{}, ErrInvalidTransition
		case errors.Is(err, application.ErrInvalidStatus):
			return application.Application{}, ErrInvalidApplicationStatus
		default:
			return application.Application{}, ErrInternal
		}
	}

	s.notifier.Notify(ctx, events.New(events.ApplicationUpdated, updated.ID.String(), recruiterID.String(), map[string]any{
		"job_id": updated.JobID.String(),
		"status": string(updated.Status),
	}))
	return updated, nil
}

func (s *Service) changed(ctx context.Context, eventType string, p job.Posting, actor uuid.UUID) {
	if s.jobList != nil {
		s.jobList.Invalidate(ctx)
	}
	s.notifier.Notify(ctx, events.New(eventType, p.ID.String(), actor.String(), map[string]any{
		"title":  p.Title,
		"status": string(p.Status),
	}))
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
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
