package handler

import (
	"context"
	"errors"

	"campus-recruit/internal/delivery/http/dto"
	"campus-recruit/internal/delivery/http/middleware"
	"campus-recruit/internal/domain/application"
	"campus-recruit/internal/domain/job"
	"campus-recruit/internal/pkg/response"
	ucrecruiter "campus-recruit/internal/usecase/recruiter"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type RecruiterUsecase interface {
	ListJobs(ctx context.Context, recruiterID uuid.UUID) ([]job.Posting, error)
	CreateJob(ctx context.Context, recruiterID uuid.UUID, in ucrecruiter.JobInput) (job.Posting, error)
	AuthorizeJob(ctx context.Context, recruiterID, jobID uuid.UUID) error
	UpdateJob(ctx context.Context, recruiterID, jobID uuid.UUID, in ucrecruiter.JobUpdate) (job.Posting, error)
	DeleteJob(ctx context.Context, recruiterID, jobID uuid.UUID) error
	ListJobApplications(ctx context.Context, recruiterID, jobID uuid.UUID) ([]ucrecruiter.ApplicantView, error)
	UpdateApplicationStatus(ctx context.Context, recruiterID, applicationID uuid.UUID, status application.Status) (application.Application, error)
}

type RecruiterHandler struct {
	uc RecruiterUsecase
}

type createJobRequest struct {
	Title        string   `json:"title" validate:"max=200"`
	Description  string   `json:"description" validate:"max=10000"`
	Requirements []string `json:"requirements" validate:"max=50"`
	Location     *string  `json:"location" validate:"omitempty,max=200"`
	JobType      *string  `json:"jobType" validate:"omitempty,max=50"`
	Salary       *string  `json:"salary" validate:"omitempty,max=100"`
}

type updateJobRequest struct {
	Title        *string   `json:"title" validate:"omitempty,max=200"`
	Description  *string   `json:"description" validate:"omitempty,max=10000"`
	Requirements *[]string `json:"requirements" validate:"omitempty,max=50"`
	Location     *string   `json:"location" validate:"omitempty,max=200"`
	JobType      *string   `json:"jobType" validate:"omitempty,max=50"`
	Salary       *string   `json:"salary" validate:"omitempty,max=100"`
	Status       *string   `json:"status"`
}

type updateApplicationRequest struct {
	Status string `json:"status"`
}

func NewRecruiterHandler(uc RecruiterUsecase) *RecruiterHandler {
	return &RecruiterHandler{uc: uc}
}

// RegisterRoutes mounts the recruiter API. role admits any recruiter; owner
// additionally requires the recruiter to own the job named by :id.
func (h *RecruiterHandler) RegisterRoutes(r fiber.Router, role, owner fiber.Handler) {
	if r == nil || role == nil || owner == nil {
		return
	}

	r.Get("/jobs", role, h.ListJobs)
	r.Post("/jobs", role, h.CreateJob)
	r.Patch("/jobs/:id", owner, h.UpdateJob)
	r.Put("/jobs/:id", owner, h.UpdateJob)
	r.Delete("/jobs/:id", owner, h.DeleteJob)
	r.Get("/jobs/:id/applications", owner, h.ListJobApplications)
	r.Patch("/applications/:id", role, h.UpdateApplicationStatus)
}

// OwnsJob is the ownership predicate for job routes, run after the role check.
func (h *RecruiterHandler) OwnsJob(c fiber.Ctx, p middleware.Principal) error {
	jobID, err := pathID(c, "id", "Job not found")
	if err != nil {
		return err
	}
	if err := h.uc.AuthorizeJob(c.Context(), p.AccountID, jobID); err != nil {
		return mapRecruiterUsecaseError(err, notOwnerMessage(c.Method()))
	}
	return nil
}

func (h *RecruiterHandler) ListJobs(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	jobs, err := h.uc.ListJobs(c.Context(), p.AccountID)
	if err != nil {
		return mapRecruiterUsecaseError(err, "")
	}
	return response.Success(c, fiber.StatusOK, "", fiber.Map{"jobs": dto.NewJobResponses(jobs)})
}

func (h *RecruiterHandler) CreateJob(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req createJobRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := validateBody(req); err != nil {
		return err
	}

	created, err := h.uc.CreateJob(c.Context(), p.AccountID, ucrecruiter.JobInput{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Location:     req.Location,
		JobType:      req.JobType,
		Salary:       req.Salary,
	})
	if err != nil {
		return mapRecruiterUsecaseError(err, "")
	}
	return response.Success(c, fiber.StatusCreated, "Job posted successfully", fiber.Map{"job": dto.NewJobResponse(created)})
}

func (h *RecruiterHandler) UpdateJob(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	jobID, err := pathID(c, "id", "Job not found")
	if err != nil {
		return err
	}

	var req updateJobRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := validateBody(req); err != nil {
		return err
	}

	in := ucrecruiter.JobUpdate{
		Title:        req.Title,
		Description:  req.Description,
		Requirements: req.Requirements,
		Location:     req.Location,
		JobType:      req.JobType,
		Salary:       req.Salary,
	}
	if req.Status != nil {
		st := job.Status(*req.Status)
		in.Status = &st
	}

	updated, err := h.uc.UpdateJob(c.Context(), p.AccountID, jobID, in)
	if err != nil {
		return mapRecruiterUsecaseError(err, "Unauthorized to modify this job")
	}
	return response.Success(c, fiber.StatusOK, "Job updated successfully", fiber.Map{"job": dto.NewJobResponse(updated)})
}

func (h *RecruiterHandler) DeleteJob(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	jobID, err := pathID(c, "id", "Job not found")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteJob(c.Context(), p.AccountID, jobID); err != nil {
		return mapRecruiterUsecaseError(err, "Unauthorized to delete this job")
	}
	return response.Success(c, fiber.StatusOK, "Job deleted successfully", nil)
}

func (h *RecruiterHandler) ListJobApplications(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	jobID, err := pathID(c, "id", "Job not found")
	if err != nil {
		return err
	}

	views, err := h.uc.ListJobApplications(c.Context(), p.AccountID, jobID)
	if err != nil {
		return mapRecruiterUsecaseError(err, "Unauthorized to view this job")
	}

	out := make([]dto.ApplicationResponse, 0, len(views))
	for _, v := range views {
		item := dto.NewApplicationResponse(v.Application)
		if v.Student != nil {
			u := dto.NewUserResponse(*v.Student)
			item.Student = &u
		}
		item.Profile = dto.NewStudentProfileResponse(v.Profile)
		out = append(out, item)
	}
	return response.Success(c, fiber.StatusOK, "", fiber.Map{"applications": out})
}

func (h *RecruiterHandler) UpdateApplicationStatus(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	appID, err := pathID(c, "id", "Application not found")
	if err != nil {
		return err
	}

	var req updateApplicationRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}

	updated, err := h.uc.UpdateApplicationStatus(c.Context(), p.AccountID, appID, application.Status(req.Status))
	if err != nil {
		return mapRecruiterUsecaseError(err, "Unauthorized to modify this application")
	}
	return response.Success(c, fiber.StatusOK, "Application updated successfully", fiber.Map{
		"application": dto.NewApplicationResponse(updated),
	})
}

func notOwnerMessage(method string) string {
	switch method {
	case fiber.MethodDelete:
		return "Unauthorized to delete this job"
	case fiber.MethodGet:
		return "Unauthorized to view this job"
	default:
		return "Unauthorized to modify this job"
	}
}

func mapRecruiterUsecaseError(err error, forbidden string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ucrecruiter.ErrMissingJobFields):
		return middleware.BadRequest("Title, description, and requirements are required", err)
	case errors.Is(err, ucrecruiter.ErrInvalidJobStatus):
		return middleware.BadRequest("Invalid status", err)
	case errors.Is(err, ucrecruiter.ErrJobNotFound):
		return middleware.NotFound("Job not found", err)
	case errors.Is(err, ucrecruiter.ErrNotJobOwner):
		return middleware.Forbidden(forbidden, err)
	case errors.Is(err, ucrecruiter.ErrApplicationNotFound):
		return middleware.NotFound("Application not found", err)
	case errors.Is(err, ucrecruiter.ErrInvalidApplicationStatus):
		return middleware.BadRequest("Invalid status", err)
	case errors.Is(err, ucrecruiter.ErrInvalidTransition):
		return middleware.Conflict("Invalid status transition", err)
	default:
		return middleware.Internal(err)
	}
}
