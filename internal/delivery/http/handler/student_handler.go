package handler

import (
	"context"
	"errors"

	"campus-recruit/internal/delivery/http/dto"
	"campus-recruit/internal/delivery/http/middleware"
	"campus-recruit/internal/domain/application"
	"campus-recruit/internal/domain/verification"
	"campus-recruit/internal/pkg/response"
	"campus-recruit/internal/upload"
	ucstudent "campus-recruit/internal/usecase/student"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type StudentUsecase interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (ucstudent.ProfileView, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, in ucstudent.ProfileUpdate) (ucstudent.ProfileView, error)
	UploadDocument(ctx context.Context, userID uuid.UUID, documentType string, f upload.File) (verification.Record, error)
	ListDocuments(ctx context.Context, userID uuid.UUID) ([]verification.Record, error)
	UploadResume(ctx context.Context, userID uuid.UUID, f upload.File) (string, error)
	Apply(ctx context.Context, userID, jobID uuid.UUID) (application.Application, error)
	ListApplications(ctx context.Context, userID uuid.UUID) ([]ucstudent.ApplicationView, error)
}

type StudentHandler struct {
	uc StudentUsecase
}

type updateProfileRequest struct {
	Name      *string   `json:"name" validate:"omitempty,min=1,max=120"`
	Phone     *string   `json:"phone" validate:"omitempty,max=32"`
	Bio       *string   `json:"bio" validate:"omitempty,max=2000"`
	Skills    *[]string `json:"skills" validate:"omitempty,max=50"`
	Education *[]string `json:"education" validate:"omitempty,max=20"`
}

func NewStudentHandler(uc StudentUsecase) *StudentHandler {
	return &StudentHandler{uc: uc}
}

func (h *StudentHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/profile", h.GetProfile)
	r.Put("/profile", h.UpdateProfile)
	r.Get("/documents", h.ListDocuments)
	r.Post("/documents", h.UploadDocument)
	r.Post("/resume", h.UploadResume)
	r.Post("/jobs/:id/apply", h.Apply)
	r.Get("/applications", h.ListApplications)
}

func (h *StudentHandler) GetProfile(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	view, err := h.uc.GetProfile(c.Context(), p.AccountID)
	if err != nil {
		return mapStudentUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "", profilePayload(view))
}

func (h *StudentHandler) UpdateProfile(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	var req updateProfileRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := validateBody(req); err != nil {
		return err
	}

	view, err := h.uc.UpdateProfile(c.Context(), p.AccountID, ucstudent.ProfileUpdate{
		Name:      req.Name,
		Phone:     req.Phone,
		Bio:       req.Bio,
		Skills:    req.Skills,
		Education: req.Education,
	})
	if err != nil {
		return mapStudentUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Profile updated successfully", profilePayload(view))
}

func (h *StudentHandler) UploadDocument(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	f, err := formFile(c, "document", upload.DocumentPolicy)
	if err != nil {
		return mapStudentUsecaseError(err)
	}

	rec, err := h.uc.UploadDocument(c.Context(), p.AccountID, c.FormValue("documentType"), f)
	if err != nil {
		return mapStudentUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Document uploaded successfully", fiber.Map{
		"verification": dto.NewVerificationResponse(rec),
	})
}

func (h *StudentHandler) ListDocuments(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	recs, err := h.uc.ListDocuments(c.Context(), p.AccountID)
	if err != nil {
		return mapStudentUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "", fiber.Map{"documents": dto.NewVerificationResponses(recs)})
}

func (h *StudentHandler) UploadResume(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	f, err := formFile(c, "resume", upload.ResumePolicy)
	if err != nil {
		return mapStudentUsecaseError(err)
	}

	url, err := h.uc.UploadResume(c.Context(), p.AccountID, f)
	if err != nil {
		return mapStudentUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Resume uploaded successfully", fiber.Map{"resume_url": url})
}

func (h *StudentHandler) Apply(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	jobID, err := pathID(c, "id", "Job not found")
	if err != nil {
		return err
	}

	app, err := h.uc.Apply(c.Context(), p.AccountID, jobID)
	if err != nil {
		return mapStudentUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Application submitted successfully", fiber.Map{
		"application": dto.NewApplicationResponse(app),
	})
}

func (h *StudentHandler) ListApplications(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	views, err := h.uc.ListApplications(c.Context(), p.AccountID)
	if err != nil {
		return mapStudentUsecaseError(err)
	}

	out := make([]dto.ApplicationResponse, 0, len(views))
	for _, v := range views {
		item := dto.NewApplicationResponse(v.Application)
		if v.Job != nil {
			j := dto.NewJobResponse(*v.Job)
			item.Job = &j
		}
		out = append(out, item)
	}
	return response.Success(c, fiber.StatusOK, "", fiber.Map{"applications": out})
}

func profilePayload(view ucstudent.ProfileView) fiber.Map {
	return fiber.Map{
		"user": fiber.Map{
			"id":    view.Account.ID,
			"name":  view.Account.Name,
			"email": view.Account.Email,
			"role":  view.Account.Role,
		},
		"profile": dto.NewStudentProfileResponse(view.Profile),
	}
}

func mapStudentUsecaseError(err error) error {
	if err == nil {
		return nil
	}
	if appErr := asRejection(err); appErr != nil {
		return appErr
	}
	var appErr *middleware.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, ucstudent.ErrUserNotFound):
		return middleware.NotFound("User not found", err)
	case errors.Is(err, ucstudent.ErrDocumentTypeMissing):
		return middleware.BadRequest("File and document type are required", err)
	case errors.Is(err, ucstudent.ErrJobNotFound):
		return middleware.NotFound("Job not found", err)
	case errors.Is(err, ucstudent.ErrJobClosed):
		return middleware.BadRequest("Job is no longer accepting applications", err)
	case errors.Is(err, ucstudent.ErrAlreadyApplied):
		return middleware.Conflict("You have already applied to this job", err)
	default:
		return middleware.Internal(err)
	}
}
