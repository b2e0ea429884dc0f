package handler

import (
	"context"
	"errors"
	"fmt"

	"campus-recruit/internal/delivery/http/dto"
	"campus-recruit/internal/delivery/http/middleware"
	"campus-recruit/internal/domain/account"
	"campus-recruit/internal/domain/job"
	"campus-recruit/internal/domain/verification"
	"campus-recruit/internal/pkg/response"
	ucadmin "campus-recruit/internal/usecase/admin"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type AdminUsecase interface {
	ListUsers(ctx context.Context) ([]account.Account, error)
	DeleteUser(ctx context.Context, adminID, userID uuid.UUID) error
	SuspendUser(ctx context.Context, adminID, userID uuid.UUID) (account.Account, error)
	ListVerifications(ctx context.Context, status string) ([]verification.Record, error)
	ReviewVerification(ctx context.Context, adminID, id uuid.UUID, decision verification.Status, notes *string) (verification.Record, error)
	ListJobs(ctx context.Context) ([]job.Posting, error)
	DeleteJob(ctx context.Context, adminID, jobID uuid.UUID) error
	Analytics(ctx context.Context) (ucadmin.Analytics, error)
}

type AdminHandler struct {
	uc AdminUsecase
}

type reviewVerificationRequest struct {
	Status     string  `json:"status" validate:"required,oneof=approved rejected"`
	AdminNotes *string `json:"admin_notes" validate:"omitempty,max=2000"`
}

func NewAdminHandler(uc AdminUsecase) *AdminHandler {
	return &AdminHandler{uc: uc}
}

func (h *AdminHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/users", h.ListUsers)
	r.Delete("/users/:id", h.DeleteUser)
	r.Post("/users/:id/suspend", h.SuspendUser)
	r.Get("/verifications", h.ListVerifications)
	r.Patch("/verifications/:id", h.ReviewVerification)
	r.Get("/jobs", h.ListJobs)
	r.Delete("/jobs/:id", h.DeleteJob)
	r.Get("/analytics", h.Analytics)
}

func (h *AdminHandler) ListUsers(c fiber.Ctx) error {
	users, err := h.uc.ListUsers(c.Context())
	if err != nil {
		return mapAdminUsecaseError(err, "")
	}
	return response.Success(c, fiber.StatusOK, "", fiber.Map{"users": dto.NewUserResponses(users)})
}

func (h *AdminHandler) DeleteUser(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	userID, err := pathID(c, "id", "User not found")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteUser(c.Context(), p.AccountID, userID); err != nil {
		return mapAdminUsecaseError(err, "delete")
	}
	return response.Success(c, fiber.StatusOK, "User deleted successfully", nil)
}

func (h *AdminHandler) SuspendUser(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	userID, err := pathID(c, "id", "User not found")
	if err != nil {
		return err
	}

	acc, err := h.uc.SuspendUser(c.Context(), p.AccountID, userID)
	if err != nil {
		return mapAdminUsecaseError(err, "suspend")
	}
	return response.Success(c, fiber.StatusOK, "User suspended successfully", fiber.Map{"user": dto.NewUserResponse(acc)})
}

func (h *AdminHandler) ListVerifications(c fiber.Ctx) error {
	recs, err := h.uc.ListVerifications(c.Context(), c.Query("status"))
	if err != nil {
		return mapAdminUsecaseError(err, "")
	}
	return response.Success(c, fiber.StatusOK, "", fiber.Map{"verifications": dto.NewVerificationResponses(recs)})
}

func (h *AdminHandler) ReviewVerification(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id", "Verification not found")
	if err != nil {
		return err
	}

	var req reviewVerificationRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if err := validateBody(req); err != nil {
		return middleware.BadRequest("Invalid status", err)
	}

	rec, err := h.uc.ReviewVerification(c.Context(), p.AccountID, id, verification.Status(req.Status), req.AdminNotes)
	if err != nil {
		return mapAdminUsecaseError(err, "")
	}
	return response.Success(c, fiber.StatusOK, fmt.Sprintf("Verification %s successfully", rec.Status), fiber.Map{
		"verification": dto.NewVerificationResponse(rec),
	})
}

func (h *AdminHandler) ListJobs(c fiber.Ctx) error {
	jobs, err := h.uc.ListJobs(c.Context())
	if err != nil {
		return mapAdminUsecaseError(err, "")
	}
	return response.Success(c, fiber.StatusOK, "", fiber.Map{"jobs": dto.NewJobResponses(jobs)})
}

func (h *AdminHandler) DeleteJob(c fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	jobID, err := pathID(c, "id", "Job not found")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteJob(c.Context(), p.AccountID, jobID); err != nil {
		return mapAdminUsecaseError(err, "")
	}
	return response.Success(c, fiber.StatusOK, "Job deleted successfully", nil)
}

func (h *AdminHandler) Analytics(c fiber.Ctx) error {
	stats, err := h.uc.Analytics(c.Context())
	if err != nil {
		return mapAdminUsecaseError(err, "")
	}
	return response.Success(c, fiber.StatusOK, "", fiber.Map{"analytics": stats})
}

// mapAdminUsecaseError renders usecase errors; action names the user
// operation for the self and admin-target guards.
func mapAdminUsecaseError(err error, action string) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ucadmin.ErrSelfAction):
		return middleware.BadRequest(fmt.Sprintf("Cannot %s your own account", action), err)
	case errors.Is(err, ucadmin.ErrTargetIsAdmin):
		return middleware.Forbidden(fmt.Sprintf("Cannot %s admin accounts", action), err)
	case errors.Is(err, ucadmin.ErrUserNotFound):
		return middleware.NotFound("User not found", err)
	case errors.Is(err, ucadmin.ErrInvalidStatus):
		return middleware.BadRequest("Invalid status", err)
	case errors.Is(err, ucadmin.ErrVerificationNotFound):
		return middleware.NotFound("Verification not found", err)
	case errors.Is(err, ucadmin.ErrAlreadyReviewed):
		return middleware.Conflict("Verification already reviewed", err)
	case errors.Is(err, ucadmin.ErrJobNotFound):
		return middleware.NotFound("Job not found", err)
	default:
		return middleware.Internal(err)
	}
}
