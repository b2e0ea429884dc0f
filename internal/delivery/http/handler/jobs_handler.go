package handler

import (
	"campus-recruit/internal/delivery/http/dto"
	"campus-recruit/internal/delivery/http/middleware"
	"campus-recruit/internal/pkg/response"
	"campus-recruit/internal/usecase"

	"github.com/gofiber/fiber/v3"
)

type JobsHandler struct {
	uc usecase.JobListUsecase
}

func NewJobsHandler(uc usecase.JobListUsecase) *JobsHandler {
	return &JobsHandler{uc: uc}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/jobs", h.ListJobs)
}

// ListJobs returns active postings, optionally narrowed by search, location
// and jobType query parameters.
func (h *JobsHandler) ListJobs(c fiber.Ctx) error {
	params := usecase.JobListParams{
		Search:   c.Query("search"),
		Location: c.Query("location"),
		JobType:  c.Query("jobType"),
	}

	jobs, err := h.uc.ListActive(c.Context(), params)
	if err != nil {
		return middleware.Internal(err)
	}
	return response.Success(c, fiber.StatusOK, "", fiber.Map{"jobs": dto.NewJobResponses(jobs)})
}
