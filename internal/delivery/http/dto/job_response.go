package dto

import (
	"time"

	"campus-recruit/internal/domain/job"

	"github.com/google/uuid"
)

type JobResponse struct {
	JobID        uuid.UUID   `json:"job_id"`
	RecruiterID  uuid.UUID   `json:"recruiter_id"`
	Title        string      `json:"title"`
	Description  string      `json:"description"`
	Requirements []string    `json:"requirements"`
	Location     *string     `json:"location,omitempty"`
	JobType      *string     `json:"jobType,omitempty"`
	Salary       *string     `json:"salary,omitempty"`
	Applicants   []uuid.UUID `json:"applicants"`
	Status       job.Status  `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func NewJobResponse(p job.Posting) JobResponse {
	reqs := p.Requirements
	if reqs == nil {
		reqs = []string{}
	}
	applicants := p.Applicants
	if applicants == nil {
		applicants = []uuid.UUID{}
	}
	return JobResponse{
		JobID:        p.ID,
		RecruiterID:  p.RecruiterID,
		Title:        p.Title,
		Description:  p.Description,
		Requirements: reqs,
		Location:     p.Location,
		JobType:      p.JobType,
		Salary:       p.Salary,
		Applicants:   applicants,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func NewJobResponses(in []job.Posting) []JobResponse {
	out := make([]JobResponse, 0, len(in))
	for _, p := range in {
		out = append(out, NewJobResponse(p))
	}
	return out
}
