package dto

import (
	"time"

	"campus-recruit/internal/domain/application"

	"github.com/google/uuid"
)

type ApplicationResponse struct {
	AppID     uuid.UUID               `json:"app_id"`
	JobID     uuid.UUID               `json:"job_id"`
	StudentID uuid.UUID               `json:"student_id"`
	Status    application.Status      `json:"status"`
	AIScore   *int                    `json:"ai_score,omitempty"`
	AppliedAt time.Time               `json:"applied_at"`
	UpdatedAt time.Time               `json:"updated_at"`
	Job       *JobResponse            `json:"job,omitempty"`
	Student   *UserResponse           `json:"student,omitempty"`
	Profile   *StudentProfileResponse `json:"profile,omitempty"`
}

func NewApplicationResponse(a application.Application) ApplicationResponse {
	return ApplicationResponse{
		AppID:     a.ID,
		JobID:     a.JobID,
		StudentID: a.StudentID,
		Status:    a.Status,
		AIScore:   a.AIScore,
		AppliedAt: a.AppliedAt,
		UpdatedAt: a.UpdatedAt,
	}
}
