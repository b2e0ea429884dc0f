package dto

import (
	"time"

	"campus-recruit/internal/domain/student"

	"github.com/google/uuid"
)

type StudentProfileResponse struct {
	StudentID             uuid.UUID          `json:"student_id"`
	UserID                uuid.UUID          `json:"user_id"`
	Skills                []string           `json:"skills"`
	Education             []string           `json:"education"`
	ResumeURL             *string            `json:"resume_url,omitempty"`
	Verified              bool               `json:"verified"`
	VerificationDocuments []student.Document `json:"verification_documents"`
	Phone                 *string            `json:"phone,omitempty"`
	Bio                   *string            `json:"bio,omitempty"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

// NewStudentProfileResponse returns nil for a missing profile so it renders as null.
func NewStudentProfileResponse(p *student.Profile) *StudentProfileResponse {
	if p == nil {
		return nil
	}
	docs := p.VerificationDocuments
	if docs == nil {
		docs = []student.Document{}
	}
	return &StudentProfileResponse{
		StudentID:             p.ID,
		UserID:                p.UserID,
		Skills:                nonNil(p.Skills),
		Education:             nonNil(p.Education),
		ResumeURL:             p.ResumeURL,
		Verified:              p.Verified,
		VerificationDocuments: docs,
		Phone:                 p.Phone,
		Bio:                   p.Bio,
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
