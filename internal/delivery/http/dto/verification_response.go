package dto

import (
	"time"

	"campus-recruit/internal/domain/verification"

	"github.com/google/uuid"
)

type VerificationResponse struct {
	VerifyID     uuid.UUID           `json:"verify_id"`
	StudentID    uuid.UUID           `json:"student_id"`
	UserID       uuid.UUID           `json:"user_id"`
	DocumentType string              `json:"document_type"`
	DocURL       string              `json:"doc_url"`
	Status       verification.Status `json:"status"`
	AdminNotes   *string             `json:"admin_notes,omitempty"`
	ReviewedBy   *uuid.UUID          `json:"reviewed_by,omitempty"`
	ReviewedAt   *time.Time          `json:"reviewed_at,omitempty"`
	SubmittedAt  time.Time           `json:"submitted_at"`
}

func NewVerificationResponse(r verification.Record) VerificationResponse {
	return VerificationResponse{
		VerifyID:     r.ID,
		StudentID:    r.StudentID,
		UserID:       r.UserID,
		DocumentType: r.DocumentType,
		DocURL:       r.DocURL,
		Status:       r.Status,
		AdminNotes:   r.AdminNotes,
		ReviewedBy:   r.ReviewedBy,
		ReviewedAt:   r.ReviewedAt,
		SubmittedAt:  r.SubmittedAt,
	}
}

func NewVerificationResponses(in []verification.Record) []VerificationResponse {
	out := make([]VerificationResponse, 0, len(in))
	for _, r := range in {
		out = append(out, NewVerificationResponse(r))
	}
	return out
}
