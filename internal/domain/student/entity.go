package student

import (
	"time"

	"github.com/google/uuid"
)

// Document mirrors a submitted verification on the owning profile.
type Document struct {
	VerificationID uuid.UUID `json:"verification_id"`
	Type           string    `json:"type"`
	URL            string    `json:"url"`
	Status         string    `json:"status"`
	UploadedAt     time.Time `json:"uploaded_at"`
}

type Profile struct {
	ID                    uuid.UUID
	UserID                uuid.UUID
	Skills                []string
	Education             []string
	ResumeURL             *string
	Verified              bool
	VerificationDocuments []Document
	Phone                 *string
	Bio                   *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// Clone returns a deep copy so callers never share slices with a store.
func (p Profile) Clone() Profile {
	out := p
	out.Skills = append([]string(nil), p.Skills...)
	out.Education = append([]string(nil), p.Education...)
	out.VerificationDocuments = append([]Document(nil), p.VerificationDocuments...)
	if p.ResumeURL != nil {
		v := *p.ResumeURL
		out.ResumeURL = &v
	}
	if p.Phone != nil {
		v := *p.Phone
		out.Phone = &v
	}
	if p.Bio != nil {
		v := *p.Bio
		out.Bio = &v
	}
	return out
}

// New returns an empty, unverified profile for the given account.
func New(userID uuid.UUID, now time.Time) Profile {
	return Profile{
		ID:                    uuid.New(),
		UserID:                userID,
		Skills:                []string{},
		Education:             []string{},
		VerificationDocuments: []Document{},
		CreatedAt:             now,
		UpdatedAt:             now,
	}
}
