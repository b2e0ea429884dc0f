package dto

import (
	"time"

	"campus-recruit/internal/domain/account"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID        uuid.UUID    `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Role      account.Role `json:"role"`
	Suspended bool         `json:"suspended"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func NewUserResponse(a account.Account) UserResponse {
	return UserResponse{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      a.Role,
		Suspended: a.Suspended,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func NewUserResponses(in []account.Account) []UserResponse {
	out := make([]UserResponse, 0, len(in))
	for _, a := range in {
		out = append(out, NewUserResponse(a))
	}
	return out
}
