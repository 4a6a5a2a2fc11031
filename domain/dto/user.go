package dto

import (
	"time"

	"github.com/google/uuid"
)

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName,omitempty"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type UpdateProfileRequest struct {
	FullName  *string `json:"fullName" validate:"omitempty,max=255"`
	AvatarURL *string `json:"avatarUrl" validate:"omitempty,url"`
}

type SearchUsersRequest struct {
	Query string `query:"q" validate:"required,min=2,max=100"`
	PaginationRequest
}
