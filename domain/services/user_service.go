package services

import (
	"context"

	"github.com/google/uuid"

	"taskboard/domain/dto"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	Search(ctx context.Context, req *dto.SearchUsersRequest) ([]*dto.UserResponse, int64, error)
}
