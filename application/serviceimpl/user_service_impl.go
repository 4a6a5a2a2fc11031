package serviceimpl

import (
	"context"

	"github.com/google/uuid"

	"taskboard/domain/dto"
	"taskboard/domain/repositories"
	"taskboard/domain/services"
	"taskboard/pkg/apperrors"
)

type userServiceImpl struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) services.UserService {
	return &userServiceImpl{userRepo: userRepo}
}

func (s *userServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return nil, apperrors.NotFound("User not found")
	}
	return dto.ToUserResponse(user), nil
}

func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return nil, apperrors.NotFound("User not found")
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, apperrors.Internal("failed to update profile", err)
	}

	return dto.ToUserResponse(user), nil
}

func (s *userServiceImpl) Search(ctx context.Context, req *dto.SearchUsersRequest) ([]*dto.UserResponse, int64, error) {
	req.Normalize()

	users, total, err := s.userRepo.Search(ctx, req.Query, req.Offset(), req.Limit)
	if err != nil {
		return nil, 0, apperrors.Internal("failed to search users", err)
	}

	return dto.ToUserResponses(users), total, nil
}
