package serviceimpl

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"taskboard/domain/dto"
	"taskboard/domain/models"
	"taskboard/domain/repositories"
	"taskboard/domain/services"
	"taskboard/pkg/apperrors"
	"taskboard/pkg/logger"
	"taskboard/pkg/utils"
)

type authServiceImpl struct {
	userRepo  repositories.UserRepository
	jwtSecret string
}

func NewAuthService(userRepo repositories.UserRepository, jwtSecret string) services.AuthService {
	return &authServiceImpl{
		userRepo:  userRepo,
		jwtSecret: jwtSecret,
	}
}

func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	if existing, err := s.userRepo.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.Conflict("Email is already registered")
	}
	if existing, err := s.userRepo.GetByUsername(ctx, req.Username); err == nil && existing != nil {
		return nil, apperrors.Conflict("Username is already taken")
	}

	user := &models.User{
		Username: req.Username,
		Email:    email,
		FullName: req.FullName,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.Internal("failed to create user", err)
	}

	logger.InfoContext(ctx, "user registered", "user_id", user.ID, "username", user.Username)

	return s.issueToken(user)
}

func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil || user == nil {
		// Same response for unknown email and wrong password.
		return nil, apperrors.Validation("Invalid email or password")
	}

	if !user.CheckPassword(req.Password) {
		return nil, apperrors.Validation("Invalid email or password")
	}

	logger.InfoContext(ctx, "user logged in", "user_id", user.ID)

	return s.issueToken(user)
}

func (s *authServiceImpl) ChangePassword(ctx context.Context, userID uuid.UUID, req *dto.ChangePasswordRequest) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil || user == nil {
		return apperrors.NotFound("User not found")
	}

	if !user.CheckPassword(req.CurrentPassword) {
		return apperrors.Validation("Current password is incorrect")
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return apperrors.Internal("failed to hash password", err)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return apperrors.Internal("failed to update password", err)
	}

	logger.InfoContext(ctx, "password changed", "user_id", userID)
	return nil
}

func (s *authServiceImpl) issueToken(user *models.User) (*dto.AuthResponse, error) {
	token, err := utils.GenerateToken(user.ID, user.Username, user.Email, s.jwtSecret)
	if err != nil {
		return nil, apperrors.Internal("failed to sign token", err)
	}

	return &dto.AuthResponse{
		Token: token,
		User:  dto.ToUserResponse(user),
	}, nil
}
