package serviceimpl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskboard/domain/dto"
	"taskboard/pkg/apperrors"
	"taskboard/pkg/utils"
)

const testJWTSecret = "test-secret"

func TestAuthService_RegisterAndLogin(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testJWTSecret)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &dto.RegisterRequest{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	require.NotNil(t, reg.User)
	assert.Equal(t, "alice", reg.User.Username)
	assert.Equal(t, "alice@example.com", reg.User.Email, "emails are normalized")

	// The issued token round-trips through validation.
	userCtx, err := utils.ValidateToken(reg.Token, testJWTSecret)
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, userCtx.ID)
	assert.Equal(t, "alice", userCtx.Username)
	assert.Equal(t, "alice@example.com", userCtx.Email)

	login, err := svc.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)
}

func TestAuthService_RegisterConflicts(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testJWTSecret)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "a@example.com", Password: "password-1"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "bob", Email: "a@example.com", Password: "password-1"})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))

	_, err = svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "b@example.com", Password: "password-1"})
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
}

func TestAuthService_LoginRejectsBadCredentials(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testJWTSecret)
	ctx := context.Background()

	_, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "a@example.com", Password: "password-1"})
	require.NoError(t, err)

	// Unknown email and wrong password produce the same error.
	_, badEmail := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "password-1"})
	_, badPass := svc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "wrong"})

	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(badEmail))
	assert.Equal(t, apperrors.MessageOf(badEmail), apperrors.MessageOf(badPass))
}

func TestAuthService_ChangePassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testJWTSecret)
	ctx := context.Background()

	reg, err := svc.Register(ctx, &dto.RegisterRequest{Username: "alice", Email: "a@example.com", Password: "old-password"})
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, reg.User.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "wrong", NewPassword: "new-password",
	})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	require.NoError(t, svc.ChangePassword(ctx, reg.User.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "old-password", NewPassword: "new-password",
	}))

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "new-password"})
	require.NoError(t, err)
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "a@example.com", Password: "old-password"})
	assert.Error(t, err)
}
