package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

type authFixture struct {
	service *AuthService
	users   *fakeUserRepo
	resets  *fakeResetRepo
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	users := newFakeUserRepo()
	roles := newFakeRoleRepo()
	resets := newFakeResetRepo()

	role := &domain.Role{Name: "ENGINEER", Permissions: []string{"view_ticket"}}
	require.NoError(t, roles.Create(context.Background(), role))

	hash, err := auth.HashPassword("correct-horse-battery", 4)
	require.NoError(t, err)
	users.add(domain.User{
		ID:           "user-1",
		Name:         "Dana",
		Email:        "dana@example.com",
		PasswordHash: hash,
		RoleID:       role.ID,
	})

	tokens := auth.NewTokenManager("test-secret", 60)
	svc := NewAuthService(users, roles, resets, tokens, nil, config.AuthConfig{
		PasswordResetTTLMinutes: 30,
		BcryptCost:              4,
	})
	return &authFixture{service: svc, users: users, resets: resets}
}

func TestLogin(t *testing.T) {
	t.Run("issues token and records last login", func(t *testing.T) {
		fx := newAuthFixture(t)

		result, err := fx.service.Login(context.Background(), "dana@example.com", "correct-horse-battery")
		require.NoError(t, err)
		assert.NotEmpty(t, result.Token)
		assert.Equal(t, "ENGINEER", result.RoleName)
		assert.NotNil(t, result.User.LastLogin)
	})

	t.Run("wrong password", func(t *testing.T) {
		fx := newAuthFixture(t)

		_, err := fx.service.Login(context.Background(), "dana@example.com", "wrong")
		assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
	})

	t.Run("unknown email gets the same error", func(t *testing.T) {
		fx := newAuthFixture(t)

		_, err := fx.service.Login(context.Background(), "ghost@example.com", "whatever")
		assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
	})

	t.Run("inactive account", func(t *testing.T) {
		fx := newAuthFixture(t)
		fx.users.users["user-1"].Status = domain.UserStatusInactive

		_, err := fx.service.Login(context.Background(), "dana@example.com", "correct-horse-battery")
		assert.True(t, apperrors.IsCode(err, "UNAUTHORIZED"))
	})
}

func TestPasswordReset(t *testing.T) {
	t.Run("full flow", func(t *testing.T) {
		fx := newAuthFixture(t)

		require.NoError(t, fx.service.ForgotPassword(context.Background(), "dana@example.com"))
		require.Len(t, fx.resets.tokens, 1)

		var token string
		for _, stored := range fx.resets.tokens {
			token = stored.Token
		}

		require.NoError(t, fx.service.ResetPassword(context.Background(), token, "brand-new-password"))

		_, err := fx.service.Login(context.Background(), "dana@example.com", "brand-new-password")
		assert.NoError(t, err)

		// Consumed tokens cannot be replayed.
		err = fx.service.ResetPassword(context.Background(), token, "another-password-1")
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("unknown email is silent", func(t *testing.T) {
		fx := newAuthFixture(t)

		assert.NoError(t, fx.service.ForgotPassword(context.Background(), "ghost@example.com"))
		assert.Empty(t, fx.resets.tokens)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		fx := newAuthFixture(t)

		require.NoError(t, fx.service.ForgotPassword(context.Background(), "dana@example.com"))
		for _, stored := range fx.resets.tokens {
			stored.ExpiresAt = time.Now().Add(-time.Minute)
			err := fx.service.ResetPassword(context.Background(), stored.Token, "brand-new-password")
			assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
		}
	})

	t.Run("short replacement password rejected", func(t *testing.T) {
		fx := newAuthFixture(t)

		err := fx.service.ResetPassword(context.Background(), "irrelevant", "short")
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})
}
