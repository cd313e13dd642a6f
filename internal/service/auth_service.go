package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AuthService handles credential verification and password recovery.
type AuthService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	resets     repository.PasswordResetRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	resetTTL   time.Duration
	bcryptCost int
}

// NewAuthService constructs the service.
func NewAuthService(users repository.UserRepository, roles repository.RoleRepository, resets repository.PasswordResetRepository, tokens *auth.TokenManager, dispatcher events.Dispatcher, cfg config.AuthConfig) *AuthService {
	return &AuthService{
		users:      users,
		roles:      roles,
		resets:     resets,
		tokens:     tokens,
		dispatcher: dispatcher,
		resetTTL:   time.Duration(cfg.PasswordResetTTLMinutes) * time.Minute,
		bcryptCost: cfg.BcryptCost,
	}
}

// LoginResult carries the signed token and the authenticated user.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
	RoleName  string
}

// Login verifies credentials and issues a signed token. Invalid email and
// invalid password return the same error to avoid account probing.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, apperrors.MapError(err)
	}
	if user.Status != domain.UserStatusActive {
		return nil, apperrors.NewUnauthorized("account is inactive")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid email or password")
	}

	role, err := s.roles.GetByID(ctx, user.RoleID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	token, expiresAt, err := s.tokens.GenerateToken(user.ID, role.ID, role.Name)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		return nil, apperrors.MapError(err)
	}
	user.LastLogin = &now

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user, RoleName: role.Name}, nil
}

// ForgotPassword issues a reset token for the given email. Unknown addresses
// are treated as success so the endpoint does not reveal which accounts exist.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return apperrors.MapError(err)
	}

	token := &repository.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPasswordResetIssued,
			ActorID:   user.ID,
			Timestamp: time.Now(),
			Payload: events.PasswordResetIssuedPayload{
				Email: user.Email,
				Token: token.Token,
			},
		})
	}
	return nil
}

// ResetPassword consumes a reset token and stores a new password hash. A
// token can be used at most once and only before its expiry.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < 8 {
		return apperrors.NewValidationError("password must be at least 8 characters long", nil)
	}

	stored, err := s.resets.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("reset token is invalid or expired", nil)
		}
		return apperrors.MapError(err)
	}
	if stored.UsedAt != nil || time.Now().After(stored.ExpiresAt) {
		return apperrors.NewValidationError("reset token is invalid or expired", nil)
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return apperrors.MapError(err)
	}
	if err := s.resets.MarkUsed(ctx, stored.ID, time.Now()); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}
