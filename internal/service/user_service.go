package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/authz"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// defaultNewUserRole is assigned when account creation names no role.
const defaultNewUserRole = authz.RoleEngineer

// UserService manages staff accounts.
type UserService struct {
	users      repository.UserRepository
	roles      repository.RoleRepository
	bcryptCost int
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, roles repository.RoleRepository, bcryptCost int) *UserService {
	return &UserService{users: users, roles: roles, bcryptCost: bcryptCost}
}

// UserCreateInput describes account creation payload.
type UserCreateInput struct {
	Name     string
	Email    string
	Password string
	Contact  *string
	RoleID   string
}

// UserUpdateInput is a field-level patch. Nil fields are untouched.
type UserUpdateInput struct {
	Name     *string
	Email    *string
	Password *string
	Contact  *string
	Status   *domain.UserStatus
	RoleID   *string
}

// CreateUser stores a new account with a hashed password. Emails are unique
// case-insensitively.
func (s *UserService) CreateUser(ctx context.Context, input UserCreateInput) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if len(input.Password) < 8 {
		return nil, apperrors.NewValidationError("password must be at least 8 characters long", nil)
	}

	if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil {
		return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	roleID := input.RoleID
	if roleID == "" {
		// No explicit role: provision with the built-in default.
		role, err := s.roles.GetByName(ctx, defaultNewUserRole)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("default role is not provisioned",
					map[string]any{"role": defaultNewUserRole})
			}
			return nil, apperrors.MapError(err)
		}
		roleID = role.ID
	} else if _, err := s.roles.GetByID(ctx, roleID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewValidationError("role does not exist", map[string]any{"role_id": roleID})
		}
		return nil, apperrors.MapError(err)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        email,
		PasswordHash: hash,
		Contact:      input.Contact,
		Status:       domain.UserStatusActive,
		RoleID:       roleID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// UpdateUser applies a patch to an existing account.
func (s *UserService) UpdateUser(ctx context.Context, id string, patch UserUpdateInput) (*domain.User, error) {
	user, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Name != nil {
		user.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*patch.Email))
		if email != user.Email {
			if existing, err := s.users.GetByEmail(ctx, email); err == nil && existing != nil && existing.ID != user.ID {
				return nil, apperrors.NewConflict("email already registered", map[string]any{"email": email})
			} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.MapError(err)
			}
			user.Email = email
		}
	}
	if patch.Password != nil {
		if len(*patch.Password) < 8 {
			return nil, apperrors.NewValidationError("password must be at least 8 characters long", nil)
		}
		hash, err := auth.HashPassword(*patch.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
	}
	if patch.Contact != nil {
		user.Contact = patch.Contact
	}
	if patch.Status != nil {
		user.Status = *patch.Status
	}
	if patch.RoleID != nil {
		if _, err := s.roles.GetByID(ctx, *patch.RoleID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewValidationError("role does not exist", map[string]any{"role_id": *patch.RoleID})
			}
			return nil, apperrors.MapError(err)
		}
		user.RoleID = *patch.RoleID
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// GetUser fetches an account by ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUser(ctx, id)
}

// ListUsers returns a filtered account page.
func (s *UserService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, int64, error) {
	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return users, total, nil
}

func (s *UserService) getUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return user, nil
}
