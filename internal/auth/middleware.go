package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/authz"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller with the effective permission
// set resolved from the caller's role.
type Principal struct {
	User        *domain.User
	RoleID      string
	RoleName    string
	Permissions []authz.Code
}

// HasPermission checks the principal's effective set against a required code.
func (p *Principal) HasPermission(required authz.Code) bool {
	if p == nil {
		return false
	}
	return authz.Allowed(p.Permissions, required)
}

// PermissionResolver resolves a role id to its current permission codes.
type PermissionResolver interface {
	PermissionsForRole(ctx context.Context, roleID string) ([]string, error)
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens      *TokenManager
	users       repository.UserRepository
	permissions PermissionResolver
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, permissions PermissionResolver) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, permissions: permissions}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("user not found")
		}
		return apperrors.MapError(err)
	}
	if user.Status != domain.UserStatusActive {
		return apperrors.NewUnauthorized("account inactive")
	}

	codes, err := m.permissions.PermissionsForRole(c.Context(), user.RoleID)
	if err != nil {
		return apperrors.MapError(err)
	}
	permissions := make([]authz.Code, 0, len(codes))
	for _, code := range codes {
		permissions = append(permissions, authz.Code(code))
	}

	c.Locals(principalKey, &Principal{
		User:        user,
		RoleID:      user.RoleID,
		RoleName:    claims.RoleName,
		Permissions: permissions,
	})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
