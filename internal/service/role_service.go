package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/authz"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// RoleService manages role records and their permission sets.
type RoleService struct {
	roles repository.RoleRepository
	users repository.UserRepository
	cache *persistence.RoleCache
}

// NewRoleService constructs the service.
func NewRoleService(roles repository.RoleRepository, users repository.UserRepository, cache *persistence.RoleCache) *RoleService {
	return &RoleService{roles: roles, users: users, cache: cache}
}

// RoleInput describes role creation and update payloads.
type RoleInput struct {
	Name        string
	Description *string
	Permissions []string
}

// CreateRole validates the permission set against the registry and stores the
// role. Role names are unique.
func (s *RoleService) CreateRole(ctx context.Context, input RoleInput) (*domain.Role, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("role name is required", nil)
	}
	if err := validatePermissions(input.Permissions); err != nil {
		return nil, err
	}

	if existing, err := s.roles.GetByName(ctx, name); err == nil && existing != nil {
		return nil, apperrors.NewConflict("role name already exists", map[string]any{"name": name})
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.MapError(err)
	}

	role := &domain.Role{
		Name:        name,
		Description: input.Description,
		Permissions: dedupe(input.Permissions),
	}
	if err := s.roles.Create(ctx, role); err != nil {
		return nil, apperrors.MapError(err)
	}
	return role, nil
}

// UpdateRole replaces a role's fields and invalidates its cached permission
// set so subsequent requests see the change.
func (s *RoleService) UpdateRole(ctx context.Context, id string, input RoleInput) (*domain.Role, error) {
	role, err := s.getRole(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" && name != role.Name {
		if existing, err := s.roles.GetByName(ctx, name); err == nil && existing != nil && existing.ID != role.ID {
			return nil, apperrors.NewConflict("role name already exists", map[string]any{"name": name})
		} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
		role.Name = name
	}
	if input.Description != nil {
		role.Description = input.Description
	}
	if input.Permissions != nil {
		if err := validatePermissions(input.Permissions); err != nil {
			return nil, err
		}
		role.Permissions = dedupe(input.Permissions)
	}

	if err := s.roles.Update(ctx, role); err != nil {
		return nil, apperrors.MapError(err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, role.ID)
	}
	return role, nil
}

// DeleteRole removes a role unless users are still attached to it.
func (s *RoleService) DeleteRole(ctx context.Context, id string) error {
	role, err := s.getRole(ctx, id)
	if err != nil {
		return err
	}

	inUse, err := s.users.CountByRole(ctx, role.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if inUse > 0 {
		return apperrors.NewConflict("role is assigned to users",
			map[string]any{"role_id": role.ID, "user_count": inUse})
	}

	if err := s.roles.Delete(ctx, role.ID); err != nil {
		return apperrors.MapError(err)
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, role.ID)
	}
	return nil
}

// GetRole fetches a role by ID.
func (s *RoleService) GetRole(ctx context.Context, id string) (*domain.Role, error) {
	return s.getRole(ctx, id)
}

// ListRoles returns a filtered role page.
func (s *RoleService) ListRoles(ctx context.Context, filter repository.RoleFilter) ([]domain.Role, int64, error) {
	roles, total, err := s.roles.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return roles, total, nil
}

// PermissionGroup is a named slice of the permission catalog for display.
type PermissionGroup struct {
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// PermissionCatalog returns every known permission code grouped by concern.
func (s *RoleService) PermissionCatalog() []PermissionGroup {
	groups := authz.Groups()
	names := authz.GroupNames()
	out := make([]PermissionGroup, 0, len(names))
	for _, name := range names {
		codes := groups[name]
		perms := make([]string, 0, len(codes))
		for _, code := range codes {
			perms = append(perms, string(code))
		}
		out = append(out, PermissionGroup{Name: name, Permissions: perms})
	}
	return out
}

func (s *RoleService) getRole(ctx context.Context, id string) (*domain.Role, error) {
	role, err := s.roles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("role", map[string]any{"role_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return role, nil
}

func validatePermissions(codes []string) error {
	for _, code := range codes {
		if !authz.Registered(authz.Code(code)) {
			return apperrors.NewValidationError("unknown permission code",
				map[string]any{"code": code})
		}
	}
	return nil
}

func dedupe(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}
