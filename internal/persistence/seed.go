package persistence

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/authz"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
)

// Seed provisions the built-in roles from the permission registry and,
// when configured, an initial super-admin account. Existing rows are left
// untouched; seeding is idempotent.
func Seed(ctx context.Context, cfg config.SeedConfig, bcryptCost int, roles repository.RoleRepository, users repository.UserRepository, logger *zap.Logger) error {
	var adminRoleID string

	for _, name := range authz.DefaultRoleNames() {
		existing, err := roles.GetByName(ctx, name)
		if err == nil {
			if name == authz.RoleSuperAdmin {
				adminRoleID = existing.ID
			}
			continue
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		bundle, err := authz.DefaultsFor(name)
		if err != nil {
			return err
		}
		codes := make([]string, 0, len(bundle))
		for _, code := range bundle {
			codes = append(codes, string(code))
		}
		role := &domain.Role{Name: name, Permissions: codes}
		if err := roles.Create(ctx, role); err != nil {
			return err
		}
		logger.Info("seeded role", zap.String("role", name), zap.Int("permissions", len(codes)))
		if name == authz.RoleSuperAdmin {
			adminRoleID = role.ID
		}
	}

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" || adminRoleID == "" {
		return nil
	}

	if _, err := users.GetByEmail(ctx, cfg.AdminEmail); err == nil {
		return nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(cfg.AdminPassword, bcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.User{
		Name:         "Administrator",
		Email:        cfg.AdminEmail,
		PasswordHash: hash,
		Status:       domain.UserStatusActive,
		RoleID:       adminRoleID,
	}
	if err := users.Create(ctx, admin); err != nil {
		return err
	}
	logger.Info("seeded admin user", zap.String("email", cfg.AdminEmail))
	return nil
}
