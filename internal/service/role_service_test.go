package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/authz"
	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func newRoleFixture() (*RoleService, *fakeRoleRepo, *fakeUserRepo) {
	roles := newFakeRoleRepo()
	users := newFakeUserRepo()
	return NewRoleService(roles, users, nil), roles, users
}

func TestCreateRole(t *testing.T) {
	svc, _, _ := newRoleFixture()

	t.Run("creates role with known permissions", func(t *testing.T) {
		role, err := svc.CreateRole(context.Background(), RoleInput{
			Name:        "FIELD_TECH",
			Permissions: []string{string(authz.ViewTicket), string(authz.ResolveTicket)},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"view_ticket", "resolve_ticket"}, role.Permissions)
	})

	t.Run("rejects unknown permission code", func(t *testing.T) {
		_, err := svc.CreateRole(context.Background(), RoleInput{
			Name:        "BROKEN",
			Permissions: []string{"launch_rockets"},
		})
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("rejects duplicate name", func(t *testing.T) {
		_, err := svc.CreateRole(context.Background(), RoleInput{
			Name:        "FIELD_TECH",
			Permissions: []string{string(authz.ViewTicket)},
		})
		assert.True(t, apperrors.IsCode(err, "CONFLICT"))
	})

	t.Run("dedupes permission list", func(t *testing.T) {
		role, err := svc.CreateRole(context.Background(), RoleInput{
			Name:        "READER",
			Permissions: []string{string(authz.ViewTicket), string(authz.ViewTicket)},
		})
		require.NoError(t, err)
		assert.Len(t, role.Permissions, 1)
	})
}

func TestDeleteRole(t *testing.T) {
	svc, _, users := newRoleFixture()

	role, err := svc.CreateRole(context.Background(), RoleInput{
		Name:        "SUPPORT",
		Permissions: []string{string(authz.ViewTicket)},
	})
	require.NoError(t, err)

	t.Run("blocked while users reference the role", func(t *testing.T) {
		users.add(domain.User{Name: "Agent", Email: "agent@example.com", RoleID: role.ID})
		err := svc.DeleteRole(context.Background(), role.ID)
		require.True(t, apperrors.IsCode(err, "CONFLICT"))

		_, getErr := svc.GetRole(context.Background(), role.ID)
		assert.NoError(t, getErr)
	})

	t.Run("succeeds once unreferenced", func(t *testing.T) {
		for id, u := range users.users {
			if u.RoleID == role.ID {
				delete(users.users, id)
			}
		}
		require.NoError(t, svc.DeleteRole(context.Background(), role.ID))

		_, getErr := svc.GetRole(context.Background(), role.ID)
		assert.True(t, apperrors.IsCode(getErr, "NOT_FOUND"))
	})
}

func TestUpdateRole(t *testing.T) {
	svc, _, _ := newRoleFixture()

	role, err := svc.CreateRole(context.Background(), RoleInput{
		Name:        "SUPPORT",
		Permissions: []string{string(authz.ViewTicket)},
	})
	require.NoError(t, err)

	t.Run("replaces permission set", func(t *testing.T) {
		updated, err := svc.UpdateRole(context.Background(), role.ID, RoleInput{
			Permissions: []string{string(authz.ViewTicket), string(authz.AssignTicket)},
		})
		require.NoError(t, err)
		assert.Len(t, updated.Permissions, 2)
	})

	t.Run("rejects unknown permission on update", func(t *testing.T) {
		_, err := svc.UpdateRole(context.Background(), role.ID, RoleInput{
			Permissions: []string{"fly_to_moon"},
		})
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := svc.UpdateRole(context.Background(), "missing", RoleInput{Name: "X"})
		assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
	})
}

func TestPermissionCatalog(t *testing.T) {
	svc, _, _ := newRoleFixture()

	groups := svc.PermissionCatalog()
	require.NotEmpty(t, groups)

	total := 0
	for _, g := range groups {
		total += len(g.Permissions)
	}
	assert.Equal(t, len(authz.Codes()), total)
}
