package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/pagination"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

var roleSortColumns = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// RolesHandler manages role and permission catalog endpoints.
type RolesHandler struct {
	service  *service.RoleService
	activity *service.ActivityService
	limits   config.PaginationConfig
}

// NewRolesHandler constructs handler.
func NewRolesHandler(roleService *service.RoleService, activity *service.ActivityService, limits config.PaginationConfig) *RolesHandler {
	return &RolesHandler{service: roleService, activity: activity, limits: limits}
}

// CreateRole POST /roles.
func (h *RolesHandler) CreateRole(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	role, err := h.service.CreateRole(c.UserContext(), service.RoleInput{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		return err
	}

	h.activity.Record(principal.User.ID, "ROLE_CREATED",
		fmt.Sprintf("role %s created", role.Name), c.IP())
	return respondCreated(c, "role created", dto.NewRoleResponse(role))
}

// ListRoles GET /roles.
func (h *RolesHandler) ListRoles(c *fiber.Ctx) error {
	page, limit := parsePage(c, h.limits)
	filter := repository.RoleFilter{
		Search: optionalQuery(c, "search"),
		Sort:   pagination.ParseSort(c.Query("sort"), roleSortColumns),
		Limit:  limit,
		Offset: pagination.Offset(page, limit),
	}

	roles, total, err := h.service.ListRoles(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return respondPage(c, "roles retrieved", dto.NewRoleListResponse(roles), pagination.NewMeta(page, limit, total))
}

// GetRole GET /roles/:id.
func (h *RolesHandler) GetRole(c *fiber.Ctx) error {
	role, err := h.service.GetRole(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, "role retrieved", dto.NewRoleResponse(role))
}

// UpdateRole PATCH /roles/:id.
func (h *RolesHandler) UpdateRole(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	role, err := h.service.UpdateRole(c.UserContext(), c.Params("id"), service.RoleInput{
		Name:        req.Name,
		Description: req.Description,
		Permissions: req.Permissions,
	})
	if err != nil {
		return err
	}

	h.activity.Record(principal.User.ID, "ROLE_UPDATED",
		fmt.Sprintf("role %s updated", role.Name), c.IP())
	return respondOK(c, "role updated", dto.NewRoleResponse(role))
}

// DeleteRole DELETE /roles/:id.
func (h *RolesHandler) DeleteRole(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.service.DeleteRole(c.UserContext(), c.Params("id")); err != nil {
		return err
	}

	h.activity.Record(principal.User.ID, "ROLE_DELETED",
		fmt.Sprintf("role %s deleted", c.Params("id")), c.IP())
	return respondOK(c, "role deleted", nil)
}

// ListPermissions GET /permissions.
func (h *RolesHandler) ListPermissions(c *fiber.Ctx) error {
	return respondOK(c, "permissions retrieved", h.service.PermissionCatalog())
}
