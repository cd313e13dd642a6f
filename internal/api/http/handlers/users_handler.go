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

var userSortColumns = map[string]string{
	"name":      "name",
	"email":     "email",
	"createdAt": "created_at",
	"lastLogin": "last_login",
}

// UsersHandler manages staff account endpoints.
type UsersHandler struct {
	service  *service.UserService
	activity *service.ActivityService
	limits   config.PaginationConfig
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService, activity *service.ActivityService, limits config.PaginationConfig) *UsersHandler {
	return &UsersHandler{service: userService, activity: activity, limits: limits}
}

// CreateUser POST /users.
func (h *UsersHandler) CreateUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.service.CreateUser(c.UserContext(), service.UserCreateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Contact:  req.Contact,
		RoleID:   req.RoleID,
	})
	if err != nil {
		return err
	}

	h.activity.Record(principal.User.ID, "USER_CREATED",
		fmt.Sprintf("user %s created", user.Email), c.IP())
	return respondCreated(c, "user created", dto.NewUserResponse(user))
}

// ListUsers GET /users.
func (h *UsersHandler) ListUsers(c *fiber.Ctx) error {
	page, limit := parsePage(c, h.limits)
	filter := repository.UserFilter{
		Search: optionalQuery(c, "search"),
		Sort:   pagination.ParseSort(c.Query("sort"), userSortColumns),
		Limit:  limit,
		Offset: pagination.Offset(page, limit),
	}

	users, total, err := h.service.ListUsers(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return respondPage(c, "users retrieved", dto.NewUserListResponse(users), pagination.NewMeta(page, limit, total))
}

// GetUser GET /users/:id.
func (h *UsersHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.service.GetUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, "user retrieved", dto.NewUserResponse(user))
}

// UpdateUser PATCH /users/:id.
func (h *UsersHandler) UpdateUser(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, err := h.service.UpdateUser(c.UserContext(), c.Params("id"), service.UserUpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Contact:  req.Contact,
		Status:   req.Status,
		RoleID:   req.RoleID,
	})
	if err != nil {
		return err
	}

	h.activity.Record(principal.User.ID, "USER_UPDATED",
		fmt.Sprintf("user %s updated", user.Email), c.IP())
	return respondOK(c, "user updated", dto.NewUserResponse(user))
}
