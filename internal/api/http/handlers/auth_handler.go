package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/service"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// AuthHandler manages login and password recovery endpoints.
type AuthHandler struct {
	service  *service.AuthService
	activity *service.ActivityService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, activity *service.ActivityService) *AuthHandler {
	return &AuthHandler{service: authService, activity: activity}
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	result, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	h.activity.Record(result.User.ID, "USER_LOGIN", "successful login", c.IP())
	return respondOK(c, "login successful", dto.NewLoginResponse(result.Token, result.ExpiresAt, result.User))
}

// ForgotPassword POST /auth/password/forgot.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := h.service.ForgotPassword(c.UserContext(), req.Email); err != nil {
		return err
	}
	return respondOK(c, "password reset instructions sent if the account exists", nil)
}

// ResetPassword POST /auth/password/reset.
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	if err := h.service.ResetPassword(c.UserContext(), req.Token, req.NewPassword); err != nil {
		return err
	}
	return respondOK(c, "password updated", nil)
}
