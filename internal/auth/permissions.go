package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/authz"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// RequirePermission ensures the authenticated principal holds the given
// permission code. Deny-by-default: no principal or an empty effective set
// rejects the request.
func RequirePermission(required authz.Code) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.HasPermission(required) {
			return apperrors.NewForbidden("insufficient permissions")
		}
		return c.Next()
	}
}
