package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk-service/internal/api/dto"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/pagination"
	"github.com/spec-kit/helpdesk-service/internal/service"
)

// ActivityLogsHandler exposes the audit trail.
type ActivityLogsHandler struct {
	service *service.ActivityService
	limits  config.PaginationConfig
}

// NewActivityLogsHandler constructs handler.
func NewActivityLogsHandler(activityService *service.ActivityService, limits config.PaginationConfig) *ActivityLogsHandler {
	return &ActivityLogsHandler{service: activityService, limits: limits}
}

// ListActivityLogs GET /activity-logs.
func (h *ActivityLogsHandler) ListActivityLogs(c *fiber.Ctx) error {
	page, limit := parsePage(c, h.limits)

	entries, total, err := h.service.List(c.UserContext(), limit, pagination.Offset(page, limit))
	if err != nil {
		return err
	}
	return respondPage(c, "activity logs retrieved",
		dto.NewActivityLogListResponse(entries), pagination.NewMeta(page, limit, total))
}
