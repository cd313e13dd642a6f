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

var serialSortColumns = map[string]string{
	"value":     "value",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// SerialNumbersHandler manages per-unit serial tracking endpoints.
type SerialNumbersHandler struct {
	service  *service.InventoryService
	activity *service.ActivityService
	limits   config.PaginationConfig
}

// NewSerialNumbersHandler constructs handler.
func NewSerialNumbersHandler(inventoryService *service.InventoryService, activity *service.ActivityService, limits config.PaginationConfig) *SerialNumbersHandler {
	return &SerialNumbersHandler{service: inventoryService, activity: activity, limits: limits}
}

// CreateSerialNumbers POST /serial-numbers.
func (h *SerialNumbersHandler) CreateSerialNumbers(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateSerialNumbersRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	serials, err := h.service.CreateSerials(c.UserContext(), service.SerialBulkInput{
		InventoryItemID: req.InventoryItemID,
		Values:          req.Values,
		Details:         req.Details,
	})
	if err != nil {
		return err
	}

	h.activity.Record(principal.User.ID, "SERIALS_CREATED",
		fmt.Sprintf("%d serial numbers registered for item %s", len(serials), req.InventoryItemID), c.IP())
	return respondCreated(c, "serial numbers created", dto.NewSerialNumberListResponse(serials))
}

// ListSerialNumbers GET /serial-numbers.
func (h *SerialNumbersHandler) ListSerialNumbers(c *fiber.Ctx) error {
	page, limit := parsePage(c, h.limits)
	filter := repository.SerialNumberFilter{
		Search: optionalQuery(c, "search"),
		Sort:   pagination.ParseSort(c.Query("sort"), serialSortColumns),
		Limit:  limit,
		Offset: pagination.Offset(page, limit),
	}

	serials, total, err := h.service.ListSerials(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return respondPage(c, "serial numbers retrieved",
		dto.NewSerialNumberListResponse(serials), pagination.NewMeta(page, limit, total))
}

// GetSerialNumber GET /serial-numbers/:id.
func (h *SerialNumbersHandler) GetSerialNumber(c *fiber.Ctx) error {
	serial, err := h.service.GetSerial(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, "serial number retrieved", dto.NewSerialNumberResponse(serial))
}

// UpdateSerialNumber PATCH /serial-numbers/:id.
func (h *SerialNumbersHandler) UpdateSerialNumber(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpdateSerialNumberRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	serial, err := h.service.UpdateSerial(c.UserContext(), c.Params("id"), service.SerialUpdateInput{
		Value:   req.Value,
		Details: req.Details,
	})
	if err != nil {
		return err
	}

	h.activity.Record(principal.User.ID, "SERIAL_UPDATED",
		fmt.Sprintf("serial number %s updated", serial.ID), c.IP())
	return respondOK(c, "serial number updated", dto.NewSerialNumberResponse(serial))
}

// DeleteSerialNumber DELETE /serial-numbers/:id.
func (h *SerialNumbersHandler) DeleteSerialNumber(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}

	if err := h.service.DeleteSerial(c.UserContext(), c.Params("id")); err != nil {
		return err
	}

	h.activity.Record(principal.User.ID, "SERIAL_DELETED",
		fmt.Sprintf("serial number %s deleted", c.Params("id")), c.IP())
	return respondOK(c, "serial number deleted", nil)
}

// ListByItem GET /serial-numbers/inventory/:itemID.
func (h *SerialNumbersHandler) ListByItem(c *fiber.Ctx) error {
	serials, err := h.service.ListSerialsByItem(c.UserContext(), c.Params("itemID"))
	if err != nil {
		return err
	}
	return respondOK(c, "serial numbers retrieved", dto.NewSerialNumberListResponse(serials))
}
