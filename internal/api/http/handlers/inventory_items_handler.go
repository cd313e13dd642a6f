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

var itemSortColumns = map[string]string{
	"name":      "name",
	"category":  "category",
	"quantity":  "quantity",
	"createdAt": "created_at",
}

// InventoryItemsHandler manages stock item endpoints.
type InventoryItemsHandler struct {
	service  *service.InventoryService
	activity *service.ActivityService
	limits   config.PaginationConfig
}

// NewInventoryItemsHandler constructs handler.
func NewInventoryItemsHandler(inventoryService *service.InventoryService, activity *service.ActivityService, limits config.PaginationConfig) *InventoryItemsHandler {
	return &InventoryItemsHandler{service: inventoryService, activity: activity, limits: limits}
}

// CreateItem POST /inventory-items.
func (h *InventoryItemsHandler) CreateItem(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateInventoryItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	item, err := h.service.CreateItem(c.UserContext(), service.InventoryItemInput{
		Name:             req.Name,
		Category:         req.Category,
		Quantity:         req.Quantity,
		Status:           req.Status,
		ReorderThreshold: req.ReorderThreshold,
	})
	if err != nil {
		return err
	}

	h.activity.Record(principal.User.ID, "ITEM_CREATED",
		fmt.Sprintf("inventory item %s created", item.Name), c.IP())
	return respondCreated(c, "inventory item created", dto.NewInventoryItemResponse(item))
}

// ListItems GET /inventory-items.
func (h *InventoryItemsHandler) ListItems(c *fiber.Ctx) error {
	page, limit := parsePage(c, h.limits)
	filter := repository.InventoryItemFilter{
		Search: optionalQuery(c, "search"),
		Sort:   pagination.ParseSort(c.Query("sort"), itemSortColumns),
		Limit:  limit,
		Offset: pagination.Offset(page, limit),
	}

	items, total, err := h.service.ListItems(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return respondPage(c, "inventory items retrieved",
		dto.NewInventoryItemListResponse(items), pagination.NewMeta(page, limit, total))
}

// GetItem GET /inventory-items/:id.
func (h *InventoryItemsHandler) GetItem(c *fiber.Ctx) error {
	item, err := h.service.GetItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return respondOK(c, "inventory item retrieved", dto.NewInventoryItemResponse(item))
}
