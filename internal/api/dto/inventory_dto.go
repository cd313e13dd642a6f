package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-service/internal/domain"
)

// CreateInventoryItemRequest payload.
type CreateInventoryItemRequest struct {
	Name             string                   `json:"name" validate:"required,min=2"`
	Category         domain.InventoryCategory `json:"category" validate:"required,oneof=hardware accessory component"`
	Quantity         int                      `json:"quantity" validate:"gte=0"`
	Status           string                   `json:"status"`
	ReorderThreshold int                      `json:"reorderThreshold" validate:"gte=0"`
}

// InventoryItemResponse is the wire shape of one stock item.
type InventoryItemResponse struct {
	ID               string                   `json:"id"`
	Name             string                   `json:"name"`
	Category         domain.InventoryCategory `json:"category"`
	Quantity         int                      `json:"quantity"`
	Status           string                   `json:"status"`
	ReorderThreshold int                      `json:"reorderThreshold"`
	CreatedAt        time.Time                `json:"createdAt"`
	UpdatedAt        time.Time                `json:"updatedAt"`
}

// CreateSerialNumbersRequest payload for bulk serial registration.
type CreateSerialNumbersRequest struct {
	InventoryItemID string            `json:"inventoryItemId" validate:"required"`
	Values          []string          `json:"values" validate:"required,min=1,dive,required"`
	Details         map[string]string `json:"details"`
}

// UpdateSerialNumberRequest payload. Details entries merge into the stored
// map.
type UpdateSerialNumberRequest struct {
	Value   *string           `json:"value"`
	Details map[string]string `json:"details"`
}

// SerialNumberResponse is the wire shape of one serial record.
type SerialNumberResponse struct {
	ID              string            `json:"id"`
	InventoryItemID string            `json:"inventoryItemId"`
	Value           string            `json:"value"`
	Details         map[string]string `json:"details,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// NewInventoryItemResponse maps a domain stock item.
func NewInventoryItemResponse(item *domain.InventoryItem) InventoryItemResponse {
	return InventoryItemResponse{
		ID:               item.ID,
		Name:             item.Name,
		Category:         item.Category,
		Quantity:         item.Quantity,
		Status:           item.Status,
		ReorderThreshold: item.ReorderThreshold,
		CreatedAt:        item.CreatedAt,
		UpdatedAt:        item.UpdatedAt,
	}
}

// NewInventoryItemListResponse maps a slice of stock items.
func NewInventoryItemListResponse(items []domain.InventoryItem) []InventoryItemResponse {
	out := make([]InventoryItemResponse, 0, len(items))
	for i := range items {
		out = append(out, NewInventoryItemResponse(&items[i]))
	}
	return out
}

// NewSerialNumberResponse maps a domain serial record.
func NewSerialNumberResponse(s *domain.SerialNumber) SerialNumberResponse {
	return SerialNumberResponse{
		ID:              s.ID,
		InventoryItemID: s.InventoryItemID,
		Value:           s.Value,
		Details:         s.Details,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// NewSerialNumberListResponse maps a slice of serial records.
func NewSerialNumberListResponse(serials []domain.SerialNumber) []SerialNumberResponse {
	out := make([]SerialNumberResponse, 0, len(serials))
	for i := range serials {
		out = append(out, NewSerialNumberResponse(&serials[i]))
	}
	return out
}
