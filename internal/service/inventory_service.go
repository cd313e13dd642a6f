package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// InventoryService manages stock items and their per-unit serial numbers.
type InventoryService struct {
	items   repository.InventoryItemRepository
	serials repository.SerialNumberRepository
}

// NewInventoryService constructs the service.
func NewInventoryService(items repository.InventoryItemRepository, serials repository.SerialNumberRepository) *InventoryService {
	return &InventoryService{items: items, serials: serials}
}

// InventoryItemInput describes stock item creation payload.
type InventoryItemInput struct {
	Name             string
	Category         domain.InventoryCategory
	Quantity         int
	Status           string
	ReorderThreshold int
}

// SerialBulkInput describes a batch of serial values for one stock item.
type SerialBulkInput struct {
	InventoryItemID string
	Values          []string
	Details         map[string]string
}

// SerialUpdateInput patches a serial record. Details entries are merged into
// the stored map rather than replacing it.
type SerialUpdateInput struct {
	Value   *string
	Details map[string]string
}

// CreateItem stores a new stock item.
func (s *InventoryService) CreateItem(ctx context.Context, input InventoryItemInput) (*domain.InventoryItem, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("item name is required", nil)
	}
	if input.Quantity < 0 {
		return nil, apperrors.NewValidationError("quantity cannot be negative", nil)
	}

	item := &domain.InventoryItem{
		Name:             name,
		Category:         input.Category,
		Quantity:         input.Quantity,
		Status:           input.Status,
		ReorderThreshold: input.ReorderThreshold,
	}
	if item.Status == "" {
		item.Status = "available"
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

// GetItem fetches a stock item by ID.
func (s *InventoryService) GetItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	return s.getItem(ctx, id)
}

// ListItems returns a filtered stock item page.
func (s *InventoryService) ListItems(ctx context.Context, filter repository.InventoryItemFilter) ([]domain.InventoryItem, int64, error) {
	items, total, err := s.items.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return items, total, nil
}

// CreateSerials registers a batch of serial values against one stock item.
// The whole batch shares the optional details map.
func (s *InventoryService) CreateSerials(ctx context.Context, input SerialBulkInput) ([]domain.SerialNumber, error) {
	if len(input.Values) == 0 {
		return nil, apperrors.NewValidationError("at least one serial value is required", nil)
	}
	if _, err := s.getItem(ctx, input.InventoryItemID); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(input.Values))
	serials := make([]domain.SerialNumber, 0, len(input.Values))
	for _, raw := range input.Values {
		value := strings.TrimSpace(raw)
		if value == "" {
			return nil, apperrors.NewValidationError("serial values cannot be blank", nil)
		}
		if _, dup := seen[value]; dup {
			return nil, apperrors.NewValidationError("duplicate serial value in batch",
				map[string]any{"value": value})
		}
		seen[value] = struct{}{}
		serials = append(serials, domain.SerialNumber{
			InventoryItemID: input.InventoryItemID,
			Value:           value,
			Details:         input.Details,
		})
	}

	created, err := s.serials.CreateBulk(ctx, serials)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return created, nil
}

// GetSerial fetches a serial record by ID.
func (s *InventoryService) GetSerial(ctx context.Context, id string) (*domain.SerialNumber, error) {
	return s.getSerial(ctx, id)
}

// ListSerials returns a filtered serial page. Search matches the serial value
// and the details payload.
func (s *InventoryService) ListSerials(ctx context.Context, filter repository.SerialNumberFilter) ([]domain.SerialNumber, int64, error) {
	serials, total, err := s.serials.List(ctx, filter)
	if err != nil {
		return nil, 0, apperrors.MapError(err)
	}
	return serials, total, nil
}

// ListSerialsByItem returns every serial registered against one stock item.
func (s *InventoryService) ListSerialsByItem(ctx context.Context, itemID string) ([]domain.SerialNumber, error) {
	if _, err := s.getItem(ctx, itemID); err != nil {
		return nil, err
	}
	serials, err := s.serials.ListByItem(ctx, itemID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return serials, nil
}

// UpdateSerial patches a serial record, merging supplied details keys into
// the stored map.
func (s *InventoryService) UpdateSerial(ctx context.Context, id string, patch SerialUpdateInput) (*domain.SerialNumber, error) {
	serial, err := s.getSerial(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Value != nil {
		value := strings.TrimSpace(*patch.Value)
		if value == "" {
			return nil, apperrors.NewValidationError("serial value cannot be blank", nil)
		}
		serial.Value = value
	}
	if len(patch.Details) > 0 {
		if serial.Details == nil {
			serial.Details = make(map[string]string, len(patch.Details))
		}
		for k, v := range patch.Details {
			serial.Details[k] = v
		}
	}

	if err := s.serials.Update(ctx, serial); err != nil {
		return nil, apperrors.MapError(err)
	}
	return serial, nil
}

// DeleteSerial removes a serial record.
func (s *InventoryService) DeleteSerial(ctx context.Context, id string) error {
	if _, err := s.getSerial(ctx, id); err != nil {
		return err
	}
	if err := s.serials.Delete(ctx, id); err != nil {
		return apperrors.MapError(err)
	}
	return nil
}

func (s *InventoryService) getItem(ctx context.Context, id string) (*domain.InventoryItem, error) {
	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("inventory item", map[string]any{"item_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return item, nil
}

func (s *InventoryService) getSerial(ctx context.Context, id string) (*domain.SerialNumber, error) {
	serial, err := s.serials.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("serial number", map[string]any{"serial_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return serial, nil
}
