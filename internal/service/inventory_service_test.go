package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-service/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

type inventoryFixture struct {
	items   *fakeInventoryItemRepo
	serials *fakeSerialNumberRepo
	service *InventoryService
}

func newInventoryFixture() *inventoryFixture {
	items := newFakeInventoryItemRepo()
	serials := newFakeSerialNumberRepo()
	return &inventoryFixture{
		items:   items,
		serials: serials,
		service: NewInventoryService(items, serials),
	}
}

func (fx *inventoryFixture) createItem(t *testing.T, name string) *domain.InventoryItem {
	t.Helper()
	item, err := fx.service.CreateItem(context.Background(), InventoryItemInput{
		Name:     name,
		Category: domain.InventoryCategoryHardware,
		Quantity: 10,
	})
	require.NoError(t, err)
	return item
}

func TestCreateItem(t *testing.T) {
	t.Run("defaults status to available", func(t *testing.T) {
		fx := newInventoryFixture()
		item := fx.createItem(t, "Dell Latitude 5440")
		assert.Equal(t, "available", item.Status)
		assert.NotEmpty(t, item.ID)
	})

	t.Run("rejects blank name", func(t *testing.T) {
		fx := newInventoryFixture()
		_, err := fx.service.CreateItem(context.Background(), InventoryItemInput{Name: "  "})
		require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("rejects negative quantity", func(t *testing.T) {
		fx := newInventoryFixture()
		_, err := fx.service.CreateItem(context.Background(), InventoryItemInput{
			Name:     "Dock",
			Quantity: -1,
		})
		require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})
}

func TestCreateSerials(t *testing.T) {
	t.Run("registers a batch against the item", func(t *testing.T) {
		fx := newInventoryFixture()
		item := fx.createItem(t, "Dell Latitude 5440")

		created, err := fx.service.CreateSerials(context.Background(), SerialBulkInput{
			InventoryItemID: item.ID,
			Values:          []string{"SN-1001", "SN-1002", "SN-1003"},
			Details:         map[string]string{"batch": "2026-08"},
		})
		require.NoError(t, err)
		require.Len(t, created, 3)
		for _, sn := range created {
			assert.Equal(t, item.ID, sn.InventoryItemID)
			assert.Equal(t, "2026-08", sn.Details["batch"])
			assert.NotEmpty(t, sn.ID)
		}
	})

	t.Run("unknown item", func(t *testing.T) {
		fx := newInventoryFixture()
		_, err := fx.service.CreateSerials(context.Background(), SerialBulkInput{
			InventoryItemID: "missing",
			Values:          []string{"SN-1001"},
		})
		require.True(t, apperrors.IsCode(err, "NOT_FOUND"))
	})

	t.Run("duplicate value within the batch", func(t *testing.T) {
		fx := newInventoryFixture()
		item := fx.createItem(t, "Dell Latitude 5440")

		_, err := fx.service.CreateSerials(context.Background(), SerialBulkInput{
			InventoryItemID: item.ID,
			Values:          []string{"SN-1001", "SN-1001"},
		})
		require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
		assert.Empty(t, fx.serials.serials)
	})

	t.Run("collision with a stored value keeps nothing from the batch", func(t *testing.T) {
		fx := newInventoryFixture()
		item := fx.createItem(t, "Dell Latitude 5440")

		_, err := fx.service.CreateSerials(context.Background(), SerialBulkInput{
			InventoryItemID: item.ID,
			Values:          []string{"SN-1001"},
		})
		require.NoError(t, err)

		_, err = fx.service.CreateSerials(context.Background(), SerialBulkInput{
			InventoryItemID: item.ID,
			Values:          []string{"SN-2001", "SN-1001", "SN-2002"},
		})
		require.Error(t, err)

		stored, listErr := fx.service.ListSerialsByItem(context.Background(), item.ID)
		require.NoError(t, listErr)
		require.Len(t, stored, 1)
		assert.Equal(t, "SN-1001", stored[0].Value)
	})
}

func TestUpdateSerial(t *testing.T) {
	fx := newInventoryFixture()
	item := fx.createItem(t, "Dell Latitude 5440")

	created, err := fx.service.CreateSerials(context.Background(), SerialBulkInput{
		InventoryItemID: item.ID,
		Values:          []string{"SN-1001"},
		Details:         map[string]string{"batch": "2026-08"},
	})
	require.NoError(t, err)

	t.Run("merges details into the stored map", func(t *testing.T) {
		updated, err := fx.service.UpdateSerial(context.Background(), created[0].ID, SerialUpdateInput{
			Details: map[string]string{"location": "warehouse-b"},
		})
		require.NoError(t, err)
		assert.Equal(t, "2026-08", updated.Details["batch"])
		assert.Equal(t, "warehouse-b", updated.Details["location"])
	})

	t.Run("rejects blank value", func(t *testing.T) {
		blank := "  "
		_, err := fx.service.UpdateSerial(context.Background(), created[0].ID, SerialUpdateInput{Value: &blank})
		require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})
}
