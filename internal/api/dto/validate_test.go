package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

func TestValidateCreateTicketRequest(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		req := CreateTicketRequest{
			Title:       "Printer not working",
			Description: "Printer jammed on floor 3",
		}
		assert.NoError(t, Validate(req))
	})

	t.Run("title too short", func(t *testing.T) {
		req := CreateTicketRequest{
			Title:       "bad",
			Description: "Printer jammed on floor 3",
		}
		err := Validate(req)
		require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
		domainErr := apperrors.ToDomainError(err)
		assert.Equal(t, "title", domainErr.Details["field"])
	})

	t.Run("unknown priority", func(t *testing.T) {
		req := CreateTicketRequest{
			Title:       "Printer not working",
			Description: "Printer jammed on floor 3",
			Priority:    "URGENTISH",
		}
		err := Validate(req)
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})
}

func TestValidateLoginRequest(t *testing.T) {
	t.Run("requires well formed email", func(t *testing.T) {
		err := Validate(LoginRequest{Email: "not-an-email", Password: "pw"})
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("accepts credentials", func(t *testing.T) {
		assert.NoError(t, Validate(LoginRequest{Email: "a@example.com", Password: "pw"}))
	})
}

func TestValidateSerialBulkRequest(t *testing.T) {
	t.Run("requires at least one value", func(t *testing.T) {
		err := Validate(CreateSerialNumbersRequest{InventoryItemID: "item-1", Values: []string{}})
		assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
	})

	t.Run("accepts a batch", func(t *testing.T) {
		assert.NoError(t, Validate(CreateSerialNumbersRequest{
			InventoryItemID: "item-1",
			Values:          []string{"SN-001", "SN-002"},
		}))
	})
}
