package dto

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate runs struct tag validation and converts the first violation into a
// field-level validation error.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}
	var violations validator.ValidationErrors
	if errors.As(err, &violations) && len(violations) > 0 {
		first := violations[0]
		return apperrors.NewValidationError("invalid request payload", map[string]any{
			"field": jsonFieldName(first),
			"rule":  first.Tag(),
		})
	}
	return apperrors.NewValidationError("invalid request payload", nil)
}

func jsonFieldName(fe validator.FieldError) string {
	field := fe.Field()
	if field == "" {
		return fe.StructField()
	}
	return strings.ToLower(field[:1]) + field[1:]
}
