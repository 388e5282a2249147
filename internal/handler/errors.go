package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// formatValidationError converts validator errors into the actionable
// messages the API surfaces verbatim. Field names follow the request
// DTOs; unknown tags get a descriptive fallback.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := fe.Field()
			switch fe.Tag() {
			case "required":
				return "invalid request: " + field + " is required"
			case "notblank":
				return "invalid request: " + field + " cannot be whitespace only"
			case "max":
				return "invalid request: " + field + " exceeds maximum length"
			case "gte", "gt", "min":
				return "invalid request: " + field + " is below the allowed minimum"
			case "lte":
				return "invalid request: " + field + " is above the allowed maximum"
			case "oneof":
				return "invalid request: " + field + " must be one of: " + fe.Param()
			default:
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}
