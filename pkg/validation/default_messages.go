package validation

import (
	"fmt"
	"strings"
)

func DefaultMessage(field, tag string) string {
	field = strings.ToLower(field)

	switch tag {
	case "required":
		return fmt.Sprintf("%s must not be empty", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "numeric":
		return fmt.Sprintf("%s must be numeric", field)
	case "min":
		return fmt.Sprintf("%s is below the minimum length or value", field)
	case "max":
		return fmt.Sprintf("%s exceeds the maximum length or value", field)
	case "len":
		return fmt.Sprintf("%s must have an exact length", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	case "uuid":
		return fmt.Sprintf("%s must be a valid UUID", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of the allowed values", field)
	case "startswith":
		return fmt.Sprintf("%s must start with the expected prefix", field)
	case "alphanum":
		return fmt.Sprintf("%s may only contain letters and digits", field)
	default:
		return fmt.Sprintf("%s is not valid", field)
	}
}
