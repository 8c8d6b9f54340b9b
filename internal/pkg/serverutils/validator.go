package serverutils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateRequest checks struct tags on a bound request body and returns a
// single human readable error listing every failed field.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	messages := make([]string, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		switch fieldErr.Tag() {
		case "required", "required_if":
			messages = append(messages, fmt.Sprintf("%s is required", fieldErr.Field()))
		case "email":
			messages = append(messages, fmt.Sprintf("%s must be a valid email", fieldErr.Field()))
		case "min":
			messages = append(messages, fmt.Sprintf("%s must be at least %s", fieldErr.Field(), fieldErr.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("%s must be at most %s", fieldErr.Field(), fieldErr.Param()))
		case "oneof":
			messages = append(messages, fmt.Sprintf("%s must be one of: %s", fieldErr.Field(), fieldErr.Param()))
		case "eqfield":
			messages = append(messages, fmt.Sprintf("%s must match %s", fieldErr.Field(), fieldErr.Param()))
		default:
			messages = append(messages, fmt.Sprintf("%s is invalid", fieldErr.Field()))
		}
	}
	return fmt.Errorf("%s", strings.Join(messages, "; "))
}
