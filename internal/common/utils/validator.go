// internal/common/utils/validator.go
// Input validation using struct tags

package utils

import (
    "errors"
    "fmt"
    "strings"

    "github.com/go-playground/validator/v10"
)

// Global validator instance
var validate = validator.New()

// ValidateStruct validates a struct based on its tags
func ValidateStruct(s interface{}) error {
    err := validate.Struct(s)
    if err != nil {
        // Format validation errors into readable messages
        var messages []string
        for _, fieldErr := range err.(validator.ValidationErrors) {
            messages = append(messages, formatFieldError(fieldErr))
        }
        return errors.New(strings.Join(messages, ", "))
    }
    return nil
}

// formatFieldError converts validator errors to human-readable messages
func formatFieldError(fe validator.FieldError) string {
    field := fe.Field()

    switch fe.Tag() {
    case "required":
        return fmt.Sprintf("%s is required", field)
    case "uuid":
        return fmt.Sprintf("%s must be a valid UUID", field)
    case "min":
        return fmt.Sprintf("%s must be at least %s", field, fe.Param())
    case "max":
        return fmt.Sprintf("%s must be at most %s", field, fe.Param())
    case "oneof":
        return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
    default:
        return fmt.Sprintf("%s is invalid", field)
    }
}
