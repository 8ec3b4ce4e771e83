// Package response holds the JSON error bodies shared by handlers and middlewares.
package response

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details []ValidationError `json:"details,omitempty"`
}

// ValidationError describes a single rejected request field.
type ValidationError struct {
	Field string `json:"field"`
	Value any    `json:"value"`
	Issue string `json:"issue"`
}

var (
	EmptyRequestBodyResponse   = ErrorResponse{Error: "Empty request body"}
	InvalidRequestBodyResponse = ErrorResponse{Error: "Invalid request body"}
	NotFoundResponse           = ErrorResponse{Error: "Not found"}
	MethodNotAllowedResponse   = ErrorResponse{Error: "Method not allowed"}
	RateLimitExceededResponse  = ErrorResponse{Error: "Rate limit exceeded"}
	ServerErrorResponse        = ErrorResponse{Error: "Internal server error"}
)

// Error returns a response carrying msg.
func Error(msg string) ErrorResponse {
	return ErrorResponse{Error: msg}
}

// ValidationErrorResponse returns a response carrying msg and the field level
// details extracted from a validator error.
func ValidationErrorResponse(msg string, err error) ErrorResponse {
	return ErrorResponse{
		Error:   msg,
		Details: getValidationErrors(err),
	}
}

func issueForTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "max":
		return "Value must be at most " + fe.Param() + " characters long."
	case "shortcode":
		return "Value must be 6 characters from [A-Za-z0-9_]."
	case "url":
		return "Invalid url."
	default:
		return "Invalid value."
	}
}

func getValidationErrors(err error) []ValidationError {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}

	validationErrs := make([]ValidationError, 0, len(errs))
	for _, e := range errs {
		validationErrs = append(validationErrs, ValidationError{
			Field: e.Field(),
			Value: e.Value(),
			Issue: issueForTag(e),
		})
	}

	return validationErrs
}
