package response

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	got := Error("Shortcode already in use")

	assert.Equal(t, ErrorResponse{Error: "Shortcode already in use"}, got)
	assert.Nil(t, got.Details)
}

func TestGetValidationErrors(t *testing.T) {
	type req struct {
		Name string `json:"name" validate:"required"`
		URL  string `json:"url" validate:"required,max=10"`
	}

	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	tests := []struct {
		name string
		req  req
		want []ValidationError
	}{
		{
			name: "not validation error",
			req: req{
				Name: "name",
				URL:  "short",
			},
		},
		{
			name: "one error",
			req: req{
				Name: "",
				URL:  "short",
			},
			want: []ValidationError{
				{
					Field: "name",
					Value: "",
					Issue: "This field is required.",
				},
			},
		},
		{
			name: "two errors",
			req: req{
				Name: "",
				URL:  "https://example.com",
			},
			want: []ValidationError{
				{
					Field: "name",
					Value: "",
					Issue: "This field is required.",
				},
				{
					Field: "url",
					Value: "https://example.com",
					Issue: "Value must be at most 10 characters long.",
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.req)
			got := getValidationErrors(err)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidationErrorResponse(t *testing.T) {
	t.Run("not a validator error", func(t *testing.T) {
		got := ValidationErrorResponse("Invalid request", errors.New("boom"))

		assert.Equal(t, "Invalid request", got.Error)
		assert.Empty(t, got.Details)
	})
}
