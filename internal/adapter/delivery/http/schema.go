package http

import (
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortener/internal/entity"
)

const (
	urlField       = "url"
	shortcodeField = "shortcode"
)

// shortenRequest is the body of POST /shorten. The url limit mirrors
// entity.MaxURLLength. A nil Shortcode asks the service to generate one.
type shortenRequest struct {
	URL       string  `json:"url" validate:"required,max=500"`
	Shortcode *string `json:"shortcode" validate:"omitnil,shortcode"`
}

type shortenResponse struct {
	Shortcode string `json:"shortcode"`
}

type statsResponse struct {
	Created       time.Time  `json:"created"`
	LastRedirect  *time.Time `json:"lastRedirect"`
	RedirectCount int64      `json:"redirectCount"`
	URL           string     `json:"url"`
}

func toStatsResponse(url *entity.URL) statsResponse {
	resp := statsResponse{
		Created:       url.CreatedAt.UTC(),
		RedirectCount: url.RedirectCount,
		URL:           url.OriginalURL,
	}

	if url.LastRedirect != nil {
		lastRedirect := url.LastRedirect.UTC()
		resp.LastRedirect = &lastRedirect
	}

	return resp
}

func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails for an empty tag or a nil func.
	_ = validate.RegisterValidation("shortcode", func(fl validator.FieldLevel) bool {
		return entity.IsValidShortcode(fl.Field().String())
	})

	return validate
}
