package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shortener/internal/entity"
	"github.com/vadimbarashkov/shortener/pkg/response"
)

var (
	urlNotPresentResponse     = response.Error("Url not present")
	urlTooLongResponse        = response.Error(fmt.Sprintf("Url must be at most %d characters long", entity.MaxURLLength))
	invalidShortcodeResponse  = response.Error("Shortcode must be 6 characters long and contain only alphanumeric characters or underscores")
	shortcodeInUseResponse    = response.Error("Shortcode already in use")
	shortcodeNotFoundResponse = response.Error("Shortcode not found")
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	render.PlainText(w, r, "pong")
}

func handleNotFound(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusNotFound)
	render.JSON(w, r, response.NotFoundResponse)
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusMethodNotAllowed)
	render.JSON(w, r, response.MethodNotAllowedResponse)
}

type urlUseCase interface {
	ShortenURL(ctx context.Context, originalURL, shortcode string) (*entity.URL, error)
	ResolveShortcode(ctx context.Context, shortcode string) (*entity.URL, error)
	GetURLStats(ctx context.Context, shortcode string) (*entity.URL, error)
}

type urlHandler struct {
	useCase  urlUseCase
	validate *validator.Validate
}

func newURLHandler(useCase urlUseCase, validate *validator.Validate) *urlHandler {
	return &urlHandler{
		useCase:  useCase,
		validate: validate,
	}
}

func (h *urlHandler) shortenURL(w http.ResponseWriter, r *http.Request) {
	var req shortenRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		render.Status(r, http.StatusBadRequest)

		if errors.Is(err, io.EOF) {
			render.JSON(w, r, response.EmptyRequestBodyResponse)
			return
		}

		render.JSON(w, r, response.InvalidRequestBodyResponse)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		status, resp := validationFailure(err)

		render.Status(r, status)
		render.JSON(w, r, resp)
		return
	}

	var shortcode string
	if req.Shortcode != nil {
		shortcode = *req.Shortcode
	}

	url, err := h.useCase.ShortenURL(r.Context(), req.URL, shortcode)
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidShortcode):
			render.Status(r, http.StatusPreconditionFailed)
			render.JSON(w, r, invalidShortcodeResponse)
		case errors.Is(err, entity.ErrShortcodeExists):
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, shortcodeInUseResponse)
		default:
			httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.ServerErrorResponse)
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, shortenResponse{Shortcode: url.Shortcode})
}

// validationFailure maps a rejected request to its response. Problems with
// the url take precedence over problems with the shortcode.
func validationFailure(err error) (int, response.ErrorResponse) {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return http.StatusBadRequest, response.InvalidRequestBodyResponse
	}

	var shortcodeInvalid bool

	for _, fe := range errs {
		switch fe.Field() {
		case urlField:
			if fe.Tag() == "max" {
				return http.StatusBadRequest, urlTooLongResponse
			}
			return http.StatusBadRequest, urlNotPresentResponse
		case shortcodeField:
			shortcodeInvalid = true
		}
	}

	if shortcodeInvalid {
		return http.StatusPreconditionFailed, invalidShortcodeResponse
	}

	return http.StatusBadRequest, response.ValidationErrorResponse("Invalid request", err)
}

func (h *urlHandler) redirect(w http.ResponseWriter, r *http.Request) {
	shortcode := chi.URLParam(r, "shortcode")

	// Nothing of another shape can ever be stored.
	if !entity.IsValidShortcode(shortcode) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, shortcodeNotFoundResponse)
		return
	}

	url, err := h.useCase.ResolveShortcode(r.Context(), shortcode)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, shortcodeNotFoundResponse)
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ServerErrorResponse)
		return
	}

	// Set directly rather than through http.Redirect, which would rewrite
	// relative urls against the request path.
	w.Header().Set("Location", url.OriginalURL)
	w.WriteHeader(http.StatusFound)
}

func (h *urlHandler) getURLStats(w http.ResponseWriter, r *http.Request) {
	shortcode := chi.URLParam(r, "shortcode")

	if !entity.IsValidShortcode(shortcode) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, shortcodeNotFoundResponse)
		return
	}

	url, err := h.useCase.GetURLStats(r.Context(), shortcode)
	if err != nil {
		if errors.Is(err, entity.ErrURLNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, shortcodeNotFoundResponse)
			return
		}

		httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))

		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.ServerErrorResponse)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toStatsResponse(url))
}
