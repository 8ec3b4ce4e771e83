package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/vadimbarashkov/shortener/internal/entity"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrMaxRetriesExceeded is returned when every generated shortcode collided with an existing one.
var ErrMaxRetriesExceeded = errors.New("maximum retries exceeded for generating shortcode")

const defaultMaxRetries = 5

type urlRepository interface {
	Save(ctx context.Context, shortcode, originalURL string) (*entity.URL, error)
	FindByShortcode(ctx context.Context, shortcode string) (*entity.URL, error)
	RecordRedirect(ctx context.Context, shortcode string) (*entity.URL, error)
}

func generateShortcode() (string, error) {
	return gonanoid.Generate(entity.ShortcodeAlphabet, entity.ShortcodeLength)
}

type URLUseCase struct {
	urlRepo    urlRepository
	generate   func() (string, error)
	maxRetries int
}

func New(urlRepo urlRepository) *URLUseCase {
	return &URLUseCase{
		urlRepo:    urlRepo,
		generate:   generateShortcode,
		maxRetries: defaultMaxRetries,
	}
}

// ShortenURL stores originalURL under shortcode. An empty shortcode makes the
// use case generate a random one, retrying on collisions.
func (uc *URLUseCase) ShortenURL(ctx context.Context, originalURL, shortcode string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ShortenURL"

	if shortcode != "" {
		if !entity.IsValidShortcode(shortcode) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidShortcode)
		}

		url, err := uc.urlRepo.Save(ctx, shortcode, originalURL)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return url, nil
	}

	for i := 0; i < uc.maxRetries; i++ {
		shortcode, err := uc.generate()
		if err != nil {
			return nil, fmt.Errorf("%s: failed to generate shortcode: %w", op, err)
		}

		url, err := uc.urlRepo.Save(ctx, shortcode, originalURL)
		if err != nil {
			if errors.Is(err, entity.ErrShortcodeExists) {
				continue
			}

			return nil, fmt.Errorf("%s: failed to shorten url: %w", op, err)
		}

		return url, nil
	}

	return nil, fmt.Errorf("%s: %w", op, ErrMaxRetriesExceeded)
}

// ResolveShortcode records a redirect and returns the updated URL.
func (uc *URLUseCase) ResolveShortcode(ctx context.Context, shortcode string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.ResolveShortcode"

	url, err := uc.urlRepo.RecordRedirect(ctx, shortcode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to resolve shortcode: %w", op, err)
	}

	return url, nil
}

func (uc *URLUseCase) GetURLStats(ctx context.Context, shortcode string) (*entity.URL, error) {
	const op = "usecase.URLUseCase.GetURLStats"

	url, err := uc.urlRepo.FindByShortcode(ctx, shortcode)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to get url stats: %w", op, err)
	}

	return url, nil
}
