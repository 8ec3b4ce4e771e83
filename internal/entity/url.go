// Package entity defines the entities and errors used in the application.
// It includes the URL struct, which represents a shortened URL together with
// its redirect statistics, the shortcode shape rules and the domain errors.
package entity

import (
	"errors"
	"time"
)

var (
	// ErrShortcodeExists is returned when attempting to create a URL with a shortcode that already exists.
	ErrShortcodeExists = errors.New("shortcode exists")
	// ErrURLNotFound is returned when a URL with the specified shortcode cannot be found.
	ErrURLNotFound = errors.New("url not found")
	// ErrInvalidShortcode is returned when a shortcode does not match the required shape.
	ErrInvalidShortcode = errors.New("invalid shortcode")
)

// MaxURLLength is the maximum number of characters accepted for an original URL.
const MaxURLLength = 500

// URL represents a shortened URL.
type URL struct {
	ID          int64     // ID is the unique identifier of the URL in the database.
	Shortcode   string    // Shortcode is the code used to resolve the original URL.
	OriginalURL string    // OriginalURL is the full URL that the shortcode resolves to.
	URLStats              // URLStats contains redirect statistics about the URL.
	CreatedAt   time.Time // CreatedAt is the timestamp when the URL was created.
}

// URLStats contains statistics related to a shortened URL.
type URLStats struct {
	RedirectCount int64      // RedirectCount is the number of successful redirects.
	LastRedirect  *time.Time // LastRedirect is nil until the first redirect.
}
