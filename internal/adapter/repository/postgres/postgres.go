package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/shortener/internal/entity"
)

const (
	uniqueViolationErrCode = "23505"
	defaultQueryTimeout    = 3 * time.Second
)

func isUniqueViolationError(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationErrCode
}

type urlDB struct {
	ID            int64      `db:"id"`
	URL           string     `db:"url"`
	Shortcode     string     `db:"shortcode"`
	Created       time.Time  `db:"created"`
	LastRedirect  *time.Time `db:"last_redirect"`
	RedirectCount int64      `db:"redirect_count"`
}

func (u *urlDB) toEntity() *entity.URL {
	return &entity.URL{
		ID:          u.ID,
		Shortcode:   u.Shortcode,
		OriginalURL: u.URL,
		URLStats: entity.URLStats{
			RedirectCount: u.RedirectCount,
			LastRedirect:  u.LastRedirect,
		},
		CreatedAt: u.Created,
	}
}

type Option func(*URLRepository)

// WithQueryTimeout bounds every statement issued by the repository.
func WithQueryTimeout(d time.Duration) Option {
	return func(r *URLRepository) {
		if d > 0 {
			r.queryTimeout = d
		}
	}
}

type URLRepository struct {
	db           *sqlx.DB
	queryTimeout time.Duration
}

func NewURLRepository(db *sqlx.DB, opts ...Option) *URLRepository {
	r := &URLRepository{
		db:           db,
		queryTimeout: defaultQueryTimeout,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *URLRepository) Save(ctx context.Context, shortcode, originalURL string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.Save"
	const query = `INSERT INTO urls(url, shortcode) VALUES ($1, $2) RETURNING *`

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, originalURL, shortcode); err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrShortcodeExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into urls table: %w", op, err)
	}

	return url.toEntity(), nil
}

func (r *URLRepository) FindByShortcode(ctx context.Context, shortcode string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.FindByShortcode"
	const query = `SELECT * FROM urls WHERE shortcode = $1`

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, shortcode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	return url.toEntity(), nil
}

// RecordRedirect increments the redirect counter and stamps the redirect time
// in a single statement, so concurrent redirects never lose an increment.
// The updated record is returned.
func (r *URLRepository) RecordRedirect(ctx context.Context, shortcode string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.RecordRedirect"
	const query = `UPDATE urls
		SET redirect_count = redirect_count + 1, last_redirect = now()
		WHERE shortcode = $1
		RETURNING *`

	ctx, cancel := context.WithTimeout(ctx, r.queryTimeout)
	defer cancel()

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, shortcode); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to update urls table row: %w", op, err)
	}

	return url.toEntity(), nil
}
