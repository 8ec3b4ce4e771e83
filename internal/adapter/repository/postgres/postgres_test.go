package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/shortener/internal/entity"
)

type URLRepositoryTestSuite struct {
	suite.Suite
	errUnknown error
	columns    []string
	mock       sqlmock.Sqlmock
	repo       *URLRepository
}

func (suite *URLRepositoryTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
	suite.columns = []string{"id", "url", "shortcode", "created", "last_redirect", "redirect_count"}
}

func (suite *URLRepositoryTestSuite) SetupSubTest() {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		suite.T().Fatalf("Failed to create mock database: %v", err)
	}
	suite.T().Cleanup(func() {
		mockDB.Close()
	})

	db := sqlx.NewDb(mockDB, "sqlmock")

	suite.mock = mock
	suite.repo = NewURLRepository(db, WithQueryTimeout(50*time.Millisecond))
}

func (suite *URLRepositoryTestSuite) TearDownSubTest() {
	suite.NoError(suite.mock.ExpectationsWereMet())
}

func (suite *URLRepositoryTestSuite) TestSave() {
	suite.Run("shortcode exists", func() {
		suite.mock.ExpectQuery(`INSERT INTO urls`).
			WithArgs("https://example.com", "abc123").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationErrCode})

		url, err := suite.repo.Save(context.Background(), "abc123", "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrShortcodeExists)
		suite.Nil(url)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`INSERT INTO urls`).
			WithArgs("https://example.com", "abc123").
			WillReturnError(suite.errUnknown)

		url, err := suite.repo.Save(context.Background(), "abc123", "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.NotErrorIs(err, entity.ErrShortcodeExists)
		suite.Nil(url)
	})

	suite.Run("other postgres error", func() {
		suite.mock.ExpectQuery(`INSERT INTO urls`).
			WithArgs("https://example.com", "abc123").
			WillReturnError(&pgconn.PgError{Code: "23514"})

		url, err := suite.repo.Save(context.Background(), "abc123", "https://example.com")

		suite.Error(err)
		suite.NotErrorIs(err, entity.ErrShortcodeExists)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		rows := sqlmock.NewRows(suite.columns).
			AddRow(1, "https://example.com", "abc123", created, nil, 0)

		suite.mock.ExpectQuery(`INSERT INTO urls`).
			WithArgs("https://example.com", "abc123").
			WillReturnRows(rows)

		url, err := suite.repo.Save(context.Background(), "abc123", "https://example.com")

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal(int64(1), url.ID)
		suite.Equal("abc123", url.Shortcode)
		suite.Equal("https://example.com", url.OriginalURL)
		suite.Equal(created, url.CreatedAt)
		suite.Zero(url.RedirectCount)
		suite.Nil(url.LastRedirect)
	})
}

func (suite *URLRepositoryTestSuite) TestFindByShortcode() {
	suite.Run("url not found", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM urls`).
			WithArgs("abc123").
			WillReturnError(sql.ErrNoRows)

		url, err := suite.repo.FindByShortcode(context.Background(), "abc123")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM urls`).
			WithArgs("abc123").
			WillReturnError(suite.errUnknown)

		url, err := suite.repo.FindByShortcode(context.Background(), "abc123")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(url)
	})

	suite.Run("query timeout", func() {
		rows := sqlmock.NewRows(suite.columns).
			AddRow(1, "https://example.com", "abc123", time.Time{}, nil, 0)

		suite.mock.ExpectQuery(`SELECT (.+) FROM urls`).
			WithArgs("abc123").
			WillDelayFor(time.Second).
			WillReturnRows(rows)

		url, err := suite.repo.FindByShortcode(context.Background(), "abc123")

		suite.Error(err)
		suite.NotErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		lastRedirect := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows(suite.columns).
			AddRow(1, "https://example.com", "abc123", time.Time{}, lastRedirect, 7)

		suite.mock.ExpectQuery(`SELECT (.+) FROM urls`).
			WithArgs("abc123").
			WillReturnRows(rows)

		url, err := suite.repo.FindByShortcode(context.Background(), "abc123")

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal("abc123", url.Shortcode)
		suite.Equal("https://example.com", url.OriginalURL)
		suite.Equal(int64(7), url.RedirectCount)
		suite.Require().NotNil(url.LastRedirect)
		suite.Equal(lastRedirect, *url.LastRedirect)
	})
}

func (suite *URLRepositoryTestSuite) TestRecordRedirect() {
	suite.Run("url not found", func() {
		suite.mock.ExpectQuery(`UPDATE urls`).
			WithArgs("abc123").
			WillReturnError(sql.ErrNoRows)

		url, err := suite.repo.RecordRedirect(context.Background(), "abc123")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`UPDATE urls`).
			WithArgs("abc123").
			WillReturnError(suite.errUnknown)

		url, err := suite.repo.RecordRedirect(context.Background(), "abc123")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		lastRedirect := time.Now().UTC()
		rows := sqlmock.NewRows(suite.columns).
			AddRow(1, "https://example.com", "abc123", time.Time{}, lastRedirect, 1)

		suite.mock.ExpectQuery(`UPDATE urls\s+SET redirect_count = redirect_count \+ 1, last_redirect = now\(\)`).
			WithArgs("abc123").
			WillReturnRows(rows)

		url, err := suite.repo.RecordRedirect(context.Background(), "abc123")

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal("abc123", url.Shortcode)
		suite.Equal("https://example.com", url.OriginalURL)
		suite.Equal(int64(1), url.RedirectCount)
		suite.NotNil(url.LastRedirect)
	})
}

func TestURLRepository(t *testing.T) {
	suite.Run(t, new(URLRepositoryTestSuite))
}
