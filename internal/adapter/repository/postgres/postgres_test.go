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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/page-analyzer/internal/entity"
)

func TestIsUniqueViolationError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "unique violation error",
			err:  &pgconn.PgError{Code: uniqueViolationErrCode},
			want: true,
		},
		{
			name: "wrapped unique violation error",
			err:  errors.Join(errors.New("insert"), &pgconn.PgError{Code: uniqueViolationErrCode}),
			want: true,
		},
		{
			name: "other PgError",
			err:  &pgconn.PgError{Code: foreignKeyViolationErrCode},
			want: false,
		},
		{
			name: "not PgError",
			err:  errors.New("unknown error"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isUniqueViolationError(tt.err))
		})
	}
}

type URLRepositoryTestSuite struct {
	suite.Suite
	errUnknown     error
	columns        []string
	summaryColumns []string
	mock           sqlmock.Sqlmock
	repo           *URLRepository
}

func (suite *URLRepositoryTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
	suite.columns = []string{"id", "name", "created_at"}
	suite.summaryColumns = []string{"id", "name", "created_at", "last_checked_at", "last_status_code"}
}

func (suite *URLRepositoryTestSuite) SetupSubTest() {
	mockDB, mock, err := sqlmock.New()
	if err != nil {
		suite.T().Fatalf("Failed to create mock database: %v", err)
	}

	db := sqlx.NewDb(mockDB, "sqlmock")
	suite.T().Cleanup(func() {
		db.Close()
	})

	suite.mock = mock
	suite.repo = NewURLRepository(db)
}

func (suite *URLRepositoryTestSuite) TearDownSubTest() {
	suite.NoError(suite.mock.ExpectationsWereMet())
}

func (suite *URLRepositoryTestSuite) TestSave() {
	suite.Run("url exists", func() {
		suite.mock.ExpectQuery(`INSERT INTO urls`).
			WithArgs("https://example.com").
			WillReturnError(&pgconn.PgError{Code: uniqueViolationErrCode})

		url, err := suite.repo.Save(context.Background(), "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLExists)
		suite.Nil(url)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`INSERT INTO urls`).
			WithArgs("https://example.com").
			WillReturnError(suite.errUnknown)

		url, err := suite.repo.Save(context.Background(), "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		createdAt := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
		rows := sqlmock.NewRows(suite.columns).
			AddRow(1, "https://example.com", createdAt)

		suite.mock.ExpectQuery(`INSERT INTO urls`).
			WithArgs("https://example.com").
			WillReturnRows(rows)

		url, err := suite.repo.Save(context.Background(), "https://example.com")

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal(int64(1), url.ID)
		suite.Equal("https://example.com", url.Name)
		suite.Equal(createdAt, url.CreatedAt)
	})
}

func (suite *URLRepositoryTestSuite) TestRetrieveByName() {
	suite.Run("url not found", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM urls WHERE name`).
			WithArgs("https://example.com").
			WillReturnError(sql.ErrNoRows)

		url, err := suite.repo.RetrieveByName(context.Background(), "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM urls WHERE name`).
			WithArgs("https://example.com").
			WillReturnError(suite.errUnknown)

		url, err := suite.repo.RetrieveByName(context.Background(), "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		rows := sqlmock.NewRows(suite.columns).
			AddRow(7, "https://example.com", time.Time{})

		suite.mock.ExpectQuery(`SELECT (.+) FROM urls WHERE name`).
			WithArgs("https://example.com").
			WillReturnRows(rows)

		url, err := suite.repo.RetrieveByName(context.Background(), "https://example.com")

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal(int64(7), url.ID)
		suite.Equal("https://example.com", url.Name)
	})
}

func (suite *URLRepositoryTestSuite) TestRetrieveByID() {
	suite.Run("url not found", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM urls WHERE id`).
			WithArgs(int64(42)).
			WillReturnError(sql.ErrNoRows)

		url, err := suite.repo.RetrieveByID(context.Background(), 42)

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM urls WHERE id`).
			WithArgs(int64(42)).
			WillReturnError(suite.errUnknown)

		url, err := suite.repo.RetrieveByID(context.Background(), 42)

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		rows := sqlmock.NewRows(suite.columns).
			AddRow(42, "https://example.com", time.Time{})

		suite.mock.ExpectQuery(`SELECT (.+) FROM urls WHERE id`).
			WithArgs(int64(42)).
			WillReturnRows(rows)

		url, err := suite.repo.RetrieveByID(context.Background(), 42)

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal(int64(42), url.ID)
	})
}

func (suite *URLRepositoryTestSuite) TestRetrieveAll() {
	suite.Run("unknown error", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM urls u LEFT JOIN LATERAL`).
			WillReturnError(suite.errUnknown)

		urls, err := suite.repo.RetrieveAll(context.Background())

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(urls)
	})

	suite.Run("empty", func() {
		suite.mock.ExpectQuery(`SELECT (.+) FROM urls u LEFT JOIN LATERAL`).
			WillReturnRows(sqlmock.NewRows(suite.summaryColumns))

		urls, err := suite.repo.RetrieveAll(context.Background())

		suite.NoError(err)
		suite.Empty(urls)
	})

	suite.Run("success", func() {
		checkedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
		rows := sqlmock.NewRows(suite.summaryColumns).
			AddRow(2, "https://second.example.com", time.Time{}, nil, nil).
			AddRow(1, "https://example.com", time.Time{}, checkedAt, 200)

		suite.mock.ExpectQuery(`SELECT (.+) FROM urls u LEFT JOIN LATERAL`).
			WillReturnRows(rows)

		urls, err := suite.repo.RetrieveAll(context.Background())

		suite.NoError(err)
		suite.Len(urls, 2)

		suite.Equal(int64(2), urls[0].ID)
		suite.Nil(urls[0].LastCheckedAt)
		suite.Nil(urls[0].LastStatusCode)

		suite.Equal(int64(1), urls[1].ID)
		suite.Equal("https://example.com", urls[1].Name)
		suite.Require().NotNil(urls[1].LastCheckedAt)
		suite.Equal(checkedAt, *urls[1].LastCheckedAt)
		suite.Require().NotNil(urls[1].LastStatusCode)
		suite.Equal(200, *urls[1].LastStatusCode)
	})
}

func TestURLRepository(t *testing.T) {
	suite.Run(t, new(URLRepositoryTestSuite))
}
