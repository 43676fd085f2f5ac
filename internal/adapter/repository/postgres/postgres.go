package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/page-analyzer/internal/entity"
)

const (
	uniqueViolationErrCode     = "23505"
	foreignKeyViolationErrCode = "23503"
)

func hasErrCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.SQLState() == code
}

func isUniqueViolationError(err error) bool {
	return hasErrCode(err, uniqueViolationErrCode)
}

func isForeignKeyViolationError(err error) bool {
	return hasErrCode(err, foreignKeyViolationErrCode)
}

type urlDB struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (u *urlDB) toEntity() *entity.URL {
	return &entity.URL{
		ID:        u.ID,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}

type urlSummaryDB struct {
	urlDB
	LastCheckedAt  *time.Time `db:"last_checked_at"`
	LastStatusCode *int       `db:"last_status_code"`
}

func (s *urlSummaryDB) toEntity() entity.URLSummary {
	return entity.URLSummary{
		URL:            *s.urlDB.toEntity(),
		LastCheckedAt:  s.LastCheckedAt,
		LastStatusCode: s.LastStatusCode,
	}
}

type URLRepository struct {
	db *sqlx.DB
}

func NewURLRepository(db *sqlx.DB) *URLRepository {
	return &URLRepository{db: db}
}

func (r *URLRepository) Save(ctx context.Context, name string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.Save"
	const query = `INSERT INTO urls(name) VALUES ($1) RETURNING id, name, created_at`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, name); err != nil {
		if isUniqueViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLExists)
		}

		return nil, fmt.Errorf("%s: failed to insert into urls table: %w", op, err)
	}

	return url.toEntity(), nil
}

func (r *URLRepository) RetrieveByName(ctx context.Context, name string) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.RetrieveByName"
	const query = `SELECT id, name, created_at FROM urls WHERE name = $1`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	return url.toEntity(), nil
}

func (r *URLRepository) RetrieveByID(ctx context.Context, id int64) (*entity.URL, error) {
	const op = "adapter.repository.postgres.URLRepository.RetrieveByID"
	const query = `SELECT id, name, created_at FROM urls WHERE id = $1`

	var url urlDB

	if err := r.db.GetContext(ctx, &url, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to get row from urls table: %w", op, err)
	}

	return url.toEntity(), nil
}

// RetrieveAll returns every URL, newest first, each with the timestamp and
// status code of its latest check.
func (r *URLRepository) RetrieveAll(ctx context.Context) ([]entity.URLSummary, error) {
	const op = "adapter.repository.postgres.URLRepository.RetrieveAll"
	const query = `SELECT u.id, u.name, u.created_at,
			c.created_at AS last_checked_at,
			c.status_code AS last_status_code
		FROM urls u
		LEFT JOIN LATERAL (
			SELECT created_at, status_code
			FROM url_checks
			WHERE url_id = u.id
			ORDER BY created_at DESC, id DESC
			LIMIT 1
		) c ON TRUE
		ORDER BY u.created_at DESC, u.id DESC`

	var rows []urlSummaryDB

	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("%s: failed to select from urls table: %w", op, err)
	}

	summaries := make([]entity.URLSummary, 0, len(rows))
	for i := range rows {
		summaries = append(summaries, rows[i].toEntity())
	}

	return summaries, nil
}
