package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/page-analyzer/internal/entity"
)

type urlCheckDB struct {
	ID          int64     `db:"id"`
	URLID       int64     `db:"url_id"`
	StatusCode  *int      `db:"status_code"`
	H1          *string   `db:"h1"`
	Title       *string   `db:"title"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

func (c *urlCheckDB) toEntity() entity.URLCheck {
	return entity.URLCheck{
		ID:         c.ID,
		URLID:      c.URLID,
		StatusCode: c.StatusCode,
		SEO: entity.SEO{
			H1:          c.H1,
			Title:       c.Title,
			Description: c.Description,
		},
		CreatedAt: c.CreatedAt,
	}
}

type URLCheckRepository struct {
	db *sqlx.DB
}

func NewURLCheckRepository(db *sqlx.DB) *URLCheckRepository {
	return &URLCheckRepository{db: db}
}

// Save appends a check for check.URLID. The id and created_at of the argument
// are ignored and assigned by the database.
func (r *URLCheckRepository) Save(ctx context.Context, check entity.URLCheck) (*entity.URLCheck, error) {
	const op = "adapter.repository.postgres.URLCheckRepository.Save"
	const query = `INSERT INTO url_checks(url_id, status_code, h1, title, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, url_id, status_code, h1, title, description, created_at`

	var rec urlCheckDB

	err := r.db.GetContext(ctx, &rec, query,
		check.URLID, check.StatusCode, check.H1, check.Title, check.Description)
	if err != nil {
		if isForeignKeyViolationError(err) {
			return nil, fmt.Errorf("%s: %w", op, entity.ErrURLNotFound)
		}

		return nil, fmt.Errorf("%s: failed to insert into url_checks table: %w", op, err)
	}

	saved := rec.toEntity()
	return &saved, nil
}

func (r *URLCheckRepository) RetrieveByURLID(ctx context.Context, urlID int64) ([]entity.URLCheck, error) {
	const op = "adapter.repository.postgres.URLCheckRepository.RetrieveByURLID"
	const query = `SELECT id, url_id, status_code, h1, title, description, created_at
		FROM url_checks
		WHERE url_id = $1
		ORDER BY created_at DESC, id DESC`

	var rows []urlCheckDB

	if err := r.db.SelectContext(ctx, &rows, query, urlID); err != nil {
		return nil, fmt.Errorf("%s: failed to select from url_checks table: %w", op, err)
	}

	checks := make([]entity.URLCheck, 0, len(rows))
	for i := range rows {
		checks = append(checks, rows[i].toEntity())
	}

	return checks, nil
}
