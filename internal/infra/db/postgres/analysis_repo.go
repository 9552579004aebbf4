package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/bryanwahyu/product-content-ai/internal/application"
	domain "github.com/bryanwahyu/product-content-ai/internal/domain/product"
	"github.com/bryanwahyu/product-content-ai/internal/infra/db"
)

type AnalysisRepository struct {
	db    *sql.DB
	clock application.Clock
}

func NewAnalysisRepository(conn *sql.DB, clock application.Clock) *AnalysisRepository {
	if clock == nil {
		clock = application.SystemClock{}
	}
	return &AnalysisRepository{db: conn, clock: clock}
}

const selectColumns = `id, image_data, image_url, title, description, hashtags, categories, settings, created_at`

// Create inserts a record; BIGSERIAL assigns the id
func (r *AnalysisRepository) Create(ctx context.Context, in domain.NewAnalysis) (*domain.Analysis, error) {
	const q = `
INSERT INTO product_analyses
  (image_data, image_url, title, description, hashtags, categories, settings, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
RETURNING id;`

	hashtags, categories, settings, err := db.EncodeJSON(in)
	if err != nil {
		return nil, err
	}
	createdAt := db.Timestamp(r.clock.Now())

	var id int64
	if err := r.db.QueryRowContext(ctx, q, in.ImageData, in.ImageURL, in.Title, in.Description,
		string(hashtags), string(categories), string(settings), createdAt).Scan(&id); err != nil {
		return nil, err
	}
	return in.Build(domain.AnalysisID(id), createdAt), nil
}

// Get returns one record or domain.ErrNotFound
func (r *AnalysisRepository) Get(ctx context.Context, id domain.AnalysisID) (*domain.Analysis, error) {
	q := `SELECT ` + selectColumns + ` FROM product_analyses WHERE id=$1;`

	var row db.Row
	err := r.db.QueryRowContext(ctx, q, int64(id)).Scan(&row.ID, &row.ImageData, &row.ImageURL, &row.Title,
		&row.Desc, &row.Hashtags, &row.Categories, &row.Settings, &row.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return row.Decode()
}

// List returns all records ordered by created_at desc
func (r *AnalysisRepository) List(ctx context.Context) ([]*domain.Analysis, error) {
	q := `SELECT ` + selectColumns + ` FROM product_analyses ORDER BY created_at DESC, id DESC;`

	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*domain.Analysis{}
	for rows.Next() {
		var row db.Row
		if err := rows.Scan(&row.ID, &row.ImageData, &row.ImageURL, &row.Title,
			&row.Desc, &row.Hashtags, &row.Categories, &row.Settings, &row.CreatedAt); err != nil {
			return nil, err
		}
		a, err := row.Decode()
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes a record and reports whether a row was affected
func (r *AnalysisRepository) Delete(ctx context.Context, id domain.AnalysisID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM product_analyses WHERE id=$1;`, int64(id))
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
