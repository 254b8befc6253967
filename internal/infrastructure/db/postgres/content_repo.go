package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sabq/behavior-service/internal/domain"
)

// ContentRepo is the read-only view over the portal's article catalog.
type ContentRepo struct {
	pool *pgxpool.Pool
}

func NewContentRepo(pool *pgxpool.Pool) *ContentRepo {
	return &ContentRepo{pool: pool}
}

// ByCategory returns published articles in the category, newest first with
// view count as tie-break.
func (r *ContentRepo) ByCategory(ctx context.Context, category string, limit int) ([]domain.ContentItem, error) {
	return r.query(ctx, `
		SELECT id, title, category, slug, views, published_at
		FROM articles
		WHERE status = 'published' AND category = $1
		ORDER BY published_at DESC, views DESC
		LIMIT $2
	`, category, limit)
}

// Popular returns the globally most-viewed published articles, recency as
// tie-break.
func (r *ContentRepo) Popular(ctx context.Context, limit int) ([]domain.ContentItem, error) {
	return r.query(ctx, `
		SELECT id, title, category, slug, views, published_at
		FROM articles
		WHERE status = 'published'
		ORDER BY views DESC, published_at DESC
		LIMIT $1
	`, limit)
}

func (r *ContentRepo) query(ctx context.Context, sql string, args ...any) ([]domain.ContentItem, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.ContentItem
	for rows.Next() {
		var c domain.ContentItem
		if err := rows.Scan(&c.ID, &c.Title, &c.Category, &c.Slug, &c.Views, &c.PublishedAt); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}
