package postgres

import (
	"context"
	"database/sql"

	"buddymatch/internal/domain/support"
)

type SupportRepo struct {
	db *sql.DB
}

func NewSupportRepo(db *sql.DB) *SupportRepo {
	return &SupportRepo{db: db}
}

func (r *SupportRepo) ListArticles(ctx context.Context) ([]support.Article, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, slug, title, category, ord, body
		FROM support_articles
		ORDER BY category ASC, ord ASC, title ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]support.Article, 0)
	for rows.Next() {
		var a support.Article
		if err := rows.Scan(&a.ID, &a.Slug, &a.Title, &a.Category, &a.Order, &a.Body); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SupportRepo) GetArticleBySlug(ctx context.Context, slug string) (support.Article, error) {
	var a support.Article
	err := r.db.QueryRowContext(ctx, `
		SELECT id, slug, title, category, ord, body
		FROM support_articles
		WHERE slug = $1
	`, slug).Scan(&a.ID, &a.Slug, &a.Title, &a.Category, &a.Order, &a.Body)
	if err == sql.ErrNoRows {
		return support.Article{}, support.ErrNotFound
	}
	if err != nil {
		return support.Article{}, err
	}
	return a, nil
}

func (r *SupportRepo) UpsertArticle(ctx context.Context, a support.Article) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO support_articles (id, slug, title, category, ord, body)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (slug) DO UPDATE
		SET title = EXCLUDED.title,
			category = EXCLUDED.category,
			ord = EXCLUDED.ord,
			body = EXCLUDED.body
	`, a.ID, a.Slug, a.Title, a.Category, a.Order, a.Body)
	return err
}

func (r *SupportRepo) ListResources(ctx context.Context) ([]support.Resource, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, category, title, url, type, ord
		FROM support_resources
		ORDER BY category ASC, ord ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]support.Resource, 0)
	for rows.Next() {
		var res support.Resource
		if err := rows.Scan(&res.ID, &res.Category, &res.Title, &res.URL, &res.Type, &res.Order); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *SupportRepo) ReplaceResources(ctx context.Context, list []support.Resource) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM support_resources`); err != nil {
		return err
	}
	for _, res := range list {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO support_resources (id, category, title, url, type, ord)
			VALUES ($1,$2,$3,$4,$5,$6)
		`, res.ID, res.Category, res.Title, res.URL, res.Type, res.Order); err != nil {
			return err
		}
	}
	return tx.Commit()
}
