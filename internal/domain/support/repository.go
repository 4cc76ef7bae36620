package support

import "context"

type Repository interface {
	// ListArticles ordenado por (category, order, title).
	ListArticles(ctx context.Context) ([]Article, error)
	GetArticleBySlug(ctx context.Context, slug string) (Article, error)

	// UpsertArticle por slug (el seed es re-ejecutable).
	UpsertArticle(ctx context.Context, a Article) error

	// ListResources ordenado por (category, order).
	ListResources(ctx context.Context) ([]Resource, error)

	// ReplaceResources borra y recarga el set completo.
	ReplaceResources(ctx context.Context, list []Resource) error
}
