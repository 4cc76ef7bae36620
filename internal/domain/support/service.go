package support

import (
	"context"
	"errors"
	"strings"
)

var ErrNotFound = errors.New("article not found")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// ArticlesByCategory agrupa el contenido para el índice de soporte.
// El orden dentro de cada categoría ya viene del repo.
func (s *Service) ArticlesByCategory(ctx context.Context) (map[string][]Article, error) {
	articles, err := s.repo.ListArticles(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]Article)
	for _, a := range articles {
		out[a.Category] = append(out[a.Category], a)
	}
	return out, nil
}

func (s *Service) ArticleBySlug(ctx context.Context, slug string) (Article, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return Article{}, ErrNotFound
	}
	return s.repo.GetArticleBySlug(ctx, slug)
}

func (s *Service) ResourcesByCategory(ctx context.Context) (map[string][]Resource, error) {
	resources, err := s.repo.ListResources(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string][]Resource)
	for _, r := range resources {
		out[r.Category] = append(out[r.Category], r)
	}
	return out, nil
}
