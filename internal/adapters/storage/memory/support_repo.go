package memory

import (
	"context"
	"sort"
	"sync"

	"buddymatch/internal/domain/support"
)

type supportRepo struct {
	mu        sync.RWMutex
	bySlug    map[string]support.Article
	resources []support.Resource
}

func NewSupportRepo() support.Repository {
	return &supportRepo{bySlug: make(map[string]support.Article)}
}

func (r *supportRepo) ListArticles(ctx context.Context) ([]support.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]support.Article, 0, len(r.bySlug))
	for _, a := range r.bySlug {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.Title < b.Title
	})
	return out, nil
}

func (r *supportRepo) GetArticleBySlug(ctx context.Context, slug string) (support.Article, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.bySlug[slug]
	if !ok {
		return support.Article{}, support.ErrNotFound
	}
	return a, nil
}

func (r *supportRepo) UpsertArticle(ctx context.Context, a support.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.bySlug[a.Slug]; ok {
		a.ID = prev.ID
	}
	r.bySlug[a.Slug] = a
	return nil
}

func (r *supportRepo) ListResources(ctx context.Context) ([]support.Resource, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]support.Resource, len(r.resources))
	copy(out, r.resources)
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.Order < b.Order
	})
	return out, nil
}

func (r *supportRepo) ReplaceResources(ctx context.Context, list []support.Resource) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.resources = make([]support.Resource, len(list))
	copy(r.resources, list)
	return nil
}
