package support

import (
	"errors"
	"net/http"

	"buddymatch/internal/platform/httpx"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /api/support. Contenido global, sin auth.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/support", func(sr chi.Router) {
		sr.Get("/", listArticlesHandler(svc))
		sr.Get("/resources", listResourcesHandler(svc))
		sr.Get("/{slug}", getArticleHandler(svc))
	})
}

type articleResponse struct {
	ID       string `json:"id"`
	Slug     string `json:"slug"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Order    int    `json:"order"`
	Body     string `json:"body"`
}

type resourceResponse struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Type     string `json:"type"`
	Order    int    `json:"order"`
}

func listArticlesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		grouped, err := svc.ArticlesByCategory(r.Context())
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make(map[string][]articleResponse, len(grouped))
		for cat, list := range grouped {
			items := make([]articleResponse, 0, len(list))
			for _, a := range list {
				items = append(items, toArticleResponse(a))
			}
			out[cat] = items
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getArticleHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := svc.ArticleBySlug(r.Context(), chi.URLParam(r, "slug"))
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				httpx.WriteError(w, http.StatusNotFound, "Article not found")
				return
			}
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toArticleResponse(a))
	}
}

func listResourcesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		grouped, err := svc.ResourcesByCategory(r.Context())
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make(map[string][]resourceResponse, len(grouped))
		for cat, list := range grouped {
			items := make([]resourceResponse, 0, len(list))
			for _, res := range list {
				items = append(items, resourceResponse{
					ID:       res.ID,
					Category: res.Category,
					Title:    res.Title,
					URL:      res.URL,
					Type:     res.Type,
					Order:    res.Order,
				})
			}
			out[cat] = items
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func toArticleResponse(a Article) articleResponse {
	return articleResponse{
		ID:       a.ID,
		Slug:     a.Slug,
		Title:    a.Title,
		Category: a.Category,
		Order:    a.Order,
		Body:     a.Body,
	}
}
