package dogs

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"buddymatch/internal/middleware"
	"buddymatch/internal/platform/httpx"
	"buddymatch/internal/platform/patch"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /api/dogs (todo scoped al owner autenticado).
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/dogs", func(dr chi.Router) {
		dr.Get("/", listDogsHandler(svc))
		dr.Post("/", createDogHandler(svc))
		dr.Patch("/{dogID}", updateDogHandler(svc))
		dr.Delete("/{dogID}", deleteDogHandler(svc))
	})
}

type createDogRequest struct {
	Name           string `json:"name"`
	Size           string `json:"size" enums:"small,medium,large"`
	Age            string `json:"age"`
	Breed          string `json:"breed"`
	ReactivityTags string `json:"reactivityTags"`
	Triggers       string `json:"triggers"`
}

type dogResponse struct {
	ID             string    `json:"id"`
	OwnerID        string    `json:"ownerId"`
	Name           string    `json:"name"`
	Size           string    `json:"size"`
	Age            *string   `json:"age"`
	Breed          *string   `json:"breed"`
	ReactivityTags *string   `json:"reactivityTags"`
	Triggers       *string   `json:"triggers"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func listDogsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		items, err := svc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]dogResponse, 0, len(items))
		for _, d := range items {
			out = append(out, toDogResponse(d))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

// createDogHandler godoc
// @Summary Registrar perro
// @Tags dogs
// @Accept json
// @Produce json
// @Param payload body createDogRequest true "name y size requeridos"
// @Success 201 {object} dogResponse
// @Failure 400 {object} map[string]string
// @Router /api/dogs [post]
func createDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		var req createDogRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		d, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:           req.Name,
			Size:           req.Size,
			Age:            req.Age,
			Breed:          req.Breed,
			ReactivityTags: req.ReactivityTags,
			Triggers:       req.Triggers,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				httpx.WriteError(w, http.StatusBadRequest, "Name and size required")
				return
			}
			httpx.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toDogResponse(d))
	}
}

func updateDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		in, err := decodeDogPatch(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		d, err := svc.Update(r.Context(), claims.UserID, chi.URLParam(r, "dogID"), in)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				httpx.WriteError(w, http.StatusNotFound, "Dog not found")
				return
			}
			httpx.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toDogResponse(d))
	}
}

func deleteDogHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		if err := svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "dogID")); err != nil {
			if errors.Is(err, ErrNotFound) {
				httpx.WriteError(w, http.StatusNotFound, "Dog not found")
				return
			}
			httpx.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		httpx.NoContent(w)
	}
}

func decodeDogPatch(raw map[string]json.RawMessage) (UpdateInput, error) {
	var in UpdateInput
	var err error
	if in.Name, err = patch.FieldFrom[string](raw, "name"); err != nil {
		return in, err
	}
	if in.Size, err = patch.FieldFrom[string](raw, "size"); err != nil {
		return in, err
	}
	if in.Age, err = patch.FieldFrom[string](raw, "age"); err != nil {
		return in, err
	}
	if in.Breed, err = patch.FieldFrom[string](raw, "breed"); err != nil {
		return in, err
	}
	if in.ReactivityTags, err = patch.FieldFrom[string](raw, "reactivityTags"); err != nil {
		return in, err
	}
	if in.Triggers, err = patch.FieldFrom[string](raw, "triggers"); err != nil {
		return in, err
	}
	return in, nil
}

func toDogResponse(d Dog) dogResponse {
	return dogResponse{
		ID:             d.ID,
		OwnerID:        d.OwnerID,
		Name:           d.Name,
		Size:           string(d.Size),
		Age:            d.Age,
		Breed:          d.Breed,
		ReactivityTags: d.ReactivityTags,
		Triggers:       d.Triggers,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}
