package posts

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"buddymatch/internal/geo"
	"buddymatch/internal/middleware"
	"buddymatch/internal/platform/httpx"
	"buddymatch/internal/platform/patch"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /api/posts. El listado y el detalle aceptan guests
// (auth opcional); el resto exige cuenta.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/api/posts", func(pr chi.Router) {
		pr.Get("/", listPostsHandler(svc))
		pr.Get("/mine", minePostsHandler(svc))
		pr.Post("/", createPostHandler(svc))

		pr.Get("/{postID}", getPostHandler(svc))
		pr.Patch("/{postID}", updatePostHandler(svc))
		pr.Delete("/{postID}", deletePostHandler(svc))

		pr.Post("/{postID}/rsvp", rsvpHandler(svc))
		pr.Delete("/{postID}/rsvp", cancelRSVPHandler(svc))
	})
}

type createPostRequest struct {
	Title         string   `json:"title"`
	Body          string   `json:"body"`
	Location      string   `json:"location"`
	Lat           *float64 `json:"lat"`
	Lng           *float64 `json:"lng"`
	MeetupAt      string   `json:"meetupAt"` // RFC3339 opcional
	PreferredSize string   `json:"preferredSize" enums:"small,medium,large"`
}

type authorResponse struct {
	ID              string     `json:"id"`
	Name            *string    `json:"name"`
	City            *string    `json:"city"`
	SafetyPledgedAt *time.Time `json:"safetyPledgedAt,omitempty"`
}

type rsvpUserRef struct {
	UserID string `json:"userId"`
}

type listItemResponse struct {
	ID            string     `json:"id"`
	AuthorID      string     `json:"authorId"`
	Title         string     `json:"title"`
	Body          string     `json:"body"`
	Location      *string    `json:"location"`
	Lat           *float64   `json:"lat"`
	Lng           *float64   `json:"lng"`
	MeetupAt      *time.Time `json:"meetupAt"`
	PreferredSize *string    `json:"preferredSize"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	Author     authorResponse `json:"author"`
	RSVPs      []rsvpUserRef  `json:"rsvps"`
	RSVPCount  int            `json:"rsvpCount"`
	UserRsvped bool           `json:"userRsvped"`
}

type attendeeResponse struct {
	PostID    string    `json:"postId"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	User      struct {
		ID   string  `json:"id"`
		Name *string `json:"name"`
		City *string `json:"city"`
	} `json:"user"`
}

type detailResponse struct {
	ID            string     `json:"id"`
	AuthorID      string     `json:"authorId"`
	Title         string     `json:"title"`
	Body          string     `json:"body"`
	Location      *string    `json:"location"`
	Lat           *float64   `json:"lat"`
	Lng           *float64   `json:"lng"`
	MeetupAt      *time.Time `json:"meetupAt"`
	PreferredSize *string    `json:"preferredSize"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	Author authorResponse     `json:"author"`
	RSVPs  []attendeeResponse `json:"rsvps"`
}

// listPostsHandler godoc
// @Summary Feed de meetups
// @Description Filtra por substring (q) y por bounding box si vienen lat/lng. Posts sin coordenadas siempre entran. Radio default 100km. Auth opcional: con sesión se anota userRsvped.
// @Tags posts
// @Produce json
// @Param q query string false "substring sobre title/body/location"
// @Param lat query number false "latitud de referencia"
// @Param lng query number false "longitud de referencia"
// @Param radiusKm query number false "radio en km (default 100)"
// @Success 200 {array} listItemResponse
// @Router /api/posts [get]
func listPostsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, _ := middleware.GetClaims(r.Context()) // guest ok

		q := r.URL.Query()
		radius := geo.ParseRadius(q.Get("radiusKm"), geo.DefaultMeetupRadiusKm)

		items, err := svc.List(r.Context(), q.Get("q"), queryCoord(q.Get("lat")), queryCoord(q.Get("lng")), radius)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]listItemResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toListItemResponse(it, claims.UserID))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func minePostsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		items, err := svc.Mine(r.Context(), claims.UserID)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		out := make([]listItemResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toListItemResponse(it, claims.UserID))
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func getPostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, err := svc.GetDetail(r.Context(), chi.URLParam(r, "postID"))
		if err != nil {
			httpx.WriteError(w, http.StatusNotFound, "Post not found")
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toDetailResponse(d, true))
	}
}

func createPostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		var req createPostRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		var meetupAt *time.Time
		if strings.TrimSpace(req.MeetupAt) != "" {
			t, err := time.Parse(time.RFC3339, req.MeetupAt)
			if err != nil {
				httpx.WriteError(w, http.StatusBadRequest, "meetupAt must be RFC3339")
				return
			}
			meetupAt = &t
		}

		d, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Title:         req.Title,
			Body:          req.Body,
			Location:      req.Location,
			Lat:           req.Lat,
			Lng:           req.Lng,
			MeetupAt:      meetupAt,
			PreferredSize: req.PreferredSize,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				httpx.WriteError(w, http.StatusBadRequest, "Title and body required")
				return
			}
			httpx.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		httpx.WriteJSON(w, http.StatusCreated, toDetailResponse(d, false))
	}
}

func updatePostHandler(svc *Service) http.HandlerFunc {
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

		in, err := decodePostPatch(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		d, err := svc.Update(r.Context(), claims.UserID, chi.URLParam(r, "postID"), in)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				httpx.WriteError(w, http.StatusNotFound, "Post not found")
				return
			}
			httpx.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toDetailResponse(d, false))
	}
}

func deletePostHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		if err := svc.Delete(r.Context(), claims.UserID, chi.URLParam(r, "postID")); err != nil {
			if errors.Is(err, ErrNotFound) {
				httpx.WriteError(w, http.StatusNotFound, "Post not found")
				return
			}
			httpx.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		httpx.NoContent(w)
	}
}

func rsvpHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		d, err := svc.RSVP(r.Context(), chi.URLParam(r, "postID"), claims.UserID)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				httpx.WriteError(w, http.StatusNotFound, "Post not found")
				return
			}
			httpx.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toDetailResponse(d, false))
	}
}

func cancelRSVPHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		err := svc.CancelRSVP(r.Context(), chi.URLParam(r, "postID"), claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, ErrNotFound):
				httpx.WriteError(w, http.StatusNotFound, "Post not found")
			case errors.Is(err, ErrRSVPNotFound):
				httpx.WriteError(w, http.StatusNotFound, "RSVP not found")
			default:
				httpx.WriteError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
		httpx.NoContent(w)
	}
}

func decodePostPatch(raw map[string]json.RawMessage) (UpdateInput, error) {
	var in UpdateInput
	var err error
	if in.Title, err = patch.FieldFrom[string](raw, "title"); err != nil {
		return in, err
	}
	if in.Body, err = patch.FieldFrom[string](raw, "body"); err != nil {
		return in, err
	}
	if in.Location, err = patch.FieldFrom[string](raw, "location"); err != nil {
		return in, err
	}
	if in.Lat, err = patch.FieldFrom[float64](raw, "lat"); err != nil {
		return in, err
	}
	if in.Lng, err = patch.FieldFrom[float64](raw, "lng"); err != nil {
		return in, err
	}
	if in.MeetupAt, err = patch.FieldFrom[time.Time](raw, "meetupAt"); err != nil {
		return in, err
	}
	if in.PreferredSize, err = patch.FieldFrom[string](raw, "preferredSize"); err != nil {
		return in, err
	}
	return in, nil
}

// queryCoord: param ausente => nil; presente pero malformado => NaN
// (el box excluye candidatos con coordenadas, los sin coordenadas pasan).
func queryCoord(raw string) *float64 {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		nan := math.NaN()
		return &nan
	}
	return &v
}

func toListItemResponse(it ListItem, viewerID string) listItemResponse {
	refs := make([]rsvpUserRef, 0, len(it.RSVPUserIDs))
	userRsvped := false
	for _, uid := range it.RSVPUserIDs {
		refs = append(refs, rsvpUserRef{UserID: uid})
		if viewerID != "" && uid == viewerID {
			userRsvped = true
		}
	}
	return listItemResponse{
		ID:            it.ID,
		AuthorID:      it.AuthorID,
		Title:         it.Title,
		Body:          it.Body,
		Location:      it.Location,
		Lat:           it.Lat,
		Lng:           it.Lng,
		MeetupAt:      it.MeetupAt,
		PreferredSize: it.PreferredSize,
		CreatedAt:     it.CreatedAt,
		UpdatedAt:     it.UpdatedAt,
		Author: authorResponse{
			ID:   it.Author.ID,
			Name: it.Author.Name,
			City: it.Author.City,
		},
		RSVPs:      refs,
		RSVPCount:  len(refs),
		UserRsvped: userRsvped,
	}
}

// withPledge: el detalle expone safetyPledgedAt del autor (señal de confianza);
// create/patch/rsvp devuelven el autor corto.
func toDetailResponse(d Detail, withPledge bool) detailResponse {
	author := authorResponse{
		ID:   d.Author.ID,
		Name: d.Author.Name,
		City: d.Author.City,
	}
	if withPledge {
		author.SafetyPledgedAt = d.Author.SafetyPledgedAt
	}

	attendees := make([]attendeeResponse, 0, len(d.RSVPs))
	for _, a := range d.RSVPs {
		ar := attendeeResponse{
			PostID:    a.PostID,
			UserID:    a.UserID,
			CreatedAt: a.CreatedAt,
		}
		ar.User.ID = a.User.ID
		ar.User.Name = a.User.Name
		ar.User.City = a.User.City
		attendees = append(attendees, ar)
	}

	return detailResponse{
		ID:            d.ID,
		AuthorID:      d.AuthorID,
		Title:         d.Title,
		Body:          d.Body,
		Location:      d.Location,
		Lat:           d.Lat,
		Lng:           d.Lng,
		MeetupAt:      d.MeetupAt,
		PreferredSize: d.PreferredSize,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
		Author:        author,
		RSVPs:         attendees,
	}
}
