package accounts

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"buddymatch/internal/domain/dogs"
	"buddymatch/internal/geo"
	"buddymatch/internal/middleware"
	"buddymatch/internal/platform/httpx"
	"buddymatch/internal/platform/patch"
	"buddymatch/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterAuthRoutes monta /api/auth. limit (rate limit por IP) aplica
// solo a register/login; puede ser nil en tests.
func RegisterAuthRoutes(r chi.Router, svc *Service, issuer auth.TokenIssuer, ttl time.Duration, limit func(http.Handler) http.Handler) {
	r.Route("/api/auth", func(ar chi.Router) {
		if limit != nil {
			ar.With(limit).Post("/register", registerHandler(svc, issuer, ttl))
			ar.With(limit).Post("/login", loginHandler(svc, issuer, ttl))
		} else {
			ar.Post("/register", registerHandler(svc, issuer, ttl))
			ar.Post("/login", loginHandler(svc, issuer, ttl))
		}
		ar.Post("/logout", logoutHandler())
		ar.Get("/me", authMeHandler(svc))
	})
}

// RegisterUserRoutes monta /api/users (todo con auth requerida).
func RegisterUserRoutes(r chi.Router, svc *Service, dogsSvc *dogs.Service) {
	r.Route("/api/users", func(ur chi.Router) {
		ur.Get("/me", getMeHandler(svc, dogsSvc))
		ur.Patch("/me", updateMeHandler(svc))
		ur.Post("/me/safety-pledge", safetyPledgeHandler(svc))
		ur.Get("/nearby", nearbyHandler(svc))

		ur.Get("/{userID}", publicProfileHandler(svc, dogsSvc))
		ur.Post("/{userID}/friend", befriendHandler(svc))
		ur.Delete("/{userID}/friend", unfriendHandler(svc))
	})
}

type credentialsRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	City         string `json:"city"`
	Experience   string `json:"experience"`
	Availability string `json:"availability"`
}

// safeUser es la proyección pública de la sesión (sin hash ni campos internos).
type safeUser struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Name            *string    `json:"name"`
	AvatarURL       *string    `json:"avatarUrl"`
	City            *string    `json:"city"`
	Lat             *float64   `json:"lat"`
	Lng             *float64   `json:"lng"`
	SafetyPledgedAt *time.Time `json:"safetyPledgedAt"`
}

type sessionResponse struct {
	User  safeUser `json:"user"`
	Token string   `json:"token"`
}

type profileResponse struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	Name            *string    `json:"name"`
	AvatarURL       *string    `json:"avatarUrl"`
	City            *string    `json:"city"`
	Lat             *float64   `json:"lat"`
	Lng             *float64   `json:"lng"`
	Experience      *string    `json:"experience"`
	Availability    *string    `json:"availability"`
	SafetyPledgedAt *time.Time `json:"safetyPledgedAt"`
	CreatedAt       time.Time  `json:"createdAt"`

	Dogs []dogSummary `json:"dogs,omitempty"`
}

type dogSummary struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Size           string  `json:"size"`
	Age            *string `json:"age"`
	Breed          *string `json:"breed"`
	ReactivityTags *string `json:"reactivityTags"`
	Triggers       *string `json:"triggers"`
}

type nearbyUser struct {
	ID              string     `json:"id"`
	Name            *string    `json:"name"`
	City            *string    `json:"city"`
	Lat             *float64   `json:"lat"`
	Lng             *float64   `json:"lng"`
	Experience      *string    `json:"experience"`
	Availability    *string    `json:"availability"`
	SafetyPledgedAt *time.Time `json:"safetyPledgedAt"`
}

type publicProfileResponse struct {
	ID              string     `json:"id"`
	Name            *string    `json:"name"`
	AvatarURL       *string    `json:"avatarUrl"`
	City            *string    `json:"city"`
	Experience      *string    `json:"experience"`
	Availability    *string    `json:"availability"`
	SafetyPledgedAt *time.Time `json:"safetyPledgedAt"`

	Dogs     []dogSummary `json:"dogs"`
	IsSelf   bool         `json:"isSelf"`
	IsFriend bool         `json:"isFriend"`
}

// registerHandler godoc
// @Summary Registrar cuenta
// @Description Crea una cuenta y devuelve la sesión. El token también se setea como cookie httpOnly.
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body credentialsRequest true "email y password requeridos"
// @Success 201 {object} sessionResponse
// @Failure 400 {object} map[string]string "validación / email duplicado"
// @Router /api/auth/register [post]
func registerHandler(svc *Service, issuer auth.TokenIssuer, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		a, err := svc.Register(r.Context(), RegisterInput{
			Email:        req.Email,
			Password:     req.Password,
			Name:         req.Name,
			City:         req.City,
			Experience:   req.Experience,
			Availability: req.Availability,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				httpx.WriteError(w, http.StatusBadRequest, "Email and password required")
			case errors.Is(err, ErrEmailTaken):
				httpx.WriteError(w, http.StatusBadRequest, "Email already registered")
			default:
				httpx.WriteError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}

		token, err := issuer.Issue(a.ID)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "could not issue token")
			return
		}
		setAuthCookie(w, token, ttl)
		httpx.WriteJSON(w, http.StatusCreated, sessionResponse{User: toSafeUser(a), Token: token})
	}
}

// loginHandler godoc
// @Summary Iniciar sesión
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body credentialsRequest true "email y password"
// @Success 200 {object} sessionResponse
// @Failure 401 {object} map[string]string "credenciales inválidas"
// @Router /api/auth/login [post]
func loginHandler(svc *Service, issuer auth.TokenIssuer, ttl time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		a, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				httpx.WriteError(w, http.StatusBadRequest, "Email and password required")
			case errors.Is(err, ErrInvalidCredentials):
				httpx.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
			default:
				httpx.WriteError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}

		token, err := issuer.Issue(a.ID)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "could not issue token")
			return
		}
		setAuthCookie(w, token, ttl)
		httpx.WriteJSON(w, http.StatusOK, sessionResponse{User: toSafeUser(a), Token: token})
	}
}

func logoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		clearAuthCookie(w)
		httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func authMeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}
		a, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			httpx.WriteError(w, http.StatusUnauthorized, "User not found")
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toSafeUser(a))
	}
}

func getMeHandler(svc *Service, dogsSvc *dogs.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		a, err := svc.GetByID(r.Context(), claims.UserID)
		if err != nil {
			httpx.WriteError(w, http.StatusNotFound, "User not found")
			return
		}
		ownDogs, err := dogsSvc.ListByOwner(r.Context(), claims.UserID)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		resp := toProfileResponse(a)
		resp.Dogs = toDogSummaries(ownDogs)
		httpx.WriteJSON(w, http.StatusOK, resp)
	}
}

// updateMeHandler aplica PATCH parcial con presencia real:
// key ausente no toca, null limpia (lat/lng/avatar/city/etc).
func updateMeHandler(svc *Service) http.HandlerFunc {
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

		in, err := decodeProfilePatch(raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid json")
			return
		}

		a, err := svc.UpdateProfile(r.Context(), claims.UserID, in)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				httpx.WriteError(w, http.StatusNotFound, "User not found")
				return
			}
			httpx.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		httpx.WriteJSON(w, http.StatusOK, toProfileResponse(a))
	}
}

func safetyPledgeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		a, err := svc.SafetyPledge(r.Context(), claims.UserID)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]any{
			"id":              a.ID,
			"safetyPledgedAt": a.SafetyPledgedAt,
		})
	}
}

// nearbyHandler godoc
// @Summary Dueños cercanos
// @Description Bounding box aproximado (1° ≈ 111km) alrededor de lat/lng de la query o del perfil. Radio default 50km.
// @Tags users
// @Produce json
// @Param lat query number false "latitud de referencia"
// @Param lng query number false "longitud de referencia"
// @Param radiusKm query number false "radio en km (default 50)"
// @Success 200 {array} nearbyUser
// @Failure 400 {object} map[string]string "sin ubicación"
// @Router /api/users/nearby [get]
func nearbyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		q := r.URL.Query()
		radius := geo.ParseRadius(q.Get("radiusKm"), geo.DefaultPersonRadiusKm)

		list, err := svc.Nearby(r.Context(), claims.UserID, queryCoord(q.Get("lat")), queryCoord(q.Get("lng")), radius)
		if err != nil {
			switch {
			case errors.Is(err, ErrLocationRequired):
				httpx.WriteError(w, http.StatusBadRequest, "Location required (lat/lng or set in profile)")
			case errors.Is(err, ErrNotFound):
				httpx.WriteError(w, http.StatusUnauthorized, "User not found")
			default:
				httpx.WriteError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}

		out := make([]nearbyUser, 0, len(list))
		for _, a := range list {
			out = append(out, nearbyUser{
				ID:              a.ID,
				Name:            a.Name,
				City:            a.City,
				Lat:             a.Lat,
				Lng:             a.Lng,
				Experience:      a.Experience,
				Availability:    a.Availability,
				SafetyPledgedAt: a.SafetyPledgedAt,
			})
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func publicProfileHandler(svc *Service, dogsSvc *dogs.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		targetID := chi.URLParam(r, "userID")
		a, err := svc.GetByID(r.Context(), targetID)
		if err != nil {
			httpx.WriteError(w, http.StatusNotFound, "User not found")
			return
		}

		isSelf := a.ID == claims.UserID
		isFriend := false
		if !isSelf {
			isFriend, err = svc.AreFriends(r.Context(), claims.UserID, a.ID)
			if err != nil {
				httpx.WriteError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}

		targetDogs, err := dogsSvc.ListByOwner(r.Context(), a.ID)
		if err != nil {
			httpx.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}

		httpx.WriteJSON(w, http.StatusOK, publicProfileResponse{
			ID:              a.ID,
			Name:            a.Name,
			AvatarURL:       a.AvatarURL,
			City:            a.City,
			Experience:      a.Experience,
			Availability:    a.Availability,
			SafetyPledgedAt: a.SafetyPledgedAt,
			Dogs:            toDogSummaries(targetDogs),
			IsSelf:          isSelf,
			IsFriend:        isFriend,
		})
	}
}

func befriendHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		err := svc.Befriend(r.Context(), claims.UserID, chi.URLParam(r, "userID"))
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				httpx.WriteError(w, http.StatusBadRequest, "Cannot friend yourself")
			case errors.Is(err, ErrNotFound):
				httpx.WriteError(w, http.StatusNotFound, "User not found")
			default:
				httpx.WriteError(w, http.StatusInternalServerError, err.Error())
			}
			return
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
	}
}

func unfriendHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpx.WriteError(w, http.StatusUnauthorized, "Not authenticated")
			return
		}

		err := svc.Unfriend(r.Context(), claims.UserID, chi.URLParam(r, "userID"))
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				httpx.WriteError(w, http.StatusBadRequest, "Cannot unfriend yourself")
				return
			}
			httpx.WriteError(w, http.StatusInternalServerError, err.Error())
			return
		}
		httpx.NoContent(w)
	}
}

func decodeProfilePatch(raw map[string]json.RawMessage) (UpdateProfileInput, error) {
	var in UpdateProfileInput
	var err error
	if in.Name, err = patch.FieldFrom[string](raw, "name"); err != nil {
		return in, err
	}
	if in.AvatarURL, err = patch.FieldFrom[string](raw, "avatarUrl"); err != nil {
		return in, err
	}
	if in.City, err = patch.FieldFrom[string](raw, "city"); err != nil {
		return in, err
	}
	if in.Lat, err = patch.FieldFrom[float64](raw, "lat"); err != nil {
		return in, err
	}
	if in.Lng, err = patch.FieldFrom[float64](raw, "lng"); err != nil {
		return in, err
	}
	if in.Experience, err = patch.FieldFrom[string](raw, "experience"); err != nil {
		return in, err
	}
	if in.Availability, err = patch.FieldFrom[string](raw, "availability"); err != nil {
		return in, err
	}
	return in, nil
}

// queryCoord: param ausente => nil; presente pero malformado => NaN
// (excluye candidatos con coordenadas, ver internal/geo).
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

func setAuthCookie(w http.ResponseWriter, token string, ttl time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAuthCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.TokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func toSafeUser(a Account) safeUser {
	return safeUser{
		ID:              a.ID,
		Email:           a.Email,
		Name:            a.Name,
		AvatarURL:       a.AvatarURL,
		City:            a.City,
		Lat:             a.Lat,
		Lng:             a.Lng,
		SafetyPledgedAt: a.SafetyPledgedAt,
	}
}

func toProfileResponse(a Account) profileResponse {
	return profileResponse{
		ID:              a.ID,
		Email:           a.Email,
		Name:            a.Name,
		AvatarURL:       a.AvatarURL,
		City:            a.City,
		Lat:             a.Lat,
		Lng:             a.Lng,
		Experience:      a.Experience,
		Availability:    a.Availability,
		SafetyPledgedAt: a.SafetyPledgedAt,
		CreatedAt:       a.CreatedAt,
	}
}

func toDogSummaries(list []dogs.Dog) []dogSummary {
	out := make([]dogSummary, 0, len(list))
	for _, d := range list {
		out = append(out, dogSummary{
			ID:             d.ID,
			Name:           d.Name,
			Size:           string(d.Size),
			Age:            d.Age,
			Breed:          d.Breed,
			ReactivityTags: d.ReactivityTags,
			Triggers:       d.Triggers,
		})
	}
	return out
}
