package accounts

import (
	"context"
	"errors"
	"strings"
	"time"

	"buddymatch/internal/geo"
	"buddymatch/internal/platform/logger"
	"buddymatch/internal/platform/patch"
	"buddymatch/internal/ports/auth"
	"buddymatch/internal/ports/geocode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("account not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrLocationRequired   = errors.New("location required")
)

type Service struct {
	repo     Repository
	geocoder geocode.Geocoder // opcional, nil => sin geocoding de ciudad
	log      logger.Logger
	now      func() time.Time
}

func NewService(repo Repository, geocoder geocode.Geocoder, log logger.Logger) *Service {
	return &Service{
		repo:     repo,
		geocoder: geocoder,
		log:      log,
		now:      time.Now,
	}
}

// NormalizeEmail es la forma canónica bajo la que se compara unicidad.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RegisterInput struct {
	Email        string
	Password     string
	Name         string
	City         string
	Experience   string
	Availability string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (Account, error) {
	email := NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return Account{}, ErrInvalidInput
	}

	// Pre-check para un 400 limpio; el índice único de la DB cubre la carrera.
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return Account{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}

	now := s.now()
	a := Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         optText(in.Name),
		City:         optText(in.City),
		Experience:   optText(in.Experience),
		Availability: optText(in.Availability),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return Account{}, err
	}
	return a, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (Account, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		return Account{}, ErrInvalidInput
	}

	a, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return Account{}, ErrInvalidCredentials
	}
	// Hash inválido o password incorrecto => mismas credenciales inválidas.
	if bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) != nil {
		return Account{}, ErrInvalidCredentials
	}
	return a, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Account, error) {
	return s.repo.GetByID(ctx, id)
}

// ResolveClaims implementa auth.AccountResolver para el middleware.
func (s *Service) ResolveClaims(ctx context.Context, userID string) (auth.Claims, error) {
	a, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return auth.Claims{}, err
	}
	return auth.Claims{
		UserID:          a.ID,
		Email:           a.Email,
		Name:            a.Name,
		City:            a.City,
		Lat:             a.Lat,
		Lng:             a.Lng,
		SafetyPledgedAt: a.SafetyPledgedAt,
	}, nil
}

type UpdateProfileInput struct {
	Name         patch.Field[string]
	AvatarURL    patch.Field[string]
	City         patch.Field[string]
	Lat          patch.Field[float64]
	Lng          patch.Field[float64]
	Experience   patch.Field[string]
	Availability patch.Field[string]
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput) (Account, error) {
	a, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return Account{}, err
	}

	applyText(&a.Name, in.Name)
	applyText(&a.AvatarURL, in.AvatarURL)
	applyText(&a.City, in.City)
	applyText(&a.Experience, in.Experience)
	applyText(&a.Availability, in.Availability)
	if in.Lat.Present {
		a.Lat = in.Lat.Value
	}
	if in.Lng.Present {
		a.Lng = in.Lng.Value
	}

	// Si cambió la ciudad sin tocar coordenadas, intentamos resolverla.
	// Best effort: un geocoder caído no bloquea el PATCH.
	if s.geocoder != nil && in.City.Present && a.City != nil && !in.Lat.Present && !in.Lng.Present {
		if lat, lng, err := s.geocoder.Geocode(ctx, *a.City); err == nil {
			a.Lat = &lat
			a.Lng = &lng
		} else if s.log != nil {
			s.log.Warn("geocode city failed", map[string]any{"city": *a.City, "err": err.Error()})
		}
	}

	a.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, a); err != nil {
		return Account{}, err
	}
	return a, nil
}

// SafetyPledge registra la aceptación (re-pledgear solo actualiza el timestamp).
func (s *Service) SafetyPledge(ctx context.Context, userID string) (Account, error) {
	a, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return Account{}, err
	}
	now := s.now()
	a.SafetyPledgedAt = &now
	a.UpdatedAt = now
	if err := s.repo.Update(ctx, a); err != nil {
		return Account{}, err
	}
	return a, nil
}

// Nearby filtra las cuentas con coordenadas dentro del bounding box.
// refLat/refLng vienen de la query (NaN si estaban malformados, nil si ausentes);
// en ausencia se usa la ubicación guardada del viewer.
func (s *Service) Nearby(ctx context.Context, viewerID string, refLat, refLng *float64, radiusKm float64) ([]Account, error) {
	viewer, err := s.repo.GetByID(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	lat, lng := refLat, refLng
	if lat == nil {
		lat = viewer.Lat
	}
	if lng == nil {
		lng = viewer.Lng
	}
	if lat == nil || lng == nil {
		return nil, ErrLocationRequired
	}

	candidates, err := s.repo.ListWithCoords(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return geo.Filter(geo.Point{Lat: *lat, Lng: *lng}, radiusKm, candidates), nil
}

func (s *Service) Befriend(ctx context.Context, userID, targetID string) error {
	if userID == targetID {
		return ErrInvalidInput
	}
	if _, err := s.repo.GetByID(ctx, targetID); err != nil {
		return err
	}
	return s.repo.AddFriend(ctx, userID, targetID)
}

func (s *Service) Unfriend(ctx context.Context, userID, targetID string) error {
	if userID == targetID {
		return ErrInvalidInput
	}
	return s.repo.RemoveFriend(ctx, userID, targetID)
}

func (s *Service) AreFriends(ctx context.Context, userID, otherID string) (bool, error) {
	return s.repo.AreFriends(ctx, userID, otherID)
}

// optText: "" => nil (los opcionales vacíos no se guardan como string vacío).
func optText(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

// applyText aplica un patch de texto: null o vacío limpian el campo.
func applyText(dst **string, f patch.Field[string]) {
	if !f.Present {
		return
	}
	if f.Value == nil {
		*dst = nil
		return
	}
	*dst = optText(*f.Value)
}
