package posts

import (
	"context"
	"errors"
	"strings"
	"time"

	"buddymatch/internal/geo"
	"buddymatch/internal/platform/patch"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("post not found")
	ErrRSVPNotFound = errors.New("rsvp not found")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Title         string
	Body          string
	Location      string
	Lat           *float64
	Lng           *float64
	MeetupAt      *time.Time
	PreferredSize string
}

func (s *Service) Create(ctx context.Context, authorID string, in CreateInput) (Detail, error) {
	if strings.TrimSpace(authorID) == "" {
		return Detail{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Body) == "" {
		return Detail{}, ErrInvalidInput
	}

	now := s.now()
	p := Post{
		ID:            uuid.NewString(),
		AuthorID:      authorID,
		Title:         strings.TrimSpace(in.Title),
		Body:          strings.TrimSpace(in.Body),
		Location:      optText(in.Location),
		Lat:           in.Lat,
		Lng:           in.Lng,
		MeetupAt:      in.MeetupAt,
		PreferredSize: optText(in.PreferredSize),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return Detail{}, err
	}
	return s.repo.GetDetail(ctx, p.ID)
}

// List arma el feed: búsqueda por substring y, si hay referencia,
// bounding box donde los posts sin coordenadas siempre pasan.
func (s *Service) List(ctx context.Context, search string, refLat, refLng *float64, radiusKm float64) ([]ListItem, error) {
	items, err := s.repo.List(ctx, strings.TrimSpace(search))
	if err != nil {
		return nil, err
	}
	if refLat != nil && refLng != nil {
		items = geo.Filter(geo.Point{Lat: *refLat, Lng: *refLng}, radiusKm, items)
	}
	return items, nil
}

func (s *Service) Mine(ctx context.Context, authorID string) ([]ListItem, error) {
	return s.repo.ListByAuthor(ctx, authorID)
}

func (s *Service) GetDetail(ctx context.Context, id string) (Detail, error) {
	return s.repo.GetDetail(ctx, id)
}

type UpdateInput struct {
	Title         patch.Field[string]
	Body          patch.Field[string]
	Location      patch.Field[string]
	Lat           patch.Field[float64]
	Lng           patch.Field[float64]
	MeetupAt      patch.Field[time.Time]
	PreferredSize patch.Field[string]
}

// Update scope por autor: un post ajeno es ErrNotFound.
func (s *Service) Update(ctx context.Context, authorID, postID string, in UpdateInput) (Detail, error) {
	p, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return Detail{}, err
	}
	if p.AuthorID != authorID {
		return Detail{}, ErrNotFound
	}

	if in.Title.Present && in.Title.Value != nil && strings.TrimSpace(*in.Title.Value) != "" {
		p.Title = strings.TrimSpace(*in.Title.Value)
	}
	if in.Body.Present && in.Body.Value != nil && strings.TrimSpace(*in.Body.Value) != "" {
		p.Body = strings.TrimSpace(*in.Body.Value)
	}
	applyText(&p.Location, in.Location)
	applyText(&p.PreferredSize, in.PreferredSize)
	if in.Lat.Present {
		p.Lat = in.Lat.Value
	}
	if in.Lng.Present {
		p.Lng = in.Lng.Value
	}
	if in.MeetupAt.Present {
		p.MeetupAt = in.MeetupAt.Value
	}

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		return Detail{}, err
	}
	return s.repo.GetDetail(ctx, postID)
}

func (s *Service) Delete(ctx context.Context, authorID, postID string) error {
	p, err := s.repo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if p.AuthorID != authorID {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, postID)
}

// RSVP es idempotente: repetir el RSVP deja exactamente una fila.
func (s *Service) RSVP(ctx context.Context, postID, userID string) (Detail, error) {
	if _, err := s.repo.GetByID(ctx, postID); err != nil {
		return Detail{}, err
	}
	if err := s.repo.UpsertRSVP(ctx, postID, userID, s.now()); err != nil {
		return Detail{}, err
	}
	return s.repo.GetDetail(ctx, postID)
}

func (s *Service) CancelRSVP(ctx context.Context, postID, userID string) error {
	if _, err := s.repo.GetByID(ctx, postID); err != nil {
		return err
	}
	return s.repo.DeleteRSVP(ctx, postID, userID)
}

func (s *Service) HaveSharedRSVP(ctx context.Context, userID, otherID string) (bool, error) {
	return s.repo.HaveSharedRSVP(ctx, userID, otherID)
}

func optText(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}

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
