package dogs

import (
	"context"
	"errors"
	"strings"
	"time"

	"buddymatch/internal/platform/patch"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("dog not found")
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
	Name           string
	Size           string
	Age            string
	Breed          string
	ReactivityTags string
	Triggers       string
}

func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (Dog, error) {
	if strings.TrimSpace(ownerID) == "" {
		return Dog{}, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" || strings.TrimSpace(in.Size) == "" {
		return Dog{}, ErrInvalidInput
	}

	now := s.now()
	d := Dog{
		ID:             uuid.NewString(),
		OwnerID:        ownerID,
		Name:           strings.TrimSpace(in.Name),
		Size:           Size(strings.TrimSpace(in.Size)),
		Age:            optText(in.Age),
		Breed:          optText(in.Breed),
		ReactivityTags: optText(in.ReactivityTags),
		Triggers:       optText(in.Triggers),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return Dog{}, err
	}
	return d, nil
}

func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]Dog, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

type UpdateInput struct {
	Name           patch.Field[string]
	Size           patch.Field[string]
	Age            patch.Field[string]
	Breed          patch.Field[string]
	ReactivityTags patch.Field[string]
	Triggers       patch.Field[string]
}

// Update aplica un PATCH parcial. Scope por owner: un id ajeno es ErrNotFound,
// nunca se revela que el perro existe.
func (s *Service) Update(ctx context.Context, ownerID, dogID string, in UpdateInput) (Dog, error) {
	d, err := s.repo.GetByID(ctx, dogID)
	if err != nil {
		return Dog{}, err
	}
	if d.OwnerID != ownerID {
		return Dog{}, ErrNotFound
	}

	if in.Name.Present && in.Name.Value != nil && strings.TrimSpace(*in.Name.Value) != "" {
		d.Name = strings.TrimSpace(*in.Name.Value)
	}
	if in.Size.Present && in.Size.Value != nil && strings.TrimSpace(*in.Size.Value) != "" {
		d.Size = Size(strings.TrimSpace(*in.Size.Value))
	}
	applyText(&d.Age, in.Age)
	applyText(&d.Breed, in.Breed)
	applyText(&d.ReactivityTags, in.ReactivityTags)
	applyText(&d.Triggers, in.Triggers)

	d.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, d); err != nil {
		return Dog{}, err
	}
	return d, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, dogID string) error {
	d, err := s.repo.GetByID(ctx, dogID)
	if err != nil {
		return err
	}
	if d.OwnerID != ownerID {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, dogID)
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
