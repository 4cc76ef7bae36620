package reports

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidInput = errors.New("invalid input")

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
	Type     string
	TargetID string
	Reason   string
	PostID   string
}

func (s *Service) Create(ctx context.Context, reporterID string, in CreateInput) (Report, error) {
	t := TargetType(strings.TrimSpace(in.Type))
	targetID := strings.TrimSpace(in.TargetID)
	if targetID == "" || (t != TargetUser && t != TargetPost) {
		return Report{}, ErrInvalidInput
	}

	r := Report{
		ID:         uuid.NewString(),
		ReporterID: reporterID,
		Type:       t,
		TargetID:   targetID,
		Reason:     optText(in.Reason),
		PostID:     optText(in.PostID),
		CreatedAt:  s.now(),
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return Report{}, err
	}
	return r, nil
}

func optText(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
