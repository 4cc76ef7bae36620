package posts

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, p Post) error
	GetByID(ctx context.Context, id string) (Post, error)
	Update(ctx context.Context, p Post) error
	Delete(ctx context.Context, id string) error

	// List devuelve el feed completo (con autor y user ids de RSVPs),
	// filtrado por substring en title/body/location si search != "",
	// ordenado por meetup_at asc (nulls al final).
	List(ctx context.Context, search string) ([]ListItem, error)

	// ListByAuthor: posts propios, más recientes primero.
	ListByAuthor(ctx context.Context, authorID string) ([]ListItem, error)

	GetDetail(ctx context.Context, id string) (Detail, error)

	// UpsertRSVP es idempotente sobre la unicidad (post_id, user_id).
	UpsertRSVP(ctx context.Context, postID, userID string, at time.Time) error

	// DeleteRSVP devuelve ErrRSVPNotFound si el caller no tenía RSVP.
	DeleteRSVP(ctx context.Context, postID, userID string) error

	// HaveSharedRSVP: ¿existe un post al que ambos hicieron RSVP?
	// Lo usa messages para el tag de relación en conversaciones.
	HaveSharedRSVP(ctx context.Context, userID, otherID string) (bool, error)
}
