package dogs

import "time"

// Size define las categorías de tamaño soportadas.
// @Enum small, medium, large
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
)

// Dog pertenece a exactamente una cuenta (owner).
// Age es texto libre ("3 años", "cachorro"), no un número.
type Dog struct {
	ID      string
	OwnerID string

	Name string
	Size Size

	Age   *string
	Breed *string

	// Notas de reactividad y triggers, texto libre para el perfil.
	ReactivityTags *string
	Triggers       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
