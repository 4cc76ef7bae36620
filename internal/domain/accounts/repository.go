package accounts

import "context"

type Repository interface {
	Create(ctx context.Context, a Account) error
	GetByID(ctx context.Context, id string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	Update(ctx context.Context, a Account) error

	// ListWithCoords devuelve cuentas con lat y lng seteados, excluyendo excludeID.
	// Es el candidate set de /users/nearby: sin coordenadas no se participa.
	ListWithCoords(ctx context.Context, excludeID string) ([]Account, error)

	// Amistades: par no ordenado, una fila por par, operaciones idempotentes.
	AddFriend(ctx context.Context, userID, otherID string) error
	RemoveFriend(ctx context.Context, userID, otherID string) error
	AreFriends(ctx context.Context, userID, otherID string) (bool, error)
}
