package auth

import "context"

// TokenVerifier valida una credencial firmada y devuelve el subject (account id).
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (userID string, err error)
}

// AccountResolver resuelve un account id a sus Claims.
// Lo implementa accounts.Service; el middleware solo conoce este port
// para no acoplar middleware <-> domain.
type AccountResolver interface {
	ResolveClaims(ctx context.Context, userID string) (Claims, error)
}
