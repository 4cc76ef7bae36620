package auth

// TokenIssuer emite una credencial firmada para una cuenta.
type TokenIssuer interface {
	Issue(userID string) (token string, err error)
}
