package middleware

import (
	"context"
	"net/http"
	"strings"

	"buddymatch/internal/ports/auth"
)

type ctxKey string

const claimsKey ctxKey = "claims"

// TokenCookie es la cookie httpOnly que emite /api/auth/login.
const TokenCookie = "token"

// AuthContext:
//   - Busca la credencial en la cookie "token" y, si no está, en Authorization: Bearer.
//   - Si verifier != nil => Verify() + ResolveClaims() y setea claims.
//   - Si verifier == nil => modo dev: header X-Debug-User-ID setea claims directo.
//   - Nunca corta el request; los handlers deciden si exigen auth (401).
func AuthContext(verifier auth.TokenVerifier, resolver auth.AccountResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Dev mode: inyectar user sin verifier
			if verifier == nil {
				if uid := strings.TrimSpace(r.Header.Get("X-Debug-User-ID")); uid != "" {
					claims := auth.Claims{UserID: uid}
					if resolver != nil {
						if c, err := resolver.ResolveClaims(r.Context(), uid); err == nil {
							claims = c
						}
					}
					next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			token := credentialFrom(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := verifier.Verify(r.Context(), token)
			if err != nil {
				// Token inválido/vencido: seguimos sin claims, el handler decide.
				next.ServeHTTP(w, r)
				return
			}

			claims, err := resolver.ResolveClaims(r.Context(), userID)
			if err != nil {
				// Token válido pero la cuenta ya no existe => sin claims.
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims)))
		})
	}
}

func GetClaims(ctx context.Context) (auth.Claims, bool) {
	v := ctx.Value(claimsKey)
	if v == nil {
		return auth.Claims{}, false
	}
	c, ok := v.(auth.Claims)
	return c, ok
}

func withClaims(ctx context.Context, c auth.Claims) context.Context {
	return context.WithValue(ctx, claimsKey, c)
}

// credentialFrom: cookie primero, Bearer después (mismo orden que el cliente web).
func credentialFrom(r *http.Request) string {
	if c, err := r.Cookie(TokenCookie); err == nil && strings.TrimSpace(c.Value) != "" {
		return strings.TrimSpace(c.Value)
	}
	return bearerToken(r.Header.Get("Authorization"))
}

func bearerToken(authHeader string) string {
	if strings.TrimSpace(authHeader) == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
