// Package jwtauth emite y verifica credenciales HS256.
package jwtauth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrBadToken   = errors.New("invalid token")
	ErrTokenEmpty = errors.New("token is empty")
)

const DefaultTTL = 7 * 24 * time.Hour

type claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// Codec firma y verifica tokens con un secreto compartido.
// Implementa auth.TokenVerifier.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func New(secret string, ttl time.Duration) *Codec {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Codec{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue emite una credencial para la cuenta indicada.
func (c *Codec) Issue(userID string) (string, error) {
	if strings.TrimSpace(userID) == "" {
		return "", errors.New("userID required")
	}
	now := c.now()
	cl := claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(c.secret)
}

// Verify valida firma y expiración, y devuelve el account id embebido.
func (c *Codec) Verify(_ context.Context, raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrTokenEmpty
	}

	tok, err := jwt.ParseWithClaims(raw, &claims{}, func(t *jwt.Token) (any, error) {
		// bloquear alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return c.now() }))
	if err != nil {
		return "", err
	}

	cl, ok := tok.Claims.(*claims)
	if !ok || !tok.Valid || strings.TrimSpace(cl.UserID) == "" {
		return "", ErrBadToken
	}
	return cl.UserID, nil
}
