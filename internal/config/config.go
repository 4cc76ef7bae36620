// Package config centraliza la configuración del proceso.
// Todo llega por env (cmd/api carga .env con godotenv antes de FromEnv).
// Nada de singletons: el struct se pasa explícito a los constructores.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort           = "3001"
	defaultFrontendOrigin = "http://localhost:5173"
	defaultTokenTTL       = 7 * 24 * time.Hour

	// Solo para dev. En producción JWT_SECRET es obligatorio setearlo.
	devJWTSecret = "buddy-match-dev-secret-change-in-production"
)

type Config struct {
	Port           string
	DatabaseURL    string // vacío => repos in-memory (modo dev)
	JWTSecret      string
	TokenTTL       time.Duration
	FrontendOrigin string
	Seed           bool   // SEED=true => sembrar contenido de soporte y cuenta demo
	GeocoderURL    string // vacío => sin geocoding de ciudad
}

func FromEnv() Config {
	cfg := Config{
		Port:           getenv("PORT", defaultPort),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:      getenv("JWT_SECRET", devJWTSecret),
		TokenTTL:       defaultTokenTTL,
		FrontendOrigin: getenv("FRONTEND_ORIGIN", defaultFrontendOrigin),
		GeocoderURL:    strings.TrimSpace(os.Getenv("GEOCODER_BASE_URL")),
	}

	if v := strings.TrimSpace(os.Getenv("TOKEN_TTL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.TokenTTL = d
		}
	}
	if v := strings.TrimSpace(os.Getenv("SEED")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Seed = b
		}
	}

	return cfg
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
