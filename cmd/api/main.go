package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"

	"buddymatch/internal/adapters/auth/jwtauth"
	"buddymatch/internal/adapters/geocode/nominatim"
	"buddymatch/internal/adapters/storage/postgres"
	"buddymatch/internal/config"
	"buddymatch/internal/middleware"
	"buddymatch/internal/platform/logger"
	"buddymatch/internal/ports/geocode"
	"buddymatch/internal/router"
	"buddymatch/internal/seed"
)

// @title BuddyMatch API
// @version 0.1
// @description API social para dueños de perros reactivos: perfiles, meetups y mensajes.
// @BasePath /api
func main() {
	_ = godotenv.Load() // .env es opcional; en prod todo viene del entorno

	cfg := config.FromEnv()
	log := logger.NewFromEnv()

	if err := run(cfg, log); err != nil {
		log.Error("startup failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}
}

func run(cfg config.Config, log logger.Logger) error {
	opts := router.Options{
		TokenTTL:       cfg.TokenTTL,
		Log:            log,
		FrontendOrigin: cfg.FrontendOrigin,
		AuthLimiter:    middleware.NewRateLimiter(1, 10), // 1 req/s con ráfaga de 10 por IP
	}

	codec := jwtauth.New(cfg.JWTSecret, cfg.TokenTTL)
	opts.Verifier = codec
	opts.Issuer = codec

	if cfg.DatabaseURL != "" {
		db, err := postgres.Open(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("db open: %w", err)
		}
		defer db.Close()

		if err := postgres.Migrate(db); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		opts.DB = db
	} else {
		log.Warn("DATABASE_URL not set, using in-memory storage", nil)
	}

	if cfg.GeocoderURL != "" {
		gc, err := nominatim.NewClient(nominatim.Config{BaseURL: cfg.GeocoderURL})
		if err != nil {
			return fmt.Errorf("geocoder config: %w", err)
		}
		var g geocode.Geocoder = gc
		opts.Geocoder = g
	}

	app := router.New(opts)

	if cfg.Seed {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := seed.Run(ctx, log, app.SupportRepo, app.AccountsSvc)
		cancel()
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.Handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	log.Info("starting server", map[string]any{"addr": srv.Addr})
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}
