package main

import (
	"testing"
	"time"

	"buddymatch/internal/config"
	"buddymatch/internal/platform/logger"
)

func testConfig() config.Config {
	return config.Config{
		Port:           "0",
		JWTSecret:      "test-secret",
		TokenTTL:       time.Hour,
		FrontendOrigin: "http://localhost:5173",
	}
}

// Una config inválida debe salir de run con error (y de ahí exit != 0),
// no quedarse arrancando a medias.
func TestRun_InvalidGeocoderURL(t *testing.T) {
	cfg := testConfig()
	cfg.GeocoderURL = "not a url"

	if err := run(cfg, logger.New(logger.Options{Level: logger.Error})); err == nil {
		t.Fatal("expected error for invalid geocoder url")
	}
}

func TestRun_BadPort(t *testing.T) {
	cfg := testConfig()
	cfg.Port = "not-a-port"

	if err := run(cfg, logger.New(logger.Options{Level: logger.Error})); err == nil {
		t.Fatal("expected error for unusable listen address")
	}
}
