// Package nominatim resuelve nombres de lugar contra un servicio
// compatible con OpenStreetMap Nominatim.
package nominatim

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"buddymatch/internal/platform/httpclient"
)

var (
	ErrNotConfigured = errors.New("nominatim client not configured")
	ErrNoResults     = errors.New("no geocoding results")
)

type Config struct {
	BaseURL   string // p.ej. https://nominatim.openstreetmap.org
	UserAgent string // política de uso de Nominatim: identificarse
	Timeout   time.Duration
}

// Client implementa geocode.Geocoder.
type Client struct {
	http *httpclient.Client
}

func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}
	hc, err := httpclient.New(cfg.BaseURL, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	ua := strings.TrimSpace(cfg.UserAgent)
	if ua == "" {
		ua = "BuddyMatch/1.0"
	}
	hc.SetHeader("User-Agent", ua)
	hc.SetHeader("Accept-Language", "en")
	return &Client{http: hc}, nil
}

type searchResult struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

func (c *Client) Geocode(ctx context.Context, place string) (float64, float64, error) {
	if c == nil || c.http == nil {
		return 0, 0, ErrNotConfigured
	}
	place = strings.TrimSpace(place)
	if place == "" {
		return 0, 0, errors.New("place required")
	}

	q := url.Values{}
	q.Set("q", place)
	q.Set("format", "json")
	q.Set("limit", "1")

	var results []searchResult
	if err := c.http.GetJSON(ctx, "/search", q, &results); err != nil {
		return 0, 0, fmt.Errorf("nominatim search: %w", err)
	}
	if len(results) == 0 {
		return 0, 0, ErrNoResults
	}

	// Nominatim devuelve lat/lon como strings
	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("nominatim lat: %w", err)
	}
	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("nominatim lon: %w", err)
	}
	return lat, lng, nil
}
