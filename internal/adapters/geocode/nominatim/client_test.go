package nominatim

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Geocode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "Portland" {
			t.Errorf("unexpected q=%q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat":"45.5152","lon":"-122.6784","display_name":"Portland, Oregon"}]`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	lat, lng, err := c.Geocode(context.Background(), "Portland")
	if err != nil {
		t.Fatalf("geocode: %v", err)
	}
	if lat != 45.5152 || lng != -122.6784 {
		t.Fatalf("unexpected coords: %v, %v", lat, lng)
	}
}

func TestClient_GeocodeNoResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, _, err := c.Geocode(context.Background(), "Nowhereville"); err != ErrNoResults {
		t.Fatalf("expected ErrNoResults, got %v", err)
	}
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	if _, err := NewClient(Config{}); err != ErrNotConfigured {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
