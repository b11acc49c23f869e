package geocode

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLocate(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("Expected path /search, got %s", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("q") != "Quebec City" {
			t.Errorf("Expected q=Quebec City, got %s", query.Get("q"))
		}
		if query.Get("format") != "json" {
			t.Errorf("Expected format=json, got %s", query.Get("format"))
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("Expected a User-Agent header")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"lat": "46.8130816", "lon": "-71.2074596", "display_name": "Québec, Canada"}]`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, 5*time.Second)
	lat, lon, err := client.Locate(context.Background(), "Quebec City")
	if err != nil {
		t.Fatalf("Locate failed: %v", err)
	}
	if math.Abs(lat-46.8130816) > 1e-9 {
		t.Errorf("Expected lat 46.8130816, got %v", lat)
	}
	if math.Abs(lon-(-71.2074596)) > 1e-9 {
		t.Errorf("Expected lon -71.2074596, got %v", lon)
	}
}

func TestLocateNoMatch(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, time.Second)
	_, _, err := client.Locate(context.Background(), "nowhere at all")
	if !errors.Is(err, ErrNoMatch) {
		t.Errorf("Expected ErrNoMatch, got %v", err)
	}
}

func TestLocateServiceDown(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, time.Second)
	_, _, err := client.Locate(context.Background(), "Quebec City")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
}
