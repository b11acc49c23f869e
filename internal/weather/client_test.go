package weather

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

const timelinePayload = `{
	"tzoffset": -5.0,
	"days": [
		{
			"datetime": "2026-08-26",
			"sunrise": "06:12:41",
			"sunset": "19:48:02",
			"moonphase": 0.48,
			"moonrise": "18:05:00",
			"moonset": "03:11:00",
			"hours": [
				{"datetime": "00:00:00", "conditions": "Clear"},
				{"datetime": "01:00:00", "conditions": "Partially cloudy"},
				{"datetime": "22:00:00", "conditions": "Rain, Overcast"}
			]
		},
		{
			"datetime": "2026-08-27",
			"sunrise": "06:13:30",
			"sunset": "19:46:28",
			"moonphase": 0.52,
			"moonrise": "",
			"moonset": "04:02:00",
			"hours": [
				{"datetime": "03:00:00", "conditions": "Clear"}
			]
		}
	]
}`

func TestForecast(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/46.829853,-71.254028/2026-08-26/2026-09-04" {
			t.Errorf("Expected coordinate and date segments in path, got %s", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("key") != "test-key" {
			t.Errorf("Expected key=test-key, got %s", query.Get("key"))
		}
		if query.Get("include") != "days,hours" {
			t.Errorf("Expected include=days,hours, got %s", query.Get("include"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(timelinePayload))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, "test-key", 5*time.Second)
	forecasts, err := client.Forecast(context.Background(), 46.829853, -71.254028, "2026-08-26", "2026-09-04")
	if err != nil {
		t.Fatalf("Forecast failed: %v", err)
	}

	if len(forecasts) != 2 {
		t.Fatalf("Expected 2 days, got %d", len(forecasts))
	}

	first := forecasts[0]
	if first.Date != "2026-08-26" {
		t.Errorf("Expected date 2026-08-26, got %s", first.Date)
	}
	if first.UTCOffsetHours != -5.0 {
		t.Errorf("Expected offset -5.0, got %f", first.UTCOffsetHours)
	}
	if first.Sunrise.String() != "06:12:41" {
		t.Errorf("Expected sunrise 06:12:41, got %s", first.Sunrise)
	}
	if !first.HasMoonrise || !first.HasMoonset {
		t.Error("Expected first day to have both moon times")
	}
	if first.MoonPhase != 0.48 {
		t.Errorf("Expected moon phase 0.48, got %f", first.MoonPhase)
	}
	if got := first.HourlyConditions[0]; got != "Clear" {
		t.Errorf("Expected hour 0 Clear, got %q", got)
	}
	if got := first.HourlyConditions[22]; got != "Rain, Overcast" {
		t.Errorf("Expected hour 22 compound condition, got %q", got)
	}
	if _, ok := first.HourlyConditions[5]; ok {
		t.Error("Hour 5 was not in the payload and must not be in the table")
	}

	second := forecasts[1]
	if second.HasMoonrise {
		t.Error("Expected second day to have no moonrise")
	}
	if !second.HasMoonset {
		t.Error("Expected second day to keep its moonset")
	}
	if second.UTCOffsetHours != first.UTCOffsetHours {
		t.Error("All records of one query must share the offset")
	}
}

func TestForecastServiceDown(t *testing.T) {
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, "test-key", time.Second)
	_, err := client.Forecast(context.Background(), 46.8, -71.2, "2026-08-26", "2026-09-04")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("Expected ErrUnavailable, got %v", err)
	}
}

func TestForecastRetriesTransientServerError(t *testing.T) {
	var calls int
	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(timelinePayload))
	}))
	defer mockServer.Close()

	client := NewClient(mockServer.URL, "test-key", 5*time.Second)
	forecasts, err := client.Forecast(context.Background(), 46.8, -71.2, "2026-08-26", "2026-09-04")
	if err != nil {
		t.Fatalf("Forecast should recover from a transient 500: %v", err)
	}
	if calls != 2 {
		t.Errorf("Expected 2 attempts, got %d", calls)
	}
	if len(forecasts) != 2 {
		t.Errorf("Expected 2 days after retry, got %d", len(forecasts))
	}
}

func TestForecastMalformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", `<html>oops</html>`},
		{"no days", `{"tzoffset": -5.0, "days": []}`},
		{"missing sunrise", `{"tzoffset": 0, "days": [{"datetime": "2026-08-26", "sunset": "19:00:00"}]}`},
		{"bad hour", `{"tzoffset": 0, "days": [{"datetime": "2026-08-26", "sunrise": "06:00:00", "sunset": "19:00:00", "hours": [{"datetime": "late", "conditions": "Clear"}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer mockServer.Close()

			client := NewClient(mockServer.URL, "test-key", time.Second)
			_, err := client.Forecast(context.Background(), 46.8, -71.2, "2026-08-26", "2026-09-04")
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Expected ErrMalformed, got %v", err)
			}
		})
	}
}
