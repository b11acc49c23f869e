// Package weather fetches the 10-day astronomy and sky-condition forecast
// from the Visual Crossing timeline API and converts it into daily Forecast
// records.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/clearnight/skywatch/internal/models"
	"github.com/clearnight/skywatch/internal/timeutil"
)

var (
	// ErrUnavailable means the forecast service could not be reached or
	// refused the request. Retrying later may succeed.
	ErrUnavailable = errors.New("weather service unavailable")

	// ErrMalformed means the service answered but the payload was missing
	// fields the pipeline cannot work without.
	ErrMalformed = errors.New("malformed weather response")
)

// Client provides access to the Visual Crossing timeline API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// timelineResponse mirrors the slice of the timeline payload we consume.
type timelineResponse struct {
	TZOffset float64       `json:"tzoffset"`
	Days     []timelineDay `json:"days"`
}

type timelineDay struct {
	Date      string         `json:"datetime"`
	Sunrise   string         `json:"sunrise"`
	Sunset    string         `json:"sunset"`
	MoonPhase float64        `json:"moonphase"`
	Moonrise  string         `json:"moonrise"`
	Moonset   string         `json:"moonset"`
	Hours     []timelineHour `json:"hours"`
}

type timelineHour struct {
	Time       string `json:"datetime"`
	Conditions string `json:"conditions"`
}

// NewClient creates a new Visual Crossing client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Forecast retrieves the daily records for the coordinate between the two
// calendar days ("2006-01-02", inclusive), one record per day. The window is
// always stated explicitly in the request rather than left to the service's
// default horizon. The returned records all carry the same UTC offset,
// reported once per query by the service.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, start, end string) ([]models.Forecast, error) {
	query := url.Values{}
	query.Set("unitGroup", "metric")
	query.Set("include", "days,hours")
	query.Set("key", c.apiKey)
	query.Set("contentType", "json")
	endpoint := fmt.Sprintf("%s/%.6f,%.6f/%s/%s?%s", c.baseURL, lat, lon, start, end, query.Encode())

	resp, err := c.doRequest(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var payload timelineResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decoding timeline: %v", ErrMalformed, err)
	}
	if len(payload.Days) == 0 {
		return nil, fmt.Errorf("%w: no days in timeline", ErrMalformed)
	}

	forecasts := make([]models.Forecast, 0, len(payload.Days))
	for _, day := range payload.Days {
		f, err := convertDay(day, payload.TZOffset)
		if err != nil {
			return nil, err
		}
		forecasts = append(forecasts, f)
	}
	return forecasts, nil
}

// convertDay turns one timeline day into a Forecast record. Sunrise and
// sunset are mandatory; moonrise and moonset are genuinely absent on some
// days and map to the Has flags. Hourly conditions are normalized into an
// hour-indexed table here, once, so pipeline lookups never re-parse them.
func convertDay(day timelineDay, tzOffset float64) (models.Forecast, error) {
	sunrise, err := timeutil.ParseClock(day.Sunrise)
	if err != nil {
		return models.Forecast{}, fmt.Errorf("%w: day %s sunrise: %v", ErrMalformed, day.Date, err)
	}
	sunset, err := timeutil.ParseClock(day.Sunset)
	if err != nil {
		return models.Forecast{}, fmt.Errorf("%w: day %s sunset: %v", ErrMalformed, day.Date, err)
	}

	f := models.Forecast{
		Date:             day.Date,
		Sunrise:          sunrise,
		Sunset:           sunset,
		MoonPhase:        day.MoonPhase,
		UTCOffsetHours:   tzOffset,
		HourlyConditions: make(map[int]string, len(day.Hours)),
	}

	if day.Moonrise != "" {
		moonrise, err := timeutil.ParseClock(day.Moonrise)
		if err != nil {
			return models.Forecast{}, fmt.Errorf("%w: day %s moonrise: %v", ErrMalformed, day.Date, err)
		}
		f.Moonrise = moonrise
		f.HasMoonrise = true
	}
	if day.Moonset != "" {
		moonset, err := timeutil.ParseClock(day.Moonset)
		if err != nil {
			return models.Forecast{}, fmt.Errorf("%w: day %s moonset: %v", ErrMalformed, day.Date, err)
		}
		f.Moonset = moonset
		f.HasMoonset = true
	}

	for _, hour := range day.Hours {
		clock, err := timeutil.ParseClock(hour.Time)
		if err != nil {
			return models.Forecast{}, fmt.Errorf("%w: day %s hour %q: %v", ErrMalformed, day.Date, hour.Time, err)
		}
		f.HourlyConditions[clock.Hour()] = hour.Conditions
	}

	return f, nil
}

// doRequest performs the HTTP request, absorbing transient server errors
// with in-place retries. A request that still fails after the retries
// surfaces as one retrievable-data failure; no layer above re-issues it.
func (c *Client) doRequest(ctx context.Context, url string) (*http.Response, error) {
	maxRetries := 3
	var lastErr error

	for i := 0; i < maxRetries; i++ {
		req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
		if err != nil {
			return nil, err
		}

		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(i+1) * time.Second)
			continue
		}

		if resp.StatusCode >= 500 {
			resp.Body.Close()
			lastErr = fmt.Errorf("server error: %d", resp.StatusCode)
			time.Sleep(time.Duration(i+1) * time.Second)
			continue
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
		}

		return resp, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
