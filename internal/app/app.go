// Package app orchestrates a pass-finding request end to end: resolve the
// observer's coordinates, pull the forecast window and the element catalog,
// predict threshold events for the requested satellites, run the filter
// pipeline, and render the surviving passes as a plain-text listing.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/clearnight/skywatch/internal/ephemeris"
	"github.com/clearnight/skywatch/internal/geocode"
	"github.com/clearnight/skywatch/internal/logger"
	"github.com/clearnight/skywatch/internal/models"
	"github.com/clearnight/skywatch/internal/pipeline"
	"github.com/clearnight/skywatch/internal/timeutil"
)

var (
	// ErrBusy means another request is already running. The app serves one
	// request at a time; computing passes for a satellite set takes long
	// enough that overlapping runs would trample each other's output.
	ErrBusy = errors.New("another request is already running")

	// ErrBadAddress means the observer's address could not be resolved.
	ErrBadAddress = errors.New("could not recognize the address")

	// ErrForecastDown means the forecast service failed; retry later.
	ErrForecastDown = errors.New("could not retrieve the forecast")

	// ErrElementsDown means the element catalog failed; retry later.
	ErrElementsDown = errors.New("could not retrieve satellite data")

	// ErrUnknownSatellite means a requested name is not in the catalog.
	ErrUnknownSatellite = errors.New("unknown satellite")
)

type geocoder interface {
	Locate(ctx context.Context, address string) (lat, lon float64, err error)
}

type forecaster interface {
	Forecast(ctx context.Context, lat, lon float64, start, end string) ([]models.Forecast, error)
}

type catalog interface {
	Satellites(ctx context.Context, today string) ([]models.Satellite, error)
}

// Notifier delivers a rendered listing somewhere else. The Telegram client
// in internal/notify satisfies it; nil disables delivery.
type Notifier interface {
	Send(listing string) error
}

// Filters selects which pipeline stages a request runs. The zero value runs
// no filtering and renders every predicted event with its forecast.
type Filters struct {
	SunlitOnly   bool
	NightOnly    bool
	ClearOnly    bool
	MoonWarnings bool
	DropMoonlit  bool
	ShowSunlit   bool
}

// OptimalViewing is the filter set for passes worth going outside for:
// the satellite lit, the sky dark and clear, with moon warnings attached.
func OptimalViewing() Filters {
	return Filters{
		SunlitOnly:   true,
		NightOnly:    true,
		ClearOnly:    true,
		MoonWarnings: true,
		ShowSunlit:   true,
	}
}

// Request describes one pass-finding run.
type Request struct {
	// Address is geocoded when set; otherwise Latitude and Longitude are
	// used directly.
	Address   string
	Latitude  float64
	Longitude float64

	// Satellites are catalog names. Empty with All set means the popular
	// set; empty without All is an error.
	Satellites []string
	All        bool

	Filters Filters
}

// App runs pass-finding requests. One request at a time.
type App struct {
	geocoder   geocoder
	forecaster forecaster
	catalog    catalog
	notifier   Notifier

	minElevationDeg float64
	step            time.Duration
	windowDays      int

	busy atomic.Bool
	now  func() time.Time

	// predict is swapped out in tests to avoid running real propagation.
	predict func(sat *models.Satellite, obs ephemeris.Observer, start, end time.Time) ([]models.PassEvent, error)
}

// Options carries the prediction tuning from configuration.
type Options struct {
	MinElevationDeg float64
	Step            time.Duration
	WindowDays      int
	Notifier        Notifier
}

// New assembles an app from its collaborators.
func New(g geocoder, f forecaster, c catalog, opts Options) *App {
	a := &App{
		geocoder:        g,
		forecaster:      f,
		catalog:         c,
		minElevationDeg: opts.MinElevationDeg,
		step:            opts.Step,
		windowDays:      opts.WindowDays,
		now:             time.Now,
	}
	if opts.MinElevationDeg == 0 {
		a.minElevationDeg = ephemeris.DefaultMinElevationDeg
	}
	if opts.Step == 0 {
		a.step = ephemeris.DefaultStep
	}
	if opts.WindowDays == 0 {
		a.windowDays = 9
	}
	a.notifier = opts.Notifier
	a.predict = a.propagate
	return a
}

func (a *App) propagate(sat *models.Satellite, obs ephemeris.Observer, start, end time.Time) ([]models.PassEvent, error) {
	q, err := ephemeris.NewQuery(sat)
	if err != nil {
		return nil, err
	}
	q.MinElevationDeg = a.minElevationDeg
	q.Step = a.step
	return q.Events(obs, start, end)
}

// FindPasses runs one request and returns the rendered listing. A second
// call while one is in flight fails fast with ErrBusy.
func (a *App) FindPasses(ctx context.Context, req Request) (string, error) {
	if !a.busy.CompareAndSwap(false, true) {
		return "", ErrBusy
	}
	defer a.busy.Store(false)

	lat, lon := req.Latitude, req.Longitude
	if req.Address != "" {
		var err error
		lat, lon, err = a.geocoder.Locate(ctx, req.Address)
		if err != nil {
			if errors.Is(err, geocode.ErrNoMatch) {
				return "", fmt.Errorf("%w: %q", ErrBadAddress, req.Address)
			}
			return "", fmt.Errorf("%w: %v", ErrBadAddress, err)
		}
		logger.Debug("Resolved %q to %.4f, %.4f", req.Address, lat, lon)
	}

	// The pass window starts tomorrow so the whole of it sits inside the
	// forecast horizon regardless of the observer's offset from UTC. The
	// forecast request itself starts today: with a negative offset the
	// window's first events land on today's local date, and the moonlight
	// stage reads the previous day's moonset.
	today := midnightUTC(a.now().UTC())
	start := today.AddDate(0, 0, 1)
	end := start.AddDate(0, 0, a.windowDays)

	forecasts, err := a.forecaster.Forecast(ctx, lat, lon,
		today.Format(timeutil.DateLayout), today.AddDate(0, 0, a.windowDays).Format(timeutil.DateLayout))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrForecastDown, err)
	}

	sats, err := a.selectSatellites(ctx, req)
	if err != nil {
		return "", err
	}

	obs := ephemeris.Observer{LatitudeDeg: lat, LongitudeDeg: lon}

	var events []models.PassEvent
	for i := range sats {
		satEvents, err := a.predict(&sats[i], obs, start, end)
		if err != nil {
			return "", fmt.Errorf("predicting passes for %s: %w", sats[i].Name, err)
		}
		events = append(events, satEvents...)
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Time.Before(events[j].Time)
	})
	logger.Info("Predicted %d events for %d satellites", len(events), len(sats))

	events, ann := a.applyPipeline(events, forecasts, req.Filters)
	return render(events, forecasts, ann), nil
}

// selectSatellites resolves the request's names against the catalog.
func (a *App) selectSatellites(ctx context.Context, req Request) ([]models.Satellite, error) {
	today, _ := timeutil.SplitTimestamp(a.now().UTC())
	all, err := a.catalog.Satellites(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrElementsDown, err)
	}

	byName := make(map[string]*models.Satellite, len(all))
	for i := range all {
		byName[all[i].Name] = &all[i]
	}

	names := req.Satellites
	if req.All {
		names = PopularSatellites
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no satellite requested", ErrUnknownSatellite)
	}

	var sats []models.Satellite
	for _, name := range names {
		sat, ok := byName[name]
		if !ok {
			if req.All {
				// The popular set is curated by hand; a name can drop out
				// of the active catalog between releases.
				logger.Warn("Popular satellite %q not in today's catalog, skipping", name)
				continue
			}
			return nil, fmt.Errorf("%w: %q", ErrUnknownSatellite, name)
		}
		sats = append(sats, *sat)
	}
	if len(sats) == 0 {
		return nil, fmt.Errorf("%w: none of the requested satellites are in the catalog", ErrUnknownSatellite)
	}
	return sats, nil
}

// applyPipeline runs the configured stages in a fixed order. The order only
// matters for speed: filters first shrink the set the annotators touch,
// except that conditions are attached before the moonlight filter so a
// rendered listing always shows the forecast that justified keeping a pass.
func (a *App) applyPipeline(events []models.PassEvent, forecasts []models.Forecast, f Filters) ([]models.PassEvent, pipeline.Annotations) {
	ann := pipeline.NewAnnotations()

	if f.SunlitOnly {
		events = pipeline.OnlySunlit(events)
	}
	if f.NightOnly {
		events = pipeline.OnlyAtNight(events, forecasts)
	}
	if f.ClearOnly {
		events = pipeline.OnlyClearSkies(events, forecasts)
	}
	if f.MoonWarnings {
		pipeline.AnnotateMoonWarnings(events, forecasts, ann)
	}
	pipeline.AnnotateConditions(events, forecasts, ann)
	if f.DropMoonlit {
		events = pipeline.WithoutMoonInterference(events, forecasts)
	}
	if f.ShowSunlit {
		pipeline.AnnotateSunlit(events, ann)
	}
	return events, ann
}

// SatelliteNames returns the sorted catalog names, for the listing command.
func (a *App) SatelliteNames(ctx context.Context) ([]string, error) {
	today, _ := timeutil.SplitTimestamp(a.now().UTC())
	sats, err := a.catalog.Satellites(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrElementsDown, err)
	}
	names := make([]string, len(sats))
	for i := range sats {
		names[i] = sats[i].Name
	}
	sort.Strings(names)
	return names, nil
}

// Position reports where a named satellite sits right now for the observer.
func (a *App) Position(ctx context.Context, name string, lat, lon float64, at time.Time) (ephemeris.Position, error) {
	today, _ := timeutil.SplitTimestamp(a.now().UTC())
	sats, err := a.catalog.Satellites(ctx, today)
	if err != nil {
		return ephemeris.Position{}, fmt.Errorf("%w: %v", ErrElementsDown, err)
	}
	for i := range sats {
		if sats[i].Name != name {
			continue
		}
		q, err := ephemeris.NewQuery(&sats[i])
		if err != nil {
			return ephemeris.Position{}, err
		}
		return q.PositionAt(ephemeris.Observer{LatitudeDeg: lat, LongitudeDeg: lon}, at), nil
	}
	return ephemeris.Position{}, fmt.Errorf("%w: %q", ErrUnknownSatellite, name)
}

// Deliver sends a rendered listing through the configured notifier, if any.
func (a *App) Deliver(listing string) error {
	if a.notifier == nil {
		return nil
	}
	return a.notifier.Send(listing)
}

// Export writes a rendered listing to a plain-text file.
func Export(path, listing string) error {
	if err := os.WriteFile(path, []byte(listing), 0o644); err != nil {
		return fmt.Errorf("exporting listing: %w", err)
	}
	return nil
}

// render formats the surviving events, one block per event: the headline
// line, then the annotations that apply.
func render(events []models.PassEvent, forecasts []models.Forecast, ann pipeline.Annotations) string {
	if len(events) == 0 {
		return "No visible passes found.\n"
	}

	offset := 0.0
	if len(forecasts) > 0 {
		offset = forecasts[0].UTCOffsetHours
	}

	var b strings.Builder
	for i := range events {
		e := &events[i]
		local := e.LocalTime(offset)
		fmt.Fprintf(&b, "At time: %s, %s will: %s\n",
			local.Format(timeutil.TimestampLayout), e.Satellite.Name, e.Kind)

		a := ann.Lookup(e.ID)
		var details []string
		if a.ShowSunlit {
			details = append(details, "Sunlit: "+e.SunlitText())
		}
		if a.SkyCondition != "" {
			details = append(details, "Forecast: "+a.SkyCondition)
		}
		if len(details) > 0 {
			fmt.Fprintf(&b, "    (%s)\n", strings.Join(details, ", "))
		}
		if a.MoonWarning != "" {
			fmt.Fprintf(&b, "    %s\n", a.MoonWarning)
		}
	}
	return b.String()
}

// midnightUTC truncates a UTC instant to the start of its calendar day.
func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
