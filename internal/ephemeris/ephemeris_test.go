package ephemeris

import (
	"math"
	"testing"
	"time"

	"github.com/clearnight/skywatch/internal/astro"
	"github.com/clearnight/skywatch/internal/models"
)

var issSat = &models.Satellite{
	Name:    "ISS (ZARYA)",
	LineOne: "1 25544U 98067A   25138.37048074  .00007749  00000+0  14567-3 0  9994",
	LineTwo: "2 25544  51.6369  94.7823 0002558 120.7586  15.7840 15.49587957510533",
}

var windowStart = time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

// profileSampler replaces SGP4 with a fixed per-minute elevation profile.
// Positions are placed sun-side at geosynchronous distance so every sample
// is sunlit unless a test overrides that.
func profileSampler(elevations []float64) sampler {
	return func(_ Observer, t time.Time) sample {
		idx := int(t.Sub(windowStart) / time.Minute)
		el := -10.0
		if idx >= 0 && idx < len(elevations) {
			el = elevations[idx]
		}
		sx, sy, sz := astro.SunDirection(t)
		const r = 42000.0
		return sample{
			elevationDeg: el,
			azimuthDeg:   135,
			rangeKm:      800,
			x:            sx * r,
			y:            sy * r,
			z:            sz * r,
		}
	}
}

func newTestQuery(t *testing.T, s sampler) *Query {
	t.Helper()
	q, err := NewQuery(issSat)
	if err != nil {
		t.Fatalf("NewQuery failed: %v", err)
	}
	q.sample = s
	return q
}

func TestEventsFullPass(t *testing.T) {
	// Below threshold, climbs through 30 at minute 3, peaks at minute 5,
	// drops back below at minute 8.
	q := newTestQuery(t, profileSampler([]float64{
		5, 15, 25, 35, 50, 62, 48, 33, 20, 10,
	}))

	events, err := q.Events(Observer{}, windowStart, windowStart.Add(10*time.Minute))
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected rise/culminate/set, got %d events", len(events))
	}

	wantKinds := []models.EventKind{models.KindRise, models.KindCulminate, models.KindSet}
	wantMinutes := []int{3, 5, 8}
	for i, e := range events {
		if e.Kind != wantKinds[i] {
			t.Errorf("event %d kind = %v, want %v", i, e.Kind, wantKinds[i])
		}
		if got := int(e.Time.Sub(windowStart) / time.Minute); got != wantMinutes[i] {
			t.Errorf("event %d at minute %d, want %d", i, got, wantMinutes[i])
		}
		if e.Satellite != issSat {
			t.Errorf("event %d lost its satellite reference", i)
		}
		if !e.Sunlit {
			t.Errorf("event %d should be sunlit for a sun-side position", i)
		}
	}
}

func TestEventsThresholdIsInclusive(t *testing.T) {
	// Exactly 30 counts as above the threshold.
	q := newTestQuery(t, profileSampler([]float64{10, 30, 10}))

	events, err := q.Events(Observer{}, windowStart, windowStart.Add(3*time.Minute))
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected a one-sample pass, got %d events", len(events))
	}
	if events[0].Kind != models.KindRise || events[1].Kind != models.KindCulminate {
		t.Error("one-sample pass should still rise and culminate")
	}
}

func TestEventsPassInProgressAtStart(t *testing.T) {
	// Already above threshold at the first sample: no rise event.
	q := newTestQuery(t, profileSampler([]float64{45, 55, 40, 20, 10}))

	events, err := q.Events(Observer{}, windowStart, windowStart.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected culminate+set only, got %d events", len(events))
	}
	if events[0].Kind != models.KindCulminate || events[1].Kind != models.KindSet {
		t.Errorf("got kinds %v, %v", events[0].Kind, events[1].Kind)
	}
	if got := int(events[0].Time.Sub(windowStart) / time.Minute); got != 1 {
		t.Errorf("culmination at minute %d, want 1", got)
	}
}

func TestEventsPassOngoingAtEnd(t *testing.T) {
	// Window closes while the satellite is still up: culmination so far is
	// reported, no set.
	q := newTestQuery(t, profileSampler([]float64{10, 35, 50, 55}))

	events, err := q.Events(Observer{}, windowStart, windowStart.Add(4*time.Minute))
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected rise+culminate, got %d events", len(events))
	}
	if events[0].Kind != models.KindRise || events[1].Kind != models.KindCulminate {
		t.Errorf("got kinds %v, %v", events[0].Kind, events[1].Kind)
	}
	if got := int(events[1].Time.Sub(windowStart) / time.Minute); got != 3 {
		t.Errorf("culmination at minute %d, want 3", got)
	}
}

func TestEventsShadowedSatellite(t *testing.T) {
	// Anti-sunward at LEO altitude: inside the shadow cylinder, not sunlit.
	shadowed := func(_ Observer, t time.Time) sample {
		sx, sy, sz := astro.SunDirection(t)
		r := astro.EarthRadiusKm + 420
		idx := int(t.Sub(windowStart) / time.Minute)
		el := -10.0
		if idx >= 1 && idx <= 3 {
			el = 50
		}
		return sample{elevationDeg: el, x: -sx * r, y: -sy * r, z: -sz * r}
	}

	q := newTestQuery(t, shadowed)
	events, err := q.Events(Observer{}, windowStart, windowStart.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("Events failed: %v", err)
	}
	if len(events) == 0 {
		t.Fatal("expected events from the synthetic pass")
	}
	for i, e := range events {
		if e.Sunlit {
			t.Errorf("event %d should be in shadow", i)
		}
	}
}

func TestEventsRejectsEmptyWindow(t *testing.T) {
	q := newTestQuery(t, profileSampler(nil))
	if _, err := q.Events(Observer{}, windowStart, windowStart); err == nil {
		t.Error("expected error for an empty window")
	}
	if _, err := q.Events(Observer{}, windowStart, windowStart.Add(-time.Hour)); err == nil {
		t.Error("expected error for an inverted window")
	}
}

func TestNewQueryRejectsBadElements(t *testing.T) {
	_, err := NewQuery(&models.Satellite{Name: "X", LineOne: "garbage", LineTwo: "2 junk"})
	if err == nil {
		t.Error("expected error for malformed element lines")
	}
}

func TestPositionAt(t *testing.T) {
	q := newTestQuery(t, func(_ Observer, _ time.Time) sample {
		return sample{elevationDeg: 42.5, azimuthDeg: 270, rangeKm: 612.3}
	})

	pos := q.PositionAt(Observer{}, windowStart)
	if pos.AltitudeDeg != 42.5 {
		t.Errorf("altitude = %v, want 42.5", pos.AltitudeDeg)
	}
	if pos.AzimuthDeg != 270 {
		t.Errorf("azimuth = %v, want 270", pos.AzimuthDeg)
	}
	if pos.Cardinal != "West" {
		t.Errorf("cardinal = %q, want West", pos.Cardinal)
	}
	if pos.RangeKm != 612.3 {
		t.Errorf("range = %v, want 612.3", pos.RangeKm)
	}
}

func TestPositionAtNormalizesAzimuth(t *testing.T) {
	q := newTestQuery(t, func(_ Observer, _ time.Time) sample {
		return sample{azimuthDeg: -90}
	})

	pos := q.PositionAt(Observer{}, windowStart)
	if math.Abs(pos.AzimuthDeg-270) > 1e-9 {
		t.Errorf("azimuth = %v, want 270", pos.AzimuthDeg)
	}
	if pos.Cardinal != "West" {
		t.Errorf("cardinal = %q, want West", pos.Cardinal)
	}
}
