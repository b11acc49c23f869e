// Package ephemeris answers orbital geometry questions for one satellite:
// when it rises above, culminates over, and sets below a fixed elevation
// threshold as seen from an observer, and where it sits in the sky at an
// exact instant. Propagation runs on SGP4 over the satellite's two-line
// element set; all query times are UTC.
package ephemeris

import (
	"fmt"
	"math"
	"time"

	sgp4 "github.com/joshuaferrara/go-satellite"

	"github.com/clearnight/skywatch/internal/astro"
	"github.com/clearnight/skywatch/internal/models"
)

const (
	// DefaultMinElevationDeg is the visibility threshold for pass events.
	// Below 30 degrees a pass is too low over the horizon to bother with.
	DefaultMinElevationDeg = 30.0

	// DefaultStep is the scan resolution for the threshold search.
	DefaultStep = time.Minute

	deg2rad = math.Pi / 180
	rad2deg = 180 / math.Pi
)

// Observer is a ground position. Coordinates are decimal degrees, altitude
// is kilometers above sea level.
type Observer struct {
	LatitudeDeg  float64
	LongitudeDeg float64
	AltitudeKm   float64
}

// Position describes where a satellite sits in an observer's sky.
type Position struct {
	AltitudeDeg float64
	AzimuthDeg  float64
	Cardinal    string
	RangeKm     float64
}

// sample is one propagated instant: topocentric look angles plus the ECI
// position the shadow test needs.
type sample struct {
	elevationDeg float64
	azimuthDeg   float64
	rangeKm      float64
	x, y, z      float64
}

type sampler func(obs Observer, t time.Time) sample

// Query wraps one satellite's parsed elements. A Query is cheap and
// stateless after construction; the same Query serves any observer and any
// time window.
type Query struct {
	Sat             *models.Satellite
	MinElevationDeg float64
	Step            time.Duration

	sgp    sgp4.Satellite
	sample sampler // replaced in tests with synthetic profiles
}

// NewQuery parses the satellite's element set and returns a query with the
// default threshold and step.
//
// Element lines are validated before they reach the SGP4 library, which
// calls log.Fatal on malformed input.
func NewQuery(sat *models.Satellite) (*Query, error) {
	if err := validateElements(sat.LineOne, sat.LineTwo); err != nil {
		return nil, fmt.Errorf("invalid elements for %s: %w", sat.Name, err)
	}
	s := sgp4.TLEToSat(sat.LineOne, sat.LineTwo, sgp4.GravityWGS84)
	if s.Error != 0 {
		return nil, fmt.Errorf("sgp4 init failed for %s: code=%d %s", sat.Name, s.Error, s.ErrorStr)
	}
	q := &Query{
		Sat:             sat,
		MinElevationDeg: DefaultMinElevationDeg,
		Step:            DefaultStep,
		sgp:             s,
	}
	q.sample = q.propagate
	return q, nil
}

func validateElements(line1, line2 string) error {
	if len(line1) != 69 {
		return fmt.Errorf("line1 length %d, expected 69", len(line1))
	}
	if len(line2) != 69 {
		return fmt.Errorf("line2 length %d, expected 69", len(line2))
	}
	if line1[0] != '1' {
		return fmt.Errorf("line1 must start with '1'")
	}
	if line2[0] != '2' {
		return fmt.Errorf("line2 must start with '2'")
	}
	return nil
}

// propagate runs SGP4 for one instant and projects the result into the
// observer's look angles.
func (q *Query) propagate(obs Observer, t time.Time) sample {
	t = t.UTC()
	pos, _ := sgp4.Propagate(q.sgp, t.Year(), int(t.Month()), t.Day(),
		t.Hour(), t.Minute(), t.Second())
	jday := sgp4.JDay(t.Year(), int(t.Month()), t.Day(),
		t.Hour(), t.Minute(), t.Second())
	look := sgp4.ECIToLookAngles(pos, sgp4.LatLong{
		Latitude:  obs.LatitudeDeg * deg2rad,
		Longitude: obs.LongitudeDeg * deg2rad,
	}, obs.AltitudeKm, jday)
	return sample{
		elevationDeg: look.El * rad2deg,
		azimuthDeg:   look.Az * rad2deg,
		rangeKm:      look.Rg,
		x:            pos.X,
		y:            pos.Y,
		z:            pos.Z,
	}
}

// Events scans [start, end) at the query's step and returns the threshold
// events in time order. A pass produces rise, culminate, set; a pass already
// in progress at the window start has no rise, and one still in progress at
// the window end has no set but does report its culmination so far. Each
// event carries whether the satellite itself was sunlit at that instant.
func (q *Query) Events(obs Observer, start, end time.Time) ([]models.PassEvent, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("event window end %s is not after start %s", end, start)
	}

	var events []models.PassEvent
	emit := func(t time.Time, kind models.EventKind, s sample) {
		sunlit := astro.Sunlit(s.x, s.y, s.z, t)
		events = append(events, models.NewPassEvent(q.Sat, t, kind, sunlit))
	}

	above := false
	var peak sample
	var peakAt time.Time

	for t := start; t.Before(end); t = t.Add(q.Step) {
		s := q.sample(obs, t)
		if s.elevationDeg >= q.MinElevationDeg {
			if !above {
				above = true
				peak, peakAt = s, t
				if !t.Equal(start) {
					emit(t, models.KindRise, s)
				}
			} else if s.elevationDeg > peak.elevationDeg {
				peak, peakAt = s, t
			}
		} else if above {
			above = false
			emit(peakAt, models.KindCulminate, peak)
			emit(t, models.KindSet, s)
		}
	}
	if above {
		emit(peakAt, models.KindCulminate, peak)
	}
	return events, nil
}

// PositionAt reports the satellite's sky position for the observer at one
// UTC instant, including the compass name of the azimuth.
func (q *Query) PositionAt(obs Observer, at time.Time) Position {
	s := q.sample(obs, at)
	az := math.Mod(s.azimuthDeg, 360)
	if az < 0 {
		az += 360
	}
	return Position{
		AltitudeDeg: s.elevationDeg,
		AzimuthDeg:  az,
		Cardinal:    astro.CardinalDirection(az),
		RangeKm:     s.rangeKm,
	}
}
