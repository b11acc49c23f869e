package models

import (
	"errors"
	"time"

	"github.com/clearnight/skywatch/internal/timeutil"
)

// Moon phase quarter boundaries, as fractions of the lunar cycle.
const (
	FirstQuarter = 0.25
	LastQuarter  = 0.75
)

// MoonPhaseUnknown is returned by MoonPhaseLabel for values outside [0,1).
const MoonPhaseUnknown = "Unknown Moon Phase"

// Forecast is one calendar day of the retrieved forecast window. The UTC
// offset is a property of the whole query window (the weather API returns a
// single value), so every record in a window carries the same offset.
//
// HourlyConditions maps exact local hours (0-23) to a sky condition label
// such as "Clear" or "Partly Cloudy". Keys are normalized once at decode
// time; callers round an arbitrary time to the nearest hour before lookup.
type Forecast struct {
	Date             string         `json:"date"` // "2006-01-02"
	Sunrise          timeutil.Clock `json:"sunrise"`
	Sunset           timeutil.Clock `json:"sunset"`
	MoonPhase        float64        `json:"moon_phase"` // [0,1): 0 new, 0.5 full
	Moonrise         timeutil.Clock `json:"moonrise"`
	Moonset          timeutil.Clock `json:"moonset"`
	HasMoonrise      bool           `json:"has_moonrise"` // the feed omits moonrise/moonset some days
	HasMoonset       bool           `json:"has_moonset"`
	UTCOffsetHours   float64        `json:"utc_offset_hours"`
	HourlyConditions map[int]string `json:"hourly_conditions"`
}

// Validate checks that all forecast fields are valid.
func (f *Forecast) Validate() error {
	if _, err := time.Parse(timeutil.DateLayout, f.Date); err != nil {
		return errors.New("forecast date must be a valid 2006-01-02 date")
	}
	if f.MoonPhase < 0 || f.MoonPhase > 1 {
		return errors.New("moon phase must be between 0.0 and 1.0")
	}
	if f.UTCOffsetHours < -14 || f.UTCOffsetHours > 14 {
		return errors.New("utc offset must be between -14 and +14 hours")
	}
	for hour := range f.HourlyConditions {
		if hour < 0 || hour > 23 {
			return errors.New("hourly condition keys must be exact hours 0-23")
		}
	}
	return nil
}

// MoonriseAt returns the moonrise as a full timestamp on the record's date.
// The second return is false when the feed omitted moonrise for this day.
func (f *Forecast) MoonriseAt() (time.Time, bool) {
	if !f.HasMoonrise {
		return time.Time{}, false
	}
	t, err := timeutil.CombineDateClock(f.Date, f.Moonrise)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// MoonsetAt returns the moonset as a full timestamp. When the moonset clock
// precedes the moonrise clock the moon is up past midnight, so the moonset
// belongs to the next calendar day.
func (f *Forecast) MoonsetAt() (time.Time, bool) {
	if !f.HasMoonset {
		return time.Time{}, false
	}
	set, err := timeutil.CombineDateClock(f.Date, f.Moonset)
	if err != nil {
		return time.Time{}, false
	}
	if rise, ok := f.MoonriseAt(); ok && rise.After(set) {
		set = set.Add(24 * time.Hour)
	}
	return set, true
}

// MoonPhaseLabel classifies the phase fraction into one of the eight common
// phase names. Values at or past 1.0 fall through to MoonPhaseUnknown.
func (f *Forecast) MoonPhaseLabel() string {
	switch p := f.MoonPhase; {
	case p == 0:
		return "New Moon"
	case p < FirstQuarter:
		return "Waxing Crescent"
	case p == FirstQuarter:
		return "First Quarter"
	case p < 0.5:
		return "Waxing Gibbous"
	case p == 0.5:
		return "Full"
	case p < LastQuarter:
		return "Waning Gibbous"
	case p == LastQuarter:
		return "Last Quarter"
	case p < 1:
		return "Waning Crescent"
	default:
		return MoonPhaseUnknown
	}
}
