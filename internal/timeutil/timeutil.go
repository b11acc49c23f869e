// Package timeutil provides the time-of-day arithmetic used to line up
// satellite pass timestamps with daily forecast records: splitting a local
// timestamp into its date and clock parts, and rounding a clock time to the
// exact hours that key the hourly forecast table.
package timeutil

import (
	"fmt"
	"time"
)

const (
	// DateLayout is the calendar-day format used to key forecast records.
	DateLayout = "2006-01-02"
	// ClockLayout is the time-of-day format used by the forecast feed.
	ClockLayout = "15:04:05"
	// TimestampLayout is the full local timestamp format used in rendered output.
	TimestampLayout = "2006-01-02 15:04:05"
)

// Clock is a time of day measured in seconds since local midnight.
// It has no date or zone attached; two Clocks from the same day compare
// directly with < and >.
type Clock int

// ParseClock parses a "15:04:05" string into a Clock.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("parsing clock time %q: %w", s, err)
	}
	return Clock(t.Hour()*3600 + t.Minute()*60 + t.Second()), nil
}

// ClockOf returns the time-of-day portion of a timestamp.
func ClockOf(t time.Time) Clock {
	return Clock(t.Hour()*3600 + t.Minute()*60 + t.Second())
}

// Hour returns the hour component, 0-23.
func (c Clock) Hour() int {
	return int(c) / 3600
}

// String formats the clock as "15:04:05".
func (c Clock) String() string {
	s := int(c)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, (s/60)%60, s%60)
}

// RoundToHour returns the exact hour nearest to c for looking up hourly
// forecast conditions. Strictly more than 45 minutes past the hour rounds up;
// 45 minutes exactly (and anything less) rounds down. Rounding up from 23:46
// or later yields hour 0 without advancing to the next day.
func (c Clock) RoundToHour() int {
	past := int(c) % 3600
	if past > 45*60 {
		return (c.Hour() + 1) % 24
	}
	return c.Hour()
}

// SplitTimestamp decomposes a local timestamp into its calendar-day string
// and its time-of-day, for matching against per-day forecast records.
func SplitTimestamp(t time.Time) (string, Clock) {
	return t.Format(DateLayout), ClockOf(t)
}

// CombineDateClock attaches a time of day to a calendar-day string, producing
// a zone-naive timestamp.
func CombineDateClock(date string, c Clock) (time.Time, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", date, err)
	}
	return d.Add(time.Duration(c) * time.Second), nil
}
