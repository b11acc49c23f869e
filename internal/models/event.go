package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// EventKind identifies which visibility threshold a pass event marks.
type EventKind int

const (
	// KindRise marks the satellite climbing above the elevation threshold.
	KindRise EventKind = iota
	// KindCulminate marks the highest point of the pass.
	KindCulminate
	// KindSet marks the satellite dropping below the elevation threshold.
	KindSet
)

func (k EventKind) String() string {
	switch k {
	case KindRise:
		return "rise above 30°"
	case KindCulminate:
		return "culminate"
	case KindSet:
		return "set below 30°"
	default:
		return "unknown"
	}
}

// PassEvent is a discrete orbital geometry event for one satellite. The core
// fields are immutable once created; enrichment (moon warnings, sky
// conditions) lives in a separate annotation set keyed by ID, so the event
// itself never changes after the facade produces it.
//
// Time is authoritative and always UTC. Local time is derived on demand from
// the forecast window's offset, never stored.
type PassEvent struct {
	ID        string     `json:"id"`
	Satellite *Satellite `json:"satellite"` // read-only back-reference
	Time      time.Time  `json:"time"`      // UTC
	Kind      EventKind  `json:"kind"`
	Sunlit    bool       `json:"sunlit"` // the satellite itself is illuminated, not the observer
}

// NewPassEvent creates a pass event with a fresh identity.
func NewPassEvent(sat *Satellite, t time.Time, kind EventKind, sunlit bool) PassEvent {
	return PassEvent{
		ID:        uuid.New().String(),
		Satellite: sat,
		Time:      t.UTC(),
		Kind:      kind,
		Sunlit:    sunlit,
	}
}

// LocalTime projects the event's UTC time into the observer's zone using the
// forecast window's offset. The result is zone-naive local wall time.
func (e *PassEvent) LocalTime(offsetHours float64) time.Time {
	return e.Time.Add(time.Duration(offsetHours * float64(time.Hour)))
}

// SunlitText renders the sunlit flag the way the event listing displays it.
func (e *PassEvent) SunlitText() string {
	if e.Sunlit {
		return "in sunlight"
	}
	return "in shadow"
}

// Validate checks that all event fields are valid.
func (e *PassEvent) Validate() error {
	if e.ID == "" {
		return errors.New("event ID must not be empty")
	}
	if e.Satellite == nil {
		return errors.New("event must reference a satellite")
	}
	if e.Time.IsZero() {
		return errors.New("event time must not be zero")
	}
	if e.Kind < KindRise || e.Kind > KindSet {
		return errors.New("event kind must be rise, culminate, or set")
	}
	return nil
}
