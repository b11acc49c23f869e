// Package models defines the core domain entities for skywatch: satellites
// described by two-line element sets, daily forecast records, and the pass
// events produced by correlating the two.
//
// Terminology:
//   - Satellite: a named two-line element (TLE) set from the CelesTrak catalog.
//   - Forecast: one calendar day of the weather/astronomy window for a location.
//   - PassEvent: a discrete moment where a satellite crosses a visibility
//     threshold (rise, culminate, set) relative to an observer.
package models

import (
	"errors"
	"fmt"
	"strings"
)

// Satellite holds the identity and orbital elements of one catalog entry.
// Pass events keep a read-only reference back to their Satellite; the struct
// is never mutated after parsing.
type Satellite struct {
	Name    string `json:"name"`
	LineOne string `json:"line_one"`
	LineTwo string `json:"line_two"`
}

// Validate checks that the entry looks like a plausible TLE triple.
func (s *Satellite) Validate() error {
	if s.Name == "" {
		return errors.New("satellite name must not be empty")
	}
	if !strings.HasPrefix(s.LineOne, "1 ") {
		return errors.New("TLE line one must start with \"1 \"")
	}
	if !strings.HasPrefix(s.LineTwo, "2 ") {
		return errors.New("TLE line two must start with \"2 \"")
	}
	return nil
}

func (s *Satellite) String() string {
	return fmt.Sprintf("%s\n%s\n%s", s.Name, s.LineOne, s.LineTwo)
}
