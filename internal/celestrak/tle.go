// Package celestrak maintains the satellite element catalog: fetching the
// active two-line element sets from CelesTrak, caching them on disk for the
// rest of the day, and parsing the raw text into satellite records.
package celestrak

import (
	"fmt"
	"strings"

	"github.com/clearnight/skywatch/internal/models"
)

// ParseTLE splits raw catalog text into satellites. The catalog is a flat
// sequence of three-line groups: a padded name line followed by the two
// element lines.
func ParseTLE(raw string) ([]models.Satellite, error) {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("empty element catalog")
	}
	if len(lines)%3 != 0 {
		return nil, fmt.Errorf("element catalog has %d lines, not a multiple of 3", len(lines))
	}

	sats := make([]models.Satellite, 0, len(lines)/3)
	for i := 0; i < len(lines); i += 3 {
		sat := models.Satellite{
			Name:    strings.TrimSpace(lines[i]),
			LineOne: lines[i+1],
			LineTwo: lines[i+2],
		}
		if err := sat.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %q: %w", sat.Name, err)
		}
		sats = append(sats, sat)
	}
	return sats, nil
}
