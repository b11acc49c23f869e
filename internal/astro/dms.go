package astro

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDMS converts a sexagesimal angle of the form
//
//	54deg 33' 03.7"
//
// to decimal degrees: whole degrees plus minutes/60 plus seconds/3600.
// A leading minus sign applies to the whole angle.
func ParseDMS(s string) (float64, error) {
	cleaned := strings.ReplaceAll(s, "deg", " ")
	cleaned = strings.ReplaceAll(cleaned, "°", " ")
	cleaned = strings.ReplaceAll(cleaned, "'", " ")
	cleaned = strings.ReplaceAll(cleaned, "\"", " ")

	fields := strings.Fields(cleaned)
	if len(fields) != 3 {
		return 0, fmt.Errorf("malformed sexagesimal angle %q", s)
	}

	deg, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed degrees in %q: %w", s, err)
	}
	min, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed minutes in %q: %w", s, err)
	}
	sec, err := strconv.ParseFloat(fields[2], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed seconds in %q: %w", s, err)
	}

	sign := 1.0
	if strings.HasPrefix(strings.TrimSpace(fields[0]), "-") {
		sign = -1.0
		deg = -deg
	}
	return sign * (deg + min/60 + sec/3600), nil
}

// ParseCoordinate accepts either a plain decimal degree string or a
// sexagesimal string understood by ParseDMS.
func ParseCoordinate(s string) (float64, error) {
	if v, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
		return v, nil
	}
	return ParseDMS(s)
}
