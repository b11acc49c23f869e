// Package astro provides the small pieces of positional astronomy the pass
// pipeline needs beyond SGP4 propagation: a low-precision solar ephemeris for
// deciding whether a satellite is sunlit, sexagesimal angle parsing, and
// compass-rose direction naming.
package astro

import (
	"math"
	"time"
)

const (
	// EarthRadiusKm is the WGS84 equatorial radius.
	EarthRadiusKm = 6378.137
	// j2000Epoch is the J2000 reference epoch in Julian days.
	j2000Epoch = 2451545.0

	secondsPerDay = 86400.0
)

// julianDay converts a UTC time to a Julian day number.
func julianDay(t time.Time) float64 {
	// Unix epoch is JD 2440587.5.
	return 2440587.5 + float64(t.UTC().Unix())/secondsPerDay
}

// SunDirection returns the unit vector from the Earth's center toward the
// Sun in the equatorial inertial frame, using the low-precision solar
// ephemeris (good to ~0.01°, far more than the shadow test needs).
func SunDirection(t time.Time) (x, y, z float64) {
	n := julianDay(t) - j2000Epoch

	meanLongitude := math.Mod(280.460+0.9856474*n, 360)
	meanAnomaly := (357.528 + 0.9856003*n) * math.Pi / 180

	eclipticLongitude := (meanLongitude +
		1.915*math.Sin(meanAnomaly) +
		0.020*math.Sin(2*meanAnomaly)) * math.Pi / 180
	obliquity := (23.439 - 0.0000004*n) * math.Pi / 180

	x = math.Cos(eclipticLongitude)
	y = math.Cos(obliquity) * math.Sin(eclipticLongitude)
	z = math.Sin(obliquity) * math.Sin(eclipticLongitude)
	return x, y, z
}

// Sunlit reports whether a satellite at the given geocentric position (km,
// same inertial frame as SunDirection) is in direct sunlight. The Earth's
// shadow is modeled as a cylinder of one Earth radius extending anti-sunward:
// a satellite is shadowed only when it is on the night side and within one
// Earth radius of the shadow axis.
func Sunlit(posX, posY, posZ float64, t time.Time) bool {
	sx, sy, sz := SunDirection(t)

	along := posX*sx + posY*sy + posZ*sz
	if along >= 0 {
		return true // sun side of the Earth
	}

	r2 := posX*posX + posY*posY + posZ*posZ
	perp := math.Sqrt(r2 - along*along)
	return perp > EarthRadiusKm
}
