package astro

import "math"

// CardinalDirection names an azimuth in degrees (0 = due north, 90 = east)
// as one of the 16 compass-rose directions. The bearing is rounded to the
// nearest whole degree first; exact multiples of 45 land on the cardinal and
// intercardinal names, everything between on the compound names. Defined on
// [0,360); anything at or past 360 returns the empty string.
func CardinalDirection(degrees float64) string {
	d := int(math.Round(degrees))
	switch {
	case d == 0:
		return "North"
	case d < 45:
		return "North-North East"
	case d == 45:
		return "North East"
	case d < 90:
		return "East-North East"
	case d == 90:
		return "East"
	case d < 135:
		return "East-South East"
	case d == 135:
		return "South East"
	case d < 180:
		return "South-South East"
	case d == 180:
		return "South"
	case d < 225:
		return "South-South West"
	case d == 225:
		return "South West"
	case d < 270:
		return "West-South West"
	case d == 270:
		return "West"
	case d < 315:
		return "West-North West"
	case d == 315:
		return "North West"
	case d < 360:
		return "North-North West"
	default:
		return ""
	}
}
