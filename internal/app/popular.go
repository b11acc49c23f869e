package app

// PopularSatellites is the curated set the --all flow predicts: bright,
// well-known spacecraft worth checking from almost anywhere. Names must
// match the active catalog exactly.
var PopularSatellites = []string{
	"ISS (ZARYA)",
	"CSS (TIANHE)",
	"HST",
	"TERRA",
	"AQUA",
	"NOAA 19",
	"NOAA 20 (JPSS-1)",
	"SUOMI NPP",
	"LANDSAT 8",
	"LANDSAT 9",
	"SENTINEL-2A",
	"SENTINEL-2B",
	"METOP-B",
	"METOP-C",
}
