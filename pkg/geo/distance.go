// Package geo provides great-circle distance calculations for the
// directory's radius search.
package geo

import "math"

// Supported distance units.
const (
	UnitKilometers    = "K"
	UnitNauticalMiles = "N"
	UnitMiles         = "M"
)

// Distance returns the great-circle distance between two points using the
// spherical law of cosines, rounded to two decimal places. The unit is one of
// UnitKilometers, UnitNauticalMiles or UnitMiles (the default).
func Distance(lat1, lng1, lat2, lng2 float64, unit string) float64 {
	if lat1 == lat2 && lng1 == lng2 {
		return 0
	}

	theta := lng1 - lng2
	cosine := math.Sin(degToRad(lat1))*math.Sin(degToRad(lat2)) +
		math.Cos(degToRad(lat1))*math.Cos(degToRad(lat2))*math.Cos(degToRad(theta))

	// Floating-point error can push the cosine slightly outside [-1, 1],
	// which would make Acos return NaN.
	if cosine > 1 {
		cosine = 1
	} else if cosine < -1 {
		cosine = -1
	}

	dist := radToDeg(math.Acos(cosine)) * 60 * 1.1515
	switch unit {
	case UnitKilometers:
		dist *= 1.609344
	case UnitNauticalMiles:
		dist *= 0.8684
	}

	return round2(dist)
}

// Between is a convenience wrapper over Distance for coordinate pairs,
// always in kilometers.
func Between(fromLat, fromLng, toLat, toLng float64) float64 {
	return Distance(fromLat, fromLng, toLat, toLng, UnitKilometers)
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180.0
}

func radToDeg(rad float64) float64 {
	return rad * 180.0 / math.Pi
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
