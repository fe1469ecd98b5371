package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_IdenticalPoints(t *testing.T) {
	points := [][2]float64{
		{43.6532, -79.3832},
		{0, 0},
		{-33.8688, 151.2093},
		{90, 0},
	}

	for _, p := range points {
		assert.Equal(t, 0.0, Distance(p[0], p[1], p[0], p[1], UnitKilometers))
	}
}

func TestDistance_NearlyIdenticalPoints(t *testing.T) {
	// Points this close can push the cosine argument above 1; the result
	// must be a number, not NaN.
	d := Distance(43.6532, -79.3832, 43.6532, -79.38320000000001, UnitKilometers)
	assert.False(t, d != d, "distance must not be NaN")
	assert.GreaterOrEqual(t, d, 0.0)
}

func TestDistance_KnownCityPair(t *testing.T) {
	// Toronto to Ottawa is roughly 352 km as the crow flies.
	d := Distance(43.6532, -79.3832, 45.4215, -75.6972, UnitKilometers)
	assert.InDelta(t, 352, d, 5)
}

func TestDistance_Units(t *testing.T) {
	lat1, lng1 := 43.6532, -79.3832
	lat2, lng2 := 45.4215, -75.6972

	miles := Distance(lat1, lng1, lat2, lng2, UnitMiles)
	km := Distance(lat1, lng1, lat2, lng2, UnitKilometers)
	nm := Distance(lat1, lng1, lat2, lng2, UnitNauticalMiles)

	assert.InDelta(t, miles*1.609344, km, 0.02)
	assert.InDelta(t, miles*0.8684, nm, 0.02)
}

func TestDistance_RoundedToTwoDecimals(t *testing.T) {
	d := Distance(43.6532, -79.3832, 43.7001, -79.4163, UnitKilometers)
	assert.Equal(t, math.Round(d*100)/100, d)
}

func TestDistance_LatitudeDegree(t *testing.T) {
	// One degree of latitude under this formula is 60 * 1.1515 statute
	// miles, or about 111.19 km.
	d := Distance(43.0, -79.0, 44.0, -79.0, UnitKilometers)
	assert.InDelta(t, 111.19, d, 0.01)
}

func TestBetween(t *testing.T) {
	assert.Equal(t,
		Distance(43.65, -79.38, 45.42, -75.70, UnitKilometers),
		Between(43.65, -79.38, 45.42, -75.70),
	)
}
