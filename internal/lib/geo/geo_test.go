package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters_KingstonFixture(t *testing.T) {
	// Two downtown Kingston, ON points roughly 700m apart
	confederationPark := Point{Latitude: 44.2312, Longitude: -76.4860}
	cityHallWest := Point{Latitude: 44.2270, Longitude: -76.4930}

	distance := DistanceMeters(confederationPark, cityHallWest)
	assert.InDelta(t, 725, distance, 75, "distance should be roughly 700m")
}

func TestDistanceMeters_Identity(t *testing.T) {
	points := []Point{
		{Latitude: 44.2312, Longitude: -76.4860},
		{Latitude: 0, Longitude: 0},
		{Latitude: -89.9, Longitude: 179.9},
	}
	for _, p := range points {
		assert.Equal(t, 0.0, DistanceMeters(p, p))
	}
}

func TestDistanceMeters_Symmetry(t *testing.T) {
	a := Point{Latitude: 44.2312, Longitude: -76.4860}
	b := Point{Latitude: 44.2270, Longitude: -76.4930}

	assert.InDelta(t, DistanceMeters(a, b), DistanceMeters(b, a), 1e-9)
}

func TestDistanceMeters_NoValidation(t *testing.T) {
	// Out-of-range coordinates produce a defined numeric result, not an error
	a := Point{Latitude: 200, Longitude: -300}
	b := Point{Latitude: 44.2312, Longitude: -76.4860}

	distance := DistanceMeters(a, b)
	assert.False(t, math.IsNaN(distance))
	assert.GreaterOrEqual(t, distance, 0.0)
}

func TestBoundingBox_Contains(t *testing.T) {
	kingston := BoundingBox{MinLat: 44.10, MaxLat: 44.40, MinLng: -76.70, MaxLng: -76.20}

	assert.True(t, kingston.Contains(Point{Latitude: 44.2312, Longitude: -76.4860}))
	assert.False(t, kingston.Contains(Point{Latitude: 45.42, Longitude: -75.70})) // Ottawa
	assert.False(t, kingston.Contains(Point{Latitude: 44.2312, Longitude: -76.19}))
}

func TestBoundingBox_ContainsBoundaryInclusive(t *testing.T) {
	box := BoundingBox{MinLat: 44.10, MaxLat: 44.40, MinLng: -76.70, MaxLng: -76.20}

	assert.True(t, box.Contains(Point{Latitude: 44.10, Longitude: -76.50}))
	assert.True(t, box.Contains(Point{Latitude: 44.40, Longitude: -76.50}))
	assert.True(t, box.Contains(Point{Latitude: 44.25, Longitude: -76.70}))
	assert.True(t, box.Contains(Point{Latitude: 44.25, Longitude: -76.20}))
	assert.True(t, box.Contains(Point{Latitude: 44.10, Longitude: -76.20})) // corner
}

func TestRingCentroid_UnitSquare(t *testing.T) {
	ring := Ring{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 1},
		{Latitude: 1, Longitude: 1},
		{Latitude: 1, Longitude: 0},
		{Latitude: 0, Longitude: 0},
	}

	c, ok := ring.Centroid()
	assert.True(t, ok)
	assert.Equal(t, 0.5, c.Latitude)
	assert.Equal(t, 0.5, c.Longitude)
}

func TestRingCentroid_OpenRing(t *testing.T) {
	// Malformed (unclosed) rings still produce a best-effort centroid
	ring := Ring{
		{Latitude: 44.22, Longitude: -76.50},
		{Latitude: 44.22, Longitude: -76.48},
		{Latitude: 44.24, Longitude: -76.48},
	}

	c, ok := ring.Centroid()
	assert.True(t, ok)
	assert.InDelta(t, 44.23, c.Latitude, 1e-9)
	assert.InDelta(t, -76.49, c.Longitude, 1e-9)
}

func TestRingCentroid_Empty(t *testing.T) {
	_, ok := Ring{}.Centroid()
	assert.False(t, ok)
}

func TestRingCentroid_SkipsNonFinite(t *testing.T) {
	ring := Ring{
		{Latitude: math.NaN(), Longitude: -76.50},
		{Latitude: 44.20, Longitude: math.Inf(1)},
		{Latitude: 44.20, Longitude: -76.50},
		{Latitude: 44.30, Longitude: -76.40},
	}

	c, ok := ring.Centroid()
	assert.True(t, ok)
	assert.InDelta(t, 44.25, c.Latitude, 1e-9)
	assert.InDelta(t, -76.45, c.Longitude, 1e-9)
}

func TestRingCentroid_AllNonFinite(t *testing.T) {
	ring := Ring{
		{Latitude: math.NaN(), Longitude: math.NaN()},
		{Latitude: math.Inf(-1), Longitude: 0},
	}

	_, ok := ring.Centroid()
	assert.False(t, ok)
}

func TestPolygonCentroid_UsesOuterRingOnly(t *testing.T) {
	outer := Ring{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 4},
		{Latitude: 4, Longitude: 4},
		{Latitude: 4, Longitude: 0},
		{Latitude: 0, Longitude: 0},
	}
	// Off-center hole must not shift the result
	hole := Ring{
		{Latitude: 3, Longitude: 3},
		{Latitude: 3, Longitude: 3.5},
		{Latitude: 3.5, Longitude: 3.5},
		{Latitude: 3, Longitude: 3},
	}

	c, ok := Polygon{outer, hole}.Centroid()
	assert.True(t, ok)
	assert.Equal(t, 2.0, c.Latitude)
	assert.Equal(t, 2.0, c.Longitude)
}

func TestPolygonCentroid_Empty(t *testing.T) {
	_, ok := Polygon{}.Centroid()
	assert.False(t, ok)
}

func TestMultiPolygonCentroid_UsesFirstPolygon(t *testing.T) {
	first := Polygon{Ring{
		{Latitude: 0, Longitude: 0},
		{Latitude: 0, Longitude: 2},
		{Latitude: 2, Longitude: 2},
		{Latitude: 2, Longitude: 0},
		{Latitude: 0, Longitude: 0},
	}}
	second := Polygon{Ring{
		{Latitude: 10, Longitude: 10},
		{Latitude: 10, Longitude: 12},
		{Latitude: 12, Longitude: 12},
		{Latitude: 10, Longitude: 10},
	}}

	c, ok := MultiPolygon{first, second}.Centroid()
	assert.True(t, ok)
	assert.Equal(t, 1.0, c.Latitude)
	assert.Equal(t, 1.0, c.Longitude)

	_, ok = MultiPolygon{}.Centroid()
	assert.False(t, ok)
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		meters   float64
		expected string
	}{
		{0, "0 m"},
		{45.4, "45 m"},
		{999, "999 m"},
		{999.6, "1000 m"}, // below the km threshold, rounds as meters
		{1000, "1.0 km"},
		{1234, "1.2 km"},
		{1549, "1.5 km"},
		{1550, "1.6 km"},
		{12345, "12.3 km"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, FormatDistance(tt.meters), "FormatDistance(%v)", tt.meters)
	}
}
