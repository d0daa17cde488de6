package geo

import (
	"strings"

	"github.com/twpayne/go-polyline"
)

// DecodePolyline decodes a Google encoded polyline string into a point
// sequence. It implements the published algorithm directly: characters carry
// five payload bits each (code point minus 63), a set bit six continues the
// group, groups are zig-zag decoded into signed deltas, and deltas accumulate
// per axis at 1e5 scale.
//
// Empty or whitespace-only input decodes to an empty sequence. A string that
// ends mid-group (continuation bit set on the final character) is treated as
// end-of-input: the points decoded so far are returned. Neither case is an
// error; malformed polylines are a data-quality condition callers skip over.
func DecodePolyline(encoded string) []Point {
	s := strings.TrimSpace(encoded)

	var points []Point
	var lat, lng int64

	i := 0
	for i < len(s) {
		dlat, next, ok := decodeDelta(s, i)
		if !ok {
			break
		}
		dlng, after, ok := decodeDelta(s, next)
		if !ok {
			break
		}
		i = after

		lat += dlat
		lng += dlng
		points = append(points, Point{
			Latitude:  float64(lat) / 1e5,
			Longitude: float64(lng) / 1e5,
		})
	}

	return points
}

// decodeDelta reads one variable-length signed value starting at index i.
// ok is false when the string ends before the group terminates.
func decodeDelta(s string, i int) (delta int64, next int, ok bool) {
	var value int64
	var shift uint

	for {
		if i >= len(s) {
			return 0, i, false
		}
		chunk := int64(s[i]) - 63
		i++

		value |= (chunk & 0x1f) << shift
		shift += 5

		if chunk < 0x20 {
			break
		}
	}

	if value&1 != 0 {
		return ^(value >> 1), i, true
	}
	return value >> 1, i, true
}

// EncodePolyline encodes a point sequence using Google's polyline format.
// The encode direction has no malformed-input concerns, so it delegates to
// go-polyline rather than duplicating the bit packing.
func EncodePolyline(points []Point) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Latitude, p.Longitude}
	}
	return string(polyline.EncodeCoords(coords))
}
