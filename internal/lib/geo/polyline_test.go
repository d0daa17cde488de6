package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-polyline"
)

func TestDecodePolyline_GoogleReferenceExample(t *testing.T) {
	// Canonical example from Google's polyline algorithm documentation
	points := DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")

	require.Len(t, points, 3)
	assert.Equal(t, Point{Latitude: 38.5, Longitude: -120.2}, points[0])
	assert.Equal(t, Point{Latitude: 40.7, Longitude: -120.95}, points[1])
	assert.Equal(t, Point{Latitude: 43.252, Longitude: -126.453}, points[2])
}

func TestDecodePolyline_EmptyInput(t *testing.T) {
	assert.Empty(t, DecodePolyline(""))
	assert.Empty(t, DecodePolyline("   \t\n"))
}

func TestDecodePolyline_Idempotent(t *testing.T) {
	const encoded = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

	first := DecodePolyline(encoded)
	second := DecodePolyline(encoded)
	assert.Equal(t, first, second, "decoding must carry no state between calls")
}

func TestDecodePolyline_TruncatedInput(t *testing.T) {
	const encoded = "_p~iF~ps|U_ulLnnqC_mqNvxq`@"

	// Chop the string mid character group: decoding stops at end-of-input and
	// returns the points completed so far instead of failing.
	truncated := DecodePolyline(encoded[:len(encoded)-2])
	full := DecodePolyline(encoded)

	assert.Less(t, len(truncated), len(full))
	for i, p := range truncated {
		assert.Equal(t, full[i], p)
	}

	// A lone continuation character decodes to nothing
	assert.Empty(t, DecodePolyline("_"))
}

func TestDecodePolyline_MatchesLibraryDecoder(t *testing.T) {
	// Cross-check the hand decoder against go-polyline on a Kingston path
	path := []Point{
		{Latitude: 44.2312, Longitude: -76.4860},
		{Latitude: 44.2299, Longitude: -76.4885},
		{Latitude: 44.2270, Longitude: -76.4930},
		{Latitude: 44.2253, Longitude: -76.4951},
	}

	encoded := EncodePolyline(path)
	decoded := DecodePolyline(encoded)

	require.Len(t, decoded, len(path))
	for i := range path {
		assert.InDelta(t, path[i].Latitude, decoded[i].Latitude, 1e-5)
		assert.InDelta(t, path[i].Longitude, decoded[i].Longitude, 1e-5)
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	require.NoError(t, err)
	require.Len(t, coords, len(decoded))
	for i, c := range coords {
		assert.Equal(t, c[0], decoded[i].Latitude)
		assert.Equal(t, c[1], decoded[i].Longitude)
	}
}

func TestEncodePolyline_RoundTrip(t *testing.T) {
	assert.Equal(t, "", EncodePolyline(nil))

	path := []Point{{Latitude: 38.5, Longitude: -120.2}, {Latitude: 40.7, Longitude: -120.95}}
	assert.Equal(t, path, DecodePolyline(EncodePolyline(path)))
}
