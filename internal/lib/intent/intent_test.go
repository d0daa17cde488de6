package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingstonaccess/server/internal/lib/geo"
)

func kingstonBounds() geo.BoundingBox {
	return geo.BoundingBox{MinLat: 44.10, MaxLat: 44.40, MinLng: -76.70, MaxLng: -76.20}
}

func TestFallbackIntent(t *testing.T) {
	got := FallbackIntent("  parking near Metro  ", "fallback: no api key")

	assert.Equal(t, "parking near Metro", got.Query)
	assert.Equal(t, DefaultRadiusM, got.RadiusM)
	assert.Equal(t, DefaultLimit, got.Limit)
	assert.Equal(t, DefaultPlaceLimit, got.PlaceLimit)
	assert.Equal(t, "fallback: no api key", got.Notes)
}

func TestClamp(t *testing.T) {
	got := Clamp(Intent{Query: "q", RadiusM: 5, Limit: 9999, PlaceLimit: -3})
	assert.Equal(t, 50, got.RadiusM)
	assert.Equal(t, 100, got.Limit)
	assert.Equal(t, 1, got.PlaceLimit, "negative values clamp to the floor")
	assert.Equal(t, 20, Clamp(Intent{PlaceLimit: 50}).PlaceLimit)

	// Zero means unset, not "clamp to minimum"
	defaults := Clamp(Intent{Query: "q"})
	assert.Equal(t, DefaultRadiusM, defaults.RadiusM)
	assert.Equal(t, DefaultLimit, defaults.Limit)
	assert.Equal(t, DefaultPlaceLimit, defaults.PlaceLimit)
}

func TestExpandedPlaceQueries_SpecificPlace(t *testing.T) {
	assert.Equal(t, []string{"Kingston General Hospital"},
		ExpandedPlaceQueries("Kingston  General   Hospital"))
	assert.Empty(t, ExpandedPlaceQueries("   "))
}

func TestExpandedPlaceQueries_GenericGrocery(t *testing.T) {
	queries := ExpandedPlaceQueries("grocery store")

	require.NotEmpty(t, queries)
	assert.Equal(t, "grocery store", queries[0], "original query leads")
	assert.Contains(t, queries, "Metro Kingston")
	assert.Contains(t, queries, "No Frills Kingston")

	// Deduplicated case-insensitively: "grocery store" appears once
	counts := map[string]int{}
	for _, q := range queries {
		counts[q]++
	}
	assert.Equal(t, 1, counts["grocery store"])

	// Substring match also triggers expansion
	assert.Greater(t, len(ExpandedPlaceQueries("cheap supermarket downtown")), 1)
}

func TestExtractFirstJSONObject(t *testing.T) {
	obj, ok := ExtractFirstJSONObject(`{"query": "Metro", "radius_m": 800}`)
	require.True(t, ok)
	assert.Equal(t, "Metro", obj["query"])

	obj, ok = ExtractFirstJSONObject("Here you go:\n```json\n{\"query\": \"Metro\"}\n```")
	require.True(t, ok, "JSON wrapped in prose and fences is still found")
	assert.Equal(t, "Metro", obj["query"])

	_, ok = ExtractFirstJSONObject("no json here")
	assert.False(t, ok)

	_, ok = ExtractFirstJSONObject("")
	assert.False(t, ok)

	_, ok = ExtractFirstJSONObject("{not valid json}")
	assert.False(t, ok)
}

func TestIntentFromFields(t *testing.T) {
	fields := map[string]interface{}{
		"query":       " Metro ",
		"radius_m":    float64(800),
		"limit":       "15", // models sometimes return numbers as strings
		"place_limit": float64(4),
		"notes":       "ok",
	}

	got := intentFromFields(fields, "parking near metro")
	assert.Equal(t, "Metro", got.Query)
	assert.Equal(t, 800, got.RadiusM)
	assert.Equal(t, 15, got.Limit)
	assert.Equal(t, 4, got.PlaceLimit)

	// Missing query falls back to the user text
	got = intentFromFields(map[string]interface{}{}, " find parking ")
	assert.Equal(t, "find parking", got.Query)
	assert.Equal(t, DefaultRadiusM, got.RadiusM)
}

func TestNewParser_NoKeyFails(t *testing.T) {
	p := NewParser("", "gpt-4o-mini")

	_, err := p.ParseIntent(t.Context(), "parking near Metro", kingstonBounds())
	assert.Error(t, err)
	assert.Error(t, p.HealthCheck(t.Context()))
}
