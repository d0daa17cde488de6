package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingstonaccess/server/internal/cache"
	"github.com/kingstonaccess/server/internal/clients/nominatim"
	"github.com/kingstonaccess/server/internal/config"
	"github.com/kingstonaccess/server/internal/lib/geo"
)

// scriptedDoer replays canned HTTP responses and counts requests.
type scriptedDoer struct {
	responses []scriptedResponse
	calls     int
}

type scriptedResponse struct {
	status int
	body   string
	err    error
}

func (d *scriptedDoer) Do(req *http.Request) (*http.Response, error) {
	idx := d.calls
	if idx >= len(d.responses) {
		idx = len(d.responses) - 1
	}
	d.calls++

	r := d.responses[idx]
	if r.err != nil {
		return nil, r.err
	}
	return &http.Response{
		StatusCode: r.status,
		Body:       io.NopCloser(strings.NewReader(r.body)),
		Header:     make(http.Header),
	}, nil
}

const placesFixture = `[
  {"place_id": 1, "lat": "44.2297", "lon": "-76.4804", "name": "Kingston City Hall",
   "display_name": "Kingston City Hall, Ontario Street, Kingston"},
  {"place_id": 2, "lat": "44.2334", "lon": "-76.4922", "name": "Grand Theatre",
   "display_name": "Grand Theatre, Princess Street, Kingston"}
]`

func newPlacesService(doer *scriptedDoer, ttl time.Duration) (*PlacesService, *cache.Cache) {
	cfg := config.DefaultConfig().Places
	cfg.CacheTTL = ttl
	client := nominatim.NewClientWithHTTPDoer(cfg.BaseURL, cfg.UserAgent, doer)
	c := cache.New()
	return NewPlacesService(client, c, &cfg), c
}

func testBox() geo.BoundingBox {
	return config.DefaultConfig().Parking.Bounds.ToBox()
}

func TestAutocomplete_Success(t *testing.T) {
	doer := &scriptedDoer{responses: []scriptedResponse{{status: 200, body: placesFixture}}}
	svc, _ := newPlacesService(doer, 15*time.Minute)

	box := testBox()
	places, err := svc.Autocomplete(context.Background(), "city hall", 5, &box)

	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, "Kingston City Hall", places[0].Label)
	assert.Equal(t, 1, doer.calls)
}

func TestAutocomplete_CachesResults(t *testing.T) {
	doer := &scriptedDoer{responses: []scriptedResponse{{status: 200, body: placesFixture}}}
	svc, _ := newPlacesService(doer, 15*time.Minute)

	box := testBox()
	_, err := svc.Autocomplete(context.Background(), "city hall", 5, &box)
	require.NoError(t, err)

	// Same normalized query hits the cache, not Nominatim
	_, err = svc.Autocomplete(context.Background(), "  City   Hall ", 5, &box)
	require.NoError(t, err)
	assert.Equal(t, 1, doer.calls, "second lookup should be served from cache")

	// A different query is a different cache entry
	_, err = svc.Autocomplete(context.Background(), "grand theatre", 5, &box)
	require.NoError(t, err)
	assert.Equal(t, 2, doer.calls)
}

func TestAutocomplete_StaleFallback(t *testing.T) {
	doer := &scriptedDoer{responses: []scriptedResponse{
		{status: 200, body: placesFixture},
		{status: 500, body: "upstream broke"},
	}}
	// TTL short enough that the first entry goes stale immediately, but its
	// 2x very-stale window has not passed by the second call
	svc, c := newPlacesService(doer, 50*time.Millisecond)

	box := testBox()
	places, err := svc.Autocomplete(context.Background(), "city hall", 5, &box)
	require.NoError(t, err)
	require.Len(t, places, 2)

	time.Sleep(60 * time.Millisecond)
	require.True(t, c.IsStale(cache.GeocodeKey("city hall", nominatim.ViewboxParam(box))))

	places, err = svc.Autocomplete(context.Background(), "city hall", 5, &box)
	require.NoError(t, err, "stale results should be served when Nominatim fails")
	assert.Len(t, places, 2)
	assert.Equal(t, 2, doer.calls)
}

func TestAutocomplete_UpstreamError(t *testing.T) {
	doer := &scriptedDoer{responses: []scriptedResponse{{err: fmt.Errorf("connection refused")}}}
	svc, _ := newPlacesService(doer, 15*time.Minute)

	box := testBox()
	_, err := svc.Autocomplete(context.Background(), "city hall", 5, &box)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "place search failed")
}

func TestAutocomplete_EmptyQuery(t *testing.T) {
	doer := &scriptedDoer{}
	svc, _ := newPlacesService(doer, 15*time.Minute)

	places, err := svc.Autocomplete(context.Background(), "", 5, nil)
	require.NoError(t, err)
	assert.Nil(t, places)
	assert.Equal(t, 0, doer.calls)
}
