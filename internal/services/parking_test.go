package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingstonaccess/server/internal/config"
	"github.com/kingstonaccess/server/internal/lib/geo"
)

const testDatasetCSV = `lot_id,lot_name,lat,lon,handicap_space,capacity,address
PL-1,Chown Lot,44.2317,-76.4846,6,120,220 Bagot St
PL-2,Hanson Lot,44.2290,-76.4880,2,80,100 Clarence St
PL-3,Fort Henry Lot,44.2302,-76.4550,4,200,1 Fort Henry Dr
PL-4,Far North Lot,44.3900,-76.5000,1,40,9999 Division St
`

func newTestParkingService(t *testing.T) *ParkingService {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "spots.csv")
	require.NoError(t, os.WriteFile(path, []byte(testDatasetCSV), 0644))

	cfg := config.DefaultConfig().Parking
	cfg.DatasetPath = path

	svc := NewParkingService(&cfg)
	require.NoError(t, svc.Load())
	return svc
}

func TestParkingService_Load(t *testing.T) {
	svc := newTestParkingService(t)

	assert.Equal(t, 4, svc.Count())
	assert.WithinDuration(t, time.Now(), svc.LoadedAt(), 5*time.Second)
}

func TestParkingService_LoadMissingFile(t *testing.T) {
	cfg := config.DefaultConfig().Parking
	cfg.DatasetPath = filepath.Join(t.TempDir(), "missing.csv")

	svc := NewParkingService(&cfg)
	err := svc.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load parking dataset")
	assert.Equal(t, 0, svc.Count())
}

func TestParkingService_Get(t *testing.T) {
	svc := newTestParkingService(t)

	spot, ok := svc.Get("PL-2")
	require.True(t, ok)
	assert.Equal(t, "Hanson Lot", spot.Label)

	_, ok = svc.Get("PL-404")
	assert.False(t, ok)
}

func TestParkingService_List(t *testing.T) {
	svc := newTestParkingService(t)

	assert.Len(t, svc.List(0), 4, "zero limit uses the configured cap")
	assert.Len(t, svc.List(2), 2)
	assert.Len(t, svc.List(50), 4, "limit beyond dataset size returns everything")
}

func TestParkingService_Nearby(t *testing.T) {
	svc := newTestParkingService(t)
	downtown := geo.Point{Latitude: 44.2312, Longitude: -76.4860}

	rows := svc.Nearby(downtown, 1000, 0)

	// PL-1 and PL-2 are downtown; PL-3 is ~2.5 km east, PL-4 far north
	require.Len(t, rows, 2)
	assert.Equal(t, "PL-1", rows[0].ID, "nearest first")
	assert.Equal(t, "PL-2", rows[1].ID)
	assert.Less(t, rows[0].DistanceMeters, rows[1].DistanceMeters)

	for _, row := range rows {
		assert.NotEmpty(t, row.DistanceFormatted)
		assert.Greater(t, row.Probability, 0.0)
		assert.Less(t, row.Probability, 1.0)
	}
}

func TestParkingService_NearbyLimit(t *testing.T) {
	svc := newTestParkingService(t)
	downtown := geo.Point{Latitude: 44.2312, Longitude: -76.4860}

	rows := svc.Nearby(downtown, 20000, 1)
	require.Len(t, rows, 1)
	assert.Equal(t, "PL-1", rows[0].ID)
}

func TestParkingService_NearbyClampsRadius(t *testing.T) {
	svc := newTestParkingService(t)
	downtown := geo.Point{Latitude: 44.2312, Longitude: -76.4860}

	// A 1 m request is clamped up to the 50 m floor; nothing is that close,
	// but the call must not reject the value
	rows := svc.Nearby(downtown, 1, 10)
	assert.Empty(t, rows)

	// An absurd radius is clamped to 20 km, which still covers the whole city
	rows = svc.Nearby(downtown, 5000000, 100)
	assert.Len(t, rows, 4)
}

func TestParkingService_Predict(t *testing.T) {
	svc := newTestParkingService(t)

	// Tuesday 03:00 far from downtown: base probability, high tier
	quiet := time.Date(2026, 8, 25, 3, 0, 0, 0, time.UTC)
	p := svc.Predict(geo.Point{Latitude: 44.35, Longitude: -76.30}, quiet)
	assert.InDelta(t, 0.70, p.Probability, 1e-9)
	assert.Equal(t, "high", p.Tier)

	// Zero time means now; only shape is asserted
	p = svc.Predict(geo.Point{Latitude: 44.2312, Longitude: -76.4860}, time.Time{})
	assert.GreaterOrEqual(t, p.Probability, 0.05)
	assert.LessOrEqual(t, p.Probability, 0.95)
	assert.NotEmpty(t, p.Tier)
}

func TestParkingService_WriteKML(t *testing.T) {
	svc := newTestParkingService(t)

	var sb strings.Builder
	require.NoError(t, svc.WriteKML(&sb))

	out := sb.String()
	assert.Contains(t, out, "<kml")
	assert.Contains(t, out, "Chown Lot")
	assert.Contains(t, out, "Fort Henry Lot")
}
