package services

import (
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/kingstonaccess/server/internal/config"
	"github.com/kingstonaccess/server/internal/lib/geo"
	"github.com/kingstonaccess/server/internal/parking"
)

// ParkingService owns the in-memory spot dataset and answers every
// spot-level query. The dataset is a static municipal export, loaded once at
// startup and reloaded periodically by the refresh service.
type ParkingService struct {
	config *config.ParkingConfig

	mutex    sync.RWMutex
	spots    []parking.Spot
	source   string
	loadedAt time.Time
}

// NewParkingService creates a new ParkingService.
func NewParkingService(config *config.ParkingConfig) *ParkingService {
	return &ParkingService{config: config}
}

// Load reads the dataset from the configured path, replacing the previous
// spots on success and keeping them on failure.
func (s *ParkingService) Load() error {
	result, err := parking.LoadFromFile(s.config.DatasetPath)
	if err != nil {
		return fmt.Errorf("failed to load parking dataset: %w", err)
	}

	bounds := s.config.Bounds.ToBox()
	outside := 0
	for _, spot := range result.Spots {
		if !bounds.Contains(spot.Point()) {
			outside++
		}
	}
	if outside > 0 {
		// Usually a sign of a swapped lat/lng column in the export
		log.Printf("Parking dataset: %d of %d spots fall outside the configured city bounds", outside, len(result.Spots))
	}

	s.mutex.Lock()
	s.spots = result.Spots
	s.source = result.Source
	s.loadedAt = time.Now()
	s.mutex.Unlock()

	log.Printf("Loaded %d parking spots from %s", len(result.Spots), result.Source)
	return nil
}

// Count returns the number of loaded spots.
func (s *ParkingService) Count() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.spots)
}

// LoadedAt returns when the dataset was last loaded.
func (s *ParkingService) LoadedAt() time.Time {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.loadedAt
}

// List returns up to limit spots; limit <= 0 applies the configured cap.
func (s *ParkingService) List(limit int) []parking.Spot {
	if limit <= 0 {
		limit = s.config.ListLimit
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if limit > len(s.spots) {
		limit = len(s.spots)
	}
	out := make([]parking.Spot, limit)
	copy(out, s.spots[:limit])
	return out
}

// Get returns the spot with the given ID.
func (s *ParkingService) Get(id string) (parking.Spot, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, spot := range s.spots {
		if spot.ID == id {
			return spot, true
		}
	}
	return parking.Spot{}, false
}

// Nearby returns the spots within radiusM of center, sorted nearest first and
// capped at limit. Radius and limit are clamped to sane query bounds; zero
// values take the configured defaults.
func (s *ParkingService) Nearby(center geo.Point, radiusM, limit int) []parking.NearbySpot {
	if radiusM == 0 {
		radiusM = s.config.DefaultRadiusM
	}
	if limit == 0 {
		limit = s.config.DefaultLimit
	}
	radiusM = clampInt(radiusM, 50, 20000)
	limit = clampInt(limit, 1, 100)

	s.mutex.RLock()
	spots := s.spots
	s.mutex.RUnlock()

	var rows []parking.NearbySpot
	for _, spot := range spots {
		d := geo.DistanceMeters(center, spot.Point())
		if d > float64(radiusM) {
			continue
		}
		rows = append(rows, parking.NearbySpot{
			Spot:              spot,
			DistanceMeters:    d,
			DistanceFormatted: geo.FormatDistance(d),
			Probability:       parking.AvailabilityProbability(spot.HandicapSpaces, spot.Capacity),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		return rows[i].DistanceMeters < rows[j].DistanceMeters
	})
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// Predict estimates availability at a location and time using the
// time-of-day heuristic.
func (s *ParkingService) Predict(p geo.Point, when time.Time) parking.Prediction {
	if when.IsZero() {
		when = time.Now()
	}
	return parking.PredictAvailability(p, s.config.DowntownCenter.ToPoint(), when)
}

// WriteKML exports every loaded spot as KML.
func (s *ParkingService) WriteKML(w io.Writer) error {
	s.mutex.RLock()
	spots := s.spots
	s.mutex.RUnlock()

	return parking.WriteKML(w, "Accessible Parking", spots)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
