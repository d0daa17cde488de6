package services

import (
	"context"
	"fmt"
	"log"

	"github.com/kingstonaccess/server/internal/cache"
	"github.com/kingstonaccess/server/internal/clients/google"
	"github.com/kingstonaccess/server/internal/config"
	"github.com/kingstonaccess/server/internal/lib/geo"
)

// DirectionsService computes routes between a point and a parking spot via
// the Google Routes API, returning both the raw encoded polyline and the
// decoded path so web clients without a decoder can draw it directly.
type DirectionsService struct {
	client *google.Client
	cache  *cache.Cache
	config *config.DirectionsConfig
}

// Route is a computed route in client-ready form.
type Route struct {
	Mode            string      `json:"mode"`
	DurationSeconds int32       `json:"duration_s"`
	Duration        string      `json:"duration"`
	DistanceMeters  int32       `json:"distance_m"`
	Distance        string      `json:"distance"`
	EncodedPolyline string      `json:"encoded_polyline"`
	Path            []geo.Point `json:"path"`
}

// NewDirectionsService creates a new DirectionsService.
func NewDirectionsService(client *google.Client, cache *cache.Cache, config *config.DirectionsConfig) *DirectionsService {
	return &DirectionsService{
		client: client,
		cache:  cache,
		config: config,
	}
}

// Route computes a route from origin to destination. Identical requests
// within the cache TTL are served from memory; traffic conditions do not
// change fast enough at city scale to justify hammering the API.
func (s *DirectionsService) Route(ctx context.Context, origin, destination geo.Point, mode google.TravelMode) (*Route, error) {
	if mode == "" {
		mode = google.TravelModeDrive
	}

	cacheKey := fmt.Sprintf("route:%s:%.5f,%.5f:%.5f,%.5f",
		mode, origin.Latitude, origin.Longitude, destination.Latitude, destination.Longitude)

	var cached Route
	found, err := s.cache.Get(cacheKey, &cached)
	if err != nil {
		log.Printf("Cache error: %v", err)
	}
	if found {
		return &cached, nil
	}

	data, err := s.client.ComputeRoute(ctx, origin, destination, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to compute route: %w", err)
	}

	route := &Route{
		Mode:            string(mode),
		DurationSeconds: data.DurationSeconds,
		Duration:        formatDuration(data.DurationSeconds),
		DistanceMeters:  data.DistanceMeters,
		Distance:        geo.FormatDistance(float64(data.DistanceMeters)),
		EncodedPolyline: data.Polyline,
		Path:            geo.DecodePolyline(data.Polyline),
	}

	if err := s.cache.Set(cacheKey, route, s.config.CacheTTL, "directions"); err != nil {
		log.Printf("Failed to cache route: %v", err)
	}
	return route, nil
}

// formatDuration renders seconds as "45 s", "12 min" or "1 h 5 min".
func formatDuration(seconds int32) string {
	if seconds < 60 {
		return fmt.Sprintf("%d s", seconds)
	}
	minutes := (seconds + 30) / 60
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%d h %d min", minutes/60, minutes%60)
}
