package services

import (
	"context"
	"fmt"
	"log"

	"github.com/kingstonaccess/server/internal/cache"
	"github.com/kingstonaccess/server/internal/clients/nominatim"
	"github.com/kingstonaccess/server/internal/config"
	"github.com/kingstonaccess/server/internal/lib/geo"
)

// PlacesService answers autocomplete queries by proxying Nominatim with a
// TTL cache in front. The cache is load-bearing: Nominatim's usage policy
// caps clients at roughly one request per second.
type PlacesService struct {
	client *nominatim.Client
	cache  *cache.Cache
	config *config.PlacesConfig
}

// NewPlacesService creates a new PlacesService.
func NewPlacesService(client *nominatim.Client, cache *cache.Cache, config *config.PlacesConfig) *PlacesService {
	return &PlacesService{
		client: client,
		cache:  cache,
		config: config,
	}
}

// Autocomplete returns place candidates for a free-text query, restricted to
// box when non-nil. Limit is clamped to 1..50; zero means 20.
func (s *PlacesService) Autocomplete(ctx context.Context, query string, limit int, box *geo.BoundingBox) ([]nominatim.Place, error) {
	if query == "" {
		return nil, nil
	}
	if limit == 0 {
		limit = 20
	}
	limit = clampInt(limit, 1, 50)

	viewbox := ""
	if box != nil {
		viewbox = nominatim.ViewboxParam(*box)
	}

	var cached []nominatim.Place
	found, err := s.cache.GetGeocodeResults(query, viewbox, &cached)
	if err != nil {
		log.Printf("Cache error: %v", err)
	}
	if found && len(cached) >= limit {
		return cached[:limit], nil
	}
	if found {
		return cached, nil
	}

	places, err := s.client.Search(ctx, query, limit, box)
	if err != nil {
		// Serve a stale entry over failing, unless it is very stale
		cacheKey := cache.GeocodeKey(query, viewbox)
		entry, exists, _ := s.cache.GetWithMetadata(cacheKey, &cached)
		if exists && entry != nil && !s.cache.IsVeryStale(cacheKey) {
			log.Printf("Nominatim request failed, returning stale geocode results: %v", err)
			return cached, nil
		}
		return nil, fmt.Errorf("place search failed: %w", err)
	}

	if err := s.cache.SetGeocodeResults(query, viewbox, places, s.config.CacheTTL); err != nil {
		log.Printf("Failed to cache geocode results: %v", err)
	}
	return places, nil
}
