package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/kingstonaccess/server/internal/clients/nominatim"
	"github.com/kingstonaccess/server/internal/lib/geo"
	"github.com/kingstonaccess/server/internal/lib/intent"
	"github.com/kingstonaccess/server/internal/parking"
)

// SearchService handles natural-language parking search: parse the request
// into an intent, geocode the place it names, and find accessible spots
// around the best candidate.
type SearchService struct {
	parser  intent.Parser
	places  *PlacesService
	parking *ParkingService
}

// SearchResult is the full answer to a natural-language search.
type SearchResult struct {
	Intent        intent.Intent        `json:"intent"`
	SelectedPlace *nominatim.Place     `json:"selected_place"`
	Places        []nominatim.Place    `json:"places"`
	Spots         []parking.NearbySpot `json:"spots"`
}

// NewSearchService creates a new SearchService.
func NewSearchService(parser intent.Parser, places *PlacesService, parking *ParkingService) *SearchService {
	return &SearchService{
		parser:  parser,
		places:  places,
		parking: parking,
	}
}

// Search runs the full pipeline for a free-text request within bounds.
// Model failures downgrade to the keyword fallback rather than failing the
// request; geocoding failures do fail it, since there is nothing to show.
func (s *SearchService) Search(ctx context.Context, text string, bounds geo.BoundingBox) (*SearchResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("text is required")
	}

	parsed, err := s.parser.ParseIntent(ctx, text, bounds)
	if err != nil {
		log.Printf("Intent parsing unavailable, using fallback: %v", err)
		parsed = intent.FallbackIntent(text, "fallback: model unavailable")
	}

	places, err := s.collectPlaces(ctx, parsed, bounds)
	if err != nil {
		return nil, fmt.Errorf("autocomplete failed: %w", err)
	}

	result := &SearchResult{
		Intent: parsed,
		Places: places,
		Spots:  []parking.NearbySpot{},
	}
	if len(places) == 0 {
		return result, nil
	}

	selected := places[0]
	result.SelectedPlace = &selected
	result.Spots = s.parking.Nearby(
		geo.Point{Latitude: selected.Latitude, Longitude: selected.Longitude},
		parsed.RadiusM,
		parsed.Limit,
	)
	return result, nil
}

// collectPlaces geocodes every expanded query and merges the results,
// deduplicated by place ID (or coordinates plus label when the ID is
// missing), keeping insertion order and stopping at the place limit.
func (s *SearchService) collectPlaces(ctx context.Context, parsed intent.Intent, bounds geo.BoundingBox) ([]nominatim.Place, error) {
	queries := intent.ExpandedPlaceQueries(parsed.Query)

	merged := []nominatim.Place{}
	seen := make(map[string]bool)
	var lastErr error

	for _, query := range queries {
		hits, err := s.places.Autocomplete(ctx, query, parsed.PlaceLimit, &bounds)
		if err != nil {
			// A single expansion failing should not sink the whole search
			lastErr = err
			continue
		}

		for _, place := range hits {
			key := strings.TrimSpace(place.ID)
			if key == "" {
				key = fmt.Sprintf("%v:%v:%s", place.Latitude, place.Longitude, strings.ToLower(strings.TrimSpace(place.Label)))
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, place)
			if len(merged) >= parsed.PlaceLimit {
				break
			}
		}
		if len(merged) >= parsed.PlaceLimit {
			break
		}
	}

	if len(merged) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return merged, nil
}
