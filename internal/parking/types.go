package parking

import (
	"github.com/kingstonaccess/server/internal/lib/geo"
)

// Spot represents one accessible parking location. Spots derived from polygon
// lot outlines carry the lot's representative point, not a stall position.
type Spot struct {
	ID             string  `json:"id"`
	Label          string  `json:"label"`
	Latitude       float64 `json:"lat"`
	Longitude      float64 `json:"lng"`
	HandicapSpaces *int    `json:"handicap_spaces,omitempty"`
	Capacity       *int    `json:"capacity,omitempty"`
	SpotType       string  `json:"spot_type,omitempty"`
	Rules          string  `json:"rules,omitempty"`
	Address        string  `json:"address,omitempty"`
	Description    string  `json:"description,omitempty"`
}

// Point returns the spot's coordinate.
func (s Spot) Point() geo.Point {
	return geo.Point{Latitude: s.Latitude, Longitude: s.Longitude}
}

// LoadResult pairs loaded spots with the file they came from.
type LoadResult struct {
	Spots  []Spot
	Source string
}

// NearbySpot is a spot annotated for a nearby query.
type NearbySpot struct {
	Spot
	DistanceMeters    float64 `json:"distance_m"`
	DistanceFormatted string  `json:"distance"`
	Probability       float64 `json:"probability"`
}
