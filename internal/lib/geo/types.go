package geo

// Point represents a geographic coordinate
type Point struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// BoundingBox is an axis-aligned lat/lng rectangle.
// Boxes that cross the ±180° meridian are not supported.
type BoundingBox struct {
	MinLat float64 `json:"min_lat"`
	MaxLat float64 `json:"max_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLng float64 `json:"max_lng"`
}

// Ring is one polygon boundary loop, conventionally closed (first point equals
// last). Closure is not enforced; open rings still yield a centroid.
type Ring []Point

// Polygon is an ordered set of rings where the first ring is the outer
// boundary and any following rings are holes.
type Polygon []Ring

// MultiPolygon is an ordered set of polygons.
type MultiPolygon []Polygon
