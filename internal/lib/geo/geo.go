package geo

import (
	"math"
	"strconv"
)

// earthRadiusMeters is the mean Earth radius used for all great-circle math.
const earthRadiusMeters = 6371000

// DistanceMeters calculates the great-circle distance between two points using
// the haversine formula (atan2 form for numerical stability). Coordinates are
// not range-checked: out-of-range input produces a mathematically defined but
// meaningless result rather than an error.
func DistanceMeters(p1, p2 Point) float64 {
	if p1.Latitude == p2.Latitude && p1.Longitude == p2.Longitude {
		return 0
	}

	lat1 := p1.Latitude * math.Pi / 180
	lat2 := p2.Latitude * math.Pi / 180
	dlat := (p2.Latitude - p1.Latitude) * math.Pi / 180
	dlng := (p2.Longitude - p1.Longitude) * math.Pi / 180

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Contains reports whether the point is inside the box, boundary included.
func (b BoundingBox) Contains(p Point) bool {
	return p.Latitude >= b.MinLat && p.Latitude <= b.MaxLat &&
		p.Longitude >= b.MinLng && p.Longitude <= b.MaxLng
}

// Centroid returns the bounding-box midpoint of the ring. Non-finite
// coordinates are skipped during the min/max scan; if nothing remains the
// second return is false, meaning no representative point is available.
// Callers treat a false return as "omit this feature", not as a fault.
func (r Ring) Centroid() (Point, bool) {
	minLat, maxLat := math.Inf(1), math.Inf(-1)
	minLng, maxLng := math.Inf(1), math.Inf(-1)
	found := false

	for _, p := range r {
		if !isFinite(p.Latitude) || !isFinite(p.Longitude) {
			continue
		}
		found = true
		minLat = math.Min(minLat, p.Latitude)
		maxLat = math.Max(maxLat, p.Latitude)
		minLng = math.Min(minLng, p.Longitude)
		maxLng = math.Max(maxLng, p.Longitude)
	}

	if !found {
		return Point{}, false
	}

	return Point{
		Latitude:  (minLat + maxLat) / 2,
		Longitude: (minLng + maxLng) / 2,
	}, true
}

// Centroid returns a representative point for the polygon, derived from the
// outer ring only. Holes are ignored; the outer ring's extent dominates at
// city scale, where these points label parking lots on a map.
func (p Polygon) Centroid() (Point, bool) {
	if len(p) == 0 {
		return Point{}, false
	}
	return p[0].Centroid()
}

// Centroid returns a representative point for the first polygon. Multi-part
// lots report only one part's centroid; existing pin placement depends on
// this, so it is intentionally not an area-weighted centroid.
func (m MultiPolygon) Centroid() (Point, bool) {
	if len(m) == 0 {
		return Point{}, false
	}
	return m[0].Centroid()
}

// FormatDistance renders a distance as a short human-readable string:
// "1.2 km" at or above 1000 m (one decimal, rounded half away from zero),
// otherwise whole meters like "45 m". Output never uses locale-dependent
// separators so it stays parseable everywhere.
func FormatDistance(meters float64) string {
	if meters >= 1000 {
		km := math.Round(meters/100) / 10
		return strconv.FormatFloat(km, 'f', 1, 64) + " km"
	}
	return strconv.FormatInt(int64(math.Round(meters)), 10) + " m"
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
