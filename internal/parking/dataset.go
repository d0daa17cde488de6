package parking

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/kingstonaccess/server/internal/lib/geo"
)

// fieldAliases is the precedence list for every optional dataset field. Open
// data exports name their columns inconsistently (Kingston's lot export uses
// upper-case SHOUTING_CASE, hand-maintained CSVs use lower-case); the first
// alias present and non-empty wins.
var fieldAliases = map[string][]string{
	"lat":         {"lat", "latitude", "LAT", "Y"},
	"lng":         {"lon", "lng", "longitude", "LON", "X"},
	"id":          {"LOT_ID", "lot_id", "id", "ID", "spot_id", "OBJECTID", "objectid"},
	"label":       {"LOT_NAME", "lot_name", "MAP_LABEL", "map_label", "label", "name"},
	"type":        {"type", "TYPE", "spot_type", "SpaceType", "category"},
	"rules":       {"rules", "RULES", "regulation", "Regulations", "payment"},
	"address":     {"address", "ADDRESS", "street", "Street", "location"},
	"description": {"description", "DESCRIPTION", "desc", "notes"},
	"handicap":    {"HANDICAP_SPACE", "handicap_space", "handicap_spaces", "accessible_spaces"},
	"capacity":    {"CAPACITY", "capacity", "total_spaces"},
}

// LoadFromFile loads a spot dataset from a CSV, JSON, or GeoJSON file.
// Records with no usable coordinates are skipped, never fatal: a partially
// dirty open-data export should still produce a working dataset.
func LoadFromFile(path string) (LoadResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("failed to read dataset: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		spots, err := loadCSV(strings.NewReader(string(data)))
		if err != nil {
			return LoadResult{}, err
		}
		return LoadResult{Spots: spots, Source: path}, nil
	case ".json", ".geojson":
		spots, err := loadJSON(data)
		if err != nil {
			return LoadResult{}, err
		}
		return LoadResult{Spots: spots, Source: path}, nil
	default:
		return LoadResult{}, fmt.Errorf("unsupported dataset extension %q (expected .csv/.json/.geojson)", ext)
	}
}

// loadCSV reads a header-keyed CSV export.
func loadCSV(r io.Reader) ([]Spot, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	// Strip a UTF-8 BOM some spreadsheet exports prepend
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	var spots []Spot
	for idx := 0; ; idx++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row %d: %w", idx+1, err)
		}

		record := make(map[string]any, len(header))
		for i, col := range header {
			if i < len(row) {
				record[col] = row[i]
			}
		}
		if spot, ok := normalizeRecord(record, idx); ok {
			spots = append(spots, spot)
		}
	}
	return spots, nil
}

// loadJSON handles both a GeoJSON FeatureCollection and a plain array of
// record objects.
func loadJSON(data []byte) ([]Spot, error) {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var records []map[string]any
		if err := json.Unmarshal(data, &records); err != nil {
			return nil, fmt.Errorf("failed to parse JSON records: %w", err)
		}

		var spots []Spot
		for idx, record := range records {
			if spot, ok := normalizeRecord(record, idx); ok {
				spots = append(spots, spot)
			}
		}
		return spots, nil
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse GeoJSON: %w", err)
	}

	var spots []Spot
	for idx, feature := range fc.Features {
		record := make(map[string]any, len(feature.Properties)+2)
		for k, v := range feature.Properties {
			record[k] = v
		}

		if point, ok := representativePoint(feature.Geometry); ok {
			// Geometry-derived coordinates only fill gaps; explicit lat/lng
			// properties take precedence
			if _, exists := lookupField(record, "lat"); !exists {
				record["lat"] = point.Latitude
			}
			if _, exists := lookupField(record, "lng"); !exists {
				record["lon"] = point.Longitude
			}
		}

		if spot, ok := normalizeRecord(record, idx); ok {
			spots = append(spots, spot)
		}
	}
	return spots, nil
}

// representativePoint reduces a GeoJSON geometry to a single labeling point.
// Points pass through; polygon shapes use the bounding-box midpoint of the
// outer ring. GeoJSON coordinate order is [lng, lat] and is transposed here.
func representativePoint(geometry orb.Geometry) (geo.Point, bool) {
	switch g := geometry.(type) {
	case orb.Point:
		return geo.Point{Latitude: g.Lat(), Longitude: g.Lon()}, true
	case orb.Polygon:
		return polygonFromOrb(g).Centroid()
	case orb.MultiPolygon:
		multi := make(geo.MultiPolygon, len(g))
		for i, poly := range g {
			multi[i] = polygonFromOrb(poly)
		}
		return multi.Centroid()
	default:
		return geo.Point{}, false
	}
}

func polygonFromOrb(p orb.Polygon) geo.Polygon {
	polygon := make(geo.Polygon, len(p))
	for i, ring := range p {
		points := make(geo.Ring, len(ring))
		for j, pt := range ring {
			points[j] = geo.Point{Latitude: pt.Lat(), Longitude: pt.Lon()}
		}
		polygon[i] = points
	}
	return polygon
}

// normalizeRecord resolves one raw record into a Spot using the alias table.
// Records without both coordinates are dropped.
func normalizeRecord(record map[string]any, idx int) (Spot, bool) {
	lat, latOK := parseFloatField(record, "lat")
	lng, lngOK := parseFloatField(record, "lng")
	if !latOK || !lngOK {
		return Spot{}, false
	}

	spot := Spot{
		ID:          stringField(record, "id"),
		Label:       stringField(record, "label"),
		Latitude:    lat,
		Longitude:   lng,
		SpotType:    stringField(record, "type"),
		Rules:       stringField(record, "rules"),
		Address:     stringField(record, "address"),
		Description: stringField(record, "description"),
	}
	if spot.ID == "" {
		spot.ID = strconv.Itoa(idx)
	}
	if spot.Label == "" {
		spot.Label = spot.ID
	}
	if v, ok := parseIntField(record, "handicap"); ok {
		spot.HandicapSpaces = &v
	}
	if v, ok := parseIntField(record, "capacity"); ok {
		spot.Capacity = &v
	}
	return spot, true
}

// lookupField returns the first non-empty alias value for a logical field.
func lookupField(record map[string]any, field string) (any, bool) {
	for _, key := range fieldAliases[field] {
		v, ok := record[key]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

func stringField(record map[string]any, field string) string {
	v, ok := lookupField(record, field)
	if !ok {
		return ""
	}
	switch s := v.(type) {
	case string:
		return strings.TrimSpace(s)
	case float64:
		// JSON numbers for identifier-like columns (OBJECTID)
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

func parseFloatField(record map[string]any, field string) (float64, bool) {
	v, ok := lookupField(record, field)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func parseIntField(record map[string]any, field string) (int, bool) {
	f, ok := parseFloatField(record, field)
	if !ok {
		return 0, false
	}
	return int(f), true
}
