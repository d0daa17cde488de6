package config

import (
	"time"

	"github.com/kingstonaccess/server/internal/lib/geo"
)

// Config represents the complete server configuration. Sections are loaded
// individually from prefab's config (kingstonaccess.yaml plus PF__ env vars).
type Config struct {
	Parking    ParkingConfig    `yaml:"parking"`
	Places     PlacesConfig     `yaml:"places"`
	Directions DirectionsConfig `yaml:"directions"`
	Intent     IntentConfig     `yaml:"intent"`
}

// ParkingConfig holds the dataset and query defaults.
type ParkingConfig struct {
	DatasetPath     string          `yaml:"dataset_path"`
	ReloadInterval  time.Duration   `yaml:"reload_interval"`
	Bounds          BoundsYAML      `yaml:"bounds"`
	DowntownCenter  CoordinatesYAML `yaml:"downtown_center"`
	DefaultRadiusM  int             `yaml:"default_radius_m"`
	DefaultLimit    int             `yaml:"default_limit"`
	ListLimit       int             `yaml:"list_limit"`
}

// PlacesConfig holds Nominatim geocoding settings.
type PlacesConfig struct {
	BaseURL   string        `yaml:"base_url"`
	UserAgent string        `yaml:"user_agent"`
	CacheTTL  time.Duration `yaml:"cache_ttl"`
}

// DirectionsConfig holds Google Routes API settings.
type DirectionsConfig struct {
	APIKey   string        `yaml:"api_key"`
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// IntentConfig holds natural-language search settings.
type IntentConfig struct {
	OpenAIAPIKey string `yaml:"openai_api_key"`
	Model        string `yaml:"model"`
}

// BoundsYAML represents a lat/lng box in YAML config.
type BoundsYAML struct {
	MinLat float64 `yaml:"min_lat"`
	MaxLat float64 `yaml:"max_lat"`
	MinLng float64 `yaml:"min_lng"`
	MaxLng float64 `yaml:"max_lng"`
}

// ToBox converts BoundsYAML to a geo.BoundingBox.
func (b BoundsYAML) ToBox() geo.BoundingBox {
	return geo.BoundingBox{
		MinLat: b.MinLat,
		MaxLat: b.MaxLat,
		MinLng: b.MinLng,
		MaxLng: b.MaxLng,
	}
}

// CoordinatesYAML represents lat/lng coordinates in YAML config.
type CoordinatesYAML struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
}

// ToPoint converts CoordinatesYAML to a geo.Point.
func (c CoordinatesYAML) ToPoint() geo.Point {
	return geo.Point{Latitude: c.Latitude, Longitude: c.Longitude}
}

// DefaultConfig returns a default configuration covering the city of
// Kingston, Ontario.
func DefaultConfig() *Config {
	return &Config{
		Parking: ParkingConfig{
			DatasetPath:    "data/Parking_Lot_Areas.geojson",
			ReloadInterval: 6 * time.Hour, // open data export changes rarely
			Bounds: BoundsYAML{
				MinLat: 44.10,
				MaxLat: 44.40,
				MinLng: -76.70,
				MaxLng: -76.20,
			},
			DowntownCenter: CoordinatesYAML{
				Latitude:  44.2312,
				Longitude: -76.4860,
			},
			DefaultRadiusM: 1500,
			DefaultLimit:   30,
			ListLimit:      100,
		},
		Places: PlacesConfig{
			BaseURL:   "https://nominatim.openstreetmap.org",
			UserAgent: "KingstonAccess/1.0 (education project)",
			CacheTTL:  15 * time.Minute,
		},
		Directions: DirectionsConfig{
			CacheTTL: 5 * time.Minute,
		},
		Intent: IntentConfig{
			Model: "gpt-4o-mini",
		},
	}
}
