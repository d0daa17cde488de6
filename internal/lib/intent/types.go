package intent

import (
	"context"

	"github.com/kingstonaccess/server/internal/lib/geo"
)

// Intent is a natural-language search request reduced to the parameters the
// locator actually supports.
type Intent struct {
	Query      string `json:"query"`
	RadiusM    int    `json:"radius_m"`
	Limit      int    `json:"limit"`
	PlaceLimit int    `json:"place_limit"`
	Notes      string `json:"notes"`
}

// Parser interface defines natural-language intent extraction.
type Parser interface {
	// Parse a free-text request into a structured intent
	ParseIntent(ctx context.Context, text string, bounds geo.BoundingBox) (Intent, error)

	// Health check for the model service
	HealthCheck(ctx context.Context) error
}

// NewParser is implemented in parser.go
