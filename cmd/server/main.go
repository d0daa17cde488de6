package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/dpup/prefab"

	"github.com/kingstonaccess/server/internal/cache"
	"github.com/kingstonaccess/server/internal/clients/google"
	"github.com/kingstonaccess/server/internal/clients/nominatim"
	"github.com/kingstonaccess/server/internal/config"
	"github.com/kingstonaccess/server/internal/handlers"
	"github.com/kingstonaccess/server/internal/lib/intent"
	"github.com/kingstonaccess/server/internal/services"
)

func main() {
	// Load configuration using Prefab's config system
	appConfig := loadConfig()

	// Initialize cache
	cacheInstance := cache.New()

	// Initialize external API clients
	nominatimClient := nominatim.NewClient(appConfig.Places.BaseURL, appConfig.Places.UserAgent)
	googleClient := google.NewClient(appConfig.Directions.APIKey)

	// The intent parser degrades to keyword matching when no key is set, so
	// an empty key is a warning rather than a fatal
	if appConfig.Intent.OpenAIAPIKey == "" {
		log.Printf("No OpenAI API key configured; search will use keyword fallback only")
	} else {
		log.Printf("Intent parsing enabled (model: %s)", appConfig.Intent.Model)
	}
	intentParser := intent.NewParser(appConfig.Intent.OpenAIAPIKey, appConfig.Intent.Model)

	// Initialize services
	parkingService := services.NewParkingService(&appConfig.Parking)
	placesService := services.NewPlacesService(nominatimClient, cacheInstance, &appConfig.Places)
	searchService := services.NewSearchService(intentParser, placesService, parkingService)
	directionsService := services.NewDirectionsService(googleClient, cacheInstance, &appConfig.Directions)

	if err := parkingService.Load(); err != nil {
		log.Fatalf("Failed to load parking dataset: %v", err)
	}

	log.Printf("Accessible Parking API Server starting")
	log.Printf("Parking spots loaded: %d", parkingService.Count())

	// Reload the dataset periodically so replaced exports are picked up
	refreshService := services.NewRefreshService(parkingService, appConfig.Parking.ReloadInterval)
	if err := refreshService.Start(context.Background()); err != nil {
		log.Printf("Failed to start dataset refresh: %v", err)
	}

	// Expired cache entries are purged in the background
	cacheInstance.StartPeriodicCleanup(context.Background(), 10*time.Minute)

	h := handlers.New(parkingService, placesService, searchService, directionsService, appConfig)

	// Create Prefab server; port and host come from prefab.yaml / env vars
	server := prefab.New(
		prefab.WithHTTPHandlerFunc("/", homepageHandler),
		prefab.WithHTTPHandlerFunc("/health", h.Health),
		prefab.WithHTTPHandlerFunc("/api/v1/spots", h.Spots),
		prefab.WithHTTPHandlerFunc("/api/v1/spots/", h.Spots),
		prefab.WithHTTPHandlerFunc("/api/v1/predict", h.Predict),
		prefab.WithHTTPHandlerFunc("/api/v1/places/autocomplete", h.Autocomplete),
		prefab.WithHTTPHandlerFunc("/api/v1/search", h.Search),
		prefab.WithHTTPHandlerFunc("/api/v1/directions", h.Directions),
	)

	// Start the server (blocks until shutdown)
	if err := server.Start(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

// loadConfig loads configuration using Prefab's config system
// Configuration is loaded from prefab.yaml and environment variables with PF__ prefix
func loadConfig() *config.Config {
	appConfig := config.DefaultConfig()

	if err := prefab.Config.Unmarshal("parking", &appConfig.Parking); err != nil {
		log.Fatalf("Failed to unmarshal parking section: %v", err)
	}
	if err := prefab.Config.Unmarshal("places", &appConfig.Places); err != nil {
		log.Fatalf("Failed to unmarshal places section: %v", err)
	}
	if err := prefab.Config.Unmarshal("directions", &appConfig.Directions); err != nil {
		log.Fatalf("Failed to unmarshal directions section: %v", err)
	}
	if err := prefab.Config.Unmarshal("intent", &appConfig.Intent); err != nil {
		log.Fatalf("Failed to unmarshal intent section: %v", err)
	}

	return appConfig
}

// homepageHandler serves a simple HTML homepage at the server root
func homepageHandler(w http.ResponseWriter, r *http.Request) {
	// Only handle the root path
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	html := `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8">
    <title>KingstonAccess</title>
    <style>
        body {
            font-family: 'Courier New', Consolas, monospace;
            background: #000;
            color: #0f0;
            padding: 20px;
            line-height: 1.4;
        }
        a { color: #0ff; text-decoration: none; }
        a:hover { text-decoration: underline; }
        pre { margin: 0; }
        .header { color: #ff0; }
    </style>
</head>
<body>
<pre>
<span class="header">KingstonAccess</span>

Accessible parking locator for Kingston, Ontario.

<span class="header">API Endpoints:</span>

Spots:
  <a href="/api/v1/spots">GET /api/v1/spots</a>                       - List parking spots
  <a href="/api/v1/spots/nearby?lat=44.2312&amp;lng=-76.4860">GET /api/v1/spots/nearby</a>                - Spots near a point
  <a href="/api/v1/spots/export.kml">GET /api/v1/spots/export.kml</a>            - KML export
  GET /api/v1/spots/{id}                  - Spot details

Search:
  GET|POST /api/v1/search                 - Natural-language search
  <a href="/api/v1/places/autocomplete?q=city%20hall">GET /api/v1/places/autocomplete</a>         - Place autocomplete

Predictions and routing:
  <a href="/api/v1/predict?lat=44.2312&amp;lng=-76.4860">GET /api/v1/predict</a>                     - Availability estimate
  GET /api/v1/directions                  - Route to a spot

<span class="header">Data Sources:</span>
  • City of Kingston open data  - Accessible parking locations
  • Nominatim (OpenStreetMap)   - Place search
  • Google Routes API           - Driving and walking routes
</pre>
</body>
</html>`

	if _, err := fmt.Fprint(w, html); err != nil {
		slog.Error("Failed to write homepage HTML", "error", err)
	}
}
