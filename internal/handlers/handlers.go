package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kingstonaccess/server/internal/clients/google"
	"github.com/kingstonaccess/server/internal/clients/nominatim"
	"github.com/kingstonaccess/server/internal/config"
	"github.com/kingstonaccess/server/internal/lib/geo"
	"github.com/kingstonaccess/server/internal/services"
)

// Handlers holds the HTTP surface of the API. Each method is a plain
// net/http handler mounted on the server; routing is by exact path prefix,
// so there is no router dependency to configure.
type Handlers struct {
	parking    *services.ParkingService
	places     *services.PlacesService
	search     *services.SearchService
	directions *services.DirectionsService
	config     *config.Config
	startedAt  time.Time
}

// New creates the handler set.
func New(parking *services.ParkingService, places *services.PlacesService, search *services.SearchService, directions *services.DirectionsService, appConfig *config.Config) *Handlers {
	return &Handlers{
		parking:    parking,
		places:     places,
		search:     search,
		directions: directions,
		config:     appConfig,
		startedAt:  time.Now(),
	}
}

// Health reports service status and dataset freshness.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":     "ok",
		"spots":      h.parking.Count(),
		"loaded_at":  h.parking.LoadedAt().UTC().Format(time.RFC3339),
		"uptime_s":   int(time.Since(h.startedAt).Seconds()),
		"started_at": h.startedAt.UTC().Format(time.RFC3339),
	})
}

// Spots lists loaded parking spots. Also dispatches /api/v1/spots/{id} and
// the nearby and KML sub-routes, which share the prefix.
func (h *Handlers) Spots(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/v1/spots"), "/")
	switch rest {
	case "":
		limit := intParam(r, "limit", 0)
		spots := h.parking.List(limit)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"count": len(spots),
			"spots": spots,
		})
	case "nearby":
		h.nearby(w, r)
	case "export.kml":
		h.exportKML(w, r)
	default:
		spot, ok := h.parking.Get(rest)
		if !ok {
			writeError(w, http.StatusNotFound, fmt.Sprintf("spot %q not found", rest))
			return
		}
		writeJSON(w, http.StatusOK, spot)
	}
}

func (h *Handlers) nearby(w http.ResponseWriter, r *http.Request) {
	center, err := pointParams(r, "lat", "lng")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	radius := intParam(r, "radius_m", 0)
	if radius == 0 {
		// Older clients send radius_meters
		radius = intParam(r, "radius_meters", 0)
	}
	limit := intParam(r, "limit", 0)

	spots := h.parking.Nearby(center, radius, limit)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"center": center,
		"count":  len(spots),
		"spots":  spots,
	})
}

func (h *Handlers) exportKML(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/vnd.google-earth.kml+xml")
	w.Header().Set("Content-Disposition", `attachment; filename="accessible-parking.kml"`)
	if err := h.parking.WriteKML(w); err != nil {
		log.Printf("KML export failed: %v", err)
	}
}

// Predict estimates availability at a point and optional time.
func (h *Handlers) Predict(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	p, err := pointParams(r, "lat", "lng")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	when := time.Time{}
	if raw := r.URL.Query().Get("time"); raw != "" {
		when, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "time must be RFC 3339, e.g. 2026-08-26T09:30:00Z")
			return
		}
	}

	prediction := h.parking.Predict(p, when)
	writeJSON(w, http.StatusOK, prediction)
}

// Autocomplete proxies bounded Nominatim place search.
func (h *Handlers) Autocomplete(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit := intParam(r, "limit", 0)

	bounds := h.config.Parking.Bounds.ToBox()
	places, err := h.places.Autocomplete(r.Context(), query, limit, &bounds)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("place search unavailable: %v", err))
		return
	}
	if places == nil {
		// Keep the JSON array non-null for clients
		places = []nominatim.Place{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(places),
		"places": places,
	})
}

// searchRequest is the POST body for /api/v1/search.
type searchRequest struct {
	Text string `json:"text"`
}

// Search runs the natural-language pipeline. GET takes ?text=, POST takes a
// JSON body, so both browser address bars and app clients can call it.
func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	var text string
	switch r.Method {
	case http.MethodGet:
		text = r.URL.Query().Get("text")
	case http.MethodPost:
		var req searchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		text = req.Text
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if strings.TrimSpace(text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := h.search.Search(r.Context(), text, h.config.Parking.Bounds.ToBox())
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("search failed: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Directions computes a route to a parking spot.
func (h *Handlers) Directions(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	if h.config.Directions.APIKey == "" {
		writeError(w, http.StatusServiceUnavailable, "directions are not configured")
		return
	}

	origin, err := pointParams(r, "from_lat", "from_lng")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	destination, err := pointParams(r, "to_lat", "to_lng")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	mode := google.TravelModeDrive
	switch strings.ToLower(r.URL.Query().Get("mode")) {
	case "", "drive", "driving":
	case "walk", "walking":
		mode = google.TravelModeWalk
	default:
		writeError(w, http.StatusBadRequest, "mode must be drive or walk")
		return
	}

	route, err := h.directions.Route(r.Context(), origin, destination, mode)
	if err != nil {
		writeError(w, http.StatusBadGateway, fmt.Sprintf("routing failed: %v", err))
		return
	}
	writeJSON(w, http.StatusOK, route)
}

// pointParams parses a coordinate pair from the query string. Both
// parameters must be present and numeric.
func pointParams(r *http.Request, latKey, lngKey string) (geo.Point, error) {
	lat, ok := floatParam(r, latKey)
	if !ok {
		return geo.Point{}, fmt.Errorf("%s is required and must be a number", latKey)
	}
	lng, ok := floatParam(r, lngKey)
	if !ok {
		return geo.Point{}, fmt.Errorf("%s is required and must be a number", lngKey)
	}
	return geo.Point{Latitude: lat, Longitude: lng}, nil
}

func floatParam(r *http.Request, key string) (float64, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func intParam(r *http.Request, key string, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
