package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kingstonaccess/server/internal/lib/geo"
)

// HTTPDoer abstracts the HTTP client for testing.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client provides access to the Nominatim search API. Nominatim's usage
// policy requires an identifying User-Agent and asks for client-side caching,
// which the places service layers on top.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient HTTPDoer
}

// Place is one geocoding candidate, already mapped to the shape the
// autocomplete UI renders.
type Place struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Subtitle  string  `json:"subtitle"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// NewClient creates a new Nominatim client.
func NewClient(baseURL, userAgent string) *Client {
	return &Client{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithHTTPDoer creates a client with a custom HTTP implementation for testing.
func NewClientWithHTTPDoer(baseURL, userAgent string, doer HTTPDoer) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: doer,
	}
}

// Search performs a free-text place search. When box is non-nil the search is
// restricted to it (viewbox + bounded), which is how results stay inside the
// city this service covers.
func (c *Client) Search(ctx context.Context, query string, limit int, box *geo.BoundingBox) ([]Place, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("format", "jsonv2")
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))
	params.Set("addressdetails", "1")
	if box != nil {
		params.Set("viewbox", ViewboxParam(*box))
		params.Set("bounded", "1")
	}

	requestURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 429 {
		return nil, fmt.Errorf("rate limit exceeded (Nominatim allows ~1 req/s)")
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	var results []searchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	places := make([]Place, 0, len(results))
	for _, item := range results {
		place, ok := item.toPlace(query)
		if !ok {
			continue
		}
		places = append(places, place)
	}
	return places, nil
}

// ViewboxParam formats a bounding box in Nominatim's viewbox order:
// left (min lng), top (max lat), right (max lng), bottom (min lat).
func ViewboxParam(box geo.BoundingBox) string {
	return fmt.Sprintf("%v,%v,%v,%v", box.MinLng, box.MaxLat, box.MaxLng, box.MinLat)
}

// searchResult is the subset of a jsonv2 search item this service consumes.
type searchResult struct {
	PlaceID     json.Number    `json:"place_id"`
	OsmID       json.Number    `json:"osm_id"`
	Lat         string         `json:"lat"`
	Lon         string         `json:"lon"`
	Name        string         `json:"name"`
	DisplayName string         `json:"display_name"`
	Address     *resultAddress `json:"address"`
}

type resultAddress struct {
	HouseNumber string `json:"house_number"`
	Road        string `json:"road"`
	Pedestrian  string `json:"pedestrian"`
	Footway     string `json:"footway"`
	City        string `json:"city"`
	Town        string `json:"town"`
	Village     string `json:"village"`
	Postcode    string `json:"postcode"`
}

// toPlace maps a raw result to a Place. Results without parseable
// coordinates are dropped rather than reported as an error.
func (r searchResult) toPlace(query string) (Place, bool) {
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(r.Lat), 64)
	lng, lngErr := strconv.ParseFloat(strings.TrimSpace(r.Lon), 64)
	if latErr != nil || lngErr != nil {
		return Place{}, false
	}

	label := strings.TrimSpace(r.Name)
	display := strings.TrimSpace(r.DisplayName)
	if label == "" && display != "" {
		label = strings.TrimSpace(strings.SplitN(display, ",", 2)[0])
	}
	if label == "" {
		label = query
	}

	id := r.PlaceID.String()
	if id == "" {
		id = r.OsmID.String()
	}
	if id == "" {
		id = label
	}

	return Place{
		ID:        id,
		Label:     label,
		Subtitle:  r.subtitle(),
		Latitude:  lat,
		Longitude: lng,
	}, true
}

// subtitle builds a short secondary line: street address and postcode when
// available, otherwise the first two display-name segments.
func (r searchResult) subtitle() string {
	if r.Address != nil {
		house := strings.TrimSpace(r.Address.HouseNumber)
		road := strings.TrimSpace(r.Address.Road)
		if road == "" {
			road = strings.TrimSpace(r.Address.Pedestrian)
		}
		if road == "" {
			road = strings.TrimSpace(r.Address.Footway)
		}

		street := strings.TrimSpace(strings.Join(nonEmpty(house, road), " "))
		parts := nonEmpty(street, strings.TrimSpace(r.Address.Postcode))
		if len(parts) > 0 {
			return strings.Join(parts, ", ")
		}
	}

	display := strings.TrimSpace(r.DisplayName)
	if display != "" {
		var segments []string
		for _, s := range strings.Split(display, ",") {
			if s = strings.TrimSpace(s); s != "" {
				segments = append(segments, s)
			}
			if len(segments) == 2 {
				break
			}
		}
		return strings.Join(segments, ", ")
	}

	city := "Kingston"
	if r.Address != nil {
		for _, candidate := range []string{r.Address.City, r.Address.Town, r.Address.Village} {
			if c := strings.TrimSpace(candidate); c != "" {
				city = c
				break
			}
		}
	}
	return city
}

func nonEmpty(values ...string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
