package intent

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Defaults applied when a field is missing from both the user text and the
// model response.
const (
	DefaultRadiusM    = 1500
	DefaultLimit      = 30
	DefaultPlaceLimit = 10
)

// FallbackIntent builds an intent without any model call: the raw text is the
// query and every knob takes its default. Used when no API key is configured
// or when the model service is unavailable; note records which.
func FallbackIntent(text, notes string) Intent {
	return Clamp(Intent{
		Query: strings.TrimSpace(text),
		Notes: notes,
	})
}

// genericGroceryTerms are phrases that name a category rather than a place.
var genericGroceryTerms = map[string]bool{
	"market":        true,
	"super market":  true,
	"supermarket":   true,
	"grocery":       true,
	"groceries":     true,
	"grocery store": true,
	"food store":    true,
}

// groceryExpansions are the concrete Kingston stores a generic grocery query
// fans out to, so the geocoder has real names to match.
var groceryExpansions = []string{
	"supermarket",
	"grocery store",
	"Metro Kingston",
	"Food Basics Kingston",
	"No Frills Kingston",
	"FreshCo Kingston",
	"Loblaws Kingston",
	"Walmart Kingston",
	"Costco Kingston",
}

// ExpandedPlaceQueries returns the geocoding queries to run for a parsed
// query. Specific place names pass through unchanged; generic grocery
// phrases expand into the fixed store list, deduplicated case-insensitively
// with the original query first.
func ExpandedPlaceQueries(query string) []string {
	base := strings.Join(strings.Fields(query), " ")
	if base == "" {
		return nil
	}

	norm := strings.ToLower(base)
	generic := genericGroceryTerms[norm] ||
		strings.Contains(norm, "supermarket") ||
		strings.Contains(norm, "grocery") ||
		strings.Contains(norm, "super market")
	if !generic {
		return []string{base}
	}

	seen := make(map[string]bool)
	out := []string{}
	for _, candidate := range append([]string{base}, groceryExpansions...) {
		v := strings.Join(strings.Fields(candidate), " ")
		if v == "" {
			continue
		}
		key := strings.ToLower(v)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, v)
	}
	return out
}

var jsonObjectPattern = regexp.MustCompile(`\{[\s\S]*\}`)

// ExtractFirstJSONObject pulls the first JSON object out of model text.
// Models occasionally wrap their JSON in prose or code fences despite
// instructions; the whole string is tried first, then the widest brace span.
func ExtractFirstJSONObject(text string) (map[string]interface{}, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, false
	}

	var obj map[string]interface{}
	if err := json.Unmarshal([]byte(s), &obj); err == nil {
		return obj, true
	}

	match := jsonObjectPattern.FindString(s)
	if match == "" {
		return nil, false
	}
	if err := json.Unmarshal([]byte(match), &obj); err != nil {
		return nil, false
	}
	return obj, true
}
