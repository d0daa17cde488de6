package parking

import (
	"fmt"
	"strings"
	"time"

	"github.com/kingstonaccess/server/internal/lib/geo"
)

// AvailabilityProbability estimates the chance of finding a free accessible
// space in a lot from its stall counts: a quarter baseline plus a bonus
// proportional to the accessible share of capacity, clamped to [0.15, 0.95].
// Lots with unknown counts get a flat 0.35.
func AvailabilityProbability(handicapSpaces, capacity *int) float64 {
	if handicapSpaces == nil || capacity == nil || *capacity <= 0 {
		return 0.35
	}
	ratio := float64(*handicapSpaces) / float64(*capacity)
	return clamp(0.25+ratio*1.5, 0.15, 0.95)
}

// Prediction is an explainable availability estimate for a location and time.
type Prediction struct {
	Probability float64 `json:"probability"`
	Tier        string  `json:"tier"`
	Reason      string  `json:"reason"`
}

// PredictAvailability applies a simple, explainable heuristic: start from a
// 0.70 base, deduct for proximity to downtown and for commute and lunch
// windows, and clamp to [0.05, 0.95]. The reason string records every
// adjustment so the client can show why a prediction came out the way it did.
func PredictAvailability(p, downtown geo.Point, when time.Time) Prediction {
	probability := 0.70
	reasons := []string{"base=0.70"}

	distToDowntownKm := geo.DistanceMeters(p, downtown) / 1000
	switch {
	case distToDowntownKm <= 1.5:
		probability -= 0.20
		reasons = append(reasons, "downtown(-0.20)")
	case distToDowntownKm <= 3.0:
		probability -= 0.10
		reasons = append(reasons, "near_downtown(-0.10)")
	}

	hour := when.Hour()
	weekend := when.Weekday() == time.Saturday || when.Weekday() == time.Sunday

	if hour >= 7 && hour <= 9 {
		probability -= 0.08
		reasons = append(reasons, "morning_commute(-0.08)")
	}
	if hour >= 11 && hour <= 14 {
		probability -= 0.10
		reasons = append(reasons, "midday(-0.10)")
	}
	if hour >= 16 && hour <= 18 {
		probability -= 0.12
		reasons = append(reasons, "evening_peak(-0.12)")
	}
	if weekend && hour >= 10 && hour <= 13 {
		probability -= 0.10
		reasons = append(reasons, "weekend_morning(-0.10)")
	}

	probability = clamp(probability, 0.05, 0.95)

	tier := "low"
	if probability >= 0.7 {
		tier = "high"
	} else if probability >= 0.45 {
		tier = "medium"
	}

	return Prediction{
		Probability: probability,
		Tier:        tier,
		Reason:      strings.Join(reasons, ";"),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Describe renders a one-line summary for KML balloons and debug output.
func (s Spot) Describe() string {
	parts := []string{}
	if s.Address != "" {
		parts = append(parts, s.Address)
	}
	if s.HandicapSpaces != nil {
		parts = append(parts, fmt.Sprintf("%d accessible spaces", *s.HandicapSpaces))
	}
	if s.Capacity != nil {
		parts = append(parts, fmt.Sprintf("%d total", *s.Capacity))
	}
	if s.Rules != "" {
		parts = append(parts, s.Rules)
	}
	if len(parts) == 0 {
		return s.Label
	}
	return strings.Join(parts, ", ")
}
