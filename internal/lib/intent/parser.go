package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/kingstonaccess/server/internal/lib/geo"
)

// systemPrompt instructs the model to act as a query planner for the map app.
const systemPrompt = `You are a query parser for an accessible-parking locator covering Kingston, Ontario. Convert a user's natural language place or parking request into strict JSON.

Rules:
- Return ONLY a single JSON object. No markdown, no code fences.
- If the user names a place, set query to that place name.
- If the user implies a search radius, output radius_m in meters. Default 1500.
- Output limit for the number of parking spots to return. Default 30.
- Output place_limit for the number of place candidates to return. Default 10.
- Keep requests within the provided city bounds unless the user explicitly asks otherwise.

Return valid JSON with these exact fields:
- query: string
- radius_m: int
- limit: int
- place_limit: int
- notes: string`

// intentParser implements the Parser interface using OpenAI
type intentParser struct {
	client *openai.Client
	model  string
}

// NewParser creates a new Parser implementation. An empty API key produces a
// parser whose calls fail; callers are expected to fall back to
// FallbackIntent in that case.
func NewParser(apiKey, model string) Parser {
	if apiKey == "" {
		return &intentParser{client: nil, model: model}
	}
	return &intentParser{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// ParseIntent extracts a structured search intent from free text.
func (p *intentParser) ParseIntent(ctx context.Context, text string, bounds geo.BoundingBox) (Intent, error) {
	if p.client == nil {
		return Intent{}, errors.New("OpenAI client not initialized - invalid API key")
	}

	userPayload := map[string]interface{}{
		"city_bounds": bounds,
		"user_text":   text,
	}
	userJSON, err := json.Marshal(userPayload)
	if err != nil {
		return Intent{}, fmt.Errorf("failed to marshal prompt payload: %w", err)
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: string(userJSON),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.2, // Lower temperature for more consistent structured output
		MaxTokens:   300,
	})
	if err != nil {
		return Intent{}, fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Intent{}, errors.New("no response from OpenAI API")
	}

	parsed, ok := ExtractFirstJSONObject(resp.Choices[0].Message.Content)
	if !ok {
		return Intent{}, errors.New("no JSON object in model response")
	}

	return intentFromFields(parsed, text), nil
}

// HealthCheck verifies model API connectivity.
func (p *intentParser) HealthCheck(ctx context.Context) error {
	if p.client == nil {
		return errors.New("OpenAI client not initialized")
	}

	_, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: "Test",
			},
		},
		MaxTokens: 1,
	})
	if err != nil {
		return fmt.Errorf("OpenAI API health check failed: %w", err)
	}
	return nil
}

// intentFromFields maps a decoded JSON object to a clamped Intent, falling
// back to the raw text when the model returned no query.
func intentFromFields(fields map[string]interface{}, text string) Intent {
	result := Intent{
		Query:      stringValue(fields["query"]),
		RadiusM:    intValue(fields["radius_m"]),
		Limit:      intValue(fields["limit"]),
		PlaceLimit: intValue(fields["place_limit"]),
		Notes:      stringValue(fields["notes"]),
	}
	if result.Query == "" {
		result.Query = strings.TrimSpace(text)
	}
	return Clamp(result)
}

// Clamp bounds every numeric field and substitutes defaults for missing or
// nonsensical values.
func Clamp(in Intent) Intent {
	if in.RadiusM == 0 {
		in.RadiusM = DefaultRadiusM
	}
	if in.Limit == 0 {
		in.Limit = DefaultLimit
	}
	if in.PlaceLimit == 0 {
		in.PlaceLimit = DefaultPlaceLimit
	}

	in.RadiusM = clampInt(in.RadiusM, 50, 20000)
	in.Limit = clampInt(in.Limit, 1, 100)
	in.PlaceLimit = clampInt(in.PlaceLimit, 1, 20)
	return in
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// stringValue coerces a decoded JSON value to a trimmed string.
func stringValue(v interface{}) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

// intValue coerces a decoded JSON value (number or numeric string) to an int.
// Unparseable values coerce to zero, which Clamp replaces with the default.
func intValue(v interface{}) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		var f float64
		if _, err := fmt.Sscanf(strings.TrimSpace(n), "%f", &f); err == nil {
			return int(f)
		}
	}
	return 0
}
