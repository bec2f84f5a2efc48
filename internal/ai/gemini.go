// README: Gemini provider; generates travel plans as JSON text under a shared rate limit.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

const defaultModel = "gemini-2.0-flash"

// GeminiProvider implements LLMProvider using Google's Gemini models.
type GeminiProvider struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	limiter *rate.Limiter
}

// NewGeminiProvider initializes a new Gemini client.
// An empty API key yields a provider whose calls fail with ErrNotConfigured, so the
// service can start without a credential and report it per request.
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	p := &GeminiProvider{limiter: rate.NewLimiter(rate.Inf, 1)}
	if cfg.RequestsPerMinute > 0 {
		p.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1)
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return p, nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, eris.Wrap(err, "failed to create Gemini client")
	}

	name := cfg.Model
	if name == "" {
		name = defaultModel
	}
	model := client.GenerativeModel(name)

	// Force JSON response for structured parsing.
	model.ResponseMIMEType = "application/json"
	if cfg.Temperature > 0 {
		model.SetTemperature(cfg.Temperature)
	}
	if cfg.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(cfg.MaxOutputTokens)
	}

	p.client = client
	p.model = model
	return p, nil
}

// Close cleans up the Gemini client resources.
func (p *GeminiProvider) Close() {
	if p.client != nil {
		p.client.Close()
	}
}

// GeneratePlan asks Gemini for a travel plan and returns the cleaned JSON text.
func (p *GeminiProvider) GeneratePlan(ctx context.Context, req PlanRequest) (string, error) {
	if p.model == nil {
		return "", ErrNotConfigured
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "gemini rate limit wait")
	}

	start := time.Now()
	resp, err := p.model.GenerateContent(ctx, genai.Text(buildPlanPrompt(req)))
	if err != nil {
		return "", eris.Wrap(err, "gemini generation error")
	}
	zap.L().Info("gemini plan generated",
		zap.String("city", req.CityName),
		zap.Int("days", req.NumDays),
		zap.Duration("took", time.Since(start)),
	)

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	// Extract text from the response parts.
	var responseText strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			responseText.WriteString(string(txt))
		}
	}
	text := cleanJSONString(responseText.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// buildPlanPrompt constructs the instructions for the AI.
func buildPlanPrompt(req PlanRequest) string {
	prefs := strings.TrimSpace(req.Preferences)
	if prefs == "" {
		prefs = "No specific preferences"
	}

	return fmt.Sprintf(`Generate a detailed travel plan for %s for %d days.

Additional preferences: %s

Respond with a single JSON object with exactly this structure:

{
  "cityConfig": {
    "name": "City Name",
    "center": { "lat": latitude, "lng": longitude },
    "defaultZoom": zoomLevel
  },
  "homebase": {
    "name": "Homebase Name",
    "lat": latitude,
    "lng": longitude,
    "color": "#10B981",
    "description": "Brief description of why this is a good homebase"
  },
  "categories": {
    "landmark": { "name": "Landmark", "color": "#hexColor" },
    "museum": { "name": "Museum", "color": "#hexColor" },
    "park": { "name": "Park", "color": "#hexColor" },
    "restaurant": { "name": "Restaurant", "color": "#hexColor" },
    "cafe": { "name": "Cafe", "color": "#hexColor" }
  },
  "places": [
    {
      "id": "unique_id",
      "name": "Place Name",
      "type": "place.category",
      "lat": latitude,
      "lng": longitude,
      "notes": "Brief description",
      "details": {
        "description": "description",
        "howToReach": ["transportation options", "best routes", "parking or public transit tips"],
        "whatToExpect": ["main attractions", "experience highlights", "typical visit duration"],
        "thingsToBeAwareOf": ["important warnings", "cultural considerations", "timing or seasonal information"]
      }
    }
  ],
  "restaurants": [
    {
      "id": "unique_id",
      "name": "Restaurant Name",
      "type": "place.restaurant or place.cafe",
      "lat": latitude,
      "lng": longitude,
      "notes": "Brief description",
      "details": {
        "description": "Detailed description",
        "whatToEat": ["signature dish", "popular menu items", "specialty drinks or desserts"],
        "whyGoThere": ["unique atmosphere", "special features", "local reputation"],
        "expenses": "Price range information",
        "bestDishes": ["top-rated dish", "chef's special", "must-try item"],
        "howToReach": ["location access", "nearby landmarks", "transportation options"],
        "thingsToBeAwareOf": ["reservation requirements", "dress code or customs", "busy hours or seasonal changes"]
      }
    }
  ]
}

RULES:
1. Output ONLY the JSON object, no text before or after.
2. Use accurate latitude and longitude coordinates for the city center and all places.
3. All ids must be unique strings across places AND restaurants.
4. Give every text field detailed, helpful information.
5. Format "howToReach", "whatToExpect", "thingsToBeAwareOf", "whatToEat", "whyGoThere" and "bestDishes" as arrays of 3-5 bullet points.
6. Do not include any image URLs or references.
7. ALWAYS include a homebase with name, coordinates, color and description, in a central location or near popular hotels.
8. Consider weather and seasonality if the preferences mention them.
9. Scale the number of places and restaurants/cafes to the number of days.
10. With more days, add some off-the-beaten-path places even if they are far from the homebase.
`, req.CityName, req.NumDays, prefs)
}

// cleanJSONString removes markdown code blocks if present (e.g. ```json ... ```)
func cleanJSONString(input string) string {
	input = strings.TrimSpace(input)
	for _, fence := range []string{"```json", "```javascript", "```js", "```"} {
		if strings.HasPrefix(input, fence) {
			input = strings.TrimPrefix(input, fence)
			break
		}
	}
	input = strings.TrimSuffix(strings.TrimSpace(input), "```")
	return strings.TrimSpace(input)
}
