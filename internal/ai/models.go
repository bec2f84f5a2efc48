// README: Request types and errors for plan generation.
package ai

import "errors"

var (
	// ErrNotConfigured is returned when no API key was supplied.
	ErrNotConfigured = errors.New("ai provider not configured: GEMINI_API_KEY is missing")
	// ErrEmptyResponse is returned when the model produced no usable text.
	ErrEmptyResponse = errors.New("no response candidates from Gemini")
)

// PlanRequest captures the user's trip inputs.
type PlanRequest struct {
	CityName string

	// NumDays is the trip length; the prompt scales the number of places to it.
	NumDays int

	// Preferences is free text (season, interests, budget). Optional.
	Preferences string
}

// GeminiConfig tunes the Gemini model.
type GeminiConfig struct {
	APIKey          string
	Model           string
	Temperature     float32
	MaxOutputTokens int32
	// RequestsPerMinute caps generation calls across all sessions; 0 disables the limit.
	RequestsPerMinute int
}
