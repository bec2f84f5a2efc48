// README: Generation provider contract.
package ai

import (
	"context"
)

// LLMProvider defines the contract for interacting with AI models.
// This interface allows for swapping different AI providers (Gemini, OpenAI, etc.) in the future.
type LLMProvider interface {
	// GeneratePlan asks the model for a travel plan and returns the JSON text of the plan,
	// stripped of any markdown fences. The text is not validated here.
	GeneratePlan(ctx context.Context, req PlanRequest) (string, error)
}
