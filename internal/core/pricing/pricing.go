package pricing

// ModelPricing defines token pricing for an OpenRouter model.
type ModelPricing struct {
	Input  float64 `json:"input"`  // USD per 1000 prompt tokens
	Output float64 `json:"output"` // USD per 1000 completion tokens
}

// DefaultModel is used when the caller does not select a model.
const DefaultModel = "x-ai/grok-4-fast"

// defaultPricing is the fallback entry for models missing from the table.
var defaultPricing = ModelPricing{Input: 0.001, Output: 0.003}

// modelPricingMap stores approximate per-1K-token pricing for the models
// this tool routinely targets. Lookups are case-sensitive exact matches.
var modelPricingMap = map[string]ModelPricing{
	"x-ai/grok-4-fast":                  {Input: 0.001, Output: 0.003},
	"x-ai/grok-4":                       {Input: 0.002, Output: 0.006},
	"anthropic/claude-3.5-sonnet":       {Input: 0.003, Output: 0.015},
	"anthropic/claude-3-haiku":          {Input: 0.00025, Output: 0.00125},
	"openai/gpt-4o":                     {Input: 0.005, Output: 0.015},
	"openai/gpt-4o-mini":                {Input: 0.00015, Output: 0.0006},
	"google/gemini-pro":                 {Input: 0.0005, Output: 0.0015},
	"meta-llama/llama-3.1-8b-instruct":  {Input: 0.0002, Output: 0.0002},
	"meta-llama/llama-3.1-70b-instruct": {Input: 0.0009, Output: 0.0009},
}

// GetPricing returns the pricing for a specific model.
func GetPricing(modelName string) ModelPricing {
	if pricing, ok := modelPricingMap[modelName]; ok {
		return pricing
	}
	// Default pricing if model not found
	return defaultPricing
}

// DefaultPricing returns the fallback entry used for unknown models.
func DefaultPricing() ModelPricing {
	return defaultPricing
}

// GetAllPricings returns all built-in model pricings.
func GetAllPricings() map[string]ModelPricing {
	// Return a copy to prevent external modification
	result := make(map[string]ModelPricing, len(modelPricingMap))
	for k, v := range modelPricingMap {
		result[k] = v
	}
	return result
}
