package llm

import "strings"

// ModelCost holds per-million-token pricing for a model in USD.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost calculates the total USD cost for the given token counts.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return float64(inputTokens)*c.InputPerMTok/1_000_000 +
		float64(outputTokens)*c.OutputPerMTok/1_000_000
}

// LookupCost returns the pricing for a recorded model ID, or nil if
// unknown. Friendly aliases such as "gemini-image" and vendor-qualified
// OpenRouter ids such as "google/gemini-2.5-pro" resolve to the same
// entries as the plain model ID.
func LookupCost(modelID string) *ModelCost {
	id := modelID
	if i := strings.LastIndex(id, "/"); i >= 0 {
		id = id[i+1:]
	}
	for _, aliases := range []map[string]string{geminiModels, anthropicModels, openaiModels} {
		if resolved, ok := aliases[id]; ok {
			id = resolved
			break
		}
	}
	if c, ok := modelCosts[id]; ok {
		return &c
	}
	return nil
}

// modelCosts covers the models lessons, lookups and visual aids are
// served by. Image models bill generated images as output tokens.
// Prices from models.dev, 2026-02-15.
var modelCosts = map[string]ModelCost{
	// Gemini: lessons, lookups and visual aids.
	"gemini-3-pro-preview":       {2, 12},
	"gemini-3-flash-preview":     {0.5, 3},
	"gemini-3-pro-image-preview": {2, 120},
	"gemini-2.5-pro":             {1.25, 10},
	"gemini-2.5-flash":           {0.3, 2.5},
	"gemini-2.5-flash-lite":      {0.1, 0.4},
	"gemini-2.5-flash-image":     {0.3, 30},
	"gemini-2.0-flash":           {0.1, 0.4},
	"gemini-flash-latest":        {0.3, 2.5},

	// Anthropic
	"claude-sonnet-4-5-20250929": {3, 15},
	"claude-sonnet-4-5":          {3, 15},
	"claude-haiku-4-5-20251001":  {1, 5},
	"claude-haiku-4-5":           {1, 5},
	"claude-opus-4-5":            {5, 25},
	"claude-3-5-haiku-latest":    {0.8, 4},

	// OpenAI
	"gpt-4o":            {2.5, 10},
	"gpt-4o-2024-08-06": {2.5, 10},
	"gpt-4o-2024-11-20": {2.5, 10},
	"gpt-4o-mini":       {0.15, 0.6},
	"gpt-4.1":           {2, 8},
	"gpt-4.1-mini":      {0.4, 1.6},
	"gpt-5":             {1.25, 10},
	"gpt-5-mini":        {0.25, 2},
	"gpt-5-nano":        {0.05, 0.4},
	"o3":                {2, 8},
	"o3-mini":           {1.1, 4.4},
	"o4-mini":           {1.1, 4.4},
}
