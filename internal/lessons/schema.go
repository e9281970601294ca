package lessons

import "github.com/abhisek/masterreview/internal/llm"

// DefinitionSchema defines the JSON schema for glossary lookups.
var DefinitionSchema = &llm.Schema{
	Name:        "term-definition",
	Description: "A short student-friendly definition of a single term",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"term": map[string]any{
				"type":        "string",
				"description": "The term being defined, as given",
			},
			"definition": map[string]any{
				"type":        "string",
				"description": "Simple, direct definition in 1-3 sentences",
			},
		},
		"required":             []any{"term", "definition"},
		"additionalProperties": false,
	},
}

// RecapSchema defines the JSON schema for lesson quick-review cards.
var RecapSchema = &llm.Schema{
	Name:        "lesson-recap",
	Description: "Quick-review card summarizing a lesson",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "2-3 sentence summary of the lesson",
			},
			"key_points": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "3-5 one-sentence points to remember",
			},
		},
		"required":             []any{"summary", "key_points"},
		"additionalProperties": false,
	},
}
