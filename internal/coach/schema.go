package coach

import "github.com/abhisek/vitals/internal/llm"

// InsightSchema is the response contract for Generate.
var InsightSchema = &llm.Schema{
	Name:        "coach-insight",
	Description: "A short, supportive interpretation of a health self-assessment",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{
				"type":        "string",
				"description": "One-line takeaway (4-10 words)",
				"minLength":   1,
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "2-3 sentences interpreting the overall result and category breakdown",
				"minLength":   1,
			},
			"focus_areas": map[string]any{
				"type":        "array",
				"description": "1-3 areas to work on, weakest first",
				"minItems":    1,
				"maxItems":    3,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"area": map[string]any{
							"type":        "string",
							"description": "Category or habit name, e.g. Sleep",
						},
						"action": map[string]any{
							"type":        "string",
							"description": "One small, specific step for the coming week",
						},
					},
					"required":             []any{"area", "action"},
					"additionalProperties": false,
				},
			},
			"encouragement": map[string]any{
				"type":        "string",
				"description": "One warm closing sentence",
			},
		},
		"required":             []any{"headline", "summary", "focus_areas", "encouragement"},
		"additionalProperties": false,
	},
}
