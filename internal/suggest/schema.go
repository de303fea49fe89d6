package suggest

import "github.com/abhisek/guwen/internal/llm"

// DefinitionsSchema is the response shape for definition drafting.
var DefinitionsSchema = &llm.Schema{
	Name:        "definition-drafts",
	Description: "Distinct senses of one classical Chinese character, each with example sentence indexes",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"drafts": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"content": map[string]any{
							"type":        "string",
							"description": "The sense, written as a short textbook gloss in Chinese, e.g. 表顺承",
						},
						"examples": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "integer"},
							"description": "Zero-based indexes of the given sentences in which the character carries this sense",
						},
					},
					"required":             []any{"content", "examples"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"drafts"},
		"additionalProperties": false,
	},
}

// KeypointsSchema is the response shape for keypoint extraction.
var KeypointsSchema = &llm.Schema{
	Name:        "character-keypoints",
	Description: "Characters in a classical Chinese passage worth emphasising in exams, with weights",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"keypoints": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"character": map[string]any{
							"type":        "string",
							"description": "A single character that appears in the passage",
						},
						"weight": map[string]any{
							"type":        "integer",
							"minimum":     1,
							"maximum":     100,
							"description": "Relative exam importance; all weights together should not exceed 100",
						},
						"reason": map[string]any{
							"type":        "string",
							"description": "One short sentence on why this character matters",
						},
					},
					"required":             []any{"character", "weight", "reason"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"keypoints"},
		"additionalProperties": false,
	},
}
