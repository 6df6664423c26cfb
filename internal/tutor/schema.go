package tutor

import "github.com/abhisek/mathquiz/internal/llm"

// ExplanationSchema defines the JSON schema for tutor explanations.
var ExplanationSchema = &llm.Schema{
	Name:        "tutor-explanation",
	Description: "A short, friendly explanation of why an arithmetic answer was wrong",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"minLength":   1,
				"description": "Two or three sentences walking through the correct working",
			},
			"tip": map[string]any{
				"type":        "string",
				"description": "One short strategy the learner can use next time",
			},
		},
		"required":             []any{"explanation", "tip"},
		"additionalProperties": false,
	},
}
