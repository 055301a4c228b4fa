package authoring

import "github.com/abhisek/prepdeck/internal/llm"

// draftSchema is the structured output a drafting call must return.
var draftSchema = llm.NewSchema("exam-question", "One multiple-choice exam question with explanation", map[string]any{
	"type": "object",
	"properties": map[string]any{
		"prompt": map[string]any{
			"type":        "string",
			"description": "The question stem shown to the student",
		},
		"options": map[string]any{
			"type":        "array",
			"items":       map[string]any{"type": "string"},
			"minItems":    OptionCount,
			"maxItems":    OptionCount,
			"description": "Answer options in display order",
		},
		"correct_index": map[string]any{
			"type":        "integer",
			"minimum":     0,
			"maximum":     OptionCount - 1,
			"description": "Zero-based index of the correct option",
		},
		"explanation": map[string]any{
			"type":        "string",
			"description": "Why the correct option is right and the distractors are wrong",
		},
		"difficulty": map[string]any{
			"type":    "integer",
			"minimum": 1,
			"maximum": 5,
		},
	},
	"required":             []any{"prompt", "options", "correct_index", "explanation", "difficulty"},
	"additionalProperties": false,
})

type draftOutput struct {
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
	Explanation  string   `json:"explanation"`
	Difficulty   int      `json:"difficulty"`
}
