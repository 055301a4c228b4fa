package authoring

import (
	"fmt"
	"strings"

	"github.com/abhisek/prepdeck/internal/catalog"
)

const systemPrompt = `You write multiple-choice questions for a standardized university admission exam.

Rules:
- Write one question for the requested module and difficulty.
- The stem must be self-contained and unambiguous.
- Give exactly four options. Exactly one is correct.
- Distractors reflect plausible mistakes, not obviously wrong values.
- Do not label options with letters; they are added later.
- The explanation says why the answer is correct in two to four sentences.
- Never repeat or lightly reword a question from the "existing questions" list.`

var moduleBriefs = map[catalog.ModuleID]string{
	catalog.ModuleQuantitative: "Arithmetic, algebra, proportions, basic statistics and data interpretation.",
	catalog.ModuleReading:      "Comprehension and inference on short passages; include the passage in the stem.",
	catalog.ModuleCitizenship:  "Constitutional principles, civic institutions, rights and duties.",
	catalog.ModuleLanguageB:    "Second-language reading comprehension and vocabulary in context.",
	catalog.ModuleWriting:      "Grammar, cohesion, argument structure and editing of short texts.",
}

func buildUserMessage(in Input, maxPrior int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Module: %s\n", catalog.DisplayName(in.Module))
	if brief, ok := moduleBriefs[in.Module]; ok {
		fmt.Fprintf(&b, "Scope: %s\n", brief)
	}
	fmt.Fprintf(&b, "Difficulty: %d of 5\n", in.Difficulty)
	if in.Topic != "" {
		fmt.Fprintf(&b, "Topic: %s\n", in.Topic)
	}
	b.WriteString("\nExisting questions:\n")
	b.WriteString(numbered(in.Existing, maxPrior))
	return b.String()
}

// numbered lists the last max entries, or "None".
func numbered(items []string, max int) string {
	if len(items) == 0 {
		return "None"
	}
	if max > 0 && len(items) > max {
		items = items[len(items)-max:]
	}
	var b strings.Builder
	for i, s := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return strings.TrimRight(b.String(), "\n")
}
