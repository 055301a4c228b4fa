package authoring

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/abhisek/prepdeck/internal/bank"
)

// Validator checks a drafted question before it is accepted.
type Validator interface {
	Name() string
	Check(q bank.Question, in Input) *ValidationError
}

// ValidationError explains a rejected draft.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Validator, e.Message)
}

// StructuralValidator enforces length limits and distinct options on top
// of bank.Question.Validate.
type StructuralValidator struct{}

func (StructuralValidator) Name() string { return "structural" }

func (v StructuralValidator) Check(q bank.Question, _ Input) *ValidationError {
	if err := q.Validate(); err != nil {
		return &ValidationError{v.Name(), err.Error()}
	}
	if len(q.Prompt) > 1500 {
		return &ValidationError{v.Name(), "prompt exceeds 1500 characters"}
	}
	if q.Explanation == "" {
		return &ValidationError{v.Name(), "explanation is empty"}
	}
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		key := normalize(o.Text)
		if key == "" {
			return &ValidationError{v.Name(), fmt.Sprintf("option %s is empty", o.ID)}
		}
		if seen[key] {
			return &ValidationError{v.Name(), fmt.Sprintf("option %q repeats another option", o.Text)}
		}
		seen[key] = true
	}
	return nil
}

// DuplicateValidator rejects prompts too similar to existing ones.
type DuplicateValidator struct {
	// Threshold is the token Jaccard similarity at or above which two
	// prompts count as duplicates.
	Threshold float64
}

func (DuplicateValidator) Name() string { return "duplicate" }

func (v DuplicateValidator) Check(q bank.Question, in Input) *ValidationError {
	for _, existing := range in.Existing {
		if sim := Similarity(q.Prompt, existing); sim >= v.Threshold {
			return &ValidationError{v.Name(), fmt.Sprintf("%.0f%% similar to %q", sim*100, truncate(existing, 60))}
		}
	}
	return nil
}

// Similarity is the Jaccard index of the two prompts' word sets.
func Similarity(a, b string) float64 {
	ta, tb := tokens(a), tokens(b)
	if len(ta) == 0 && len(tb) == 0 {
		return 1
	}
	inter := 0
	for w := range ta {
		if tb[w] {
			inter++
		}
	}
	union := len(ta) + len(tb) - inter
	return float64(inter) / float64(union)
}

func tokens(s string) map[string]bool {
	out := make(map[string]bool)
	for _, w := range strings.Fields(normalize(s)) {
		out[w] = true
	}
	return out
}

func normalize(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}), " ")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
