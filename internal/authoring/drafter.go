// Package authoring drafts new bank questions with a language model.
package authoring

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/abhisek/prepdeck/internal/bank"
	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/llm"
	"github.com/abhisek/prepdeck/internal/logger"
)

// OptionCount is the number of options every drafted question carries.
const OptionCount = 4

// PurposeDraft labels drafting calls in the LLM request log.
const PurposeDraft = "draft"

// Input describes the question to draft.
type Input struct {
	Module     catalog.ModuleID
	Difficulty int
	Topic      string

	// Existing prompts in the module, for deduplication.
	Existing []string
}

// Config tunes a Drafter.
type Config struct {
	Validators  []Validator
	MaxTokens   int
	Temperature float64

	// MaxPrior bounds how many existing prompts go into the model prompt.
	// Deduplication still checks all of them.
	MaxPrior int

	// AttemptsPerQuestion bounds model calls per accepted question in
	// DraftMany.
	AttemptsPerQuestion int
}

// DefaultConfig returns the standard validator chain and limits.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			StructuralValidator{},
			DuplicateValidator{Threshold: 0.8},
		},
		MaxTokens:           800,
		Temperature:         0.8,
		MaxPrior:            15,
		AttemptsPerQuestion: 3,
	}
}

// Drafter turns model output into validated bank questions.
type Drafter struct {
	provider llm.Provider
	cfg      Config
	log      *logger.Logger
	newID    func() string
}

// New returns a Drafter.
func New(provider llm.Provider, cfg Config, log *logger.Logger) *Drafter {
	if log == nil {
		log = logger.Nop()
	}
	return &Drafter{provider: provider, cfg: cfg, log: log, newID: uuid.NewString}
}

// Draft asks the model for one question and runs the validator chain.
func (d *Drafter) Draft(ctx context.Context, in Input) (bank.Question, error) {
	if !catalog.Valid(in.Module) {
		return bank.Question{}, fmt.Errorf("unknown module %q", in.Module)
	}
	if in.Difficulty < 1 || in.Difficulty > 5 {
		in.Difficulty = 3
	}

	c, err := d.provider.Complete(ctx, llm.Prompt{
		Purpose:     PurposeDraft,
		System:      systemPrompt,
		User:        buildUserMessage(in, d.cfg.MaxPrior),
		Schema:      draftSchema,
		MaxTokens:   d.cfg.MaxTokens,
		Temperature: d.cfg.Temperature,
	})
	if err != nil {
		return bank.Question{}, fmt.Errorf("draft: %w", err)
	}

	var out draftOutput
	if err := json.Unmarshal(c.JSON, &out); err != nil {
		return bank.Question{}, fmt.Errorf("draft: decode reply: %w", err)
	}
	q, err := d.toQuestion(in.Module, out)
	if err != nil {
		return bank.Question{}, err
	}
	for _, v := range d.cfg.Validators {
		if verr := v.Check(q, in); verr != nil {
			return bank.Question{}, verr
		}
	}
	return q, nil
}

func (d *Drafter) toQuestion(module catalog.ModuleID, out draftOutput) (bank.Question, error) {
	if out.CorrectIndex < 0 || out.CorrectIndex >= len(out.Options) {
		return bank.Question{}, &ValidationError{"structural", fmt.Sprintf("correct_index %d out of range", out.CorrectIndex)}
	}
	q := bank.Question{
		ID:          d.newID(),
		ModuleID:    module,
		Prompt:      strings.TrimSpace(out.Prompt),
		Explanation: strings.TrimSpace(out.Explanation),
		Difficulty:  out.Difficulty,
	}
	for i, text := range out.Options {
		id := string(rune('a' + i))
		q.Options = append(q.Options, bank.Option{ID: id, Text: strings.TrimSpace(text)})
		if i == out.CorrectIndex {
			q.CorrectOptionID = id
		}
	}
	return q, nil
}

// Batch is the outcome of DraftMany.
type Batch struct {
	Accepted []bank.Question
	Rejected []error
}

// DraftMany drafts up to count questions. Accepted prompts join the
// dedup set so the batch does not repeat itself. Validation failures are
// collected; a provider failure stops the batch.
func (d *Drafter) DraftMany(ctx context.Context, in Input, count int) (Batch, error) {
	var b Batch
	existing := append([]string(nil), in.Existing...)
	budget := count * max(d.cfg.AttemptsPerQuestion, 1)

	for attempt := 0; attempt < budget && len(b.Accepted) < count; attempt++ {
		in.Existing = existing
		q, err := d.Draft(ctx, in)
		var verr *ValidationError
		switch {
		case err == nil:
			b.Accepted = append(b.Accepted, q)
			existing = append(existing, q.Prompt)
			d.log.Debug("draft accepted", "module", in.Module, "id", q.ID)
		case errors.As(err, &verr):
			b.Rejected = append(b.Rejected, err)
			d.log.Info("draft rejected", "module", in.Module, "reason", verr.Message)
		default:
			return b, err
		}
	}
	return b, nil
}
