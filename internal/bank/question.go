package bank

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/prepdeck/internal/catalog"
)

// ErrQuestionNotFound is returned when a question ID has no record.
var ErrQuestionNotFound = errors.New("question not found")

// ErrAssignmentNotFound is returned when an assignment ID has no record.
var ErrAssignmentNotFound = errors.New("assignment not found")

// Option is one selectable answer of a multiple-choice question.
type Option struct {
	ID   string `yaml:"id" json:"id"`
	Text string `yaml:"text" json:"text"`
}

// Question is an authored multiple-choice item. Questions are immutable
// once stored.
type Question struct {
	ID              string           `yaml:"id" json:"id"`
	ModuleID        catalog.ModuleID `yaml:"module" json:"module_id"`
	Prompt          string           `yaml:"prompt" json:"prompt"`
	Options         []Option         `yaml:"options" json:"options"`
	CorrectOptionID string           `yaml:"correct" json:"correct_option_id"`
	Explanation     string           `yaml:"explanation" json:"explanation"`
	Difficulty      int              `yaml:"difficulty" json:"difficulty"`
}

// IsCorrect reports whether optionID is the right answer.
func (q Question) IsCorrect(optionID string) bool {
	return optionID == q.CorrectOptionID
}

// Option returns the option with the given ID.
func (q Question) Option(id string) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Validate checks structural rules every stored question must satisfy.
func (q Question) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("question has empty id")
	}
	if !catalog.Valid(q.ModuleID) {
		return fmt.Errorf("question %s: unknown module %q", q.ID, q.ModuleID)
	}
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("question %s: empty prompt", q.ID)
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question %s: needs at least 2 options, has %d", q.ID, len(q.Options))
	}
	seen := make(map[string]bool, len(q.Options))
	for _, o := range q.Options {
		if o.ID == "" {
			return fmt.Errorf("question %s: option with empty id", q.ID)
		}
		if seen[o.ID] {
			return fmt.Errorf("question %s: duplicate option id %q", q.ID, o.ID)
		}
		seen[o.ID] = true
	}
	if !seen[q.CorrectOptionID] {
		return fmt.Errorf("question %s: correct option %q is not among the options", q.ID, q.CorrectOptionID)
	}
	if q.Difficulty < 1 || q.Difficulty > 5 {
		return fmt.Errorf("question %s: difficulty %d outside 1-5", q.ID, q.Difficulty)
	}
	return nil
}

// Bank is the read side of the question store.
type Bank interface {
	// QueryByModule returns every question authored for module.
	QueryByModule(ctx context.Context, module catalog.ModuleID) ([]Question, error)

	// GetByID returns a single question or ErrQuestionNotFound.
	GetByID(ctx context.Context, id string) (Question, error)
}

// Assignment is an instructor-authored question set delivered verbatim.
type Assignment struct {
	ID           string
	Title        string
	ModuleID     catalog.ModuleID
	Questions    []Question
	DueDate      time.Time
	RequiresTier catalog.Tier
}

// AssignmentSource loads assignments by ID.
type AssignmentSource interface {
	GetAssignment(ctx context.Context, id string) (Assignment, error)
}
