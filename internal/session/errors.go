package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/abhisek/prepdeck/internal/bank"
	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/sampler"
	"github.com/abhisek/prepdeck/internal/store"
)

// Errors surfaced by the engine. The pool, assignment and entitlement
// errors are the ones defined by the packages that detect them.
var (
	ErrPoolExhausted      = sampler.ErrPoolExhausted
	ErrAssignmentNotFound = bank.ErrAssignmentNotFound
	ErrNotEntitled        = catalog.ErrNotEntitled

	// ErrInvalidTransition is returned when an operation is not allowed in
	// the current phase.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrUnknownOption is returned when an answer names no option of the
	// current question.
	ErrUnknownOption = errors.New("unknown option")
)

// PersistenceError reports a Result that could not be written after a
// retry. The score remains available from the engine snapshot.
type PersistenceError struct {
	Result store.Result
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist result for %s (%d/%d): %v", e.Result.ModuleID, e.Result.Score, e.Result.TotalQuestions, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ClockDriftError reports that the wall and monotonic clocks disagreed on
// resume. The larger elapsed time was trusted.
type ClockDriftError struct {
	Drift   time.Duration
	Applied time.Duration
}

func (e *ClockDriftError) Error() string {
	return fmt.Sprintf("clock drift of %s detected, using elapsed %s", e.Drift.Round(time.Millisecond), e.Applied.Round(time.Millisecond))
}

func transitionError(op string, from Phase) error {
	return fmt.Errorf("%w: %s from %s", ErrInvalidTransition, op, from)
}
