package session

import (
	"time"

	"github.com/abhisek/prepdeck/internal/bank"
	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/store"
)

// Phase is the engine's lifecycle position.
type Phase int

const (
	PhaseNotStarted Phase = iota // Nothing loaded yet
	PhaseIntro                   // Items loaded, waiting for Start
	PhaseActive                  // Question on screen, clock running
	PhaseFeedback                // Answer revealed
	PhaseCompleted               // All modules finished
	PhasePartial                 // Exited mid-module
	PhaseAbandoned               // Exited before starting
)

func (p Phase) String() string {
	switch p {
	case PhaseNotStarted:
		return "not-started"
	case PhaseIntro:
		return "intro"
	case PhaseActive:
		return "active"
	case PhaseFeedback:
		return "feedback"
	case PhaseCompleted:
		return "completed"
	case PhasePartial:
		return "partial"
	case PhaseAbandoned:
		return "abandoned"
	}
	return "unknown"
}

// Terminal reports whether no further transitions are possible.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhasePartial || p == PhaseAbandoned
}

// Status collapses the phase to the session status exposed to clients.
func (p Phase) Status() string {
	switch p {
	case PhaseCompleted, PhasePartial, PhaseAbandoned:
		return p.String()
	}
	return "active"
}

// SessionContext identifies who a session runs for. It is captured once
// at creation; later tier changes do not affect a running session.
type SessionContext struct {
	UserID      string
	DisplayName string
	Tier        catalog.Tier
}

// Request describes the session to run.
type Request struct {
	Mode catalog.Mode

	// Module is the practice module, or the module a full simulation
	// starts from. Empty starts a full simulation at the first module.
	Module catalog.ModuleID

	// AssignmentID selects the assignment in assigned mode.
	AssignmentID string

	// Requested caps the item count below the tier cap. Zero means
	// "as many as allowed".
	Requested int
}

// Feedback is the revealed outcome of an answer.
type Feedback struct {
	QuestionID      string
	SelectedID      string
	Correct         bool
	CorrectOptionID string
	Explanation     string
}

// Snapshot is a read-only copy of the engine state for presentation.
type Snapshot struct {
	SessionID string
	UserID    string
	Mode      catalog.Mode
	Phase     Phase

	Module       catalog.ModuleID
	ModuleNumber int // 1-based position within the session
	ModuleCount  int

	Items        int
	CurrentIndex int
	Current      *bank.Question
	Answers      map[string]string
	Score        int
	Feedback     *Feedback

	StartedAt time.Time
	TimeLimit time.Duration
	Remaining time.Duration
	Expired   bool

	// IntroTimeLimit is the static estimate shown before items are drawn.
	IntroTimeLimit time.Duration

	Results []store.Result
	Upsell  bool
	Err     error
}

// Accuracy returns the running score as a percentage of answered items.
func (s Snapshot) Accuracy() float64 {
	if len(s.Answers) == 0 {
		return 0
	}
	return float64(s.Score) / float64(len(s.Answers)) * 100
}
