package session

import (
	"time"

	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/store"
)

// EventKind names an engine notification.
type EventKind string

const (
	EventIntro    EventKind = "intro"
	EventAdvance  EventKind = "advance"
	EventTick     EventKind = "tick"
	EventExpire   EventKind = "expire"
	EventComplete EventKind = "complete"
	EventError    EventKind = "error"
)

// Event is delivered to listeners after the engine releases its lock, so
// listeners may call back into the engine.
type Event struct {
	Kind      EventKind
	SessionID string
	UserID    string
	Module    catalog.ModuleID
	Phase     Phase
	Index     int
	Remaining time.Duration
	Result    *store.Result
	Err       error
	At        time.Time
}

// Listener receives engine events.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(Event)

func (f ListenerFunc) OnEvent(e Event) { f(e) }
