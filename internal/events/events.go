// Package events forwards session engine events to external sinks.
package events

import (
	"time"

	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/session"
	"github.com/abhisek/prepdeck/internal/store"
)

// Message is the wire form of a session event.
type Message struct {
	Kind      string           `json:"kind"`
	SessionID string           `json:"sessionId"`
	UserID    string           `json:"userId"`
	Module    catalog.ModuleID `json:"moduleId,omitempty"`
	Phase     string           `json:"phase"`
	Index     int              `json:"index"`
	Remaining float64          `json:"remainingSeconds,omitempty"`
	Result    *store.Result    `json:"result,omitempty"`
	Error     string           `json:"error,omitempty"`
	At        time.Time        `json:"at"`
}

// FromEvent converts an engine event.
func FromEvent(ev session.Event) Message {
	m := Message{
		Kind:      string(ev.Kind),
		SessionID: ev.SessionID,
		UserID:    ev.UserID,
		Module:    ev.Module,
		Phase:     ev.Phase.String(),
		Index:     ev.Index,
		Remaining: ev.Remaining.Seconds(),
		Result:    ev.Result,
		At:        ev.At,
	}
	if ev.Err != nil {
		m.Error = ev.Err.Error()
	}
	return m
}

// RoutingKey is the topic routing key for an event kind.
func RoutingKey(kind session.EventKind) string {
	return "session." + string(kind)
}

// Filter passes through only the listed kinds.
func Filter(l session.Listener, kinds ...session.EventKind) session.Listener {
	allowed := make(map[session.EventKind]bool, len(kinds))
	for _, k := range kinds {
		allowed[k] = true
	}
	return session.ListenerFunc(func(ev session.Event) {
		if allowed[ev.Kind] {
			l.OnEvent(ev)
		}
	})
}

// Multi fans an event out to several listeners in order.
func Multi(ls ...session.Listener) session.Listener {
	return session.ListenerFunc(func(ev session.Event) {
		for _, l := range ls {
			if l != nil {
				l.OnEvent(ev)
			}
		}
	})
}
