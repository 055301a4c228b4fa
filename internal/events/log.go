package events

import (
	"github.com/abhisek/prepdeck/internal/logger"
	"github.com/abhisek/prepdeck/internal/session"
)

// LogListener writes every non-tick event to the logger.
func LogListener(log *logger.Logger) session.Listener {
	return session.ListenerFunc(func(ev session.Event) {
		if ev.Kind == session.EventTick {
			return
		}
		kv := []any{"kind", ev.Kind, "session_id", ev.SessionID, "user_id", ev.UserID, "module", ev.Module, "phase", ev.Phase.String()}
		if ev.Result != nil {
			kv = append(kv, "score", ev.Result.Score, "total", ev.Result.TotalQuestions, "partial", ev.Result.IsPartial)
		}
		if ev.Err != nil {
			log.Warn("session event", append(kv, "error", ev.Err)...)
			return
		}
		log.Info("session event", kv...)
	})
}
