package session

import "time"

// loadedMsg reports the outcome of drawing the first module.
type loadedMsg struct {
	Err error
}

// timerTickMsg is sent every second to poll the engine clock.
type timerTickMsg time.Time
