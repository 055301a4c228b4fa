package api

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/abhisek/prepdeck/internal/cache"
	"github.com/abhisek/prepdeck/internal/logger"
)

// Janitor periodically reaps idle sessions and expired prefetched pools.
type Janitor struct {
	scheduler *gocron.Scheduler
	registry  *Registry
	pools     *cache.Memory
	idle      time.Duration
	log       *logger.Logger
}

// NewJanitor creates a Janitor. pools may be nil when prefetches live in
// Redis, which expires them on its own.
func NewJanitor(registry *Registry, pools *cache.Memory, idle time.Duration, log *logger.Logger) *Janitor {
	if log == nil {
		log = logger.Nop()
	}
	return &Janitor{
		scheduler: gocron.NewScheduler(time.UTC),
		registry:  registry,
		pools:     pools,
		idle:      idle,
		log:       log.With("component", "janitor"),
	}
}

// Start runs a sweep every interval until Stop.
func (j *Janitor) Start(every time.Duration) error {
	if _, err := j.scheduler.Every(every).Do(j.Sweep); err != nil {
		return fmt.Errorf("schedule sweep: %w", err)
	}
	j.scheduler.StartAsync()
	return nil
}

// Stop halts the scheduler.
func (j *Janitor) Stop() {
	j.scheduler.Stop()
}

// Sweep performs one reaping pass.
func (j *Janitor) Sweep() {
	reaped := j.registry.Reap(context.Background(), j.idle)
	dropped := 0
	if j.pools != nil {
		dropped = j.pools.Sweep()
	}
	if len(reaped) > 0 || dropped > 0 {
		j.log.Info("janitor sweep", "sessions_reaped", len(reaped), "pools_dropped", dropped)
	}
}
