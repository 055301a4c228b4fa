package sampler

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/abhisek/prepdeck/internal/bank"
	"github.com/abhisek/prepdeck/internal/cache"
	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/logger"
)

// ErrPoolExhausted is returned when a module has no questions to draw.
var ErrPoolExhausted = errors.New("question pool exhausted")

// Config wires a Sampler.
type Config struct {
	Bank        bank.Bank
	Assignments bank.AssignmentSource // nil disables assigned draws
	Cache       cache.PoolCache       // nil disables prefetch
	Caps        catalog.Caps          // nil uses catalog.DefaultCaps
	CacheTTL    time.Duration
	Rand        *rand.Rand // nil seeds from the runtime
	Logger      *logger.Logger
}

// Sampler draws randomized, tier-bounded question sets.
type Sampler struct {
	bank        bank.Bank
	assignments bank.AssignmentSource
	cache       cache.PoolCache
	caps        catalog.Caps
	ttl         time.Duration
	log         *logger.Logger

	mu  sync.Mutex // guards rng
	rng *rand.Rand

	inflight sync.WaitGroup
}

// New creates a Sampler.
func New(cfg Config) *Sampler {
	if cfg.Caps == nil {
		cfg.Caps = catalog.DefaultCaps()
	}
	if cfg.Rand == nil {
		cfg.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	return &Sampler{
		bank:        cfg.Bank,
		assignments: cfg.Assignments,
		cache:       cfg.Cache,
		caps:        cfg.Caps,
		ttl:         cfg.CacheTTL,
		log:         cfg.Logger.With("component", "sampler"),
		rng:         cfg.Rand,
	}
}

// Caps returns the tier limits this sampler enforces.
func (s *Sampler) Caps() catalog.Caps {
	return s.caps
}

// Draw returns a fresh test set for module. A pool prefetched by the same
// session for the same module, tier and requested count is consumed first
// when present.
func (s *Sampler) Draw(ctx context.Context, sessionID string, module catalog.ModuleID, tier catalog.Tier, requested int) ([]bank.Question, error) {
	tierCap := s.caps.Cap(tier)

	if s.cache != nil && sessionID != "" {
		key := cache.Key{Session: sessionID, Module: module, Tier: tier, Requested: requested}
		pooled, ok, err := s.cache.Take(ctx, key)
		switch {
		case err != nil:
			s.log.Warn("pool cache read failed", "key", key.String(), "error", err)
		case ok && len(pooled) > 0 && len(pooled) <= SampleSize(len(pooled), tierCap, requested):
			return pooled, nil
		case ok:
			s.log.Debug("discarding mismatched prefetched pool", "key", key.String(), "items", len(pooled))
		}
	}

	pool, err := s.bank.QueryByModule(ctx, module)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", module, err)
	}
	if len(pool) == 0 {
		return nil, fmt.Errorf("%s: %w", module, ErrPoolExhausted)
	}

	s.mu.Lock()
	items := Sample(pool, tierCap, requested, s.rng)
	s.mu.Unlock()
	return items, nil
}

// Prefetch draws module in the background and parks the result in the
// pool cache under sessionID. Only a Draw from the same session with the
// same arguments consumes it. Failures are logged and otherwise ignored;
// the next Draw falls back to the bank.
func (s *Sampler) Prefetch(ctx context.Context, sessionID string, module catalog.ModuleID, tier catalog.Tier, requested int) {
	if s.cache == nil || sessionID == "" {
		return
	}
	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		key := cache.Key{Session: sessionID, Module: module, Tier: tier, Requested: requested}

		items, err := s.drawFromBank(ctx, module, tier, requested)
		if err != nil {
			s.log.Warn("prefetch failed", "key", key.String(), "error", err)
			return
		}
		if err := s.cache.Put(ctx, key, items, s.ttl); err != nil {
			s.log.Warn("prefetch store failed", "key", key.String(), "error", err)
			return
		}
		s.log.Debug("prefetched pool", "key", key.String(), "items", len(items))
	}()
}

// Wait blocks until all in-flight prefetches finish.
func (s *Sampler) Wait() {
	s.inflight.Wait()
}

func (s *Sampler) drawFromBank(ctx context.Context, module catalog.ModuleID, tier catalog.Tier, requested int) ([]bank.Question, error) {
	pool, err := s.bank.QueryByModule(ctx, module)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, ErrPoolExhausted
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Sample(pool, s.caps.Cap(tier), requested, s.rng), nil
}

// FromAssignment loads an assignment's questions verbatim, in author order.
func (s *Sampler) FromAssignment(ctx context.Context, id string, tier catalog.Tier) (bank.Assignment, error) {
	if s.assignments == nil {
		return bank.Assignment{}, fmt.Errorf("%s: %w", id, bank.ErrAssignmentNotFound)
	}
	a, err := s.assignments.GetAssignment(ctx, id)
	if err != nil {
		return bank.Assignment{}, err
	}
	if !catalog.Satisfies(tier, a.RequiresTier) {
		return bank.Assignment{}, fmt.Errorf("assignment %s requires %s tier: %w", id, a.RequiresTier, catalog.ErrNotEntitled)
	}
	if len(a.Questions) == 0 {
		return bank.Assignment{}, fmt.Errorf("assignment %s: %w", id, ErrPoolExhausted)
	}
	qs := make([]bank.Question, len(a.Questions))
	copy(qs, a.Questions)
	a.Questions = qs
	return a, nil
}
