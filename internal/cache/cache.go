// Package cache holds sampled question pools between draws so a prefetched
// pool can be handed to the next module without touching the bank again.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/prepdeck/internal/bank"
	"github.com/abhisek/prepdeck/internal/catalog"
)

// DefaultTTL bounds how long a prefetched pool stays usable.
const DefaultTTL = 30 * time.Minute

// Key addresses a pool by the session that sampled it, the module, the
// tier and the requested item count the sample was truncated to.
type Key struct {
	Session   string
	Module    catalog.ModuleID
	Tier      catalog.Tier
	Requested int
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%s:%d", k.Session, k.Module, k.Tier, k.Requested)
}

// PoolCache stores sampled pools. Implementations are scoped to one user
// namespace; Clear drops everything in that namespace.
type PoolCache interface {
	// Get returns the pool for key without consuming it.
	Get(ctx context.Context, key Key) ([]bank.Question, bool, error)

	// Take returns the pool for key and removes it, so a prefetched pool
	// is consumed at most once.
	Take(ctx context.Context, key Key) ([]bank.Question, bool, error)

	// Put stores qs under key for ttl. A non-positive ttl uses DefaultTTL.
	Put(ctx context.Context, key Key, qs []bank.Question, ttl time.Duration) error

	// Clear removes every pool in the namespace.
	Clear(ctx context.Context) error
}
