package catalog

import (
	"errors"
	"fmt"
)

// Tier is a user's entitlement level.
type Tier string

const (
	TierFree     Tier = "free"
	TierPro      Tier = "pro"
	TierAssigned Tier = "assigned"
)

// Unbounded marks a tier whose sample size is limited only by the pool.
const Unbounded = 0

// Mode selects the kind of activity a session runs.
type Mode string

const (
	ModePractice       Mode = "practice"
	ModeFullSimulation Mode = "full-simulation"
	ModeAssigned       Mode = "assigned"
)

// ErrNotEntitled is returned when a tier may not run the requested mode.
var ErrNotEntitled = errors.New("not entitled")

// Caps maps tiers to their maximum sample size.
type Caps map[Tier]int

// DefaultCaps returns the stock sample size limits.
func DefaultCaps() Caps {
	return Caps{
		TierFree:     10,
		TierPro:      50,
		TierAssigned: Unbounded,
	}
}

// Cap returns the maximum sample size for t. Unknown tiers get the free cap.
func (c Caps) Cap(t Tier) int {
	if n, ok := c[t]; ok {
		return n
	}
	return c[TierFree]
}

// ParseTier converts a string to a Tier.
func ParseTier(s string) (Tier, error) {
	switch Tier(s) {
	case TierFree, TierPro, TierAssigned:
		return Tier(s), nil
	}
	return "", fmt.Errorf("unknown tier: %q", s)
}

// ParseMode converts a string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePractice, ModeFullSimulation, ModeAssigned:
		return Mode(s), nil
	}
	return "", fmt.Errorf("unknown mode: %q", s)
}

// CheckAccess reports whether tier t may run mode m.
// Practice is open to everyone; full simulations need pro; assigned
// activities need an assigned tier or pro.
func CheckAccess(t Tier, m Mode) error {
	switch m {
	case ModePractice:
		return nil
	case ModeFullSimulation:
		if t == TierPro {
			return nil
		}
	case ModeAssigned:
		if t == TierAssigned || t == TierPro {
			return nil
		}
	default:
		return fmt.Errorf("unknown mode: %q", m)
	}
	return fmt.Errorf("%s tier cannot run %s: %w", t, m, ErrNotEntitled)
}

// Satisfies reports whether tier t meets the required tier for an assignment.
// An empty requirement is met by every tier.
func Satisfies(t, required Tier) bool {
	switch required {
	case "", TierFree:
		return true
	case TierAssigned:
		return t == TierAssigned || t == TierPro
	case TierPro:
		return t == TierPro
	}
	return false
}
