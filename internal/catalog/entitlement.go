package catalog

import "context"

// Entitlements resolves a user's tier.
type Entitlements interface {
	GetTier(ctx context.Context, userID string) (Tier, error)
}

// StaticEntitlements is a fixed user→tier table, loaded from config.
type StaticEntitlements struct {
	Tiers   map[string]Tier
	Default Tier
}

// GetTier returns the configured tier, or Default (free when unset).
func (s StaticEntitlements) GetTier(_ context.Context, userID string) (Tier, error) {
	if t, ok := s.Tiers[userID]; ok {
		return t, nil
	}
	if s.Default != "" {
		return s.Default, nil
	}
	return TierFree, nil
}
