package catalog

import (
	"context"
	"errors"
	"testing"
)

func TestOrder(t *testing.T) {
	want := []ModuleID{ModuleQuantitative, ModuleReading, ModuleCitizenship, ModuleLanguageB, ModuleWriting}
	got := Order()
	if len(got) != len(want) {
		t.Fatalf("len(Order()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Order()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		id     ModuleID
		want   ModuleID
		wantOK bool
	}{
		{ModuleQuantitative, ModuleReading, true},
		{ModuleLanguageB, ModuleWriting, true},
		{ModuleWriting, "", false},
		{"unknown", "", false},
	}
	for _, tt := range tests {
		got, ok := Next(tt.id)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Next(%q) = (%q, %v), want (%q, %v)", tt.id, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDefaultTimeLimit(t *testing.T) {
	m, err := Get(ModuleCitizenship)
	if err != nil {
		t.Fatal(err)
	}
	if got := m.DefaultTimeLimitSecs(); got != 1200 {
		t.Errorf("DefaultTimeLimitSecs() = %d, want 1200", got)
	}
}

func TestCaps(t *testing.T) {
	caps := DefaultCaps()
	if caps.Cap(TierFree) != 10 {
		t.Errorf("free cap = %d, want 10", caps.Cap(TierFree))
	}
	if caps.Cap(TierPro) != 50 {
		t.Errorf("pro cap = %d, want 50", caps.Cap(TierPro))
	}
	if caps.Cap(TierAssigned) != Unbounded {
		t.Errorf("assigned cap = %d, want unbounded", caps.Cap(TierAssigned))
	}
	if caps.Cap("platinum") != 10 {
		t.Errorf("unknown tier cap = %d, want free cap", caps.Cap("platinum"))
	}
}

func TestCheckAccess(t *testing.T) {
	tests := []struct {
		tier Tier
		mode Mode
		ok   bool
	}{
		{TierFree, ModePractice, true},
		{TierFree, ModeFullSimulation, false},
		{TierFree, ModeAssigned, false},
		{TierPro, ModeFullSimulation, true},
		{TierPro, ModeAssigned, true},
		{TierAssigned, ModeAssigned, true},
		{TierAssigned, ModePractice, true},
		{TierAssigned, ModeFullSimulation, false},
	}
	for _, tt := range tests {
		err := CheckAccess(tt.tier, tt.mode)
		if tt.ok && err != nil {
			t.Errorf("CheckAccess(%s, %s) = %v, want nil", tt.tier, tt.mode, err)
		}
		if !tt.ok && !errors.Is(err, ErrNotEntitled) {
			t.Errorf("CheckAccess(%s, %s) = %v, want ErrNotEntitled", tt.tier, tt.mode, err)
		}
	}
}

func TestSatisfies(t *testing.T) {
	if !Satisfies(TierFree, "") {
		t.Error("empty requirement should be met by free")
	}
	if Satisfies(TierFree, TierAssigned) {
		t.Error("free should not satisfy assigned")
	}
	if !Satisfies(TierPro, TierAssigned) {
		t.Error("pro should satisfy assigned")
	}
}

func TestStaticEntitlements(t *testing.T) {
	e := StaticEntitlements{Tiers: map[string]Tier{"ana": TierPro}}
	ctx := context.Background()

	tier, err := e.GetTier(ctx, "ana")
	if err != nil || tier != TierPro {
		t.Errorf("GetTier(ana) = %q, %v; want pro", tier, err)
	}
	if tier, _ := e.GetTier(ctx, "bo"); tier != TierFree {
		t.Errorf("GetTier(bo) = %q, want free", tier)
	}
	e.Default = TierAssigned
	if tier, _ := e.GetTier(ctx, "bo"); tier != TierAssigned {
		t.Errorf("GetTier(bo) with default = %q, want assigned", tier)
	}
}
