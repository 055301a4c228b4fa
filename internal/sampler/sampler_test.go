package sampler

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/abhisek/prepdeck/internal/bank"
	"github.com/abhisek/prepdeck/internal/cache"
	"github.com/abhisek/prepdeck/internal/catalog"
)

func makeQuestions(module catalog.ModuleID, n int) []bank.Question {
	qs := make([]bank.Question, n)
	for i := range qs {
		qs[i] = bank.Question{
			ID:              fmt.Sprintf("%s-%02d", module, i),
			ModuleID:        module,
			Prompt:          fmt.Sprintf("Question %d", i),
			Options:         []bank.Option{{ID: "a", Text: "yes"}, {ID: "b", Text: "no"}},
			CorrectOptionID: "a",
			Difficulty:      1,
		}
	}
	return qs
}

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func newBank(t *testing.T, qs ...[]bank.Question) *bank.MemoryBank {
	t.Helper()
	var all []bank.Question
	for _, q := range qs {
		all = append(all, q...)
	}
	b, err := bank.NewMemoryBank(all...)
	if err != nil {
		t.Fatalf("NewMemoryBank: %v", err)
	}
	return b
}

func TestSampleSize(t *testing.T) {
	tests := []struct {
		pool, cap, requested, want int
	}{
		{3, 10, 0, 3},
		{20, 10, 0, 10},
		{20, 10, 5, 5},
		{20, 10, 15, 10},
		{60, 50, 0, 50},
		{60, catalog.Unbounded, 0, 60},
		{60, catalog.Unbounded, 12, 12},
		{0, 10, 0, 0},
	}
	for _, tt := range tests {
		got := SampleSize(tt.pool, tt.cap, tt.requested)
		if got != tt.want {
			t.Errorf("SampleSize(%d, %d, %d) = %d, want %d", tt.pool, tt.cap, tt.requested, got, tt.want)
		}
	}
}

func TestSample_BoundsAndUniqueness(t *testing.T) {
	pool := makeQuestions(catalog.ModuleQuantitative, 25)
	rng := seeded()
	for i := 0; i < 200; i++ {
		items := Sample(pool, 10, 0, rng)
		if len(items) != 10 {
			t.Fatalf("len = %d, want 10", len(items))
		}
		seen := map[string]bool{}
		for _, q := range items {
			if seen[q.ID] {
				t.Fatalf("duplicate id %s", q.ID)
			}
			seen[q.ID] = true
		}
	}
}

func TestSample_DropsDuplicatePoolEntries(t *testing.T) {
	pool := makeQuestions(catalog.ModuleQuantitative, 3)
	pool = append(pool, pool[0])
	items := Sample(pool, 10, 0, seeded())
	if len(items) != 3 {
		t.Errorf("len = %d, want 3", len(items))
	}
}

func TestShuffle_DoesNotMutateInput(t *testing.T) {
	pool := makeQuestions(catalog.ModuleReading, 8)
	before := make([]string, len(pool))
	for i, q := range pool {
		before[i] = q.ID
	}
	_ = Shuffle(pool, seeded())
	for i, q := range pool {
		if q.ID != before[i] {
			t.Fatalf("input mutated at %d: %s != %s", i, q.ID, before[i])
		}
	}
}

func TestShuffle_Fairness(t *testing.T) {
	pool := makeQuestions(catalog.ModuleReading, 3)
	rng := seeded()
	const trials = 60000
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		s := Shuffle(pool, rng)
		ids := make([]string, len(s))
		for j, q := range s {
			ids[j] = q.ID[len(q.ID)-1:]
		}
		counts[strings.Join(ids, "")]++
	}
	if len(counts) != 6 {
		t.Fatalf("saw %d permutations, want 6", len(counts))
	}
	expected := float64(trials) / 6
	for perm, n := range counts {
		dev := (float64(n) - expected) / expected
		if dev < -0.05 || dev > 0.05 {
			t.Errorf("permutation %s seen %d times, expected ~%.0f", perm, n, expected)
		}
	}
}

func TestDraw_FreeTierSmallPool(t *testing.T) {
	b := newBank(t, makeQuestions(catalog.ModuleCitizenship, 3))
	s := New(Config{Bank: b, Rand: seeded()})

	items, err := s.Draw(context.Background(), "s-1", catalog.ModuleCitizenship, catalog.TierFree, 0)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("len = %d, want 3", len(items))
	}
}

func TestDraw_EmptyPool(t *testing.T) {
	b := newBank(t, makeQuestions(catalog.ModuleCitizenship, 3))
	s := New(Config{Bank: b, Rand: seeded()})

	_, err := s.Draw(context.Background(), "s-1", catalog.ModuleWriting, catalog.TierPro, 0)
	if !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("err = %v, want ErrPoolExhausted", err)
	}
}

func TestPrefetch_ConsumedOnce(t *testing.T) {
	b := newBank(t, makeQuestions(catalog.ModuleReading, 20))
	c := cache.NewMemory()
	s := New(Config{Bank: b, Cache: c, Rand: seeded()})
	ctx := context.Background()

	s.Prefetch(ctx, "s-1", catalog.ModuleReading, catalog.TierFree, 0)
	s.Wait()

	key := cache.Key{Session: "s-1", Module: catalog.ModuleReading, Tier: catalog.TierFree}
	cached, ok, _ := c.Get(ctx, key)
	if !ok || len(cached) != 10 {
		t.Fatalf("cached pool = %d (ok=%v), want 10", len(cached), ok)
	}

	items, err := s.Draw(ctx, "s-1", catalog.ModuleReading, catalog.TierFree, 0)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	for i := range items {
		if items[i].ID != cached[i].ID {
			t.Fatalf("draw did not use prefetched pool")
		}
	}
	if _, ok, _ := c.Get(ctx, key); ok {
		t.Error("prefetched pool should be consumed")
	}
}

func TestPrefetch_ScopedToSessionAndRequest(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name      string
		session   string
		requested int
		want      int
		fromCache bool
	}{
		{"same session and count", "s-1", 3, 3, true},
		{"same session, full request", "s-1", 0, 40, false},
		{"other session", "s-2", 3, 3, false},
		{"other session, full request", "s-2", 0, 40, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBank(t, makeQuestions(catalog.ModuleQuantitative, 40))
			c := cache.NewMemory()
			s := New(Config{Bank: b, Cache: c, Rand: seeded()})

			s.Prefetch(ctx, "s-1", catalog.ModuleQuantitative, catalog.TierPro, 3)
			s.Wait()
			key := cache.Key{Session: "s-1", Module: catalog.ModuleQuantitative, Tier: catalog.TierPro, Requested: 3}
			cached, ok, _ := c.Get(ctx, key)
			if !ok || len(cached) != 3 {
				t.Fatalf("cached pool = %d (ok=%v), want 3", len(cached), ok)
			}

			items, err := s.Draw(ctx, tt.session, catalog.ModuleQuantitative, catalog.TierPro, tt.requested)
			if err != nil {
				t.Fatalf("Draw: %v", err)
			}
			if len(items) != tt.want {
				t.Fatalf("len = %d, want %d", len(items), tt.want)
			}
			_, stillCached, _ := c.Get(ctx, key)
			if stillCached == tt.fromCache {
				t.Errorf("prefetched pool consumed = %v, want %v", !stillCached, tt.fromCache)
			}
		})
	}
}

func TestDraw_DiscardsOversizedCachedPool(t *testing.T) {
	ctx := context.Background()
	b := newBank(t, makeQuestions(catalog.ModuleReading, 30))
	c := cache.NewMemory()
	s := New(Config{Bank: b, Cache: c, Rand: seeded()})

	key := cache.Key{Session: "s-1", Module: catalog.ModuleReading, Tier: catalog.TierFree}
	if err := c.Put(ctx, key, makeQuestions(catalog.ModuleReading, 25), 0); err != nil {
		t.Fatalf("Put: %v", err)
	}
	items, err := s.Draw(ctx, "s-1", catalog.ModuleReading, catalog.TierFree, 0)
	if err != nil {
		t.Fatalf("Draw: %v", err)
	}
	if len(items) != 10 {
		t.Errorf("len = %d, want free tier cap 10", len(items))
	}
}

func TestPrefetch_FailureSwallowed(t *testing.T) {
	b := newBank(t)
	c := cache.NewMemory()
	s := New(Config{Bank: b, Cache: c, Rand: seeded()})

	s.Prefetch(context.Background(), "s-1", catalog.ModuleWriting, catalog.TierPro, 0)
	s.Wait()
	if c.Len() != 0 {
		t.Errorf("cache len = %d, want 0", c.Len())
	}
}

func TestFromAssignment(t *testing.T) {
	b := newBank(t)
	qs := makeQuestions(catalog.ModuleLanguageB, 4)
	qs[0], qs[3] = qs[3], qs[0]
	b.PutAssignment(bank.Assignment{ID: "hw", Questions: qs, RequiresTier: catalog.TierAssigned})
	s := New(Config{Bank: b, Assignments: b})
	ctx := context.Background()

	a, err := s.FromAssignment(ctx, "hw", catalog.TierAssigned)
	if err != nil {
		t.Fatalf("FromAssignment: %v", err)
	}
	for i := range qs {
		if a.Questions[i].ID != qs[i].ID {
			t.Errorf("item %d = %s, want %s (author order)", i, a.Questions[i].ID, qs[i].ID)
		}
	}

	if _, err := s.FromAssignment(ctx, "hw", catalog.TierFree); !errors.Is(err, catalog.ErrNotEntitled) {
		t.Errorf("free tier err = %v, want ErrNotEntitled", err)
	}
	if _, err := s.FromAssignment(ctx, "nope", catalog.TierPro); !errors.Is(err, bank.ErrAssignmentNotFound) {
		t.Errorf("missing err = %v, want ErrAssignmentNotFound", err)
	}
}
