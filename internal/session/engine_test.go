package session

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/prepdeck/internal/bank"
	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/sampler"
	"github.com/abhisek/prepdeck/internal/store"
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
			Explanation:     "Because.",
			Difficulty:      2,
		}
	}
	return qs
}

// memoryResults records appends and fails the first failN of them.
type memoryResults struct {
	mu      sync.Mutex
	failN   int
	calls   int
	results []store.Result
}

func (m *memoryResults) Append(_ context.Context, r store.Result) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.calls <= m.failN {
		return "", errors.New("disk full")
	}
	for _, existing := range m.results {
		if existing.ID == r.ID {
			return r.ID, nil
		}
	}
	m.results = append(m.results, r)
	return r.ID, nil
}

func (m *memoryResults) stored() []store.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]store.Result(nil), m.results...)
}

type harness struct {
	bank    *bank.MemoryBank
	results *memoryResults
	clock   *fakeClock
	events  []Event
	mu      sync.Mutex
}

func newHarness(t *testing.T, pools ...[]bank.Question) *harness {
	t.Helper()
	var all []bank.Question
	for _, p := range pools {
		all = append(all, p...)
	}
	b, err := bank.NewMemoryBank(all...)
	require.NoError(t, err)
	return &harness{bank: b, results: &memoryResults{}, clock: newFakeClock()}
}

func (h *harness) engine(t *testing.T, sc SessionContext, req Request) (*Engine, error) {
	t.Helper()
	s := sampler.New(sampler.Config{
		Bank:        h.bank,
		Assignments: h.bank,
		Rand:        rand.New(rand.NewPCG(7, 11)),
	})
	e, err := New(Config{Sampler: s, Results: h.results, Clock: h.clock}, sc, req)
	if err != nil {
		return nil, err
	}
	e.AddListener(ListenerFunc(func(ev Event) {
		h.mu.Lock()
		h.events = append(h.events, ev)
		h.mu.Unlock()
	}))
	return e, nil
}

func (h *harness) count(kind EventKind) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, ev := range h.events {
		if ev.Kind == kind {
			n++
		}
	}
	return n
}

func freeUser() SessionContext {
	return SessionContext{UserID: "u-free", DisplayName: "Free", Tier: catalog.TierFree}
}

func proUser() SessionContext {
	return SessionContext{UserID: "u-pro", DisplayName: "Pro", Tier: catalog.TierPro}
}

func practice(m catalog.ModuleID) Request {
	return Request{Mode: catalog.ModePractice, Module: m}
}

// answerAll answers every remaining question of the current module,
// correctly for the first `correct` of them.
func answerAll(t *testing.T, e *Engine, correct int) {
	t.Helper()
	for i, q := range e.Items()[e.Snapshot().CurrentIndex:] {
		opt := "b"
		if i < correct {
			opt = q.CorrectOptionID
		}
		_, err := e.Answer(opt)
		require.NoError(t, err)
		require.NoError(t, e.Next(context.Background()))
	}
}

func TestEngine_PracticeRunsToCompletion(t *testing.T) {
	h := newHarness(t, makeQuestions(catalog.ModuleQuantitative, 10))
	e, err := h.engine(t, freeUser(), practice(catalog.ModuleQuantitative))
	require.NoError(t, err)
	ctx := context.Background()

	assert.Equal(t, PhaseNotStarted, e.Snapshot().Phase)
	require.NoError(t, e.Load(ctx))

	snap := e.Snapshot()
	assert.Equal(t, PhaseIntro, snap.Phase)
	assert.Equal(t, 10, snap.Items)
	assert.Equal(t, 1200*time.Second, snap.TimeLimit)

	require.NoError(t, e.Start())
	assert.Equal(t, PhaseActive, e.Snapshot().Phase)

	answerAll(t, e, 7)

	snap = e.Snapshot()
	assert.Equal(t, PhaseCompleted, snap.Phase)
	assert.Equal(t, 7, snap.Score)
	assert.True(t, snap.Upsell, "free practice completion shows the upsell")
	assert.Nil(t, snap.Current)

	stored := h.results.stored()
	require.Len(t, stored, 1)
	r := stored[0]
	assert.Equal(t, "u-free", r.UserID)
	assert.Equal(t, "Free", r.DisplayName)
	assert.Equal(t, e.ID(), r.SessionID)
	assert.Equal(t, catalog.ModuleQuantitative, r.ModuleID)
	assert.Equal(t, 7, r.Score)
	assert.Equal(t, 10, r.TotalQuestions)
	assert.False(t, r.IsPartial)
	assert.Equal(t, 1, h.count(EventIntro))
	assert.Equal(t, 1, h.count(EventComplete))
}

func TestEngine_ProPracticeNoUpsell(t *testing.T) {
	h := newHarness(t, makeQuestions(catalog.ModuleReading, 4))
	e, err := h.engine(t, proUser(), practice(catalog.ModuleReading))
	require.NoError(t, err)
	require.NoError(t, e.Load(context.Background()))
	require.NoError(t, e.Start())
	answerAll(t, e, 4)

	snap := e.Snapshot()
	assert.Equal(t, PhaseCompleted, snap.Phase)
	assert.False(t, snap.Upsell)
}

func TestEngine_TierCapsItemCount(t *testing.T) {
	tests := []struct {
		name string
		sc   SessionContext
		pool int
		want int
	}{
		{"free small pool", freeUser(), 3, 3},
		{"free large pool", freeUser(), 40, 10},
		{"pro large pool", proUser(), 60, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, makeQuestions(catalog.ModuleCitizenship, tt.pool))
			e, err := h.engine(t, tt.sc, practice(catalog.ModuleCitizenship))
			require.NoError(t, err)
			require.NoError(t, e.Load(context.Background()))

			snap := e.Snapshot()
			assert.Equal(t, tt.want, snap.Items)
			assert.Equal(t, time.Duration(tt.want*120)*time.Second, snap.TimeLimit)

			seen := map[string]bool{}
			for _, q := range e.Items() {
				assert.False(t, seen[q.ID], "duplicate %s", q.ID)
				seen[q.ID] = true
			}
		})
	}
}

func TestEngine_EmptyPool(t *testing.T) {
	h := newHarness(t, makeQuestions(catalog.ModuleQuantitative, 5))
	e, err := h.engine(t, freeUser(), practice(catalog.ModuleWriting))
	require.NoError(t, err)

	err = e.Load(context.Background())
	assert.ErrorIs(t, err, ErrPoolExhausted)
	assert.Equal(t, PhaseNotStarted, e.Snapshot().Phase)
	assert.Equal(t, 1, h.count(EventError))
}

func TestEngine_FirstAnswerWins(t *testing.T) {
	h := newHarness(t, makeQuestions(catalog.ModuleQuantitative, 2))
	e, err := h.engine(t, freeUser(), practice(catalog.ModuleQuantitative))
	require.NoError(t, err)
	require.NoError(t, e.Load(context.Background()))
	require.NoError(t, e.Start())

	fb, err := e.Answer("b")
	require.NoError(t, err)
	assert.False(t, fb.Correct)
	assert.Equal(t, "a", fb.CorrectOptionID)
	assert.Equal(t, "Because.", fb.Explanation)

	again, err := e.Answer("a")
	require.NoError(t, err)
	assert.Equal(t, fb, again)

	snap := e.Snapshot()
	assert.Equal(t, PhaseFeedback, snap.Phase)
	assert.Equal(t, 0, snap.Score)
	assert.Len(t, snap.Answers, 1)
}

func TestEngine_UnknownOption(t *testing.T) {
	h := newHarness(t, makeQuestions(catalog.ModuleQuantitative, 2))
	e, err := h.engine(t, freeUser(), practice(catalog.ModuleQuantitative))
	require.NoError(t, err)
	require.NoError(t, e.Load(context.Background()))
	require.NoError(t, e.Start())

	_, err = e.Answer("z")
	assert.ErrorIs(t, err, ErrUnknownOption)
	assert.Equal(t, PhaseActive, e.Snapshot().Phase)
}

func TestEngine_InvalidTransitions(t *testing.T) {
	h := newHarness(t, makeQuestions(catalog.ModuleQuantitative, 2))
	e, err := h.engine(t, freeUser(), practice(catalog.ModuleQuantitative))
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, e.Start(), ErrInvalidTransition)
	_, err = e.Answer("a")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	require.NoError(t, e.Load(ctx))
	assert.ErrorIs(t, e.Load(ctx), ErrInvalidTransition)
	assert.ErrorIs(t, e.Next(ctx), ErrInvalidTransition)

	require.NoError(t, e.Start())
	assert.ErrorIs(t, e.Next(ctx), ErrInvalidTransition, "next needs an answer first")
}

func TestEngine_ExitMidModuleWritesOnePartial(t *testing.T) {
	h := newHarness(t, makeQuestions(catalog.ModuleQuantitative, 10))
	e, err := h.engine(t, freeUser(), practice(catalog.ModuleQuantitative))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, e.Load(ctx))
	require.NoError(t, e.Start())

	items := e.Items()
	for i, opt := range []string{items[0].CorrectOptionID, "b", items[2].CorrectOptionID} {
		_, err := e.Answer(opt)
		require.NoError(t, err, "answer %d", i)
		require.NoError(t, e.Next(ctx))
	}

	require.NoError(t, e.Exit(ctx))
	require.NoError(t, e.Exit(ctx), "exit is a no-op once terminal")

	snap := e.Snapshot()
	assert.Equal(t, PhasePartial, snap.Phase)
	assert.Equal(t, "partial", snap.Phase.Status())
	assert.False(t, snap.Upsell)

	stored := h.results.stored()
	require.Len(t, stored, 1)
	assert.True(t, stored[0].IsPartial)
	assert.Equal(t, 10, stored[0].TotalQuestions)
	assert.Equal(t, 2, stored[0].Score)
}

func TestEngine_ExitDuringFeedback(t *testing.T) {
	h := newHarness(t, makeQuestions(catalog.ModuleQuantitative, 3))
	e, err := h.engine(t, freeUser(), practice(catalog.ModuleQuantitative))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, e.Load(ctx))
	require.NoError(t, e.Start())

	_, err = e.Answer("a")
	require.NoError(t, err)
	require.NoError(t, e.Exit(ctx))

	stored := h.results.stored()
	require.Len(t, stored, 1)
	assert.True(t, stored[0].IsPartial)
	assert.Equal(t, 1, stored[0].Score)
}

func TestEngine_ExitBeforeStartAbandons(t *testing.T) {
	h := newHarness(t, makeQuestions(catalog.ModuleQuantitative, 3))
	e, err := h.engine(t, freeUser(), practice(catalog.ModuleQuantitative))
	require.NoError(t, err)
	require.NoError(t, e.Load(context.Background()))

	require.NoError(t, e.Exit(context.Background()))
	assert.Equal(t, PhaseAbandoned, e.Snapshot().Phase)
	assert.Empty(t, h.results.stored())
}

func TestEngine_ExpirySubmitsModule(t *testing.T) {
	h := newHarness(t, makeQuestions(catalog.ModuleQuantitative, 2))
	e, err := h.engine(t, freeUser(), practice(catalog.ModuleQuantitative))
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, e.Load(ctx))
	require.NoError(t, e.Start())

	_, err = e.Answer(e.Items()[0].CorrectOptionID)
	require.NoError(t, err)
	require.NoError(t, e.Next(ctx))

	h.clock.Advance(239 * time.Second)
	assert.Equal(t, time.Second, e.Tick())
	assert.Equal(t, PhaseActive, e.Snapshot().Phase)

	h.clock.Advance(time.Second)
	assert.Equal(t, time.Duration(0), e.Tick())
	e.Tick()

	snap := e.Snapshot()
	assert.Equal(t, PhaseCompleted, snap.Phase)
	assert.True(t, snap.Expired)
	assert.Equal(t, time.Duration(0), snap.Remaining)

	stored := h.results.stored()
	require.Len(t, stored, 1)
	assert.False(t, stored[0].IsPartial, "expiry is a submission, not an exit")
	assert.Equal(t, 1, stored[0].Score)
	assert.Equal(t, 2, stored[0].TotalQuestions)
	assert.Equal(t, 1, h.count(EventExpire))

	_, err = e.Answer("a")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestEngine_AnswerAfterDeadlineIsRejected(t *testing.T) {
	h := newHarness(t, makeQuestions(catalog.ModuleQuantitative, 1))
	e, err := h.engine(t, freeUser(), practice(catalog.ModuleQuantitative))
	require.NoError(t, err)
	require.NoError(t, e.Load(context.Background()))
	require.NoError(t, e.Start())

	h.clock.Advance(10 * time.Minute)
	_, err = e.Answer("a")
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 0, h.results.stored()[0].Score)
}

func TestEngine_ResumeReportsDrift(t *testing.T) {
	h := newHarness(t, makeQuestions(catalog.ModuleQuantitative, 5))
	e, err := h.engine(t, freeUser(), practice(catalog.ModuleQuantitative))
	require.NoError(t, err)
	require.NoError(t, e.Load(context.Background()))
	require.NoError(t, e.Start())

	h.clock.Suspend(100 * time.Second)
	err = e.Resume()
	var drift *ClockDriftError
	require.True(t, errors.As(err, &drift))
	assert.Equal(t, 500*time.Second, e.Snapshot().Remaining)
	assert.Equal(t, PhaseActive, e.Snapshot().Phase)
	assert.Equal(t, 1, h.count(EventError))
}

func TestEngine_FullSimulationChainsAllModules(t *testing.T) {
	var pools [][]bank.Question
	for _, m := range catalog.Order() {
		pools = append(pools, makeQuestions(m, 10))
	}
	h := newHarness(t, pools...)
	e, err := h.engine(t, proUser(), Request{Mode: catalog.ModeFullSimulation})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, e.Load(ctx))
	for i, m := range catalog.Order() {
		snap := e.Snapshot()
		require.Equal(t, PhaseIntro, snap.Phase, "module %d", i)
		assert.Equal(t, m, snap.Module)
		assert.Equal(t, i+1, snap.ModuleNumber)
		assert.Equal(t, 5, snap.ModuleCount)
		require.NoError(t, e.Start())
		answerAll(t, e, 5)
	}

	snap := e.Snapshot()
	assert.Equal(t, PhaseCompleted, snap.Phase)
	assert.False(t, snap.Upsell)
	assert.Len(t, snap.Results, 5)

	stored := h.results.stored()
	require.Len(t, stored, 5)
	for i, r := range stored {
		assert.Equal(t, e.ID(), r.SessionID)
		assert.Equal(t, catalog.Order()[i], r.ModuleID)
		assert.Equal(t, catalog.ModeFullSimulation, r.Mode)
		assert.Equal(t, 5, r.Score)
	}

	sum := BuildSummary(snap, h.clock.Now())
	assert.Equal(t, 50, sum.TotalQuestions)
	assert.Equal(t, 25, sum.TotalCorrect)
	assert.InDelta(t, 50.0, sum.Accuracy, 0.001)
	assert.Len(t, sum.Modules, 5)
}

func TestEngine_FullSimulationSkipsEmptyModule(t *testing.T) {
	var pools [][]bank.Question
	for _, m := range catalog.Order() {
		if m == catalog.ModuleReading {
			continue
		}
		pools = append(pools, makeQuestions(m, 2))
	}
	h := newHarness(t, pools...)
	e, err := h.engine(t, proUser(), Request{Mode: catalog.ModeFullSimulation})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, e.Load(ctx))
	for e.Snapshot().Phase == PhaseIntro {
		require.NoError(t, e.Start())
		answerAll(t, e, 2)
	}

	assert.Equal(t, PhaseCompleted, e.Snapshot().Phase)
	stored := h.results.stored()
	require.Len(t, stored, 4)
	for _, r := range stored {
		assert.NotEqual(t, catalog.ModuleReading, r.ModuleID)
	}
	assert.Equal(t, 1, h.count(EventError))
}

func TestEngine_FullSimulationRequiresPro(t *testing.T) {
	h := newHarness(t, makeQuestions(catalog.ModuleQuantitative, 2))
	_, err := h.engine(t, freeUser(), Request{Mode: catalog.ModeFullSimulation})
	assert.ErrorIs(t, err, ErrNotEntitled)
}

func TestEngine_ExitDuringFullSimulationKeepsEarlierModules(t *testing.T) {
	var pools [][]bank.Question
	for _, m := range catalog.Order() {
		pools = append(pools, makeQuestions(m, 3))
	}
	h := newHarness(t, pools...)
	e, err := h.engine(t, proUser(), Request{Mode: catalog.ModeFullSimulation})
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, e.Load(ctx))
	require.NoError(t, e.Start())
	answerAll(t, e, 3)
	require.NoError(t, e.Start())
	_, err = e.Answer("a")
	require.NoError(t, err)
	require.NoError(t, e.Exit(ctx))

	stored := h.results.stored()
	require.Len(t, stored, 2)
	assert.False(t, stored[0].IsPartial)
	assert.True(t, stored[1].IsPartial)
	assert.Equal(t, catalog.Order()[1], stored[1].ModuleID)
	assert.Equal(t, PhasePartial, e.Snapshot().Phase)
}

func TestEngine_PersistenceRetry(t *testing.T) {
	h := newHarness(t, makeQuestions(catalog.ModuleQuantitative, 1))
	h.results.failN = 1
	e, err := h.engine(t, freeUser(), practice(catalog.ModuleQuantitative))
	require.NoError(t, err)
	require.NoError(t, e.Load(context.Background()))
	require.NoError(t, e.Start())
	answerAll(t, e, 1)

	snap := e.Snapshot()
	assert.Equal(t, PhaseCompleted, snap.Phase)
	assert.NoError(t, snap.Err)
	assert.Equal(t, 2, h.results.calls)
	assert.Len(t, h.results.stored(), 1)
}

func TestEngine_PersistenceFailureKeepsScoreAndAdvances(t *testing.T) {
	tests := []struct {
		name       string
		failN      int
		wantStored int
		wantCalls  int
		wantErrors int
	}{
		{"first module write and retry fail", 2, 4, 6, 1},
		{"every write fails", 100, 0, 10, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pools [][]bank.Question
			for _, m := range catalog.Order() {
				pools = append(pools, makeQuestions(m, 1))
			}
			h := newHarness(t, pools...)
			h.results.failN = tt.failN
			e, err := h.engine(t, proUser(), Request{Mode: catalog.ModeFullSimulation})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			ctx := context.Background()
			if err := e.Load(ctx); err != nil {
				t.Fatalf("Load: %v", err)
			}

			modules := len(catalog.Order())
			for i := 1; i <= modules; i++ {
				if err := e.Start(); err != nil {
					t.Fatalf("module %d Start: %v", i, err)
				}
				if _, err := e.Answer("a"); err != nil {
					t.Fatalf("module %d Answer: %v", i, err)
				}
				err := e.Next(ctx)
				if i == 1 {
					var perr *PersistenceError
					if !errors.As(err, &perr) {
						t.Fatalf("module 1 Next err = %v, want PersistenceError", err)
					}
					if perr.Result.Score != 1 {
						t.Errorf("failed result score = %d, want 1", perr.Result.Score)
					}
				}

				snap := e.Snapshot()
				if i < modules {
					if snap.Phase != PhaseIntro || snap.ModuleNumber != i+1 {
						t.Fatalf("after module %d: phase=%v module=%d/%d, want intro of module %d",
							i, snap.Phase, snap.ModuleNumber, snap.ModuleCount, i+1)
					}
				}
				if snap.Err == nil {
					t.Errorf("after module %d: snapshot should keep the write warning", i)
				}
			}

			snap := e.Snapshot()
			if snap.Phase != PhaseCompleted {
				t.Errorf("final phase = %v, want completed", snap.Phase)
			}
			if len(snap.Results) != modules {
				t.Errorf("kept results = %d, want %d", len(snap.Results), modules)
			}
			for _, r := range snap.Results {
				if r.Score != 1 {
					t.Errorf("%s score = %d, want 1", r.ModuleID, r.Score)
				}
			}
			if got := len(h.results.stored()); got != tt.wantStored {
				t.Errorf("stored = %d, want %d", got, tt.wantStored)
			}
			if h.results.calls != tt.wantCalls {
				t.Errorf("write attempts = %d, want %d", h.results.calls, tt.wantCalls)
			}
			if got := h.count(EventError); got != tt.wantErrors {
				t.Errorf("error events = %d, want %d", got, tt.wantErrors)
			}
		})
	}
}

func TestEngine_AssignedMode(t *testing.T) {
	qs := makeQuestions(catalog.ModuleWriting, 3)
	ctx := context.Background()

	newAssigned := func(t *testing.T, requires catalog.Tier) *harness {
		h := newHarness(t, qs)
		h.bank.PutAssignment(bank.Assignment{
			ID:           "hw-1",
			Title:        "Homework",
			ModuleID:     catalog.ModuleWriting,
			Questions:    []bank.Question{qs[2], qs[0], qs[1]},
			RequiresTier: requires,
		})
		return h
	}
	assigned := SessionContext{UserID: "u-a", Tier: catalog.TierAssigned}
	req := Request{Mode: catalog.ModeAssigned, AssignmentID: "hw-1"}

	t.Run("delivers questions in author order", func(t *testing.T) {
		h := newAssigned(t, catalog.TierAssigned)
		e, err := h.engine(t, assigned, req)
		require.NoError(t, err)
		require.NoError(t, e.Load(ctx))

		items := e.Items()
		require.Len(t, items, 3)
		assert.Equal(t, []string{qs[2].ID, qs[0].ID, qs[1].ID}, []string{items[0].ID, items[1].ID, items[2].ID})
		assert.Equal(t, catalog.ModuleWriting, e.Snapshot().Module)

		require.NoError(t, e.Start())
		answerAll(t, e, 3)
		stored := h.results.stored()
		require.Len(t, stored, 1)
		assert.Equal(t, catalog.ModeAssigned, stored[0].Mode)
		assert.Equal(t, catalog.ModuleWriting, stored[0].ModuleID)
	})

	t.Run("free tier cannot start", func(t *testing.T) {
		h := newAssigned(t, catalog.TierAssigned)
		_, err := h.engine(t, freeUser(), req)
		assert.ErrorIs(t, err, ErrNotEntitled)
	})

	t.Run("assignment requiring pro", func(t *testing.T) {
		h := newAssigned(t, catalog.TierPro)
		e, err := h.engine(t, assigned, req)
		require.NoError(t, err)
		assert.ErrorIs(t, e.Load(ctx), ErrNotEntitled)
	})

	t.Run("unknown assignment", func(t *testing.T) {
		h := newAssigned(t, catalog.TierAssigned)
		e, err := h.engine(t, assigned, Request{Mode: catalog.ModeAssigned, AssignmentID: "nope"})
		require.NoError(t, err)
		assert.ErrorIs(t, e.Load(ctx), ErrAssignmentNotFound)
	})
}

func TestEngine_NewRejectsBadRequests(t *testing.T) {
	h := newHarness(t, makeQuestions(catalog.ModuleQuantitative, 1))

	_, err := h.engine(t, freeUser(), practice("astrology"))
	assert.Error(t, err)

	_, err = h.engine(t, proUser(), Request{Mode: catalog.ModeAssigned})
	assert.Error(t, err)
}

func TestBuildSummary_Empty(t *testing.T) {
	sum := BuildSummary(Snapshot{Phase: PhaseAbandoned}, time.Now())
	assert.Equal(t, 0, sum.TotalQuestions)
	assert.Equal(t, 0.0, sum.Accuracy)
	assert.Empty(t, sum.Modules)
}
