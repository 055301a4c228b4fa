package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/prepdeck/internal/bank"
	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/logger"
	"github.com/abhisek/prepdeck/internal/sampler"
	"github.com/abhisek/prepdeck/internal/store"
)

// ResultWriter is the slice of the result store the engine needs.
type ResultWriter interface {
	Append(ctx context.Context, r store.Result) (string, error)
}

// Config wires an Engine to its collaborators.
type Config struct {
	Sampler *sampler.Sampler
	Results ResultWriter
	Clock   Clock

	// PerItemSeconds overrides the module's per-question budget when > 0.
	PerItemSeconds int

	// TickInterval > 0 starts a background ticker once a module starts.
	// With zero the caller drives the clock through Tick.
	TickInterval time.Duration

	Logger *logger.Logger
	NewID  func() string
}

// Engine runs one session: a single module for practice and assigned
// work, or the whole catalog in order for a full simulation.
type Engine struct {
	cfg Config
	sc  SessionContext
	req Request
	log *logger.Logger

	mu        sync.Mutex
	listeners []Listener
	pending   []Event

	sessionID string
	phase     Phase
	modules   []catalog.ModuleID
	moduleIdx int
	module    catalog.ModuleID

	items    []bank.Question
	index    int
	answers  map[string]string
	score    int
	feedback *Feedback

	timer    *Timer
	timerGen int
	expired  bool

	results []store.Result
	upsell  bool
	err     error
}

// New validates the request against the caller's tier and returns an
// engine in PhaseNotStarted.
func New(cfg Config, sc SessionContext, req Request) (*Engine, error) {
	if cfg.Sampler == nil {
		return nil, fmt.Errorf("session: sampler is required")
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if err := catalog.CheckAccess(sc.Tier, req.Mode); err != nil {
		return nil, err
	}

	var modules []catalog.ModuleID
	switch req.Mode {
	case catalog.ModePractice:
		if !catalog.Valid(req.Module) {
			return nil, fmt.Errorf("practice needs a module: unknown module %q", req.Module)
		}
		modules = []catalog.ModuleID{req.Module}
	case catalog.ModeFullSimulation:
		order := catalog.Order()
		start := 0
		if req.Module != "" {
			start = catalog.Index(req.Module)
			if start < 0 {
				return nil, fmt.Errorf("unknown module %q", req.Module)
			}
		}
		modules = order[start:]
	case catalog.ModeAssigned:
		if req.AssignmentID == "" {
			return nil, fmt.Errorf("assigned mode needs an assignment id")
		}
		modules = []catalog.ModuleID{req.Module}
	}

	sessionID := cfg.NewID()
	return &Engine{
		cfg:       cfg,
		sc:        sc,
		req:       req,
		log:       cfg.Logger.With("session_id", sessionID, "user_id", sc.UserID),
		sessionID: sessionID,
		phase:     PhaseNotStarted,
		modules:   modules,
		module:    modules[0],
		answers:   make(map[string]string),
	}, nil
}

// ID returns the session ID shared by every Result this session writes.
func (e *Engine) ID() string {
	return e.sessionID
}

// Context returns the identity captured at creation.
func (e *Engine) Context() SessionContext {
	return e.sc
}

// AddListener registers l for subsequent events.
func (e *Engine) AddListener(l Listener) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.listeners = append(e.listeners, l)
}

// Load draws the current module's items and moves to PhaseIntro. On
// failure the engine stays in PhaseNotStarted.
func (e *Engine) Load(ctx context.Context) error {
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseNotStarted {
		return transitionError("load", e.phase)
	}
	return e.loadLocked(ctx)
}

func (e *Engine) loadLocked(ctx context.Context) error {
	var (
		items []bank.Question
		err   error
	)
	if e.req.Mode == catalog.ModeAssigned {
		var a bank.Assignment
		a, err = e.cfg.Sampler.FromAssignment(ctx, e.req.AssignmentID, e.sc.Tier)
		if err == nil {
			items = a.Questions
			e.module = a.ModuleID
			e.modules[e.moduleIdx] = a.ModuleID
		}
	} else {
		items, err = e.cfg.Sampler.Draw(ctx, e.sessionID, e.module, e.sc.Tier, e.req.Requested)
	}
	if err != nil {
		e.log.Warn("load failed", "module", e.module, "error", err)
		e.queue(Event{Kind: EventError, Err: err})
		return err
	}

	e.items = items
	e.index = 0
	e.answers = make(map[string]string, len(items))
	e.score = 0
	e.feedback = nil
	e.expired = false
	e.timer = nil
	e.phase = PhaseIntro
	e.queue(Event{Kind: EventIntro})

	if next, ok := e.nextModule(); ok {
		e.cfg.Sampler.Prefetch(context.WithoutCancel(ctx), e.sessionID, next, e.sc.Tier, e.req.Requested)
	}
	return nil
}

func (e *Engine) nextModule() (catalog.ModuleID, bool) {
	if e.moduleIdx+1 < len(e.modules) {
		return e.modules[e.moduleIdx+1], true
	}
	return "", false
}

// Start begins the current module and its clock.
func (e *Engine) Start() error {
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseIntro {
		return transitionError("start", e.phase)
	}

	limit := time.Duration(DeriveTimeLimit(len(e.items), e.perItemSeconds())) * time.Second
	e.timerGen++
	gen := e.timerGen
	e.timer = NewTimer(e.cfg.Clock, limit,
		func(remaining time.Duration) { e.handleTick(gen, remaining) },
		func() { e.handleExpire(gen) },
	)
	if e.cfg.TickInterval > 0 {
		e.timer.Run(e.cfg.TickInterval)
	}
	e.phase = PhaseActive
	e.queue(Event{Kind: EventAdvance})
	e.log.Debug("module started", "module", e.module, "items", len(e.items), "limit", limit)
	return nil
}

func (e *Engine) perItemSeconds() int {
	if e.cfg.PerItemSeconds > 0 {
		return e.cfg.PerItemSeconds
	}
	if m, err := catalog.Get(e.module); err == nil {
		return m.PerItemSeconds
	}
	return catalog.DefaultPerItemSeconds
}

// Answer records the first answer to the current question and reveals
// the outcome. Selecting again while feedback is shown changes nothing.
func (e *Engine) Answer(optionID string) (Feedback, error) {
	e.Tick()
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.phase {
	case PhaseFeedback:
		return *e.feedback, nil
	case PhaseActive:
	default:
		return Feedback{}, transitionError("answer", e.phase)
	}

	q := e.items[e.index]
	if _, ok := q.Option(optionID); !ok {
		return Feedback{}, fmt.Errorf("%w: %q", ErrUnknownOption, optionID)
	}
	correct := q.IsCorrect(optionID)
	e.answers[q.ID] = optionID
	if correct {
		e.score++
	}
	e.feedback = &Feedback{
		QuestionID:      q.ID,
		SelectedID:      optionID,
		Correct:         correct,
		CorrectOptionID: q.CorrectOptionID,
		Explanation:     q.Explanation,
	}
	e.phase = PhaseFeedback
	return *e.feedback, nil
}

// Next leaves feedback for the following question, or finishes the module
// after the last one.
func (e *Engine) Next(ctx context.Context) error {
	e.Tick()
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.phase != PhaseFeedback {
		return transitionError("next", e.phase)
	}
	e.feedback = nil
	e.index++
	if e.index >= len(e.items) {
		return e.finishModuleLocked(ctx, false)
	}
	e.phase = PhaseActive
	e.queue(Event{Kind: EventAdvance})
	return nil
}

// Exit ends the session early. Mid-module this writes a partial Result;
// before a module starts the session is abandoned without one. Exiting a
// finished session is a no-op.
func (e *Engine) Exit(ctx context.Context) error {
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.phase {
	case PhaseActive, PhaseFeedback:
		return e.finishModuleLocked(ctx, true)
	case PhaseNotStarted, PhaseIntro:
		e.phase = PhaseAbandoned
		e.queue(Event{Kind: EventComplete})
		e.log.Info("session abandoned", "module", e.module)
	}
	return nil
}

// Tick polls the clock and returns the remaining time. Expiry detected
// here submits the module exactly as the background ticker would.
func (e *Engine) Tick() time.Duration {
	e.mu.Lock()
	t := e.timer
	running := e.phase == PhaseActive || e.phase == PhaseFeedback
	e.mu.Unlock()

	if t == nil || !running {
		return 0
	}
	return t.Poll()
}

// Resume re-evaluates the clock after the host was suspended or the
// process paused. A ClockDriftError is informational: the larger elapsed
// time has already been applied.
func (e *Engine) Resume() error {
	e.mu.Lock()
	t := e.timer
	running := e.phase == PhaseActive || e.phase == PhaseFeedback
	e.mu.Unlock()

	if t == nil || !running {
		return nil
	}
	err := t.Resume()
	var drift *ClockDriftError
	if errors.As(err, &drift) {
		e.log.Warn("clock drift on resume", "drift", drift.Drift)
		e.mu.Lock()
		e.queue(Event{Kind: EventError, Err: err})
		e.mu.Unlock()
		e.flush()
	}
	return err
}

// Close stops the clock without writing anything.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.timer != nil {
		e.timer.Stop()
	}
}

func (e *Engine) handleTick(gen int, remaining time.Duration) {
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.timerGen || (e.phase != PhaseActive && e.phase != PhaseFeedback) {
		return
	}
	e.queue(Event{Kind: EventTick, Remaining: remaining})
}

func (e *Engine) handleExpire(gen int) {
	defer e.flush()
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.timerGen || (e.phase != PhaseActive && e.phase != PhaseFeedback) {
		return
	}
	e.expired = true
	e.feedback = nil
	e.queue(Event{Kind: EventExpire})
	e.log.Info("module time expired", "module", e.module, "answered", len(e.answers), "items", len(e.items))
	_ = e.finishModuleLocked(context.Background(), false)
}

// finishModuleLocked writes the module's Result and moves to the next
// module or a terminal phase. Unanswered items count as incorrect.
func (e *Engine) finishModuleLocked(ctx context.Context, partial bool) error {
	if e.timer != nil {
		e.timer.Stop()
	}

	res := store.Result{
		ID:             e.cfg.NewID(),
		UserID:         e.sc.UserID,
		DisplayName:    e.sc.DisplayName,
		ModuleID:       e.module,
		SessionID:      e.sessionID,
		Mode:           e.req.Mode,
		Score:          e.score,
		TotalQuestions: len(e.items),
		CompletedAt:    e.cfg.Clock.Now(),
		IsPartial:      partial,
	}
	perr := e.persistLocked(ctx, res)
	e.results = append(e.results, res)
	e.log.Info("module finished", "module", res.ModuleID, "score", res.Score, "total", res.TotalQuestions, "partial", partial)

	if partial {
		e.phase = PhasePartial
		e.queue(Event{Kind: EventComplete, Module: res.ModuleID, Result: &res})
		return perr
	}

	// A failed write is a warning: the score is kept in e.results and the
	// simulation moves on.
	e.phase = PhaseCompleted
	e.queue(Event{Kind: EventComplete, Module: res.ModuleID, Result: &res})
	if err := e.advanceModuleLocked(ctx); err != nil {
		return err
	}
	if e.phase == PhaseCompleted && e.req.Mode == catalog.ModePractice && e.sc.Tier == catalog.TierFree {
		e.upsell = true
	}
	return perr
}

// advanceModuleLocked loads the next module of a full simulation. Modules
// with an empty pool are skipped. It leaves the phase at PhaseIntro when a
// module was loaded and at PhaseCompleted when none remain.
func (e *Engine) advanceModuleLocked(ctx context.Context) error {
	for {
		if _, ok := e.nextModule(); !ok {
			e.phase = PhaseCompleted
			return nil
		}
		e.moduleIdx++
		e.module = e.modules[e.moduleIdx]
		e.phase = PhaseNotStarted

		err := e.loadLocked(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrPoolExhausted) {
			e.log.Warn("skipping module with empty pool", "module", e.module)
			continue
		}
		e.phase = PhaseCompleted
		e.err = err
		return err
	}
}

func (e *Engine) persistLocked(ctx context.Context, res store.Result) error {
	if e.cfg.Results == nil {
		return nil
	}
	var err error
	for attempt := 1; attempt <= 2; attempt++ {
		if _, err = e.cfg.Results.Append(ctx, res); err == nil {
			return nil
		}
		e.log.Warn("result write failed", "attempt", attempt, "module", res.ModuleID, "error", err)
	}
	perr := &PersistenceError{Result: res, Err: err}
	e.err = perr
	e.queue(Event{Kind: EventError, Err: perr})
	return perr
}

// Snapshot returns a copy of the current state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	s := Snapshot{
		SessionID:    e.sessionID,
		UserID:       e.sc.UserID,
		Mode:         e.req.Mode,
		Phase:        e.phase,
		Module:       e.module,
		ModuleNumber: e.moduleIdx + 1,
		ModuleCount:  len(e.modules),
		Items:        len(e.items),
		CurrentIndex: e.index,
		Answers:      make(map[string]string, len(e.answers)),
		Score:        e.score,
		Expired:      e.expired,
		Results:      slices.Clone(e.results),
		Upsell:       e.upsell,
		Err:          e.err,
	}
	for k, v := range e.answers {
		s.Answers[k] = v
	}
	if e.index < len(e.items) && !e.phase.Terminal() {
		q := e.items[e.index]
		s.Current = &q
	}
	if e.feedback != nil {
		f := *e.feedback
		s.Feedback = &f
	}
	if m, err := catalog.Get(e.module); err == nil {
		s.IntroTimeLimit = time.Duration(m.DefaultTimeLimitSecs()) * time.Second
	}
	if len(e.items) > 0 {
		s.TimeLimit = time.Duration(DeriveTimeLimit(len(e.items), e.perItemSeconds())) * time.Second
	}
	if e.timer != nil {
		s.StartedAt = e.timer.StartedAt()
		s.Remaining = e.timer.Remaining()
		if e.phase.Terminal() {
			s.Remaining = 0
		}
	}
	return s
}

// Items returns the current module's questions in session order.
func (e *Engine) Items() []bank.Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.items)
}

// queue must be called with mu held.
func (e *Engine) queue(ev Event) {
	ev.SessionID = e.sessionID
	ev.UserID = e.sc.UserID
	if ev.Module == "" {
		ev.Module = e.module
	}
	ev.Phase = e.phase
	ev.Index = e.index
	ev.At = e.cfg.Clock.Now()
	if ev.Remaining == 0 && e.timer != nil && ev.Kind == EventTick {
		ev.Remaining = e.timer.Remaining()
	}
	e.pending = append(e.pending, ev)
}

func (e *Engine) flush() {
	e.mu.Lock()
	events := e.pending
	e.pending = nil
	listeners := slices.Clone(e.listeners)
	e.mu.Unlock()

	for _, ev := range events {
		for _, l := range listeners {
			l.OnEvent(ev)
		}
	}
}
