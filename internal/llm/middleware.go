package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/abhisek/prepdeck/internal/logger"
	"github.com/abhisek/prepdeck/internal/store"
)

// Recorder stores one row per provider call.
type Recorder interface {
	AppendLLMRequest(ctx context.Context, data store.LLMRequestEventData) error
}

type recording struct {
	next     Provider
	provider string
	rec      Recorder
	log      *logger.Logger
}

// WithRecorder logs every call made through p. Recording failures are
// logged and never fail the call.
func WithRecorder(p Provider, providerName string, rec Recorder, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &recording{next: p, provider: providerName, rec: rec, log: log}
}

func (r *recording) Model() string { return r.next.Model() }

func (r *recording) Complete(ctx context.Context, p Prompt) (*Completion, error) {
	start := time.Now()
	c, err := r.next.Complete(ctx, p)

	data := store.LLMRequestEventData{
		Provider:    r.provider,
		Model:       r.next.Model(),
		Purpose:     p.Purpose,
		LatencyMs:   time.Since(start).Milliseconds(),
		Success:     err == nil,
		RequestBody: transcript(p),
	}
	if c != nil {
		data.Model = c.Model
		data.InputTokens = c.InputTokens
		data.OutputTokens = c.OutputTokens
		data.ResponseBody = string(c.JSON)
	}
	if err != nil {
		data.ErrorMessage = err.Error()
		var e *Error
		if errors.As(err, &e) && len(e.Output) > 0 {
			data.ResponseBody = string(e.Output)
		}
	}
	if r.rec != nil {
		if recErr := r.rec.AppendLLMRequest(ctx, data); recErr != nil {
			r.log.Warn("record llm request", "error", recErr)
		}
	}
	r.log.Debug("llm call", "purpose", p.Purpose, "model", data.Model, "latency_ms", data.LatencyMs, "ok", data.Success)
	return c, err
}

func transcript(p Prompt) string {
	var b strings.Builder
	if p.System != "" {
		fmt.Fprintf(&b, "[system]\n%s\n\n", p.System)
	}
	fmt.Fprintf(&b, "[user]\n%s\n", p.User)
	if p.Schema != nil {
		if def, err := json.Marshal(p.Schema.Definition); err == nil {
			fmt.Fprintf(&b, "\n[schema %s]\n%s\n", p.Schema.Name, def)
		}
	}
	return b.String()
}

type retrying struct {
	next        Provider
	attempts    int
	initialWait time.Duration
	maxWait     time.Duration
}

// WithRetry retries rate limits and outages with jittered exponential
// backoff. Invalid output is retried once; truncation and context errors
// are returned immediately.
func WithRetry(p Provider, attempts int, initialWait, maxWait time.Duration) Provider {
	if attempts < 1 {
		attempts = 1
	}
	return &retrying{next: p, attempts: attempts, initialWait: initialWait, maxWait: maxWait}
}

func (r *retrying) Model() string { return r.next.Model() }

func (r *retrying) Complete(ctx context.Context, p Prompt) (*Completion, error) {
	var err error
	invalidSeen := false
	for attempt := 0; attempt < r.attempts; attempt++ {
		var c *Completion
		if c, err = r.next.Complete(ctx, p); err == nil {
			return c, nil
		}
		if !retryable(err, &invalidSeen) || attempt == r.attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(r.wait(attempt, err)):
		}
	}
	return nil, err
}

func retryable(err error, invalidSeen *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var e *Error
	if !errors.As(err, &e) {
		return true
	}
	switch e.Kind {
	case KindTruncated:
		return false
	case KindInvalidOutput:
		if *invalidSeen {
			return false
		}
		*invalidSeen = true
	}
	return true
}

func (r *retrying) wait(attempt int, err error) time.Duration {
	var e *Error
	if errors.As(err, &e) && e.RetryAfter > 0 {
		return e.RetryAfter
	}
	d := r.initialWait << attempt
	if d > r.maxWait || d <= 0 {
		d = r.maxWait
	}
	// ±20% jitter
	jitter := time.Duration((rand.Float64()*0.4 - 0.2) * float64(d))
	return d + jitter
}
