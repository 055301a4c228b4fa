package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// Reply is a canned Mock result.
type Reply struct {
	JSON json.RawMessage
	Err  error
}

// Mock replays canned replies in order and records prompts.
type Mock struct {
	mu      sync.Mutex
	replies []Reply
	prompts []Prompt
}

// NewMock returns a Mock with queued replies.
func NewMock(replies ...Reply) *Mock {
	return &Mock{replies: replies}
}

func (m *Mock) Model() string { return "mock" }

// Complete returns the next reply, or an unavailable error once the queue
// is empty. Schemas are enforced as a real provider would.
func (m *Mock) Complete(_ context.Context, p Prompt) (*Completion, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, p)
	if len(m.replies) == 0 {
		m.mu.Unlock()
		return nil, &Error{Kind: KindUnavailable}
	}
	r := m.replies[0]
	m.replies = m.replies[1:]
	m.mu.Unlock()

	if r.Err != nil {
		return nil, r.Err
	}
	return checked(p, &Completion{JSON: r.JSON, Model: "mock", InputTokens: 10, OutputTokens: len(r.JSON) / 4})
}

// Queue appends replies.
func (m *Mock) Queue(replies ...Reply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, replies...)
}

// Prompts returns every prompt received so far.
func (m *Mock) Prompts() []Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Prompt(nil), m.prompts...)
}
