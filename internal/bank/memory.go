package bank

import (
	"context"
	"fmt"
	"sync"

	"github.com/abhisek/prepdeck/internal/catalog"
)

// MemoryBank is an in-process Bank and AssignmentSource.
type MemoryBank struct {
	mu          sync.RWMutex
	questions   []Question
	byID        map[string]int
	assignments map[string]Assignment
}

// NewMemoryBank builds a bank from qs. Questions failing validation or
// repeating an earlier ID are rejected.
func NewMemoryBank(qs ...Question) (*MemoryBank, error) {
	b := &MemoryBank{
		byID:        make(map[string]int, len(qs)),
		assignments: make(map[string]Assignment),
	}
	for _, q := range qs {
		if err := b.Add(q); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// Add inserts a question.
func (b *MemoryBank) Add(q Question) error {
	if err := q.Validate(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, dup := b.byID[q.ID]; dup {
		return fmt.Errorf("duplicate question id %q", q.ID)
	}
	b.byID[q.ID] = len(b.questions)
	b.questions = append(b.questions, q)
	return nil
}

// PutAssignment registers an assignment.
func (b *MemoryBank) PutAssignment(a Assignment) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.assignments[a.ID] = a
}

func (b *MemoryBank) QueryByModule(_ context.Context, module catalog.ModuleID) ([]Question, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []Question
	for _, q := range b.questions {
		if q.ModuleID == module {
			out = append(out, q)
		}
	}
	return out, nil
}

func (b *MemoryBank) GetByID(_ context.Context, id string) (Question, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	i, ok := b.byID[id]
	if !ok {
		return Question{}, fmt.Errorf("%s: %w", id, ErrQuestionNotFound)
	}
	return b.questions[i], nil
}

func (b *MemoryBank) GetAssignment(_ context.Context, id string) (Assignment, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	a, ok := b.assignments[id]
	if !ok {
		return Assignment{}, fmt.Errorf("%s: %w", id, ErrAssignmentNotFound)
	}
	return a, nil
}

// Len returns the number of questions held.
func (b *MemoryBank) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.questions)
}
