package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/prepdeck/internal/bank"
	"github.com/abhisek/prepdeck/internal/catalog"
)

// AssignmentRecord is an assignment as stored: question IDs in author order.
type AssignmentRecord struct {
	ID           string
	Title        string
	ModuleID     catalog.ModuleID
	QuestionIDs  []string
	DueDate      time.Time
	RequiresTier catalog.Tier
}

// AssignmentRepo stores assignments. It satisfies bank.AssignmentSource.
type AssignmentRepo struct {
	db        *sql.DB
	questions *QuestionRepo
}

// Create stores a new assignment after checking every question exists.
func (r *AssignmentRepo) Create(ctx context.Context, a AssignmentRecord) error {
	if a.ID == "" {
		return fmt.Errorf("assignment has empty id")
	}
	if len(a.QuestionIDs) == 0 {
		return fmt.Errorf("assignment %s has no questions", a.ID)
	}
	seen := make(map[string]bool, len(a.QuestionIDs))
	for _, id := range a.QuestionIDs {
		if seen[id] {
			return fmt.Errorf("assignment %s lists question %s twice", a.ID, id)
		}
		seen[id] = true
	}
	if _, err := r.questions.GetMany(ctx, a.QuestionIDs); err != nil {
		return fmt.Errorf("assignment %s: %w", a.ID, err)
	}

	ids, err := json.Marshal(a.QuestionIDs)
	if err != nil {
		return fmt.Errorf("encode question ids: %w", err)
	}
	var due any
	if !a.DueDate.IsZero() {
		due = a.DueDate.UTC()
	}
	query, args := builder().
		Insert(assignmentsTable.Name).
		Columns("id", "title", "module_id", "question_ids", "due_date", "requires_tier", "created_at").
		Values(a.ID, a.Title, string(a.ModuleID), string(ids), due, string(a.RequiresTier), time.Now().UTC()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

// GetAssignment loads an assignment and resolves its questions in order.
func (r *AssignmentRepo) GetAssignment(ctx context.Context, id string) (bank.Assignment, error) {
	query, args := builder().
		Select("id", "title", "module_id", "question_ids", "due_date", "requires_tier").
		From(entsql.Table(assignmentsTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()

	var (
		rec          AssignmentRecord
		module, tier string
		ids          string
		due          sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&rec.ID, &rec.Title, &module, &ids, &due, &tier)
	if errors.Is(err, sql.ErrNoRows) {
		return bank.Assignment{}, fmt.Errorf("%s: %w", id, bank.ErrAssignmentNotFound)
	}
	if err != nil {
		return bank.Assignment{}, fmt.Errorf("query assignment: %w", err)
	}
	if err := json.Unmarshal([]byte(ids), &rec.QuestionIDs); err != nil {
		return bank.Assignment{}, fmt.Errorf("decode question ids: %w", err)
	}

	qs, err := r.questions.GetMany(ctx, rec.QuestionIDs)
	if err != nil {
		return bank.Assignment{}, fmt.Errorf("assignment %s: %w", id, err)
	}

	a := bank.Assignment{
		ID:           rec.ID,
		Title:        rec.Title,
		ModuleID:     catalog.ModuleID(module),
		Questions:    qs,
		RequiresTier: catalog.Tier(tier),
	}
	if due.Valid {
		a.DueDate = due.Time
	}
	if a.ModuleID == "" && len(qs) > 0 {
		a.ModuleID = qs[0].ModuleID
	}
	return a, nil
}
