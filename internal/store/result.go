package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/prepdeck/internal/catalog"
)

// Result is the immutable outcome of one module run.
type Result struct {
	ID             string           `json:"id"`
	UserID         string           `json:"user_id"`
	DisplayName    string           `json:"display_name"`
	ModuleID       catalog.ModuleID `json:"module_id"`
	SessionID      string           `json:"session_id"`
	Mode           catalog.Mode     `json:"mode"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	CompletedAt    time.Time        `json:"completed_at"`
	IsPartial      bool             `json:"is_partial"`
}

// Accuracy returns the score as a percentage of total questions.
func (r Result) Accuracy() float64 {
	if r.TotalQuestions == 0 {
		return 0
	}
	return float64(r.Score) / float64(r.TotalQuestions) * 100
}

// Validate checks the score bounds every stored result must satisfy.
func (r Result) Validate() error {
	if r.UserID == "" {
		return fmt.Errorf("result has no user id")
	}
	if r.SessionID == "" {
		return fmt.Errorf("result has no session id")
	}
	if r.TotalQuestions < 1 {
		return fmt.Errorf("result total questions %d < 1", r.TotalQuestions)
	}
	if r.Score < 0 || r.Score > r.TotalQuestions {
		return fmt.Errorf("result score %d outside 0..%d", r.Score, r.TotalQuestions)
	}
	return nil
}

// ResultRepo persists results. Records are append-only.
type ResultRepo interface {
	// Append stores r and returns its ID. Appending the same ID twice is a
	// no-op returning the existing ID.
	Append(ctx context.Context, r Result) (string, error)

	// ListByUser returns a user's results in the order they were written.
	ListByUser(ctx context.Context, userID string) ([]Result, error)

	// ListAll returns every result in write order.
	ListAll(ctx context.Context) ([]Result, error)
}

var resultColumnNames = []string{
	"id", "user_id", "display_name", "module_id", "session_id", "mode",
	"score", "total_questions", "completed_at", "is_partial",
}

type resultRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

func (r *resultRepo) Append(ctx context.Context, res Result) (string, error) {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if err := res.Validate(); err != nil {
		return "", err
	}
	if res.CompletedAt.IsZero() {
		res.CompletedAt = time.Now()
	}

	if ok, err := r.exists(ctx, res.ID); err != nil {
		return "", err
	} else if ok {
		return res.ID, nil
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return "", err
	}

	query, args := builder().
		Insert(resultsTable.Name).
		Columns(append([]string{"sequence"}, resultColumnNames...)...).
		Values(seqNum, res.ID, res.UserID, res.DisplayName, string(res.ModuleID), res.SessionID,
			string(res.Mode), res.Score, res.TotalQuestions, res.CompletedAt.UTC(), res.IsPartial).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert result: %w", err)
	}
	return res.ID, nil
}

func (r *resultRepo) exists(ctx context.Context, id string) (bool, error) {
	query, args := builder().
		Select("id").
		From(entsql.Table(resultsTable.Name)).
		Where(entsql.EQ("id", id)).
		Query()
	var got string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup result: %w", err)
	}
	return true, nil
}

func (r *resultRepo) ListByUser(ctx context.Context, userID string) ([]Result, error) {
	return r.list(ctx, entsql.EQ("user_id", userID))
}

func (r *resultRepo) ListAll(ctx context.Context) ([]Result, error) {
	return r.list(ctx, nil)
}

func (r *resultRepo) list(ctx context.Context, where *entsql.Predicate) ([]Result, error) {
	sel := builder().
		Select(resultColumnNames...).
		From(entsql.Table(resultsTable.Name)).
		OrderBy("sequence")
	if where != nil {
		sel = sel.Where(where)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []Result
	for rows.Next() {
		var (
			res          Result
			module, mode string
		)
		if err := rows.Scan(&res.ID, &res.UserID, &res.DisplayName, &module, &res.SessionID, &mode,
			&res.Score, &res.TotalQuestions, &res.CompletedAt, &res.IsPartial); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		res.ModuleID = catalog.ModuleID(module)
		res.Mode = catalog.Mode(mode)
		out = append(out, res)
	}
	return out, rows.Err()
}
