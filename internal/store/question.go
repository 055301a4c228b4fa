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

// Question sources recorded alongside each row.
const (
	SourceImport = "import"
	SourceDraft  = "draft"
)

// QuestionRepo is the SQLite-backed question bank. It satisfies bank.Bank.
type QuestionRepo struct {
	db *sql.DB
}

var questionColumnNames = []string{
	"id", "module_id", "prompt", "options", "correct_option_id", "explanation", "difficulty",
}

// InsertStats reports what an Insert call did.
type InsertStats struct {
	Inserted int
	Skipped  int // IDs already present
}

// Insert stores questions inside one transaction. Existing IDs are left
// untouched since questions are immutable once stored.
func (r *QuestionRepo) Insert(ctx context.Context, source string, qs []bank.Question) (InsertStats, error) {
	var stats InsertStats
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	for _, q := range qs {
		if err := q.Validate(); err != nil {
			return stats, err
		}
		opts, err := json.Marshal(q.Options)
		if err != nil {
			return stats, fmt.Errorf("encode options for %s: %w", q.ID, err)
		}
		query, args := builder().
			Insert(questionsTable.Name).
			Columns(append(questionColumnNames, "source", "created_at")...).
			Values(q.ID, string(q.ModuleID), q.Prompt, string(opts), q.CorrectOptionID, q.Explanation, q.Difficulty, source, now).
			OnConflict(entsql.DoNothing()).
			Query()
		res, err := tx.ExecContext(ctx, query, args...)
		if err != nil {
			return stats, fmt.Errorf("insert question %s: %w", q.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			stats.Skipped++
			continue
		}
		stats.Inserted++
	}
	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit: %w", err)
	}
	return stats, nil
}

func (r *QuestionRepo) QueryByModule(ctx context.Context, module catalog.ModuleID) ([]bank.Question, error) {
	return r.query(ctx, entsql.EQ("module_id", string(module)))
}

func (r *QuestionRepo) GetByID(ctx context.Context, id string) (bank.Question, error) {
	qs, err := r.query(ctx, entsql.EQ("id", id))
	if err != nil {
		return bank.Question{}, err
	}
	if len(qs) == 0 {
		return bank.Question{}, fmt.Errorf("%s: %w", id, bank.ErrQuestionNotFound)
	}
	return qs[0], nil
}

// GetMany returns questions in the order of ids.
func (r *QuestionRepo) GetMany(ctx context.Context, ids []string) ([]bank.Question, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	vals := make([]any, len(ids))
	for i, id := range ids {
		vals[i] = id
	}
	found, err := r.query(ctx, entsql.In("id", vals...))
	if err != nil {
		return nil, err
	}
	byID := make(map[string]bank.Question, len(found))
	for _, q := range found {
		byID[q.ID] = q
	}
	out := make([]bank.Question, 0, len(ids))
	for _, id := range ids {
		q, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%s: %w", id, bank.ErrQuestionNotFound)
		}
		out = append(out, q)
	}
	return out, nil
}

// Prompts returns every stored prompt for module, used for duplicate checks.
func (r *QuestionRepo) Prompts(ctx context.Context, module catalog.ModuleID) ([]string, error) {
	qs, err := r.QueryByModule(ctx, module)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.Prompt
	}
	return out, nil
}

// CountByModule returns the number of questions per module.
func (r *QuestionRepo) CountByModule(ctx context.Context) (map[catalog.ModuleID]int, error) {
	query, args := builder().
		Select("module_id", entsql.Count("*")).
		From(entsql.Table(questionsTable.Name)).
		GroupBy("module_id").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}
	defer rows.Close()

	out := make(map[catalog.ModuleID]int)
	for rows.Next() {
		var (
			module string
			n      int
		)
		if err := rows.Scan(&module, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[catalog.ModuleID(module)] = n
	}
	return out, rows.Err()
}

func (r *QuestionRepo) query(ctx context.Context, where *entsql.Predicate) ([]bank.Question, error) {
	query, args := builder().
		Select(questionColumnNames...).
		From(entsql.Table(questionsTable.Name)).
		Where(where).
		OrderBy("created_at", "id").
		Query()
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []bank.Question
	for rows.Next() {
		var (
			q      bank.Question
			module string
			opts   string
		)
		if err := rows.Scan(&q.ID, &module, &q.Prompt, &opts, &q.CorrectOptionID, &q.Explanation, &q.Difficulty); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		if err := json.Unmarshal([]byte(opts), &q.Options); err != nil {
			return nil, fmt.Errorf("decode options for %s: %w", q.ID, err)
		}
		q.ModuleID = catalog.ModuleID(module)
		out = append(out, q)
	}
	return out, rows.Err()
}

// Meta reads a value from the key/value meta table. Missing keys return "".
func (s *Store) Meta(ctx context.Context, name string) (string, error) {
	query, args := builder().
		Select("value").
		From(entsql.Table(metaTable.Name)).
		Where(entsql.EQ("name", name)).
		Query()
	var v string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read meta %s: %w", name, err)
	}
	return v, nil
}

// SetMeta upserts a meta value.
func (s *Store) SetMeta(ctx context.Context, name, value string) error {
	query, args := builder().
		Insert(metaTable.Name).
		Columns("name", "value").
		Values(name, value).
		OnConflict(entsql.ConflictColumns("name"), entsql.ResolveWithNewValues()).
		Query()
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("write meta %s: %w", name, err)
	}
	return nil
}

// MetaBankVersion is the meta key holding the installed bank version.
const MetaBankVersion = "bank_version"
