// Package pgstore keeps results in PostgreSQL for multi-user deployments
// where the API server runs on more than one host.
package pgstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/abhisek/prepdeck/internal/catalog"
	"github.com/abhisek/prepdeck/internal/store"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS results (
	sequence BIGSERIAL UNIQUE,
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	display_name TEXT NOT NULL DEFAULT '',
	module_id TEXT NOT NULL,
	session_id TEXT NOT NULL,
	mode TEXT NOT NULL,
	score INT NOT NULL CHECK (score >= 0),
	total_questions INT NOT NULL CHECK (total_questions >= 1),
	completed_at TIMESTAMP WITH TIME ZONE NOT NULL,
	is_partial BOOLEAN NOT NULL DEFAULT FALSE,
	UNIQUE (session_id, module_id),
	CHECK (score <= total_questions)
);
CREATE INDEX IF NOT EXISTS result_user_id ON results (user_id);
`

var columns = []string{
	"id", "user_id", "display_name", "module_id", "session_id", "mode",
	"score", "total_questions", "completed_at", "is_partial",
}

// Connect opens a pool and verifies the server answers.
func Connect(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// ResultRepo is a store.ResultRepo over PostgreSQL.
type ResultRepo struct {
	pool *pgxpool.Pool
}

// NewResultRepo ensures the schema exists and returns the repo.
func NewResultRepo(ctx context.Context, pool *pgxpool.Pool) (*ResultRepo, error) {
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		return nil, fmt.Errorf("create results schema: %w", err)
	}
	return &ResultRepo{pool: pool}, nil
}

func pg() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.Postgres)
}

func (r *ResultRepo) Append(ctx context.Context, res store.Result) (string, error) {
	if res.ID == "" {
		res.ID = uuid.NewString()
	}
	if err := res.Validate(); err != nil {
		return "", err
	}
	if res.CompletedAt.IsZero() {
		res.CompletedAt = time.Now()
	}
	query, args := pg().
		Insert("results").
		Columns(columns...).
		Values(res.ID, res.UserID, res.DisplayName, string(res.ModuleID), res.SessionID, string(res.Mode),
			res.Score, res.TotalQuestions, res.CompletedAt.UTC(), res.IsPartial).
		OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
		Query()
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return "", fmt.Errorf("insert result: %w", err)
	}
	return res.ID, nil
}

func (r *ResultRepo) ListByUser(ctx context.Context, userID string) ([]store.Result, error) {
	return r.list(ctx, entsql.EQ("user_id", userID))
}

func (r *ResultRepo) ListAll(ctx context.Context) ([]store.Result, error) {
	return r.list(ctx, nil)
}

func (r *ResultRepo) list(ctx context.Context, where *entsql.Predicate) ([]store.Result, error) {
	sel := pg().Select(columns...).From(entsql.Table("results")).OrderBy("sequence")
	if where != nil {
		sel = sel.Where(where)
	}
	query, args := sel.Query()

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []store.Result
	for rows.Next() {
		var (
			res          store.Result
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

// Count returns the number of stored results; used by health checks.
func (r *ResultRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM results").Scan(&n)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("count results: %w", err)
	}
	return n, nil
}
