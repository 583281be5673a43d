package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the part of *pgxpool.Pool the repositories use.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

var _ Querier = (*pgxpool.Pool)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS ocr_jobs (
	id             TEXT PRIMARY KEY,
	file_name      TEXT NOT NULL,
	file_size      BIGINT NOT NULL,
	page_count     INTEGER NOT NULL,
	status         TEXT NOT NULL,
	progress       DOUBLE PRECISION NOT NULL DEFAULT 0,
	current_step   TEXT NOT NULL DEFAULT '',
	estimated_time INTEGER NOT NULL DEFAULT 0,
	error          TEXT NOT NULL DEFAULT '',
	created_at     BIGINT NOT NULL,
	updated_at     BIGINT NOT NULL,
	finished_at    BIGINT
);

CREATE INDEX IF NOT EXISTS ocr_jobs_created_at_idx ON ocr_jobs (created_at DESC);

CREATE TABLE IF NOT EXISTS ocr_results (
	job_id TEXT PRIMARY KEY REFERENCES ocr_jobs (id) ON DELETE CASCADE,
	result JSONB NOT NULL
);`

type Database struct {
	pool *pgxpool.Pool
}

func NewDatabase(ctx context.Context, connString string) (*Database, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Database{pool: pool}, nil
}

func (d *Database) GetPool() *pgxpool.Pool {
	return d.pool
}

// Migrate creates the tables if they do not exist yet.
func (d *Database) Migrate(ctx context.Context) error {
	return applySchema(ctx, d.pool)
}

func applySchema(ctx context.Context, q Querier) error {
	if _, err := q.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (d *Database) Close() {
	d.pool.Close()
}
