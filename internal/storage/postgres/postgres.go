package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/FranksOps/sift/internal/storage"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ensure postgresBackend implements storage.Backend
var _ storage.Backend = (*postgresBackend)(nil)

type postgresBackend struct {
	pool *pgxpool.Pool
}

const schema = `
CREATE TABLE IF NOT EXISTS selection_runs (
	id TEXT PRIMARY KEY,
	topic TEXT NOT NULL,
	questions JSONB NOT NULL,
	candidate_count INTEGER NOT NULL,
	selected_count INTEGER NOT NULL,
	duration_ms BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	error TEXT
);
`

// New creates a new Postgres-backed storage.Backend.
func New(ctx context.Context, dsn string) (storage.Backend, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	_, err = pool.Exec(ctx, schema)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &postgresBackend{pool: pool}, nil
}

func (b *postgresBackend) Save(ctx context.Context, record *storage.SelectionRecord) error {
	questionsJSON, err := json.Marshal(record.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}

	query := `
	INSERT INTO selection_runs (
		id, topic, questions, candidate_count, selected_count, duration_ms, created_at, error
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = b.pool.Exec(ctx, query,
		record.ID,
		record.Topic,
		questionsJSON,
		record.CandidateCount,
		record.SelectedCount,
		record.Duration.Milliseconds(),
		record.CreatedAt,
		record.Error,
	)

	if err != nil {
		return fmt.Errorf("insert selection run: %w", err)
	}

	return nil
}

func (b *postgresBackend) Query(ctx context.Context, filter storage.Filter) ([]*storage.SelectionRecord, error) {
	query := `SELECT id, topic, questions, candidate_count, selected_count, duration_ms, created_at, error FROM selection_runs WHERE 1=1`
	args := []any{}
	paramCount := 1

	if filter.Topic != "" {
		query += fmt.Sprintf(` AND topic = $%d`, paramCount)
		args = append(args, filter.Topic)
		paramCount++
	}
	if filter.Since != nil {
		query += fmt.Sprintf(` AND created_at >= $%d`, paramCount)
		args = append(args, *filter.Since)
		paramCount++
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += fmt.Sprintf(` LIMIT $%d`, paramCount)
		args = append(args, filter.Limit)
		paramCount++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, paramCount)
		args = append(args, filter.Offset)
		paramCount++
	}

	rows, err := b.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query selection runs: %w", err)
	}
	defer rows.Close()

	var records []*storage.SelectionRecord
	for rows.Next() {
		var r storage.SelectionRecord
		var questionsJSON []byte
		var durationMs int64

		err := rows.Scan(
			&r.ID, &r.Topic, &questionsJSON, &r.CandidateCount,
			&r.SelectedCount, &durationMs, &r.CreatedAt, &r.Error,
		)
		if err != nil {
			return nil, fmt.Errorf("scan selection run: %w", err)
		}

		r.Duration = time.Duration(durationMs) * time.Millisecond
		if err := json.Unmarshal(questionsJSON, &r.Questions); err != nil {
			return nil, fmt.Errorf("decode questions: %w", err)
		}

		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate selection runs: %w", err)
	}

	return records, nil
}

func (b *postgresBackend) Close() error {
	b.pool.Close()
	return nil
}
