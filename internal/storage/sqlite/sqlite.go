package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/FranksOps/sift/internal/storage"
	_ "modernc.org/sqlite"
)

// ensure sqliteBackend implements storage.Backend
var _ storage.Backend = (*sqliteBackend)(nil)

type sqliteBackend struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS selection_runs (
	id TEXT PRIMARY KEY,
	topic TEXT NOT NULL,
	questions TEXT NOT NULL,
	candidate_count INTEGER NOT NULL,
	selected_count INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	created_at DATETIME NOT NULL,
	error TEXT
);
`

// New creates a new SQLite-backed storage.Backend.
func New(dsn string) (storage.Backend, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &sqliteBackend{db: db}, nil
}

func (b *sqliteBackend) Save(ctx context.Context, record *storage.SelectionRecord) error {
	questionsJSON, err := json.Marshal(record.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}

	query := `
	INSERT INTO selection_runs (
		id, topic, questions, candidate_count, selected_count, duration_ms, created_at, error
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = b.db.ExecContext(ctx, query,
		record.ID,
		record.Topic,
		string(questionsJSON),
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

func (b *sqliteBackend) Query(ctx context.Context, filter storage.Filter) ([]*storage.SelectionRecord, error) {
	query := `SELECT id, topic, questions, candidate_count, selected_count, duration_ms, created_at, error FROM selection_runs WHERE 1=1`
	args := []any{}

	if filter.Topic != "" {
		query += ` AND topic = ?`
		args = append(args, filter.Topic)
	}
	if filter.Since != nil {
		query += ` AND created_at >= ?`
		args = append(args, *filter.Since)
	}

	query += ` ORDER BY created_at DESC`

	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := b.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query selection runs: %w", err)
	}
	defer rows.Close()

	var records []*storage.SelectionRecord
	for rows.Next() {
		var r storage.SelectionRecord
		var questionsJSON string
		var durationMs int64

		err := rows.Scan(
			&r.ID, &r.Topic, &questionsJSON, &r.CandidateCount,
			&r.SelectedCount, &durationMs, &r.CreatedAt, &r.Error,
		)
		if err != nil {
			return nil, fmt.Errorf("scan selection run: %w", err)
		}

		r.Duration = time.Duration(durationMs) * time.Millisecond
		if err := json.Unmarshal([]byte(questionsJSON), &r.Questions); err != nil {
			return nil, fmt.Errorf("decode questions: %w", err)
		}

		records = append(records, &r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate selection runs: %w", err)
	}

	return records, nil
}

func (b *sqliteBackend) Close() error {
	return b.db.Close()
}
