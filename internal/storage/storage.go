// Package storage persists selection runs so past question sets can be
// compared across reruns of the pipeline.
package storage

import (
	"context"
	"time"
)

// SelectionRecord captures the outcome of one pipeline run for a topic.
type SelectionRecord struct {
	ID        string
	Topic     string
	Questions []string
	// CandidateCount is the pool size entering selection, after
	// deduplication and coverage filtering.
	CandidateCount int
	SelectedCount  int
	Duration       time.Duration
	CreatedAt      time.Time
	Error          string // non-empty if the run failed before selection
}

// Filter narrows a query over stored selection records.
type Filter struct {
	Topic  string
	Since  *time.Time
	Limit  int
	Offset int
}

// Backend defines the interface for storing and querying selection runs.
type Backend interface {
	Save(ctx context.Context, record *SelectionRecord) error
	Query(ctx context.Context, filter Filter) ([]*SelectionRecord, error)
	Close() error
}
