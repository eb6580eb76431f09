package csvbackend

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/FranksOps/sift/internal/storage"
)

// ensure csvBackend implements storage.Backend
var _ storage.Backend = (*csvBackend)(nil)

type csvBackend struct {
	mu   sync.Mutex
	file *os.File
}

// headers defines the CSV column order
var headers = []string{
	"id",
	"topic",
	"questions_json",
	"candidate_count",
	"selected_count",
	"duration_ms",
	"created_at",
	"error",
}

// New creates a new CSV-backed storage.Backend.
func New(filePath string) (storage.Backend, error) {
	// Open file for appending, create if it doesn't exist
	f, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("open csv file: %w", err)
	}

	// Check if file is empty to write headers
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat csv file: %w", err)
	}

	if info.Size() == 0 {
		w := csv.NewWriter(f)
		if err := w.Write(headers); err != nil {
			f.Close()
			return nil, fmt.Errorf("write header row: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("flush header row: %w", err)
		}
	}

	return &csvBackend{
		file: f,
	}, nil
}

func (b *csvBackend) Save(ctx context.Context, record *storage.SelectionRecord) error {
	questionsJSON, err := json.Marshal(record.Questions)
	if err != nil {
		return fmt.Errorf("encode questions: %w", err)
	}

	row := []string{
		record.ID,
		record.Topic,
		string(questionsJSON),
		strconv.Itoa(record.CandidateCount),
		strconv.Itoa(record.SelectedCount),
		strconv.FormatInt(record.Duration.Milliseconds(), 10),
		record.CreatedAt.Format(time.RFC3339Nano),
		record.Error,
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	// Ensure we're at the end of the file for appending (just in case)
	if _, err := b.file.Seek(0, io.SeekEnd); err != nil {
		return fmt.Errorf("seek to end: %w", err)
	}

	w := csv.NewWriter(b.file)
	if err := w.Write(row); err != nil {
		return fmt.Errorf("write record: %w", err)
	}
	w.Flush()

	if err := w.Error(); err != nil {
		return fmt.Errorf("flush record: %w", err)
	}

	return nil
}

func (b *csvBackend) Query(ctx context.Context, filter storage.Filter) ([]*storage.SelectionRecord, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Seek to the beginning of the file to read all entries
	if _, err := b.file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek to start: %w", err)
	}
	defer func() {
		// Restore pointer to end for writing
		_, _ = b.file.Seek(0, io.SeekEnd)
	}()

	r := csv.NewReader(b.file)

	// Read headers
	_, err := r.Read()
	if err != nil {
		if err == io.EOF {
			return []*storage.SelectionRecord{}, nil
		}
		return nil, fmt.Errorf("read header row: %w", err)
	}

	var allFiltered []*storage.SelectionRecord

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		if len(row) != len(headers) {
			continue // skip malformed rows
		}

		var questions []string
		if err := json.Unmarshal([]byte(row[2]), &questions); err != nil {
			// fallback to empty if parse fails
			questions = nil
		}
		candidateCount, _ := strconv.Atoi(row[3])
		selectedCount, _ := strconv.Atoi(row[4])
		durationMs, _ := strconv.ParseInt(row[5], 10, 64)
		createdAt, _ := time.Parse(time.RFC3339Nano, row[6])

		rec := &storage.SelectionRecord{
			ID:             row[0],
			Topic:          row[1],
			Questions:      questions,
			CandidateCount: candidateCount,
			SelectedCount:  selectedCount,
			Duration:       time.Duration(durationMs) * time.Millisecond,
			CreatedAt:      createdAt,
			Error:          row[7],
		}

		if filter.Topic != "" && rec.Topic != filter.Topic {
			continue
		}
		if filter.Since != nil && rec.CreatedAt.Before(*filter.Since) {
			continue
		}

		allFiltered = append(allFiltered, rec)
	}

	// Order by created_at DESC (reverse the slice)
	for i, j := 0, len(allFiltered)-1; i < j; i, j = i+1, j-1 {
		allFiltered[i], allFiltered[j] = allFiltered[j], allFiltered[i]
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(allFiltered) {
			return []*storage.SelectionRecord{}, nil
		}
		allFiltered = allFiltered[filter.Offset:]
	}

	if filter.Limit > 0 && filter.Limit < len(allFiltered) {
		allFiltered = allFiltered[:filter.Limit]
	}

	return allFiltered, nil
}

func (b *csvBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.file.Close()
}
