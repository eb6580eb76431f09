// Package report renders summaries of stored selection runs.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"
	"time"

	"github.com/FranksOps/sift/internal/storage"
)

// Summary contains aggregated metrics across selection runs.
type Summary struct {
	TotalRuns       int
	TotalErrors     int
	TotalSelected   int
	RunsByTopic     map[string]int
	QuestionsPerRun float64
	StartTime       time.Time
	EndTime         time.Time
	Duration        time.Duration
}

// GenerateSummary processes stored selection records into summary metrics.
func GenerateSummary(records []*storage.SelectionRecord) Summary {
	s := Summary{
		RunsByTopic: make(map[string]int),
	}

	if len(records) == 0 {
		return s
	}

	s.StartTime = records[0].CreatedAt
	s.EndTime = records[0].CreatedAt

	succeeded := 0
	for _, r := range records {
		s.TotalRuns++
		if r.Error != "" {
			s.TotalErrors++
		} else {
			succeeded++
			s.TotalSelected += r.SelectedCount
		}
		s.RunsByTopic[r.Topic]++

		if r.CreatedAt.Before(s.StartTime) {
			s.StartTime = r.CreatedAt
		}
		if r.CreatedAt.After(s.EndTime) {
			s.EndTime = r.CreatedAt
		}
	}

	if succeeded > 0 {
		s.QuestionsPerRun = float64(s.TotalSelected) / float64(succeeded)
	}
	s.Duration = s.EndTime.Sub(s.StartTime)
	return s
}

// WriteJSON writes the summary to the provided writer in JSON format.
func WriteJSON(w io.Writer, summary Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(summary); err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	return nil
}

// WriteText writes a human-readable text summary to the provided writer.
func WriteText(w io.Writer, summary Summary) error {
	const textTmpl = `Sift Selection Summary
----------------------
Time:           {{.StartTime.Format "2006-01-02 15:04:05"}} - {{.EndTime.Format "2006-01-02 15:04:05"}}
Span:           {{.Duration}}
Total Runs:     {{.TotalRuns}}
Failed Runs:    {{.TotalErrors}}
Questions Kept: {{.TotalSelected}} ({{printf "%.1f" .QuestionsPerRun}} per successful run)

Runs by Topic:
{{- range $topic, $count := .RunsByTopic}}
  {{$topic}}: {{$count}}
{{- else}}
  None
{{- end}}
`

	t, err := template.New("textReport").Parse(textTmpl)
	if err != nil {
		return fmt.Errorf("parse text template: %w", err)
	}

	if err := t.Execute(w, summary); err != nil {
		return fmt.Errorf("render text report: %w", err)
	}

	return nil
}
