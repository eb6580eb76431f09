// Package score ranks question candidates by how actionable an answer to
// them would be for a buyer, using a chat model as the judge.
package score

import (
	"context"
	"log/slog"

	"github.com/FranksOps/sift/internal/analyzer"
	"github.com/FranksOps/sift/internal/candidate"
	"github.com/FranksOps/sift/internal/oracle"
)

const (
	// DefaultPracticality stands in when the judge call fails. Mid-scale
	// so unscored candidates are neither buried nor promoted.
	DefaultPracticality = 5.0

	// DefaultWeight controls how much practicality moves the final score
	// relative to the frequency-derived base.
	DefaultWeight = 0.8
)

// Scorer applies practicality judgments on top of base scores.
type Scorer struct {
	judge  oracle.Scorer
	weight float64
	logger *slog.Logger
}

// New creates a Scorer. A non-positive weight falls back to the default.
func New(judge oracle.Scorer, weight float64, logger *slog.Logger) *Scorer {
	if weight <= 0 {
		weight = DefaultWeight
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{judge: judge, weight: weight, logger: logger}
}

// Score judges every candidate and returns a new slice with
// PracticalityScore and FinalScore populated. A failed judgment never
// fails the run: the candidate keeps the default practicality.
func (s *Scorer) Score(ctx context.Context, topic string, cands []candidate.Candidate) []candidate.Candidate {
	out := make([]candidate.Candidate, len(cands))
	for i, c := range cands {
		p, err := s.judge.Practicality(ctx, c.Text, topic)
		if err != nil {
			s.logger.Warn("practicality judgment failed, using default",
				"question", c.Text, "err", err)
			p = DefaultPracticality
		}
		c.PracticalityScore = p
		c.FinalScore = c.BaseScore + p*s.weight
		out[i] = c
	}
	return out
}

// FilterOnTopic drops candidates that mention neither the topic nor any of
// its synonyms. Matching is case-insensitive substring containment.
func FilterOnTopic(cands []candidate.Candidate, topic string, synonyms []string) []candidate.Candidate {
	terms := make([]string, 0, len(synonyms)+1)
	terms = append(terms, topic)
	terms = append(terms, synonyms...)

	out := make([]candidate.Candidate, 0, len(cands))
	for _, c := range cands {
		if analyzer.ContainsAny(c.Text, terms) {
			out = append(out, c)
		}
	}
	return out
}
