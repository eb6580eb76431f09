// Package dedupe collapses semantically equivalent questions and filters
// out questions already answered by existing page copy, both driven by
// embedding cosine similarity.
package dedupe

import (
	"context"
	"log/slog"
	"math"

	"github.com/FranksOps/sift/internal/analyzer"
	"github.com/FranksOps/sift/internal/candidate"
	"github.com/FranksOps/sift/internal/oracle"
)

const (
	// DefaultDedupThreshold treats two questions as the same above it.
	DefaultDedupThreshold = 0.85

	// DefaultOverlapThreshold treats a question as already covered by a
	// sentence of existing copy above it. Lower than dedup because a
	// paraphrased answer still makes a fresh FAQ entry redundant.
	DefaultOverlapThreshold = 0.70
)

// CosineSimilarity returns the cosine of the angle between two vectors,
// or 0 when either has zero magnitude or the dimensions differ.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Deduplicate removes near-duplicate questions in one greedy pass.
// The first occurrence of a cluster survives in place; a later duplicate
// replaces it only when its final score is strictly higher, so ties keep
// the earlier candidate. An embedding failure degrades to a no-op: the
// input comes back unchanged rather than failing the run.
func Deduplicate(ctx context.Context, cands []candidate.Candidate, embedder oracle.Embedder, threshold float64, logger *slog.Logger) []candidate.Candidate {
	if logger == nil {
		logger = slog.Default()
	}
	if threshold <= 0 {
		threshold = DefaultDedupThreshold
	}
	if len(cands) < 2 {
		return cands
	}

	texts := make([]string, len(cands))
	for i, c := range cands {
		texts[i] = c.Text
	}

	vecs, err := embedder.Embed(ctx, texts)
	if err != nil || len(vecs) != len(cands) {
		logger.Warn("embedding failed, skipping deduplication", "err", err)
		return cands
	}

	kept := make([]candidate.Candidate, 0, len(cands))
	keptVecs := make([][]float64, 0, len(cands))

	for i, c := range cands {
		matched := false
		for j := range kept {
			if CosineSimilarity(vecs[i], keptVecs[j]) >= threshold {
				matched = true
				if c.FinalScore > kept[j].FinalScore {
					kept[j] = c
					keptVecs[j] = vecs[i]
				}
				break
			}
		}
		if !matched {
			kept = append(kept, c)
			keptVecs = append(keptVecs, vecs[i])
		}
	}

	if len(kept) < len(cands) {
		logger.Debug("deduplicated candidates", "before", len(cands), "after", len(kept))
	}
	return kept
}

// FilterCovered drops questions that existing page copy already answers.
// The previous text is split into sentences; a question whose similarity
// to any sentence reaches the threshold is removed. Empty previous text,
// no usable sentences, or an embedding failure all leave the candidate
// list untouched.
func FilterCovered(ctx context.Context, cands []candidate.Candidate, previousText string, embedder oracle.Embedder, threshold float64, logger *slog.Logger) []candidate.Candidate {
	if logger == nil {
		logger = slog.Default()
	}
	if threshold <= 0 {
		threshold = DefaultOverlapThreshold
	}
	if len(cands) == 0 || previousText == "" {
		return cands
	}

	chunks := analyzer.SplitSentences(previousText)
	if len(chunks) == 0 {
		return cands
	}

	// One batch covers both questions and sentences.
	texts := make([]string, 0, len(cands)+len(chunks))
	for _, c := range cands {
		texts = append(texts, c.Text)
	}
	texts = append(texts, chunks...)

	vecs, err := embedder.Embed(ctx, texts)
	if err != nil || len(vecs) != len(texts) {
		logger.Warn("embedding failed, skipping coverage filter", "err", err)
		return cands
	}

	questionVecs := vecs[:len(cands)]
	chunkVecs := vecs[len(cands):]

	out := make([]candidate.Candidate, 0, len(cands))
	for i, c := range cands {
		covered := false
		for _, cv := range chunkVecs {
			if CosineSimilarity(questionVecs[i], cv) >= threshold {
				covered = true
				break
			}
		}
		if covered {
			logger.Debug("question already covered by existing copy", "question", c.Text)
			continue
		}
		out = append(out, c)
	}
	return out
}
