// Package frequency implements the first pipeline stage: aggregating raw
// question mentions harvested across multiple source queries into unique
// candidates, tiered by a dynamic median-based frequency threshold.
package frequency

import (
	"sort"
	"strings"

	"github.com/FranksOps/sift/internal/candidate"
)

// Base scores per frequency tier. Low-frequency questions score the same as
// rule-extracted ones so a single occurrence never outranks extraction.
const (
	HighBaseScore   = 15.0
	MediumBaseScore = 12.0
	LowBaseScore    = 8.0
)

// Mention is one observation of a question text under a given source query.
type Mention struct {
	Text        string
	SourceQuery string
}

// Thresholds holds the dynamically computed tier cutoffs for one run.
type Thresholds struct {
	Median int
	Max    int
	High   int
	Medium int
}

// ComputeThresholds derives the tier cutoffs from a frequency distribution.
// The median is the element at floor((n-1)/2) of the sorted distribution, so
// even-length lists resolve to the lower-middle element. High is at least 3,
// medium at least 2: when nothing repeats, every candidate lands in the low
// tier rather than being inflated by frequency alone.
func ComputeThresholds(freqs []int) Thresholds {
	if len(freqs) == 0 {
		return Thresholds{High: 3, Medium: 2}
	}

	sorted := make([]int, len(freqs))
	copy(sorted, freqs)
	sort.Ints(sorted)

	t := Thresholds{
		Median: sorted[(len(sorted)-1)/2],
		Max:    sorted[len(sorted)-1],
	}
	t.High = max(3, t.Median+1)
	t.Medium = max(2, t.Median)
	return t
}

// TierFor returns the tier and base score for a given frequency under the
// computed thresholds. Tier assignment is monotonic in frequency.
func (t Thresholds) TierFor(freq int) (candidate.Tier, float64) {
	switch {
	case freq >= t.High:
		return candidate.TierHigh, HighBaseScore
	case freq >= t.Medium:
		return candidate.TierMedium, MediumBaseScore
	default:
		return candidate.TierLow, LowBaseScore
	}
}

// Aggregate collapses mentions into one candidate per distinct text, counting
// the number of distinct source queries that surfaced it. Candidates keep
// their first-seen order, which later stages rely on for stable tie-breaks.
// Mentions with empty text are dropped silently.
func Aggregate(mentions []Mention) []candidate.Candidate {
	type entry struct {
		queries map[string]struct{}
	}

	byText := make(map[string]*entry)
	var order []string

	for _, m := range mentions {
		text := strings.TrimSpace(m.Text)
		if text == "" {
			continue
		}
		e, ok := byText[text]
		if !ok {
			e = &entry{queries: make(map[string]struct{})}
			byText[text] = e
			order = append(order, text)
		}
		e.queries[m.SourceQuery] = struct{}{}
	}

	freqs := make([]int, 0, len(order))
	for _, text := range order {
		freqs = append(freqs, len(byText[text].queries))
	}
	thresholds := ComputeThresholds(freqs)

	out := make([]candidate.Candidate, 0, len(order))
	for i, text := range order {
		tier, base := thresholds.TierFor(freqs[i])
		out = append(out, candidate.Candidate{
			Text:      text,
			Language:  candidate.DetectLanguage(text),
			Source:    candidate.SourceFrequency,
			Frequency: freqs[i],
			Tier:      tier,
			BaseScore: base,
		})
	}
	return out
}
