package frequency

import (
	"fmt"
	"testing"

	"github.com/FranksOps/sift/internal/candidate"
)

func TestAggregateCountsDistinctQueries(t *testing.T) {
	mentions := []Mention{
		{Text: "How to clean an autoclave?", SourceQuery: "autoclave cleaning"},
		{Text: "How to clean an autoclave?", SourceQuery: "autoclave maintenance"},
		// Same query repeating the same text must not inflate frequency.
		{Text: "How to clean an autoclave?", SourceQuery: "autoclave maintenance"},
		{Text: "高壓滅菌鍋怎麼保養？", SourceQuery: "滅菌鍋保養"},
		{Text: "  ", SourceQuery: "blank"},
		{Text: "", SourceQuery: "empty"},
	}

	got := Aggregate(mentions)
	if len(got) != 2 {
		t.Fatalf("expected 2 unique candidates, got %d", len(got))
	}

	if got[0].Text != "How to clean an autoclave?" || got[0].Frequency != 2 {
		t.Errorf("first candidate = %q freq %d, want freq 2", got[0].Text, got[0].Frequency)
	}
	if got[1].Frequency != 1 {
		t.Errorf("second candidate freq = %d, want 1", got[1].Frequency)
	}

	for _, c := range got {
		if c.Source != candidate.SourceFrequency {
			t.Errorf("candidate %q source = %q, want frequency", c.Text, c.Source)
		}
	}
}

func TestAggregateUniqueOutputMatchesDistinctTexts(t *testing.T) {
	var mentions []Mention
	for i := 0; i < 5; i++ {
		for j := 0; j <= i; j++ {
			mentions = append(mentions, Mention{
				Text:        fmt.Sprintf("question %d?", i),
				SourceQuery: fmt.Sprintf("query %d", j),
			})
		}
	}

	got := Aggregate(mentions)
	if len(got) != 5 {
		t.Fatalf("expected one candidate per distinct text (5), got %d", len(got))
	}
}

func TestComputeThresholdsScenario(t *testing.T) {
	// Distribution [5,5,5,3,3,1,1,1,1]: median is the 5th of 9 sorted
	// values (3), so high >= 4 and medium >= 3.
	freqs := []int{5, 5, 5, 3, 3, 1, 1, 1, 1}

	th := ComputeThresholds(freqs)
	if th.Median != 3 {
		t.Fatalf("median = %d, want 3", th.Median)
	}
	if th.High != 4 || th.Medium != 3 {
		t.Fatalf("thresholds = (%d, %d), want (4, 3)", th.High, th.Medium)
	}

	cases := []struct {
		freq     int
		wantTier candidate.Tier
		wantBase float64
	}{
		{5, candidate.TierHigh, 15.0},
		{3, candidate.TierMedium, 12.0},
		{1, candidate.TierLow, 8.0},
	}
	for _, c := range cases {
		tier, base := th.TierFor(c.freq)
		if tier != c.wantTier || base != c.wantBase {
			t.Errorf("TierFor(%d) = (%s, %.1f), want (%s, %.1f)",
				c.freq, tier, base, c.wantTier, c.wantBase)
		}
	}
}

func TestComputeThresholdsNoRepeats(t *testing.T) {
	// All frequencies 1: thresholds collapse to (3, 2) and everything is
	// low tier. Frequency alone must not inflate scores when nothing
	// actually repeats.
	th := ComputeThresholds([]int{1, 1, 1, 1})
	if th.High != 3 || th.Medium != 2 {
		t.Fatalf("thresholds = (%d, %d), want (3, 2)", th.High, th.Medium)
	}

	tier, base := th.TierFor(1)
	if tier != candidate.TierLow || base != LowBaseScore {
		t.Errorf("all-ones distribution must land in low tier, got %s", tier)
	}
}

func TestComputeThresholdsEvenLengthUsesLowerMiddle(t *testing.T) {
	// Sorted: [1 2 3 4], lower-middle index (4-1)/2 = 1, median 2.
	th := ComputeThresholds([]int{4, 2, 1, 3})
	if th.Median != 2 {
		t.Errorf("median = %d, want lower-middle 2", th.Median)
	}
}

func TestTierMonotonicity(t *testing.T) {
	th := ComputeThresholds([]int{1, 2, 3, 4, 5, 6, 7})

	rank := map[candidate.Tier]int{candidate.TierLow: 0, candidate.TierMedium: 1, candidate.TierHigh: 2}
	prev := -1
	for f := 1; f <= 10; f++ {
		tier, _ := th.TierFor(f)
		if rank[tier] < prev {
			t.Fatalf("tier rank decreased at frequency %d", f)
		}
		prev = rank[tier]
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	if got := Aggregate(nil); len(got) != 0 {
		t.Errorf("expected empty output for empty input, got %d", len(got))
	}
}
