package score

import (
	"context"
	"errors"
	"testing"

	"github.com/FranksOps/sift/internal/candidate"
)

type fixedJudge struct {
	scores map[string]float64
	err    error
	calls  int
}

func (f *fixedJudge) Practicality(_ context.Context, question, _ string) (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	return f.scores[question], nil
}

func TestScoreCombinesBaseAndPracticality(t *testing.T) {
	judge := &fixedJudge{scores: map[string]float64{
		"how to maintain an autoclave?": 9.0,
		"what is an autoclave?":         4.0,
	}}
	s := New(judge, 0.8, nil)

	in := []candidate.Candidate{
		{Text: "how to maintain an autoclave?", BaseScore: 15.0},
		{Text: "what is an autoclave?", BaseScore: 8.0},
	}

	out := s.Score(context.Background(), "autoclave", in)

	if out[0].FinalScore != 15.0+9.0*0.8 {
		t.Errorf("FinalScore = %v, want %v", out[0].FinalScore, 15.0+9.0*0.8)
	}
	if out[0].PracticalityScore != 9.0 {
		t.Errorf("PracticalityScore = %v", out[0].PracticalityScore)
	}
	if out[1].FinalScore != 8.0+4.0*0.8 {
		t.Errorf("FinalScore = %v, want %v", out[1].FinalScore, 8.0+4.0*0.8)
	}
	if judge.calls != 2 {
		t.Errorf("expected one judgment per candidate, got %d", judge.calls)
	}
}

func TestScoreDefaultsOnJudgeFailure(t *testing.T) {
	judge := &fixedJudge{err: errors.New("model unavailable")}
	s := New(judge, 0.8, nil)

	out := s.Score(context.Background(), "autoclave", []candidate.Candidate{
		{Text: "how to maintain an autoclave?", BaseScore: 12.0},
	})

	if out[0].PracticalityScore != DefaultPracticality {
		t.Errorf("PracticalityScore = %v, want default", out[0].PracticalityScore)
	}
	if out[0].FinalScore != 12.0+DefaultPracticality*0.8 {
		t.Errorf("FinalScore = %v", out[0].FinalScore)
	}
}

func TestScoreDoesNotMutateInput(t *testing.T) {
	judge := &fixedJudge{scores: map[string]float64{"q one long enough?": 7.0}}
	s := New(judge, 0, nil)

	in := []candidate.Candidate{{Text: "q one long enough?", BaseScore: 8.0}}
	_ = s.Score(context.Background(), "topic", in)

	if in[0].FinalScore != 0 || in[0].PracticalityScore != 0 {
		t.Errorf("input slice mutated: %+v", in[0])
	}
}

func TestFilterOnTopic(t *testing.T) {
	cands := []candidate.Candidate{
		{Text: "How to maintain an Autoclave properly?"},
		{Text: "Why choose a steam sterilizer for clinics?"},
		{Text: "What is the best coffee machine?"},
	}

	kept := FilterOnTopic(cands, "autoclave", []string{"sterilizer", "滅菌器"})

	if len(kept) != 2 {
		t.Fatalf("kept %d candidates, want 2", len(kept))
	}
	if kept[0].Text != cands[0].Text || kept[1].Text != cands[1].Text {
		t.Errorf("wrong candidates kept: %+v", kept)
	}
}

func TestFilterOnTopicKeepsChineseSynonymMatches(t *testing.T) {
	cands := []candidate.Candidate{
		{Text: "為什麼高壓滅菌器需要定期保養？"},
		{Text: "為什麼天空是藍色的？"},
	}

	kept := FilterOnTopic(cands, "autoclave", []string{"高壓滅菌器"})
	if len(kept) != 1 || kept[0].Text != cands[0].Text {
		t.Errorf("synonym match failed: %+v", kept)
	}
}
