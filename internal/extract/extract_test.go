package extract

import (
	"strings"
	"testing"

	"github.com/FranksOps/sift/internal/candidate"
	"github.com/FranksOps/sift/internal/corpus"
)

func textsOf(cands []candidate.Candidate) []string {
	out := make([]string, len(cands))
	for i, c := range cands {
		out[i] = c.Text
	}
	return out
}

func containsText(cands []candidate.Candidate, text string) bool {
	for _, c := range cands {
		if c.Text == text {
			return true
		}
	}
	return false
}

func TestExtractChinesePatterns(t *testing.T) {
	doc := corpus.Document{
		URL:      "https://example.com/faq",
		Language: candidate.LangZhTW,
		Content: "高壓滅菌器是診所的核心設備。為什麼高壓滅菌器需要定期保養？因為密封圈會老化。" +
			"如何選擇適合診所的高壓滅菌器？需要考慮容量。什麼是B級高壓滅菌器？" +
			"高壓滅菌器可以滅菌液體嗎？Q：高壓滅菌器的使用年限是多久？",
	}

	cands := Extract([]corpus.Document{doc})

	want := []string{
		"為什麼高壓滅菌器需要定期保養？",
		"如何選擇適合診所的高壓滅菌器？",
		"什麼是B級高壓滅菌器？",
		"高壓滅菌器可以滅菌液體嗎？",
		"高壓滅菌器的使用年限是多久？",
	}
	for _, w := range want {
		if !containsText(cands, w) {
			t.Errorf("missing extraction %q, got %v", w, textsOf(cands))
		}
	}
}

func TestExtractEnglishPatterns(t *testing.T) {
	doc := corpus.Document{
		URL:      "https://example.com/guide",
		Language: candidate.LangEN,
		Content: "Buyers often wonder: How do I choose the right autoclave for my clinic? " +
			"Why does chamber size matter for sterilization? " +
			"Should I buy a Class B or Class N autoclave? The answer depends on your loads.",
	}

	cands := Extract([]corpus.Document{doc})

	want := []string{
		"How do I choose the right autoclave for my clinic?",
		"Why does chamber size matter for sterilization?",
		"Should I buy a Class B or Class N autoclave?",
	}
	for _, w := range want {
		if !containsText(cands, w) {
			t.Errorf("missing extraction %q, got %v", w, textsOf(cands))
		}
	}
}

func TestExtractBaseScoreAndProvenance(t *testing.T) {
	doc := corpus.Document{
		URL:     "https://example.com/page",
		Quality: 6.5,
		Content: "Why must an autoclave be validated every year?",
	}

	cands := Extract([]corpus.Document{doc})
	if len(cands) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(cands))
	}

	c := cands[0]
	if c.BaseScore != ExtractedBaseScore {
		t.Errorf("BaseScore = %v, want %v", c.BaseScore, ExtractedBaseScore)
	}
	if c.Source != candidate.SourceExtracted {
		t.Errorf("Source = %v", c.Source)
	}
	if c.SourceURL != doc.URL {
		t.Errorf("SourceURL = %q", c.SourceURL)
	}
	if c.Quality != doc.Quality {
		t.Errorf("Quality = %v", c.Quality)
	}
	if c.Language != candidate.LangEN {
		t.Errorf("Language = %v", c.Language)
	}
}

func TestExtractLengthWindow(t *testing.T) {
	doc := corpus.Document{
		Language: candidate.LangEN,
		Content: "Why not this? " + // far too short even before the window check
			"How is it so? " + // 13 runes, below the floor after capture
			"Why would anyone ever need " + strings.Repeat("very ", 20) + "long questions?",
	}

	cands := Extract([]corpus.Document{doc})
	for _, c := range cands {
		t.Errorf("expected no candidates outside the length window, got %q", c.Text)
	}
}

func TestExtractKeepsDuplicatesAcrossDocuments(t *testing.T) {
	q := "Why would chamber size matter for sterilization?"
	docs := []corpus.Document{
		{URL: "https://a.example/1", Language: candidate.LangEN, Content: q},
		{URL: "https://b.example/2", Language: candidate.LangEN, Content: "Intro. " + q},
	}

	// Duplicates persist until the deduplicator; each keeps its own source.
	cands := Extract(docs)
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %v", len(cands), textsOf(cands))
	}
	for _, c := range cands {
		if c.Text != q {
			t.Errorf("unexpected extraction %q", c.Text)
		}
	}
	if cands[0].SourceURL != "https://a.example/1" || cands[1].SourceURL != "https://b.example/2" {
		t.Errorf("each occurrence must keep its own source, got %q and %q",
			cands[0].SourceURL, cands[1].SourceURL)
	}
}

func TestExtractKeepsWhitespaceVariantsDistinct(t *testing.T) {
	doc := corpus.Document{
		URL:      "https://example.com/faq",
		Language: candidate.LangEN,
		Content: "Why would chamber size matter for sterilization? Filler text here. " +
			"Why would chamber  size matter for sterilization?",
	}

	cands := Extract([]corpus.Document{doc})
	if len(cands) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %v", len(cands), textsOf(cands))
	}
	if cands[0].Text == cands[1].Text {
		t.Errorf("whitespace variants must stay distinct, both %q", cands[0].Text)
	}
}
