package candidate

import "regexp"

// Language identifies the detected source language of a candidate question.
type Language string

const (
	LangZhTW    Language = "zh-TW"
	LangEN      Language = "en"
	LangUnknown Language = "unknown"
)

// Source tags where a candidate came from. It never changes after creation.
type Source string

const (
	// SourceFrequency marks candidates harvested from "People Also Ask"
	// question lists across multiple source queries.
	SourceFrequency Source = "frequency"
	// SourceExtracted marks candidates pulled out of scraped page content
	// by the rule-based extractor.
	SourceExtracted Source = "extracted"
)

// Tier classifies a frequency-sourced candidate by how often it repeated.
type Tier string

const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Candidate is a question under consideration for the final FAQ set. It is a
// value record: stages never mutate a Candidate they received, they return
// new copies with additional fields filled in.
type Candidate struct {
	Text     string
	Language Language
	Source   Source

	// Frequency is the number of distinct source queries that surfaced this
	// exact text. Always >= 1 for frequency-sourced candidates.
	Frequency int
	Tier      Tier

	// BaseScore is assigned once at creation from the provenance/frequency
	// tier. PracticalityScore is filled in by the scorer (1-10), and
	// FinalScore is derived as BaseScore + PracticalityScore*weight.
	BaseScore         float64
	PracticalityScore float64
	FinalScore        float64

	// SourceURL and Quality carry provenance for extracted candidates. The
	// quality hint is informational only; it does not feed the score.
	SourceURL string
	Quality   float64
}

// latinWord matches three or more consecutive ASCII letters. Questions in
// the supported CJK language never contain such runs outside of embedded
// product terms, which is acceptable noise for this heuristic.
var latinWord = regexp.MustCompile(`[a-zA-Z]{3,}`)

// DetectLanguage guesses the language of a question text. Texts containing a
// run of three or more Latin letters are classified as English, everything
// else as Traditional Chinese.
func DetectLanguage(text string) Language {
	if text == "" {
		return LangUnknown
	}
	if latinWord.MatchString(text) {
		return LangEN
	}
	return LangZhTW
}
