// Package extract mines question-shaped sentences out of harvested
// competitor pages. It complements the frequency aggregator: aggregation
// surfaces questions people ask search engines, extraction surfaces
// questions competitors already answer in their copy.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/FranksOps/sift/internal/candidate"
	"github.com/FranksOps/sift/internal/corpus"
)

// ExtractedBaseScore is the flat base score assigned to every extracted
// candidate. Extracted questions rank below even low-frequency mentions
// because they carry no demand signal of their own.
const ExtractedBaseScore = 8.0

// Rune-length window for an acceptable question. Anything shorter is
// usually a fragment, anything longer a run-on sentence.
const (
	minQuestionRunes = 10
	maxQuestionRunes = 100
)

// zhPatterns match Traditional Chinese question constructions. The first
// capture group is the question text.
var zhPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(為什麼[^？\n]{5,50}？)`),
	regexp.MustCompile(`(如何[^？\n]{5,50}？)`),
	regexp.MustCompile(`(什麼是[^？\n]{5,50}？)`),
	regexp.MustCompile(`([^？\n]{5,50}嗎？)`),
	regexp.MustCompile(`Q[:：]\s*([^？\n]+？)`),
	regexp.MustCompile(`問[:：]\s*([^？\n]+？)`),
}

// enPatterns match English interrogatives. Case-insensitive so questions
// embedded mid-sentence are still caught.
var enPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(Why [^?\n]{10,80}\?)`),
	regexp.MustCompile(`(?i)(How [^?\n]{10,80}\?)`),
	regexp.MustCompile(`(?i)(What [^?\n]{10,80}\?)`),
	regexp.MustCompile(`(?i)(When [^?\n]{10,80}\?)`),
	regexp.MustCompile(`(?i)(Where [^?\n]{10,80}\?)`),
	regexp.MustCompile(`(?i)(Which [^?\n]{10,80}\?)`),
	regexp.MustCompile(`(?i)(Should [^?\n]{10,80}\?)`),
	regexp.MustCompile(`(?i)(Can [^?\n]{10,80}\?)`),
	regexp.MustCompile(`(?i)(Is [^?\n]{10,80}\?)`),
	regexp.MustCompile(`(?i)(Does [^?\n]{10,80}\?)`),
	regexp.MustCompile(`(?i)(Q[:：]\s*[^?\n]+\?)`),
}

// Extract runs the pattern sets over every document and returns question
// candidates with a flat base score. The length window is the only local
// discard rule: duplicate question text is kept, each occurrence with its
// own source attribution, and collapses later in the deduplicator.
func Extract(docs []corpus.Document) []candidate.Candidate {
	var out []candidate.Candidate

	for _, doc := range docs {
		patterns := patternsFor(doc.Language)
		for _, re := range patterns {
			for _, m := range re.FindAllStringSubmatch(doc.Content, -1) {
				q := strings.TrimSpace(m[1])
				if !acceptable(q) {
					continue
				}
				out = append(out, candidate.Candidate{
					Text:      q,
					Language:  candidate.DetectLanguage(q),
					Source:    candidate.SourceExtracted,
					BaseScore: ExtractedBaseScore,
					SourceURL: doc.URL,
					Quality:   doc.Quality,
				})
			}
		}
	}
	return out
}

// patternsFor picks the pattern set for a document's detected language.
// Unknown-language documents get both sets since mixed-script pages are
// common in the target market.
func patternsFor(lang candidate.Language) []*regexp.Regexp {
	switch lang {
	case candidate.LangZhTW:
		return zhPatterns
	case candidate.LangEN:
		return enPatterns
	default:
		return append(append([]*regexp.Regexp{}, zhPatterns...), enPatterns...)
	}
}

func acceptable(q string) bool {
	n := utf8.RuneCountInString(q)
	return n > minQuestionRunes && n < maxQuestionRunes
}
