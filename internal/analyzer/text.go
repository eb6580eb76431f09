// Package analyzer provides the text primitives shared by the overlap filter
// and the on-topic gate: sentence-level chunking of prior article content and
// keyword matching against a topic term set.
package analyzer

import (
	"strings"
	"unicode/utf8"
)

// minChunkRunes is the noise floor for sentence chunks. Shorter fragments
// (list bullets, stray punctuation) carry no topical meaning worth embedding.
const minChunkRunes = 10

func isTerminator(r rune) bool {
	switch r {
	case '。', '！', '？', '.', '!', '?', '\n':
		return true
	}
	return false
}

// SplitSentences chunks free text on sentence-terminal punctuation, both
// ASCII and full-width, plus newlines. Chunks of minChunkRunes runes or fewer
// are discarded. The terminator itself is not kept: chunks feed an embedding
// model where trailing punctuation adds nothing.
func SplitSentences(text string) []string {
	if text == "" {
		return nil
	}

	// Rough estimate, one sentence per 50 bytes.
	estimated := len(text) / 50
	if estimated < 1 {
		estimated = 1
	}
	chunks := make([]string, 0, estimated)

	flush := func(s string) {
		s = strings.TrimSpace(s)
		if utf8.RuneCountInString(s) > minChunkRunes {
			chunks = append(chunks, s)
		}
	}

	start := 0
	for i, r := range text {
		if isTerminator(r) {
			flush(text[start:i])
			start = i + utf8.RuneLen(r)
		}
	}
	if start < len(text) {
		flush(text[start:])
	}

	return chunks
}

// ContainsAny reports whether text contains any of the terms,
// case-insensitively. Terms that are empty after trimming are skipped.
func ContainsAny(text string, terms []string) bool {
	lower := strings.ToLower(text)
	for _, term := range terms {
		term = strings.TrimSpace(term)
		if term == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(term)) {
			return true
		}
	}
	return false
}
