// Package corpus builds the competitor-page document set that feeds the
// rule-based question extractor: fetching pages with the evasion transport,
// auditing robots.txt, discovering URLs from sitemaps, and reducing HTML to
// plain text with a quality hint.
package corpus

import (
	"time"

	"github.com/FranksOps/sift/internal/candidate"
)

// Document is one competitor page reduced to extractable text.
type Document struct {
	URL       string             `json:"url"`
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Language  candidate.Language `json:"lang"`
	Quality   float64            `json:"quality_score"`
	FetchedAt time.Time          `json:"fetched_at"`
}

// FetchResult captures the raw outcome of one page fetch before text
// extraction. Challenged marks pages behind a bot-protection interstitial;
// their content is challenge boilerplate, not competitor copy.
type FetchResult struct {
	ID           string
	URL          string
	StatusCode   int
	Headers      map[string][]string
	Body         []byte
	Duration     time.Duration
	Challenged   bool
	ChallengeSrc string
	FetchedAt    time.Time
	Error        string
}
