package serp

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/FranksOps/sift/internal/corpus"
	"github.com/PuerkitoBio/goquery"
)

// GoogleScrape extracts People Also Ask questions from Google result
// pages fetched through the evasion fetcher. Result pages are routinely
// challenged, so callers should expect empty results and rely on the
// static provider or captured HTML when that happens.
type GoogleScrape struct {
	fetcher *corpus.Fetcher
	// BaseURL overrides the search endpoint, mainly for tests.
	BaseURL string
	// HL is the interface language parameter, e.g. "zh-TW".
	HL string
}

// NewGoogleScrape creates a provider backed by the given fetcher.
func NewGoogleScrape(fetcher *corpus.Fetcher, hl string) *GoogleScrape {
	return &GoogleScrape{
		fetcher: fetcher,
		BaseURL: "https://www.google.com/search",
		HL:      hl,
	}
}

// PeopleAlsoAsk fetches the result page for a query and parses its PAA
// block.
func (g *GoogleScrape) PeopleAlsoAsk(ctx context.Context, query string, limit int) ([]string, error) {
	if limit < 0 {
		return nil, fmt.Errorf("limit cannot be negative: %d", limit)
	}

	params := url.Values{}
	params.Set("q", query)
	if g.HL != "" {
		params.Set("hl", g.HL)
	}

	result, err := g.fetcher.Fetch(ctx, g.BaseURL+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("fetch result page: %w", err)
	}
	if result.Error != "" {
		return nil, fmt.Errorf("fetch error: %s", result.Error)
	}
	if result.Challenged {
		return nil, fmt.Errorf("result page challenged by %s", result.ChallengeSrc)
	}
	if result.StatusCode >= 400 {
		return nil, fmt.Errorf("bad status code: %d", result.StatusCode)
	}

	questions := ParsePAA(result.Body)
	if limit > 0 && len(questions) > limit {
		questions = questions[:limit]
	}
	return questions, nil
}

// ParsePAA pulls question texts out of a result page's People Also Ask
// markup. Google renders each question as a [data-q] attribute and, in
// some layouts, as the text of a related-question span.
func ParsePAA(body []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var questions []string
	add := func(q string) {
		q = strings.TrimSpace(q)
		if q == "" {
			return
		}
		if _, dup := seen[q]; dup {
			return
		}
		seen[q] = struct{}{}
		questions = append(questions, q)
	}

	doc.Find("[data-q]").Each(func(_ int, s *goquery.Selection) {
		if q, ok := s.Attr("data-q"); ok {
			add(q)
		}
	})
	doc.Find("div.related-question-pair span").Each(func(_ int, s *goquery.Selection) {
		add(s.Text())
	})

	return questions
}
