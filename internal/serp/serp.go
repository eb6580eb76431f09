// Package serp gathers "People Also Ask" questions from search result
// pages. These per-query question lists feed the frequency aggregator.
package serp

import "context"

// PAAProvider abstracts a source of People Also Ask questions for a
// search query. Implementations may scrape result pages, call an API,
// or replay previously captured lists. The limit parameter caps the
// number of questions returned per query.
type PAAProvider interface {
	PeopleAlsoAsk(ctx context.Context, query string, limit int) ([]string, error)
}

// Static replays fixed question lists keyed by query. Useful for tests
// and for runs driven by pre-exported SERP captures.
type Static struct {
	Questions map[string][]string
}

// PeopleAlsoAsk returns the captured questions for the query, capped at
// limit when positive.
func (s *Static) PeopleAlsoAsk(_ context.Context, query string, limit int) ([]string, error) {
	qs := s.Questions[query]
	if limit > 0 && len(qs) > limit {
		qs = qs[:limit]
	}
	return qs, nil
}
