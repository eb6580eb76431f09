package serp

import (
	"context"
	"log/slog"
	"strings"

	"github.com/FranksOps/sift/internal/frequency"
)

// Collector runs a PAA provider across a list of related search queries
// and flattens the results into mentions for frequency aggregation.
type Collector struct {
	provider PAAProvider
	// PerQueryLimit caps how many questions are taken from each query.
	// Zero means no cap.
	PerQueryLimit int
	logger        *slog.Logger
}

// NewCollector creates a Collector.
func NewCollector(provider PAAProvider, perQueryLimit int, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{provider: provider, PerQueryLimit: perQueryLimit, logger: logger}
}

// Collect gathers PAA questions for every query. A failed query is
// logged and skipped so one bad SERP never sinks the whole collection.
// Each mention records the query it came from, which lets aggregation
// count distinct demand rather than repeated listings.
func (c *Collector) Collect(ctx context.Context, queries []string) []frequency.Mention {
	var mentions []frequency.Mention
	for _, query := range queries {
		questions, err := c.provider.PeopleAlsoAsk(ctx, query, c.PerQueryLimit)
		if err != nil {
			c.logger.Warn("paa lookup failed, skipping query", "query", query, "err", err)
			continue
		}
		for _, q := range questions {
			q = strings.TrimSpace(q)
			if q == "" {
				continue
			}
			mentions = append(mentions, frequency.Mention{Text: q, SourceQuery: query})
		}
	}
	return mentions
}
