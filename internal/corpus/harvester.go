package corpus

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/FranksOps/sift/internal/candidate"
	"github.com/FranksOps/sift/internal/metrics"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

// HarvestConfig provides parameters for the corpus harvester.
type HarvestConfig struct {
	Concurrency int
	// RespectRobots specifies whether to check robots.txt before fetching.
	RespectRobots bool
	// UserAgent is the User-Agent string to use when checking robots.txt.
	UserAgent string
	// MinContentRunes drops pages with less extractable text than this.
	MinContentRunes int
}

// Harvester turns a list of competitor page URLs into Documents ready for
// question extraction. Challenged and near-empty pages are dropped.
type Harvester struct {
	cfg     HarvestConfig
	fetcher *Fetcher
	logger  *slog.Logger
	auditor *RobotsAuditor
}

// NewHarvester creates a new Harvester.
func NewHarvester(cfg HarvestConfig, fetcher *Fetcher, logger *slog.Logger) *Harvester {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = "*"
	}
	if cfg.MinContentRunes <= 0 {
		cfg.MinContentRunes = 200
	}

	var auditor *RobotsAuditor
	if cfg.RespectRobots {
		auditor = NewRobotsAuditor(fetcher, logger)
	}

	return &Harvester{
		cfg:     cfg,
		fetcher: fetcher,
		logger:  logger,
		auditor: auditor,
	}
}

// Harvest fetches every URL with bounded concurrency and returns the
// documents that survived challenge detection and the content floor.
// Individual page failures are logged and skipped, never fatal.
func (h *Harvester) Harvest(ctx context.Context, pageURLs []string) ([]Document, error) {
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(h.cfg.Concurrency)

	var mu sync.Mutex
	docs := make([]Document, 0, len(pageURLs))

	for _, pageURL := range pageURLs {
		g.Go(func() error {
			doc, ok := h.harvestOne(gCtx, pageURL)
			if ok {
				mu.Lock()
				docs = append(docs, doc)
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return docs, err
	}
	return docs, nil
}

func (h *Harvester) harvestOne(ctx context.Context, pageURL string) (Document, bool) {
	if h.auditor != nil {
		allowed, err := h.auditor.IsAllowed(ctx, pageURL, h.cfg.UserAgent)
		if err != nil {
			h.logger.Warn("error checking robots.txt", "url", pageURL, "err", err)
			// Fail open, same policy as robots.txt fetch failures.
		} else if !allowed {
			h.logger.Debug("url blocked by robots.txt", "url", pageURL)
			return Document{}, false
		}
	}

	h.logger.Debug("fetching", "url", pageURL)

	result, err := h.fetcher.Fetch(ctx, pageURL)
	if err != nil || result == nil {
		h.logger.Error("fetch error", "url", pageURL, "err", err)
		return Document{}, false
	}

	metrics.RecordHarvest(hostname(pageURL), result.StatusCode, result.Challenged, result.Error)

	if result.Error != "" || result.StatusCode >= 400 {
		h.logger.Warn("page unusable", "url", pageURL, "status", result.StatusCode, "err", result.Error)
		return Document{}, false
	}
	if result.Challenged {
		h.logger.Warn("page served a bot challenge, dropping", "url", pageURL, "src", result.ChallengeSrc)
		return Document{}, false
	}

	title, content := ExtractText(result.Body)
	if utf8.RuneCountInString(content) < h.cfg.MinContentRunes {
		h.logger.Debug("page below content floor", "url", pageURL)
		return Document{}, false
	}

	return Document{
		URL:       pageURL,
		Title:     title,
		Content:   content,
		Language:  candidate.DetectLanguage(content),
		Quality:   qualityHint(content),
		FetchedAt: result.FetchedAt,
	}, true
}

// ExtractText reduces an HTML page to its title and visible text, skipping
// script, style, and chrome elements.
func ExtractText(body []byte) (title, content string) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", ""
	}

	title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("script, style, noscript, nav, header, footer, iframe").Remove()

	var b strings.Builder
	doc.Find("body").Each(func(_ int, s *goquery.Selection) {
		b.WriteString(s.Text())
	})

	// Collapse runs of whitespace left behind by removed elements.
	fields := strings.Fields(b.String())
	return title, strings.Join(fields, " ")
}

// qualityHint derives a rough 0-10 usefulness score for a page. It is only
// a hint carried through to candidates for provenance; scoring never uses it.
func qualityHint(content string) float64 {
	runes := utf8.RuneCountInString(content)
	switch {
	case runes >= 5000:
		return 8.0
	case runes >= 2000:
		return 6.5
	case runes >= 500:
		return 5.0
	default:
		return 3.0
	}
}

func hostname(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// DiscoverURLs walks a domain's robots.txt-declared sitemaps (falling back
// to /sitemap.xml) and returns up to limit page URLs.
func (h *Harvester) DiscoverURLs(ctx context.Context, domain string, limit int) ([]string, error) {
	sf := NewSitemapFetcher(h.fetcher, h.logger)

	var sitemaps []string
	if h.auditor != nil {
		declared, err := h.auditor.Sitemaps(ctx, domain)
		if err == nil {
			sitemaps = declared
		}
	}
	if len(sitemaps) == 0 {
		if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
			domain = "https://" + domain
		}
		sitemaps = []string{strings.TrimRight(domain, "/") + "/sitemap.xml"}
	}

	var urls []string
	for _, sm := range sitemaps {
		found, err := sf.FetchSitemap(ctx, sm)
		if err != nil {
			h.logger.Warn("sitemap discovery failed", "sitemap", sm, "err", err)
			continue
		}
		urls = append(urls, found...)
		if limit > 0 && len(urls) >= limit {
			return urls[:limit], nil
		}
	}
	return urls, nil
}
