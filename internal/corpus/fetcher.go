package corpus

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/FranksOps/sift/internal/fingerprint"
	"github.com/FranksOps/sift/pkg/httpclient"
	"github.com/FranksOps/sift/pkg/proxy"
	"github.com/FranksOps/sift/pkg/ratelimit"
	"github.com/FranksOps/sift/pkg/useragent"
	"github.com/google/uuid"
)

type contextKey string

const proxyKey contextKey = "proxy_url"

// FetchConfig configures page fetching for corpus harvesting.
type FetchConfig struct {
	Timeout      time.Duration
	MaxRedirects int
	UseCookieJar bool
	ProxyPool    *proxy.Pool
	UAPool       *useragent.Pool
	Fingerprint  fingerprint.Profile
	Limiter      *ratelimit.Limiter
}

// Fetcher performs single URL fetches using the configured evasion strategy.
// Competitor sites sit behind the same bot protections the SERP pages do, so
// the harvester borrows the full fingerprint/UA-rotation treatment.
type Fetcher struct {
	config    FetchConfig
	client    *httpclient.Client
	transport http.RoundTripper
}

// NewFetcher initializes a new Fetcher with the given configuration.
// A single client persists across requests so cookie jars survive for the
// lifetime of the Fetcher.
func NewFetcher(cfg FetchConfig) (*Fetcher, error) {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.UAPool == nil {
		cfg.UAPool = useragent.NewPool(nil)
	}
	if string(cfg.Fingerprint) == "" {
		cfg.Fingerprint = fingerprint.ProfileChrome
	}

	// One transport per fetcher keeps connection pooling; per-request proxy
	// rotation goes through the request context because mutating
	// Transport.Proxy concurrently is not safe.
	proxyFunc := func(req *http.Request) (*url.URL, error) {
		if val := req.Context().Value(proxyKey); val != nil {
			if u, ok := val.(*url.URL); ok {
				return u, nil
			}
		}
		// Keep local test traffic away from any system proxy.
		if req.URL.Host == "example.com" || req.URL.Hostname() == "127.0.0.1" {
			return nil, nil
		}
		return http.ProxyFromEnvironment(req)
	}

	transport, err := fingerprint.Transport(cfg.Fingerprint, proxyFunc)
	if err != nil {
		return nil, fmt.Errorf("setup transport: %w", err)
	}

	client, err := httpclient.New(httpclient.Config{
		Timeout:      cfg.Timeout,
		MaxRedirects: cfg.MaxRedirects,
		UseCookieJar: cfg.UseCookieJar,
		Transport:    transport,
	})
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}

	return &Fetcher{
		config:    cfg,
		client:    client,
		transport: transport,
	}, nil
}

// Fetch executes a GET request to the target URL, tracking the duration and
// running challenge detection on the response. Transport-level failures are
// reported through FetchResult.Error, never as a returned error, so one bad
// page cannot abort a harvest.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) (*FetchResult, error) {
	if f.config.Limiter != nil {
		if err := f.config.Limiter.Wait(ctx); err != nil {
			return &FetchResult{
				ID:        uuid.New().String(),
				URL:       targetURL,
				FetchedAt: time.Now().UTC(),
				Error:     fmt.Sprintf("rate limiter failed: %v", err),
			}, nil
		}
	}

	start := time.Now()

	result := &FetchResult{
		ID:        uuid.New().String(),
		URL:       targetURL,
		FetchedAt: start.UTC(),
	}

	var activeProxy *url.URL
	if f.config.ProxyPool != nil {
		activeProxy = f.config.ProxyPool.Next()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		result.Error = fmt.Sprintf("failed to create request: %v", err)
		result.Duration = time.Since(start)
		return result, nil
	}

	if activeProxy != nil {
		req = req.WithContext(context.WithValue(req.Context(), proxyKey, activeProxy))
	}

	req.Header.Set("User-Agent", f.config.UAPool.GetSequential())
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5,zh-TW;q=0.4")

	resp, err := f.client.Do(req.Context(), req)
	if err != nil {
		if activeProxy != nil {
			_ = f.config.ProxyPool.MarkFailure(activeProxy)
		}
		result.Error = fmt.Sprintf("request failed: %v", err)
		result.Duration = time.Since(start)
		return result, nil
	}
	defer resp.Body.Close()

	if activeProxy != nil {
		_ = f.config.ProxyPool.MarkSuccess(activeProxy)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Error = fmt.Sprintf("failed to read body: %v", err)
	}

	result.StatusCode = resp.StatusCode
	result.Headers = resp.Header
	result.Body = body
	result.Duration = time.Since(start)

	DetectChallenge(result, DefaultDetectors())

	return result, nil
}
