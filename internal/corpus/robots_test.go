package corpus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRobotsAuditorIsAllowed(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(`
User-agent: *
Disallow: /admin/
Allow: /admin/public/

User-agent: BadBot
Disallow: /
		`))
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	auditor := NewRobotsAuditor(newTestFetcher(t), nil)
	ctx := context.Background()

	// Generic bot rules
	allowed, err := auditor.IsAllowed(ctx, ts.URL+"/public-page", "GoodBot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Errorf("expected /public-page to be allowed")
	}

	allowed, _ = auditor.IsAllowed(ctx, ts.URL+"/admin/secret", "GoodBot")
	if allowed {
		t.Errorf("expected /admin/secret to be disallowed")
	}

	allowed, _ = auditor.IsAllowed(ctx, ts.URL+"/admin/public/index.html", "GoodBot")
	if !allowed {
		t.Errorf("expected /admin/public/index.html to be allowed")
	}

	// Specific bot rules
	allowed, _ = auditor.IsAllowed(ctx, ts.URL+"/public-page", "BadBot")
	if allowed {
		t.Errorf("expected /public-page to be disallowed for BadBot")
	}
}

func TestRobotsAuditorMissingRobots(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	auditor := NewRobotsAuditor(newTestFetcher(t), nil)

	allowed, err := auditor.IsAllowed(context.Background(), ts.URL+"/anything", "Bot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !allowed {
		t.Errorf("expected missing robots.txt to default to allowed")
	}
}

func TestRobotsAuditorSitemaps(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(`
User-agent: *
Sitemap: http://example.com/sitemap.xml
Sitemap: http://example.com/sitemap2.xml
		`))
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	auditor := NewRobotsAuditor(newTestFetcher(t), nil)

	sitemaps, err := auditor.Sitemaps(context.Background(), ts.URL)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sitemaps) != 2 {
		t.Fatalf("expected 2 sitemaps, got %d", len(sitemaps))
	}
	if sitemaps[0] != "http://example.com/sitemap.xml" {
		t.Errorf("unexpected sitemap: %s", sitemaps[0])
	}
}
