package corpus

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSitemapFetcherFlatSitemap(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/sitemap.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
   <url>
      <loc>http://example.com/</loc>
      <lastmod>2026-01-01</lastmod>
      <changefreq>monthly</changefreq>
      <priority>0.8</priority>
   </url>
   <url>
      <loc>http://example.com/autoclave-guide</loc>
   </url>
</urlset>`))
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()

	sf := NewSitemapFetcher(newTestFetcher(t), nil)

	urls, err := sf.FetchSitemap(context.Background(), ts.URL+"/sitemap.xml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(urls) != 2 {
		t.Fatalf("expected 2 URLs, got %d", len(urls))
	}
	if urls[0] != "http://example.com/" {
		t.Errorf("expected first url to be http://example.com/, got %s", urls[0])
	}
	if urls[1] != "http://example.com/autoclave-guide" {
		t.Errorf("unexpected second url: %s", urls[1])
	}
}

func TestSitemapFetcherSitemapIndex(t *testing.T) {
	mux := http.NewServeMux()

	// Track the base URL to inject into the test XML
	var baseURL string

	mux.HandleFunc("/sitemap_index.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<sitemapindex xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
   <sitemap>
      <loc>` + baseURL + `/sitemap1.xml</loc>
   </sitemap>
   <sitemap>
      <loc>` + baseURL + `/sitemap2.xml</loc>
   </sitemap>
</sitemapindex>`))
	})

	mux.HandleFunc("/sitemap1.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
   <url><loc>http://example.com/s1-1</loc></url>
</urlset>`))
	})

	mux.HandleFunc("/sitemap2.xml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		_, _ = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
   <url><loc>http://example.com/s2-1</loc></url>
   <url><loc>http://example.com/s2-2</loc></url>
</urlset>`))
	})

	ts := httptest.NewServer(mux)
	defer ts.Close()
	baseURL = ts.URL

	sf := NewSitemapFetcher(newTestFetcher(t), nil)

	urls, err := sf.FetchSitemap(context.Background(), ts.URL+"/sitemap_index.xml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(urls) != 3 {
		t.Fatalf("expected 3 URLs from nested sitemaps, got %d", len(urls))
	}

	expected := map[string]bool{
		"http://example.com/s1-1": true,
		"http://example.com/s2-1": true,
		"http://example.com/s2-2": true,
	}
	for _, u := range urls {
		if !expected[u] {
			t.Errorf("unexpected url in results: %s", u)
		}
	}
}

func TestSitemapFetcherBadStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer ts.Close()

	sf := NewSitemapFetcher(newTestFetcher(t), nil)

	if _, err := sf.FetchSitemap(context.Background(), ts.URL+"/sitemap.xml"); err == nil {
		t.Error("expected an error for a missing sitemap")
	}
}
