package scrape

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type stubScraper struct {
	page Page
	err  error
}

func (s stubScraper) Scrape(ctx context.Context, url string) (Page, error) { return s.page, s.err }

func TestChainFirstSuccessWins(t *testing.T) {
	c := Chain{
		stubScraper{err: errors.New("quota")},
		stubScraper{page: Page{Content: "  "}},
		stubScraper{page: Page{Title: "ok", Content: "body"}},
		stubScraper{page: Page{Title: "late", Content: "body"}},
	}
	p, err := c.Scrape(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if p.Title != "ok" {
		t.Errorf("expected third scraper to win, got %q", p.Title)
	}
}

func TestChainErrors(t *testing.T) {
	if _, err := (Chain{}).Scrape(context.Background(), "x"); !errors.Is(err, ErrNoScraper) {
		t.Errorf("expected ErrNoScraper, got %v", err)
	}
	quota := errors.New("quota")
	if _, err := (Chain{stubScraper{err: quota}}).Scrape(context.Background(), "x"); !errors.Is(err, quota) {
		t.Errorf("expected joined error, got %v", err)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("héllo", 2); got != "hé" {
		t.Errorf("expected rune-safe cut, got %q", got)
	}
	if got := Truncate("abc", 0); got != "abc" {
		t.Errorf("expected no cut, got %q", got)
	}
}

func TestCloudflareScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req markdownRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(scrapeResponse{
			Success: true,
			Result:  fmt.Sprintf("## About\n# The Guardian\ncontent for %s", req.URL),
		})
	}))
	defer srv.Close()

	c := NewCloudflare("acct", "tok", 0)
	c.baseURL = srv.URL
	p, err := c.Scrape(context.Background(), "https://www.theguardian.com/about")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if p.Title != "The Guardian" {
		t.Errorf("expected top-level heading as title, got %q", p.Title)
	}
	if !strings.Contains(p.Content, "https://www.theguardian.com/about") {
		t.Errorf("unexpected content %q", p.Content)
	}

	c.token = "wrong"
	if _, err := c.Scrape(context.Background(), "https://www.theguardian.com/about"); err == nil {
		t.Errorf("expected error on 401")
	}
	if _, err := c.Scrape(context.Background(), "not a url"); err == nil {
		t.Errorf("expected invalid url error")
	}
}

func TestNewCloudflareUnconfigured(t *testing.T) {
	if NewCloudflare("", "tok", 0) != nil {
		t.Errorf("expected nil client without account id")
	}
}

const articleHTML = `<!DOCTYPE html>
<html><head><title>About the Example Tribune</title></head>
<body>
<nav><a href="/">Home</a> <a href="/news">News</a></nav>
<article>
<h1>About the Example Tribune</h1>
<p>The Example Tribune is an independent newspaper founded in 1921 and owned by the Example Trust, a nonprofit foundation that reinvests all profits into journalism.</p>
<p>Our newsroom publishes a corrections policy, maintains a dedicated fact-checking desk, and follows a published ethics code that every reporter signs when they join the staff.</p>
<p>Funding comes from reader subscriptions, philanthropic grants and a small amount of advertising, and the trust publishes audited annual accounts every spring.</p>
</article>
<footer>Copyright Example Tribune</footer>
</body></html>`

func TestReadabilityScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(articleHTML))
	}))
	defer srv.Close()

	s := NewReadability(0, 0)
	p, err := s.Scrape(context.Background(), srv.URL+"/about")
	if err != nil {
		t.Fatalf("scrape: %v", err)
	}
	if !strings.Contains(p.Content, "Example Trust") {
		t.Errorf("expected article text, got %q", p.Content)
	}
	if p.URL != srv.URL+"/about" {
		t.Errorf("unexpected url %q", p.URL)
	}

	if _, err := s.Scrape(context.Background(), srv.URL+"/missing"); err == nil {
		t.Errorf("expected error for 404")
	}
	if _, err := s.Scrape(context.Background(), "example.com"); err == nil {
		t.Errorf("expected error for url without scheme")
	}
}
