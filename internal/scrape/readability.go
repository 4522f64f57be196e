package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

const defaultMaxContent = 8000

// ReadabilityScraper fetches the page directly and extracts the main text
// locally. It needs no API account, so it is the last link of the chain.
type ReadabilityScraper struct {
	httpClient *http.Client
	maxContent int
}

func NewReadability(timeout time.Duration, maxContent int) *ReadabilityScraper {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if maxContent <= 0 {
		maxContent = defaultMaxContent
	}
	return &ReadabilityScraper{
		httpClient: &http.Client{Timeout: timeout},
		maxContent: maxContent,
	}
}

func (s *ReadabilityScraper) Scrape(ctx context.Context, rawURL string) (Page, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return Page{}, fmt.Errorf("invalid URL: %s", rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Page{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; freepress/1.0)")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("fetch URL: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, parsedURL)
	if err != nil {
		return Page{}, fmt.Errorf("parse content: %w", err)
	}
	return Page{
		URL:     rawURL,
		Title:   strings.TrimSpace(article.Title),
		Content: Truncate(strings.TrimSpace(article.TextContent), s.maxContent),
	}, nil
}
