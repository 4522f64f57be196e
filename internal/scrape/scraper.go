// Package scrape turns an outlet website into readable text that enrichment
// prompts can quote.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrNoScraper is returned by an empty Chain.
var ErrNoScraper = errors.New("scrape: no scraper configured")

// Page is the readable content of one URL.
type Page struct {
	URL     string
	Title   string
	Content string
}

type Scraper interface {
	Scrape(ctx context.Context, url string) (Page, error)
}

// Chain tries scrapers in order; the first one returning non-empty content
// wins.
type Chain []Scraper

func (c Chain) Scrape(ctx context.Context, url string) (Page, error) {
	if len(c) == 0 {
		return Page{}, ErrNoScraper
	}
	var errs []error
	for _, s := range c {
		if s == nil {
			continue
		}
		p, err := s.Scrape(ctx, url)
		if err != nil {
			slog.Debug("scrape: scraper failed", "url", url, "err", err)
			errs = append(errs, err)
			continue
		}
		if strings.TrimSpace(p.Content) == "" {
			errs = append(errs, fmt.Errorf("empty content from %T", s))
			continue
		}
		return p, nil
	}
	if len(errs) == 0 {
		return Page{}, ErrNoScraper
	}
	return Page{}, errors.Join(errs...)
}

// Truncate cuts content to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
