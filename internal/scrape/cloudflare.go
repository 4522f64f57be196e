package scrape

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// CloudflareClient calls Cloudflare Browser Rendering REST API.
// See: https://developers.cloudflare.com/browser-rendering/rest-api/
type CloudflareClient struct {
	baseURL string
	token   string
	http    *http.Client
}

type markdownRequest struct {
	URL                  string   `json:"url"`
	RejectRequestPattern []string `json:"rejectRequestPattern,omitempty"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Result  string `json:"result"`
	Errors  any    `json:"errors"`
}

// NewCloudflare creates a new client from an account ID. It returns nil
// when the account is not configured so callers can leave it out of a Chain.
// Endpoint: https://api.cloudflare.com/client/v4/accounts/<ACCOUNT_ID>/browser-rendering/markdown
func NewCloudflare(accountID, token string, timeout time.Duration) *CloudflareClient {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" || token == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &CloudflareClient{
		baseURL: fmt.Sprintf("https://api.cloudflare.com/client/v4/accounts/%s/browser-rendering/markdown", accountID),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}
}

// Scrape renders the page in a headless browser and returns it as markdown.
func (c *CloudflareClient) Scrape(ctx context.Context, u string) (Page, error) {
	if c == nil {
		return Page{}, errors.New("nil cloudflare client")
	}
	if _, err := url.ParseRequestURI(u); err != nil {
		return Page{}, fmt.Errorf("invalid url: %w", err)
	}
	body, _ := json.Marshal(markdownRequest{
		URL:                  u,
		RejectRequestPattern: []string{"/^.*\\.(css)/"},
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return Page{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return Page{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return Page{}, fmt.Errorf("cloudflare scrape failed: status=%d body=%s", resp.StatusCode, string(b))
	}
	var envelope scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return Page{}, err
	}
	if !envelope.Success {
		return Page{}, fmt.Errorf("cloudflare scrape failed: %v", envelope.Errors)
	}
	return Page{URL: u, Title: markdownTitle(envelope.Result), Content: envelope.Result}, nil
}

// markdownTitle picks the highest-level heading, so `# Title` is preferred
// over `## Title`.
func markdownTitle(md string) string {
	var headings []string
	for _, line := range strings.Split(md, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			headings = append(headings, line)
		}
	}
	if len(headings) == 0 {
		return ""
	}
	sort.SliceStable(headings, func(i, j int) bool {
		return strings.Count(headings[i], "#") < strings.Count(headings[j], "#")
	})
	return strings.TrimSpace(strings.TrimLeft(headings[0], "#"))
}
