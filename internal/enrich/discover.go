package enrich

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"freepress/internal/ai"
	"freepress/internal/model"
	"freepress/internal/outlets"
)

// DiscoverQuery narrows the outlets the provider is asked to list.
type DiscoverQuery struct {
	Country   string
	MediaType string
	Limit     int
}

// DiscoverResult splits candidates into newly added outlets and those that
// matched an existing record.
type DiscoverResult struct {
	Added   []model.Outlet
	Matched []model.Outlet
}

// Discover asks the provider for candidate outlets. Every candidate goes
// through the repository's duplicate pre-check before it is accepted.
func (e *Enricher) Discover(ctx context.Context, q DiscoverQuery) (DiscoverResult, error) {
	if q.Limit <= 0 {
		q.Limit = 10
	}
	payload, err := e.ask(ctx, ai.Request{System: systemPrompt, User: discoverPrompt(q)})
	if err != nil {
		return DiscoverResult{}, fmt.Errorf("discover: %w", err)
	}

	var res DiscoverResult
	for i, c := range decodeCandidates(payload) {
		if i >= q.Limit {
			break
		}
		if c.Country == "" {
			c.Country = q.Country
		}
		if c.MediaType == "" {
			c.MediaType = q.MediaType
		}
		o, created, err := e.repo.Add(c)
		if errors.Is(err, outlets.ErrEmptyName) {
			continue
		}
		if err != nil {
			return res, fmt.Errorf("discover: add %q: %w", c.Name, err)
		}
		if created {
			res.Added = append(res.Added, o)
		} else {
			res.Matched = append(res.Matched, o)
		}
	}
	slog.Info("discover: done", "country", q.Country, "media_type", q.MediaType, "added", len(res.Added), "matched", len(res.Matched))
	return res, nil
}

// decodeCandidates accepts {"outlets": [...]} or a bare list.
func decodeCandidates(payload any) []model.Candidate {
	list, ok := payload.([]any)
	if !ok {
		m, isObj := payload.(map[string]any)
		if !isObj {
			return nil
		}
		if list, ok = m["outlets"].([]any); !ok {
			return nil
		}
	}
	out := make([]model.Candidate, 0, len(list))
	for _, it := range list {
		switch t := it.(type) {
		case string:
			out = append(out, model.Candidate{Name: t})
		case map[string]any:
			out = append(out, model.Candidate{
				Name:              model.String(t["name"]),
				Website:           model.String(t["website"]),
				Country:           model.String(t["country"]),
				MediaType:         model.String(t["mediaType"]),
				EstimatedAudience: model.String(t["estimatedAudience"]),
				Description:       model.String(t["description"]),
			})
		}
	}
	return out
}
