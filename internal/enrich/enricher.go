// Package enrich researches outlets through the AI provider cascade and
// merges what comes back into the repository.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"freepress/internal/ai"
	"freepress/internal/model"
	"freepress/internal/outlets"
	"freepress/internal/scrape"
	"freepress/internal/similarity"

	"golang.org/x/time/rate"
)

// Enricher fills in ownership, funding, legal and audience data. Every
// provider call waits on a shared limiter.
type Enricher struct {
	provider ai.Provider
	scraper  scrape.Scraper
	repo     *outlets.Repository
	limiter  *rate.Limiter
	now      func() time.Time
}

// New builds an Enricher. scraper may be nil. requestsPerMinute <= 0 means
// one request per three seconds.
func New(provider ai.Provider, scraper scrape.Scraper, repo *outlets.Repository, requestsPerMinute int) *Enricher {
	every := 3 * time.Second
	if requestsPerMinute > 0 {
		every = time.Minute / time.Duration(requestsPerMinute)
	}
	return &Enricher{
		provider: provider,
		scraper:  scraper,
		repo:     repo,
		limiter:  rate.NewLimiter(rate.Every(every), 1),
		now:      time.Now,
	}
}

// Result reports what one Enrich call changed.
type Result struct {
	Outlet  model.Outlet
	Applied []Aspect
	Empty   []Aspect // provider answered without usable data
	Failed  []Aspect
}

// Enrich researches the requested aspects (all when none are given), merges
// the answers and recomputes the outlet's scores. Aspects without usable
// data leave the record untouched.
func (e *Enricher) Enrich(ctx context.Context, id string, aspects ...Aspect) (Result, error) {
	o, ok := e.repo.Get(id)
	if !ok {
		return Result{}, fmt.Errorf("enrich %s: %w", id, outlets.ErrNotFound)
	}
	if len(aspects) == 0 {
		aspects = AllAspects
	}
	res := Result{Outlet: o}
	page := e.scrapeSite(ctx, o)

	var patch outlets.Patch
	for _, a := range aspects {
		payload, err := e.ask(ctx, ai.Request{System: systemPrompt, User: aspectPrompt(a, o, page)})
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			slog.Error("enrich: provider failed", "id", id, "aspect", a, "err", err)
			res.Failed = append(res.Failed, a)
			continue
		}
		if !applyAspect(&patch, a, payload) {
			slog.Info("enrich: no usable data", "id", id, "aspect", a)
			res.Empty = append(res.Empty, a)
			continue
		}
		res.Applied = append(res.Applied, a)
	}

	if len(res.Applied) == 0 {
		return res, nil
	}
	now := e.now()
	patch.LastEnriched = &now
	if _, ok := e.repo.Update(id, patch); !ok {
		return res, fmt.Errorf("enrich %s: %w", id, outlets.ErrNotFound)
	}
	updated, err := e.repo.RecomputeScores(id)
	if err != nil {
		slog.Warn("enrich: scores kept", "id", id, "err", err)
	}
	res.Outlet = updated
	slog.Info("enrich: outlet updated", "id", id, "name", updated.Name, "aspects", res.Applied, "free_press_score", updated.FreePressScore)
	return res, nil
}

func (e *Enricher) scrapeSite(ctx context.Context, o model.Outlet) scrape.Page {
	if e.scraper == nil || o.Website == "" {
		return scrape.Page{}
	}
	u := o.Website
	if d, ok := similarity.ExtractDomain(u); ok {
		u = "https://" + d
	}
	page, err := e.scraper.Scrape(ctx, u)
	if err != nil {
		slog.Warn("enrich: scrape failed", "id", o.ID, "url", u, "err", err)
		return scrape.Page{}
	}
	return page
}

// ask waits for the limiter, calls the provider and extracts the JSON
// payload. A reply without JSON yields a nil payload and no error.
func (e *Enricher) ask(ctx context.Context, req ai.Request) (any, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	reply, err := e.provider.Generate(ctx, req)
	if err != nil {
		return nil, err
	}
	v, _ := ExtractJSON(reply)
	return v, nil
}

// applyAspect copies the fields an aspect is responsible for into p. It
// reports whether anything usable was found.
func applyAspect(p *outlets.Patch, a Aspect, payload any) bool {
	m, ok := object(payload)
	if !ok {
		return false
	}
	found := false
	switch a {
	case AspectOwnership:
		src := m["ownership"]
		if src == nil && m["type"] != nil {
			src = m
		}
		if own := model.DecodeOwnership(src); !own.IsZero() {
			p.Ownership = &own
			found = true
		}
		if s := model.DecodeStakeholders(m["stakeholders"]); len(s) > 0 {
			p.Stakeholders = s
			found = true
		}
		if s := model.DecodeStakeholders(m["boardMembers"]); len(s) > 0 {
			p.BoardMembers = s
			found = true
		}
	case AspectFunding:
		src := m["funding"]
		if src == nil && m["sources"] != nil {
			src = m
		}
		if f := model.DecodeFunding(src); !f.IsZero() {
			p.Funding = &f
			found = true
		}
	case AspectLegal:
		if l := model.DecodeLawsuits(m["lawsuits"]); l != nil {
			p.Lawsuits = l
			found = true
		}
		if r := model.DecodeEvents(m["retractions"]); r != nil {
			p.Retractions = r
			found = true
		}
		if s := model.DecodeEvents(m["scandals"]); s != nil {
			p.Scandals = s
			found = true
		}
		if acc := model.DecodeAccountability(m["accountability"]); acc != nil {
			p.Accountability = acc
			found = true
		}
	case AspectAudience:
		if aud := model.DecodeAudience(m["audience"]); aud != nil {
			p.Audience = aud
			found = true
		}
		if s := model.String(m["estimatedAudience"]); s != "" {
			p.EstimatedAudience = &s
			found = true
		}
		if b, ok := model.Float(m["biasScore"]); ok {
			b = outlets.ClampBias(b)
			p.BiasScore = &b
			found = true
		}
	}
	return found
}
