package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"freepress/internal/ai"
	"freepress/internal/model"
	"freepress/internal/outlets"
	"freepress/internal/scrape"

	"golang.org/x/time/rate"
)

// scriptedProvider answers by matching a fragment of the user prompt.
type scriptedProvider struct {
	replies map[string]string
	err     error
	prompts []string
}

func (p *scriptedProvider) Name() string    { return "scripted" }
func (p *scriptedProvider) Available() bool { return true }
func (p *scriptedProvider) Generate(ctx context.Context, req ai.Request) (string, error) {
	p.prompts = append(p.prompts, req.User)
	if p.err != nil {
		return "", p.err
	}
	for frag, reply := range p.replies {
		if strings.Contains(req.User, frag) {
			return reply, nil
		}
	}
	return "I don't know.", nil
}

type pageScraper struct {
	urls []string
}

func (s *pageScraper) Scrape(ctx context.Context, url string) (scrape.Page, error) {
	s.urls = append(s.urls, url)
	return scrape.Page{URL: url, Content: "Owned by the Example Trust since 1921."}, nil
}

func newEnricher(p ai.Provider, s scrape.Scraper) (*Enricher, *outlets.Repository) {
	repo := outlets.New(nil, outlets.Options{})
	e := New(p, s, repo, 0)
	e.limiter = rate.NewLimiter(rate.Inf, 1)
	e.now = func() time.Time { return time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC) }
	return e, repo
}

func TestEnrichAllAspects(t *testing.T) {
	p := &scriptedProvider{replies: map[string]string{
		"owns and controls": "Sure! ```json\n" + `{"ownership": {"type": "nonprofit", "details": "Example Trust", "shareholders": ["Example Trust"], "confidence": "High"}, "stakeholders": [{"name": "A"}, {"name": "B"}, {"name": "C"}, {"name": "D"}], "boardMembers": ["Chair"]}` + "\n```",
		"how this outlet is funded": `{"funding": {"sources": ["Subscriptions"], "governmentFunding": {"hasGovFunding": false}, "financialTransparency": "high"}}`,
		"legal cases":               `{"lawsuits": [{"type": "Defamation", "status": "Active"}], "retractions": [], "accountability": {"correctionPolicy": {"exists": true, "visible": "yes"}, "ethicsCode": {"exists": true}, "factChecking": {"hasTeam": true}}}`,
		"audience":                  `{"audience": {"size": "2M", "reach": "national"}, "estimatedAudience": "2 million", "biasScore": -5}`,
	}}
	s := &pageScraper{}
	e, repo := newEnricher(p, s)
	o, _, _ := repo.Add(model.Candidate{Name: "Example Tribune", Website: "www.example-tribune.org/about"})

	res, err := e.Enrich(context.Background(), o.ID)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if len(res.Applied) != 4 || len(res.Failed) != 0 || len(res.Empty) != 0 {
		t.Fatalf("unexpected result: applied=%v empty=%v failed=%v", res.Applied, res.Empty, res.Failed)
	}
	if len(s.urls) != 1 || s.urls[0] != "https://example-tribune.org" {
		t.Errorf("expected one scrape of the homepage, got %v", s.urls)
	}
	if !strings.Contains(p.prompts[0], "Example Trust since 1921") {
		t.Errorf("expected scraped text in prompt")
	}

	got := res.Outlet
	if info, ok := got.Ownership.Structured(); !ok || info.Type != "nonprofit" || info.Confidence != "high" {
		t.Errorf("unexpected ownership: %+v", got.Ownership)
	}
	if got.BiasScore != -2 {
		t.Errorf("expected clamped bias, got %v", got.BiasScore)
	}
	if len(got.Lawsuits) != 1 || got.Lawsuits[0].Status != model.LawsuitActive {
		t.Errorf("unexpected lawsuits: %+v", got.Lawsuits)
	}
	// fc 80 - 8 + 5 + 5; ei 75 + 10 + 5; tr 70 + 5 + 5 + 5 + 5 + 10 + 5 + 5 + 5
	if got.FactCheckAccuracy != 82 || got.EditorialIndependence != 90 || got.Transparency != 100 {
		t.Errorf("unexpected scores: fc=%d ei=%d tr=%d", got.FactCheckAccuracy, got.EditorialIndependence, got.Transparency)
	}
	if got.LastEnriched.IsZero() {
		t.Errorf("expected LastEnriched to be set")
	}
	stored, _ := repo.Get(o.ID)
	if stored.FreePressScore != got.FreePressScore {
		t.Errorf("result and repository disagree")
	}
}

func TestEnrichWithoutUsableDataKeepsRecord(t *testing.T) {
	p := &scriptedProvider{replies: map[string]string{
		"owns and controls":         `{"ownership": 42, "stakeholders": "nobody"}`,
		"how this outlet is funded": `not json at all`,
	}}
	e, repo := newEnricher(p, nil)
	o, _, _ := repo.Add(model.Candidate{Name: "Quiet Gazette"})

	res, err := e.Enrich(context.Background(), o.ID, AspectOwnership, AspectFunding)
	if err != nil {
		t.Fatalf("enrich: %v", err)
	}
	if len(res.Applied) != 0 || len(res.Empty) != 2 {
		t.Errorf("expected both aspects empty, got %+v", res)
	}
	got, _ := repo.Get(o.ID)
	if !got.LastEnriched.IsZero() || got.FreePressScore != o.FreePressScore || !got.LastUpdated.Equal(o.LastUpdated) {
		t.Errorf("record changed without data: %+v", got)
	}
}

func TestEnrichProviderFailure(t *testing.T) {
	p := &scriptedProvider{err: errors.New("all providers down")}
	e, repo := newEnricher(p, nil)
	o, _, _ := repo.Add(model.Candidate{Name: "Quiet Gazette"})

	res, err := e.Enrich(context.Background(), o.ID, AspectLegal)
	if err != nil {
		t.Fatalf("provider failures are reported per aspect, got %v", err)
	}
	if len(res.Failed) != 1 || res.Failed[0] != AspectLegal {
		t.Errorf("expected legal to fail, got %+v", res)
	}

	if _, err := e.Enrich(context.Background(), "missing"); !errors.Is(err, outlets.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e.limiter = rate.NewLimiter(rate.Every(time.Hour), 0)
	if _, err := e.Enrich(ctx, o.ID); err == nil {
		t.Errorf("expected error from cancelled context")
	}
}

func TestDiscoverRoutesThroughDuplicateCheck(t *testing.T) {
	p := &scriptedProvider{replies: map[string]string{
		"notable news outlets": `Here you go: {"outlets": [
			{"name": "CNN", "website": "https://www.cnn.com"},
			{"name": "Fox News", "website": "https://foxnews.com"},
			{"name": ""},
			{"name": "Reuters"}
		]}`,
	}}
	e, repo := newEnricher(p, nil)
	existing, _, _ := repo.Add(model.Candidate{Name: "CNN", Website: "https://cnn.com"})

	res, err := e.Discover(context.Background(), DiscoverQuery{Country: "US", Limit: 10})
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if len(res.Matched) != 1 || res.Matched[0].ID != existing.ID {
		t.Errorf("expected CNN matched, got %+v", res.Matched)
	}
	if len(res.Added) != 2 || res.Added[0].Name != "Fox News" || res.Added[0].Country != "US" {
		t.Errorf("unexpected added: %+v", res.Added)
	}
	if repo.Len() != 3 {
		t.Errorf("expected 3 outlets, got %d", repo.Len())
	}
}

func TestParseAspect(t *testing.T) {
	if a, err := ParseAspect(" Funding "); err != nil || a != AspectFunding {
		t.Errorf("expected funding, got %q %v", a, err)
	}
	if _, err := ParseAspect("gossip"); err == nil {
		t.Errorf("expected error for unknown aspect")
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		in   string
		ok   bool
		kind string
	}{
		{`{"a":1}`, true, "object"},
		{"```json\n{\"a\": [1, 2]}\n```", true, "object"},
		{`Answer: [note] then {"a":1} trailing`, true, "object"},
		{`[{"name":"x"}]`, true, "array"},
		{`no json here`, false, ""},
		{`{"broken": `, false, ""},
	}
	for _, c := range cases {
		v, ok := ExtractJSON(c.in)
		if ok != c.ok {
			t.Errorf("%q: expected ok=%v, got %v", c.in, c.ok, ok)
			continue
		}
		switch c.kind {
		case "object":
			if _, isObj := v.(map[string]any); !isObj {
				t.Errorf("%q: expected object, got %T", c.in, v)
			}
		case "array":
			if _, isArr := v.([]any); !isArr {
				t.Errorf("%q: expected array, got %T", c.in, v)
			}
		}
	}
}
