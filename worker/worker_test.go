package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"freepress/internal/enrich"
	"freepress/internal/model"
	"freepress/internal/outlets"
)

type countingStore struct {
	mu    sync.Mutex
	saved map[string]model.Outlet
}

func (s *countingStore) LoadOutlets(ctx context.Context) ([]model.Outlet, error) { return nil, nil }

func (s *countingStore) SaveOutlets(ctx context.Context, list []model.Outlet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range list {
		s.saved[o.ID] = o
	}
	return nil
}

func (s *countingStore) DeleteOutlets(ctx context.Context, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		delete(s.saved, id)
	}
	return nil
}

func (s *countingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

func TestFlusherFlushesOnShutdown(t *testing.T) {
	store := &countingStore{saved: map[string]model.Outlet{}}
	repo := outlets.New(store, outlets.Options{})
	repo.Add(model.Candidate{Name: "Reuters"})
	repo.Add(model.Candidate{Name: "Le Monde"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- (&Flusher{Repo: repo, Interval: time.Hour}).Start(ctx) }()
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("flusher: %v", err)
	}
	if store.count() != 2 {
		t.Errorf("expected final flush to save 2 outlets, got %d", store.count())
	}
	if w, d := repo.Pending(); w != 0 || d != 0 {
		t.Errorf("expected nothing pending, got %d/%d", w, d)
	}
}

type fakeEnricher struct {
	mu    sync.Mutex
	ids   []string
	fail  map[string]bool
	apply bool
}

func (f *fakeEnricher) Enrich(ctx context.Context, id string, aspects ...enrich.Aspect) (enrich.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, id)
	if f.fail[id] {
		return enrich.Result{}, errors.New("provider down")
	}
	if !f.apply {
		return enrich.Result{}, nil
	}
	return enrich.Result{Applied: []enrich.Aspect{enrich.AspectOwnership}}, nil
}

func TestStaleOrdersOldestFirst(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	all := []model.Outlet{
		{ID: "fresh", LastEnriched: base.Add(48 * time.Hour)},
		{ID: "old", LastEnriched: base.Add(-48 * time.Hour)},
		{ID: "never"},
		{ID: "older", LastEnriched: base.Add(-96 * time.Hour)},
	}
	got := Stale(all, base, 2)
	if len(got) != 2 || got[0].ID != "never" || got[1].ID != "older" {
		t.Errorf("unexpected stale set: %+v", got)
	}
	if n := len(Stale(all, base, 0)); n != 3 {
		t.Errorf("expected 3 stale without limit, got %d", n)
	}
}

func TestRefresherRunOnce(t *testing.T) {
	repo := outlets.New(nil, outlets.Options{})
	a, _, _ := repo.Add(model.Candidate{Name: "Reuters"})
	b, _, _ := repo.Add(model.Candidate{Name: "Le Monde"})
	c, _, _ := repo.Add(model.Candidate{Name: "Der Spiegel"})
	recent := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	repo.Update(c.ID, outlets.Patch{LastEnriched: &recent})

	fe := &fakeEnricher{apply: true, fail: map[string]bool{b.ID: true}}
	w := &Refresher{
		Repo:       repo,
		Enricher:   fe,
		StaleAfter: 24 * time.Hour,
		BatchSize:  10,
		now:        func() time.Time { return recent.Add(time.Hour) },
	}
	n, err := w.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 updated, got %d", n)
	}
	if len(fe.ids) != 2 {
		t.Errorf("expected a and b enriched, got %v", fe.ids)
	}
	for _, id := range fe.ids {
		if id != a.ID && id != b.ID {
			t.Errorf("fresh outlet %s should not be enriched", id)
		}
	}
}

func TestRefresherRejectsBadSchedule(t *testing.T) {
	w := &Refresher{Repo: outlets.New(nil, outlets.Options{}), Enricher: &fakeEnricher{}, Schedule: "not a cron"}
	if err := w.Start(context.Background()); err == nil {
		t.Errorf("expected schedule error")
	}
}

func TestDedupSweeper(t *testing.T) {
	repo := outlets.New(nil, outlets.Options{})
	repo.Add(model.Candidate{Name: "Reuters", Website: "https://reuters.com"})
	repo.Add(model.Candidate{Name: "Le Monde"})
	// Add would reject a second reuters.com outlet, so the domain is set afterwards
	x, _, _ := repo.Add(model.Candidate{Name: "Thomson Wire"})
	site := "https://www.reuters.com/world"
	repo.Update(x.ID, outlets.Patch{Website: &site})

	report := &DedupSweeper{Repo: repo}
	groups := report.RunOnce()
	if len(groups) != 1 || groups[0].Count != 2 || groups[0].MatchType != model.MatchDomain {
		t.Fatalf("unexpected groups: %+v", groups)
	}
	if repo.Len() != 3 {
		t.Errorf("report-only sweep must not remove, got %d outlets", repo.Len())
	}

	merge := &DedupSweeper{Repo: repo, AutoMerge: true}
	merge.RunOnce()
	all := repo.GetAll()
	if len(all) != 2 || all[0].Name != "Reuters" {
		t.Errorf("expected keep-first merge, got %+v", all)
	}
}

type stubWorker struct {
	err     error
	stopped chan struct{}
}

func (s *stubWorker) Start(ctx context.Context) error {
	if s.err != nil {
		return s.err
	}
	<-ctx.Done()
	close(s.stopped)
	return nil
}

func TestManagerWaitsForWorkers(t *testing.T) {
	ok := &stubWorker{stopped: make(chan struct{})}
	bad := &stubWorker{err: errors.New("no config")}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewManager(ok, bad).Start(ctx) }()
	cancel()
	err := <-done
	if err == nil || err.Error() != "no config" {
		t.Errorf("expected worker error, got %v", err)
	}
	select {
	case <-ok.stopped:
	default:
		t.Errorf("manager returned before worker stopped")
	}
}
