package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"freepress/internal/enrich"
	"freepress/internal/model"
	"freepress/internal/outlets"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

// OutletEnricher is the part of enrich.Enricher the refresher needs.
type OutletEnricher interface {
	Enrich(ctx context.Context, id string, aspects ...enrich.Aspect) (enrich.Result, error)
}

// Refresher re-enriches outlets whose research is older than StaleAfter,
// on a cron schedule.
type Refresher struct {
	Repo        *outlets.Repository
	Enricher    OutletEnricher
	Schedule    string // standard 5-field cron expression
	StaleAfter  time.Duration
	BatchSize   int
	Concurrency int

	now func() time.Time
}

func (w *Refresher) Start(ctx context.Context) error {
	if w.Schedule == "" {
		w.Schedule = "0 3 * * *"
	}
	c := cron.New()
	if _, err := c.AddFunc(w.Schedule, func() {
		if _, err := w.RunOnce(ctx); err != nil {
			slog.Error("refresher: run failed", "err", err)
		}
	}); err != nil {
		return fmt.Errorf("refresher schedule %q: %w", w.Schedule, err)
	}
	c.Start()
	slog.Info("refresher: scheduled", "schedule", w.Schedule, "stale_after", w.StaleAfter, "batch", w.BatchSize)

	<-ctx.Done()
	// wait for a running job to finish
	<-c.Stop().Done()
	return nil
}

// Stale returns outlets never enriched or enriched before the cutoff,
// oldest first, at most limit of them.
func Stale(all []model.Outlet, cutoff time.Time, limit int) []model.Outlet {
	var out []model.Outlet
	for _, o := range all {
		if o.LastEnriched.Before(cutoff) {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LastEnriched.Before(out[j].LastEnriched) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RunOnce enriches one batch of stale outlets and returns how many were
// updated. Individual failures are logged, not returned.
func (w *Refresher) RunOnce(ctx context.Context) (int, error) {
	now := time.Now
	if w.now != nil {
		now = w.now
	}
	stale := w.StaleAfter
	if stale <= 0 {
		stale = 30 * 24 * time.Hour
	}
	batch := w.BatchSize
	if batch <= 0 {
		batch = 10
	}
	workers := w.Concurrency
	if workers <= 0 {
		workers = 2
	}

	due := Stale(w.Repo.GetAll(), now().Add(-stale), batch)
	if len(due) == 0 {
		slog.Debug("refresher: nothing stale")
		return 0, nil
	}

	var updated atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, o := range due {
		id, name := o.ID, o.Name
		g.Go(func() error {
			res, err := w.Enricher.Enrich(gctx, id)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				slog.Error("refresher: enrich failed", "id", id, "name", name, "err", err)
				return nil
			}
			if len(res.Applied) > 0 {
				updated.Add(1)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return int(updated.Load()), err
	}
	slog.Info("refresher: batch done", "due", len(due), "updated", updated.Load())
	return int(updated.Load()), nil
}
