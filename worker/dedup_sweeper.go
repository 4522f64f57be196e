package worker

import (
	"context"
	"log/slog"
	"time"

	"freepress/internal/dedup"
	"freepress/internal/model"
	"freepress/internal/outlets"
)

// DedupSweeper scans the repository for duplicates on an interval. Groups
// are logged; with AutoMerge they are merged keep-first.
type DedupSweeper struct {
	Repo      *outlets.Repository
	Options   dedup.Options
	AutoMerge bool
	Interval  time.Duration
}

func (w *DedupSweeper) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 6 * time.Hour
	}
	w.RunOnce()

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			w.RunOnce()
		}
	}
}

// RunOnce performs one sweep and returns the groups it found.
func (w *DedupSweeper) RunOnce() []model.DuplicateGroup {
	r := dedup.NewResolver(w.Repo, w.Options)
	if w.AutoMerge {
		rep := r.Merge()
		if len(rep.Groups) > 0 {
			slog.Info("dedup-sweeper: merged duplicates", "pairs", rep.Pairs, "groups", len(rep.Groups), "removed", rep.Removed)
		}
		return rep.Groups
	}
	all := w.Repo.GetAll()
	groups := dedup.GroupPairs(all, dedup.ScanPairs(all, w.Options))
	for _, g := range groups {
		slog.Info("dedup-sweeper: possible duplicate", "name", g.Name, "ids", g.IDs, "match", g.MatchType)
	}
	return groups
}
