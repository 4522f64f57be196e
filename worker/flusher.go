package worker

import (
	"context"
	"log/slog"
	"time"

	"freepress/internal/outlets"
)

// Flusher writes pending repository changes to the backing store on an
// interval and once more on shutdown.
type Flusher struct {
	Repo     *outlets.Repository
	Interval time.Duration
	// Timeout bounds each Flush call.
	Timeout time.Duration
}

func (w *Flusher) Start(ctx context.Context) error {
	if w.Interval <= 0 {
		w.Interval = 5 * time.Second
	}
	if w.Timeout <= 0 {
		w.Timeout = 30 * time.Second
	}

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			// the parent context is gone; give the final flush its own deadline
			final, cancel := context.WithTimeout(context.Background(), w.Timeout)
			w.runOnce(final)
			cancel()
			return nil
		case <-t.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Flusher) runOnce(ctx context.Context) {
	writes, deletes := w.Repo.Pending()
	if writes == 0 && deletes == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, w.Timeout)
	defer cancel()
	if err := w.Repo.Flush(ctx); err != nil {
		slog.Error("flusher: flush failed", "writes", writes, "deletes", deletes, "err", err)
		return
	}
	slog.Debug("flusher: flushed", "writes", writes, "deletes", deletes)
}
