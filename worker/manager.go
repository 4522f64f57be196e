package worker

import (
	"context"
	"log/slog"
	"sync"
)

// Worker is a long-running job. Start blocks until ctx is cancelled and
// returns an error only if the worker could not run at all.
type Worker interface {
	Start(ctx context.Context) error
}

// Manager starts and supervises a set of workers.
type Manager struct {
	workers []Worker
}

func NewManager(ws ...Worker) *Manager {
	return &Manager{workers: ws}
}

func (m *Manager) Start(ctx context.Context) error {
	var wg sync.WaitGroup
	errs := make(chan error, len(m.workers))
	for _, w := range m.workers {
		wg.Add(1)
		go func(w Worker) {
			defer wg.Done()
			if err := w.Start(ctx); err != nil {
				slog.Error("worker: failed to start", "worker", workerName(w), "err", err)
				errs <- err
			}
		}(w)
	}
	// Wait for context cancellation then wait for workers to exit.
	<-ctx.Done()
	wg.Wait()
	close(errs)
	// If any worker returned an error before context cancelled, report one.
	for err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func workerName(w Worker) string {
	switch w.(type) {
	case *Flusher:
		return "flusher"
	case *Refresher:
		return "refresher"
	case *DedupSweeper:
		return "dedup-sweeper"
	}
	return "worker"
}
