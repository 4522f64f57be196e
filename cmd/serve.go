package cmd

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freepress/internal/outlets"
	"freepress/worker"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the background workers",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()
		cfg := a.cfg

		ws := []worker.Worker{
			&worker.Flusher{Repo: a.repo, Interval: cfg.Persist.FlushInterval},
			&worker.DedupSweeper{
				Repo:      a.repo,
				Options:   dedupOptions(cfg),
				AutoMerge: cfg.Dedup.AutoMerge,
				Interval:  cfg.Dedup.SweepInterval,
			},
		}
		if en, err := a.enricher(); err != nil {
			slog.Warn("refresher disabled", "err", err)
		} else {
			ws = append(ws, &worker.Refresher{
				Repo:       a.repo,
				Enricher:   en,
				Schedule:   cfg.Refresh.Schedule,
				StaleAfter: cfg.Refresh.StaleAfter,
				BatchSize:  cfg.Refresh.BatchSize,
			})
		}
		slog.Info("starting workers", "outlets", a.repo.Len(), "workers", len(ws))
		mgr := worker.NewManager(ws...)

		// Signal handling for systemd
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
		go func() {
			s := <-sigc
			log.Printf("received signal: %s, shutting down", s)
			cancel()
		}()

		return runWorkers(ctx, mgr, a.repo)
	},
}

// runWorkers blocks until every worker has stopped, then flushes once more
// so writes made by jobs still finishing at shutdown are saved.
func runWorkers(ctx context.Context, mgr *worker.Manager, repo *outlets.Repository) error {
	err := mgr.Start(ctx)
	fctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if ferr := repo.Flush(fctx); ferr != nil {
		slog.Error("final flush failed", "err", ferr)
		if err == nil {
			err = ferr
		}
	}
	return err
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
