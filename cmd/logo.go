package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"freepress/internal/logo"
	"freepress/internal/model"
	"freepress/internal/outlets"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var logoAll bool

var logoCmd = &cobra.Command{
	Use:   "logo [id]",
	Short: "Fetch outlet logos and store them as WebP",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if logoAll == (len(args) == 1) {
			return errors.New("pass either an outlet id or --all")
		}
		ctx := context.Background()
		a, err := openApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		f := logo.NewFetcher(logo.Config{
			Dir:     a.cfg.Logos.Dir,
			Quality: a.cfg.Logos.Quality,
			Size:    a.cfg.Logos.Size,
			Timeout: 15 * time.Second,
		})
		store := func(ctx context.Context, o model.Outlet) error {
			l, err := f.Fetch(ctx, o)
			if err != nil {
				return err
			}
			a.repo.Update(o.ID, outlets.Patch{LogoPath: &l.Path, LogoURL: &l.SourceURL})
			return nil
		}

		if !logoAll {
			o, ok := a.repo.Get(args[0])
			if !ok {
				return fmt.Errorf("%s: %w", args[0], outlets.ErrNotFound)
			}
			if err := store(ctx, o); err != nil {
				return err
			}
			return a.flush(ctx)
		}

		var saved atomic.Int32
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(4)
		for _, o := range a.repo.GetAll() {
			o := o
			g.Go(func() error {
				if err := store(gctx, o); err != nil {
					slog.Warn("logo: skipped", "id", o.ID, "name", o.Name, "err", err)
					return nil
				}
				saved.Add(1)
				return nil
			})
		}
		_ = g.Wait()
		if err := a.flush(ctx); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "saved %d of %d logos to %s\n", saved.Load(), a.repo.Len(), a.cfg.Logos.Dir)
		return nil
	},
}

func init() {
	logoCmd.Flags().BoolVar(&logoAll, "all", false, "fetch logos for every outlet")
	rootCmd.AddCommand(logoCmd)
}
