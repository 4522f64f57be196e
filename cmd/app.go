package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"freepress/internal/ai"
	"freepress/internal/config"
	"freepress/internal/dedup"
	"freepress/internal/enrich"
	"freepress/internal/outlets"
	"freepress/internal/redisclient"
	"freepress/internal/scrape"
	"freepress/internal/storage"

	"github.com/redis/go-redis/v9"
)

// app bundles what most subcommands need: a loaded repository backed by Redis.
type app struct {
	cfg  config.Config
	rdb  *redis.Client
	repo *outlets.Repository
}

func openApp(ctx context.Context) (*app, error) {
	cfg := GetConfig()
	rdb := redisclient.New(cfg.Redis)
	store := storage.NewRedisStore(rdb, cfg.Redis.KeyPrefix)
	repo := outlets.New(store, outlets.Options{Dedup: dedupOptions(cfg)})

	loadCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := repo.Load(loadCtx); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("load outlets: %w", err)
	}
	slog.Debug("outlets loaded", "count", repo.Len(), "prefix", cfg.Redis.KeyPrefix)
	return &app{cfg: cfg, rdb: rdb, repo: repo}, nil
}

// flush writes pending changes. Every mutating command calls it before exit.
func (a *app) flush(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := a.repo.Flush(ctx); err != nil {
		return fmt.Errorf("save outlets: %w", err)
	}
	return nil
}

func (a *app) Close() error { return a.rdb.Close() }

func dedupOptions(cfg config.Config) dedup.Options {
	return dedup.Options{
		CandidateThreshold: cfg.Dedup.CandidateThreshold,
		ScanThreshold:      cfg.Dedup.ScanThreshold,
		RegistrableDomains: cfg.Dedup.RegistrableDomains,
	}
}

// newProvider builds the cascade in configured order.
func newProvider(cfg config.Config) *ai.Cascade {
	c := ai.NewCascade()
	for _, p := range cfg.AI.Providers {
		c.Add(ai.NewOpenAI(ai.Config{
			Name:    p.Name,
			APIKey:  p.APIKey,
			Model:   p.Model,
			BaseURL: p.BaseURL,
			Timeout: cfg.AI.Timeout,
		}))
	}
	return c
}

// newScraper prefers Cloudflare when configured and falls back to readability.
func newScraper(cfg config.Config) scrape.Scraper {
	var chain scrape.Chain
	if cf := scrape.NewCloudflare(cfg.Cloudflare.AccountID, cfg.Cloudflare.APIToken, cfg.Cloudflare.Timeout); cf != nil {
		chain = append(chain, cf)
	}
	chain = append(chain, scrape.NewReadability(30*time.Second, 0))
	return chain
}

func (a *app) enricher() (*enrich.Enricher, error) {
	provider := newProvider(a.cfg)
	if !provider.Available() {
		return nil, fmt.Errorf("no AI provider configured: %w", ai.ErrNoProvider)
	}
	slog.Debug("ai providers", "available", provider.ListAvailable())
	return enrich.New(provider, newScraper(a.cfg), a.repo, a.cfg.AI.RequestsPerMinute), nil
}
