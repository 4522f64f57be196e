package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrNoProvider is returned when no provider in a cascade is configured.
var ErrNoProvider = errors.New("ai: no provider available")

// Provider is one text-generation backend.
type Provider interface {
	// Name identifies the provider in logs, e.g. "openai" or "groq".
	Name() string
	// Available reports whether the provider is configured.
	Available() bool
	Generate(ctx context.Context, req Request) (string, error)
}

// Request is a single prompt.
type Request struct {
	System    string
	User      string
	MaxTokens int
}

// Cascade tries providers in order and returns the first non-empty reply.
// It is itself a Provider, so callers never pick a vendor.
type Cascade struct {
	providers []Provider
}

func NewCascade(providers ...Provider) *Cascade {
	return &Cascade{providers: providers}
}

func (c *Cascade) Add(p Provider) { c.providers = append(c.providers, p) }

func (c *Cascade) Name() string { return "cascade" }

func (c *Cascade) Available() bool {
	for _, p := range c.providers {
		if p.Available() {
			return true
		}
	}
	return false
}

// ListAvailable returns the names of configured providers in try order.
func (c *Cascade) ListAvailable() []string {
	var names []string
	for _, p := range c.providers {
		if p.Available() {
			names = append(names, p.Name())
		}
	}
	return names
}

func (c *Cascade) Generate(ctx context.Context, req Request) (string, error) {
	var errs []error
	tried := 0
	for _, p := range c.providers {
		if !p.Available() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		tried++
		out, err := p.Generate(ctx, req)
		if err != nil {
			slog.Warn("ai: provider failed", "provider", p.Name(), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}
		if strings.TrimSpace(out) == "" {
			slog.Warn("ai: provider returned empty reply", "provider", p.Name())
			errs = append(errs, fmt.Errorf("%s: empty reply", p.Name()))
			continue
		}
		slog.Debug("ai: provider succeeded", "provider", p.Name())
		return out, nil
	}
	if tried == 0 {
		return "", ErrNoProvider
	}
	return "", errors.Join(errs...)
}
