// Package aggregator fans fetches out across news sources, isolates
// per-source failures, and merges results into one URL-deduplicated list.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/1NY2/news-collector/internal/sources"
)

// ErrUnknownSource reports a fetch against a name absent from the registry.
// Callers treat it as a normal "not found" outcome, not a failure that
// unwinds the pipeline.
var ErrUnknownSource = errors.New("unknown source")

// Aggregator orchestrates concurrent fetches over a registry of sources.
type Aggregator struct {
	registry *sources.Registry
	logger   *slog.Logger
}

// New creates an aggregator over the given registry.
func New(registry *sources.Registry) *Aggregator {
	return &Aggregator{
		registry: registry,
		logger:   slog.Default(),
	}
}

// FetchAll fetches from every enabled source concurrently and returns the
// merged, URL-deduplicated list. A failing source contributes zero items and
// never aborts its siblings; the join waits for all sources to finish.
// Concatenation follows registry order, and within one source the source's
// own ordering is preserved.
func (a *Aggregator) FetchAll(ctx context.Context, limit int) []sources.NewsItem {
	enabled := a.registry.Enabled()
	if len(enabled) == 0 {
		a.logger.Warn("no enabled news sources")
		return []sources.NewsItem{}
	}

	results := a.fanOut(ctx, enabled, limit)
	return DedupByURL(concat(results))
}

// FetchSource fetches from one source by name, ignoring its enabled flag —
// an explicit request overrides enablement. An unknown name returns
// ErrUnknownSource and an empty list.
func (a *Aggregator) FetchSource(ctx context.Context, name string, limit int) ([]sources.NewsItem, error) {
	p, ok := a.registry.Get(name)
	if !ok {
		return []sources.NewsItem{}, fmt.Errorf("%w: %q", ErrUnknownSource, name)
	}

	items, err := p.New().Fetch(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", name, err)
	}
	return items, nil
}

// FetchSources fetches the named sources concurrently, concatenates their
// results in argument order, and applies the same URL dedup as FetchAll.
// Unknown names and failing sources are logged and contribute nothing.
func (a *Aggregator) FetchSources(ctx context.Context, names []string, limit int) []sources.NewsItem {
	slots := make([][]sources.NewsItem, len(names))
	var wg sync.WaitGroup

	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			items, err := a.FetchSource(ctx, name, limit)
			if err != nil {
				a.logger.Error("source fetch failed", "source", name, "error", err)
				return
			}
			slots[i] = items
		}(i, name)
	}
	wg.Wait()

	return DedupByURL(concat(slots))
}

// fanOut runs one fetch per provider and joins. Each goroutine writes only
// its own slot, so the concatenation order matches the provider order.
func (a *Aggregator) fanOut(ctx context.Context, providers []sources.Provider, limit int) [][]sources.NewsItem {
	slots := make([][]sources.NewsItem, len(providers))
	var wg sync.WaitGroup

	for i, p := range providers {
		wg.Add(1)
		go func(i int, p sources.Provider) {
			defer wg.Done()
			items, err := p.New().Fetch(ctx, limit)
			if err != nil {
				a.logger.Error("source fetch failed", "source", p.Name, "error", err)
				return
			}
			a.logger.Info("source fetched", "source", p.Name, "items", len(items))
			slots[i] = items
		}(i, p)
	}
	wg.Wait()
	return slots
}

// DedupByURL keeps the first occurrence of each non-empty URL, preserving
// order. Items with an empty URL are never deduplicated against anything.
func DedupByURL(items []sources.NewsItem) []sources.NewsItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]sources.NewsItem, 0, len(items))
	for _, item := range items {
		if item.URL != "" {
			if _, dup := seen[item.URL]; dup {
				continue
			}
			seen[item.URL] = struct{}{}
		}
		out = append(out, item)
	}
	return out
}

func concat(slots [][]sources.NewsItem) []sources.NewsItem {
	var n int
	for _, s := range slots {
		n += len(s)
	}
	out := make([]sources.NewsItem, 0, n)
	for _, s := range slots {
		out = append(out, s...)
	}
	return out
}
