// Package sources defines the normalized news item model, the source
// interface, and the name-keyed provider registry. Each source wraps exactly
// one external feed, page, or API and converts its native records into
// NewsItems. Adding a new source means one new Provider entry in the builtin
// table (or one more RSS feed in the config file).
package sources

import "context"

// DefaultLimit is the per-source item limit used when the caller passes a
// non-positive one.
const DefaultLimit = 20

// Source fetches up to limit items from one external feed or page.
//
// Implementations must tag every produced item's Source field with their
// registered name, degrade gracefully on malformed entries (skip, don't fail
// the whole fetch), and treat limit as a truncation bound, never an error.
type Source interface {
	Fetch(ctx context.Context, limit int) ([]NewsItem, error)
}

// Descriptor is the registry-visible identity of a source, decoupled from its
// behavior.
type Descriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Enabled     bool   `json:"enabled"`
}

// Provider pairs a descriptor with a factory. The aggregator instantiates a
// fresh Source per fetch pass, so concurrent passes share no per-source state.
type Provider struct {
	Descriptor
	New func() Source
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	return limit
}
