package sources

// Registry is the name-keyed catalog of providers. Registration order is
// preserved and is the iteration order for All and Enabled, which makes the
// aggregator's concatenation order deterministic.
//
// The registry is populated once at startup and read-only afterwards, so no
// locking is done. Tests build isolated instances instead of sharing a global.
type Registry struct {
	order     []string
	providers map[string]Provider
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// Register inserts a provider keyed by its descriptor name. A duplicate name
// overwrites the previous registration (last writer wins) but keeps the
// original position in iteration order.
func (r *Registry) Register(p Provider) {
	if _, ok := r.providers[p.Name]; !ok {
		r.order = append(r.order, p.Name)
	}
	r.providers[p.Name] = p
}

// Get returns the provider registered under name. The second return value
// reports whether it exists; an unknown name is a normal condition, not an
// error.
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// All returns every registered provider in registration order.
func (r *Registry) All() []Provider {
	out := make([]Provider, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.providers[name])
	}
	return out
}

// Enabled returns the providers flagged enabled, in registration order.
func (r *Registry) Enabled() []Provider {
	out := make([]Provider, 0, len(r.order))
	for _, name := range r.order {
		if p := r.providers[name]; p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// Descriptors returns a snapshot of every provider's descriptor, for listing.
func (r *Registry) Descriptors() []Descriptor {
	out := make([]Descriptor, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.providers[name].Descriptor)
	}
	return out
}

// Len reports the number of registered providers.
func (r *Registry) Len() int {
	return len(r.order)
}
