package generation

import (
	"fmt"

	"github.com/phrazzld/giftwise/internal/domain"
)

// Registry is the dispatch table from provider id to adapter. It is built once
// at start-up and only read afterwards, so it is safe for concurrent use.
type Registry struct {
	adapters map[domain.ProviderID]Adapter
	order    []domain.ProviderID
}

// NewRegistry indexes adapters by their ID. Adapters for ids outside the
// enumerated provider set, and duplicate ids, are configuration errors.
func NewRegistry(adapters ...Adapter) (*Registry, error) {
	r := &Registry{
		adapters: make(map[domain.ProviderID]Adapter, len(adapters)),
	}

	for _, a := range adapters {
		if a == nil {
			return nil, fmt.Errorf("%w: nil adapter", ErrInvalidConfig)
		}
		id := a.ID()
		if !id.IsKnown() {
			return nil, fmt.Errorf("%w: adapter for unknown provider %q", ErrInvalidConfig, id)
		}
		if _, dup := r.adapters[id]; dup {
			return nil, fmt.Errorf("%w: duplicate adapter for provider %q", ErrInvalidConfig, id)
		}
		r.adapters[id] = a
		r.order = append(r.order, id)
	}

	return r, nil
}

// Lookup returns the adapter registered for id.
func (r *Registry) Lookup(id domain.ProviderID) (Adapter, bool) {
	a, ok := r.adapters[id]
	return a, ok
}

// Providers lists the registered provider ids in registration order.
func (r *Registry) Providers() []domain.ProviderID {
	out := make([]domain.ProviderID, len(r.order))
	copy(out, r.order)
	return out
}
