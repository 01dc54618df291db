package registry

import (
	"fmt"
	"sync"

	"github.com/aretw0/skelly/pkg/domain"
)

// Registry maps tracker kinds to their layouts.
// It is populated once at startup and read thereafter; reads are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	layouts map[string]TrackerLayout
	order   []string
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		layouts: make(map[string]TrackerLayout),
	}
}

// Default returns a new registry holding the built-in tracker layouts.
func Default() *Registry {
	r := NewRegistry()
	r.Register(MediaPipeHolistic())
	return r
}

// Register adds a layout to the registry.
// If a layout with the same kind exists, it is overwritten in place.
// Layouts are not validated here; actors validate the layout they use.
func (r *Registry) Register(layout TrackerLayout) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.layouts[layout.Kind]; !exists {
		r.order = append(r.order, layout.Kind)
	}
	r.layouts[layout.Kind] = layout.clone()
}

// Lookup returns the layout registered for kind.
// Unknown kinds fail with a ConfigurationError wrapping domain.ErrUnknownTracker.
func (r *Registry) Lookup(kind string) (TrackerLayout, error) {
	r.mu.RLock()
	layout, ok := r.layouts[kind]
	r.mu.RUnlock()

	if !ok {
		return TrackerLayout{}, &domain.ConfigurationError{Tracker: kind, Err: domain.ErrUnknownTracker}
	}
	return layout.clone(), nil
}

// Kinds returns the registered tracker kinds in registration order.
func (r *Registry) Kinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Structures builds the anatomical structures of a tracker, keyed by region.
func (r *Registry) Structures(kind string) (map[domain.AspectName]*domain.AnatomicalStructure, error) {
	layout, err := r.Lookup(kind)
	if err != nil {
		return nil, err
	}
	structures, err := layout.Structures()
	if err != nil {
		return nil, fmt.Errorf("tracker %s: %w", kind, err)
	}
	return structures, nil
}
