package widget

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrUnknownWidget is returned when a name has no registration.
	ErrUnknownWidget = errors.New("unknown widget")

	// ErrNameCollision is returned for a second registration of a name.
	// The first registration is kept untouched.
	ErrNameCollision = errors.New("widget name already registered")
)

type entry struct {
	factory Factory
	owner   Owner // nil for built-ins
}

// Registry maps widget type names to factories. Built-ins and plugin
// exports share one namespace; the first successful registration of a name
// wins and later ones are rejected.
//
// The registry is owned by the event-loop goroutine: registration happens
// at startup and during reload processing, both on that goroutine, so no
// locking is required.
type Registry struct {
	entries map[string]entry
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// RegisterBuiltin adds a built-in widget type.
func (r *Registry) RegisterBuiltin(name string, f Factory) error {
	return r.register(name, f, nil)
}

// RegisterPlugin adds a plugin-exported widget type tied to its owning module.
func (r *Registry) RegisterPlugin(name string, f Factory, owner Owner) error {
	if owner == nil {
		return fmt.Errorf("plugin registration %q: nil owner", name)
	}
	return r.register(name, f, owner)
}

func (r *Registry) register(name string, f Factory, owner Owner) error {
	if name == "" {
		return fmt.Errorf("widget registration: empty name")
	}
	if f == nil {
		return fmt.Errorf("widget registration %q: nil factory", name)
	}
	if _, exists := r.entries[name]; exists {
		return fmt.Errorf("%w: %q", ErrNameCollision, name)
	}
	r.entries[name] = entry{factory: f, owner: owner}
	return nil
}

// Resolve checks that a name is registered.
func (r *Registry) Resolve(name string) error {
	if _, ok := r.entries[name]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownWidget, name)
	}
	return nil
}

// Instantiate builds a live instance of the named widget type,
// incrementing its owning module's liveness count if it has one.
// Instantiating through a stale owner fails without side effects.
func (r *Registry) Instantiate(name string) (*Instance, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWidget, name)
	}
	if e.owner != nil {
		if err := e.owner.Acquire(); err != nil {
			return nil, fmt.Errorf("instantiate %q: %w", name, err)
		}
	}
	return newInstance(name, e.factory(), e.owner), nil
}

// Unregister withdraws a name if it is currently owned by owner.
// The loader uses it when retiring a module; a name since re-registered by
// someone else is left alone.
func (r *Registry) Unregister(name string, owner Owner) {
	if e, ok := r.entries[name]; ok && e.owner == owner {
		delete(r.entries, name)
	}
}

// Names returns all registered type names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OwnerOf returns the owning module of a name, or nil for built-ins and
// unknown names.
func (r *Registry) OwnerOf(name string) Owner {
	return r.entries[name].owner
}
