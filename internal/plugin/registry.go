package plugin

import (
	"fmt"
	"sync"
)

// Registry holds handlers by name.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler

	// Registration order, for deterministic dispatch
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds h. Names must be unique.
func (r *Registry) Register(h Handler) error {
	if h == nil || h.Name() == "" || h.Event() == "" {
		return ErrInvalidHandler
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[h.Name()]; exists {
		return fmt.Errorf("handler %q: %w", h.Name(), ErrAlreadyRegistered)
	}
	r.handlers[h.Name()] = h
	r.order = append(r.order, h.Name())
	return nil
}

// Replace adds h, replacing a handler with the same name in place.
func (r *Registry) Replace(h Handler) error {
	if h == nil || h.Name() == "" || h.Event() == "" {
		return ErrInvalidHandler
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[h.Name()]; !exists {
		r.order = append(r.order, h.Name())
	}
	r.handlers[h.Name()] = h
	return nil
}

// Unregister removes the named handler.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[name]; !exists {
		return fmt.Errorf("handler %q: %w", name, ErrNotRegistered)
	}
	delete(r.handlers, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Get returns the named handler.
func (r *Registry) Get(name string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[name]
	return h, ok
}

// ForEvent returns the handlers for et in registration order.
func (r *Registry) ForEvent(et EventType) []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Handler
	for _, name := range r.order {
		if h := r.handlers[name]; h.Event() == et {
			out = append(out, h)
		}
	}
	return out
}

// All returns every handler in registration order.
func (r *Registry) All() []Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Handler, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.handlers[name])
	}
	return out
}

// Names returns handler names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}
