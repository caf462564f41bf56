package shim

import "github.com/dop251/goja"

// Registry stores event listeners per handle and event type.
//
// It is owned by a single Shim and only touched from the goroutine running
// that shim's VM, so it carries no lock. Entries accumulate for the lifetime
// of the session and are never removed.
type Registry struct {
	listeners map[Handle]map[string][]goja.Callable
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		listeners: make(map[Handle]map[string][]goja.Callable),
	}
}

// Add appends fn to the list for (h, eventType). Duplicates are kept.
func (r *Registry) Add(h Handle, eventType string, fn goja.Callable) {
	byType, ok := r.listeners[h]
	if !ok {
		byType = make(map[string][]goja.Callable)
		r.listeners[h] = byType
	}
	byType[eventType] = append(byType[eventType], fn)
}

// Len reports how many listeners are registered for (h, eventType).
func (r *Registry) Len(h Handle, eventType string) int {
	return len(r.listeners[h][eventType])
}

// At returns the i-th listener for (h, eventType). The list is looked up on
// every call so appends made while dispatching are observed.
func (r *Registry) At(h Handle, eventType string, i int) goja.Callable {
	return r.listeners[h][eventType][i]
}

// Handles reports how many handles have at least one listener entry.
func (r *Registry) Handles() int {
	return len(r.listeners)
}

// Types returns the event types registered for h in no particular order.
func (r *Registry) Types(h Handle) []string {
	byType := r.listeners[h]
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, t)
	}
	return types
}
