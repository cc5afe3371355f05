package family

import (
	"errors"
	"fmt"
	"sync"
)

// ErrNotFound is returned by Registry.Get when no family is registered
// under the given name.
var ErrNotFound = errors.New("family: not found")

// NotFoundError reports a lookup miss for a specific family name. It
// wraps ErrNotFound so callers can use errors.Is(err, ErrNotFound).
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("family: %q not registered", e.Name) }
func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// Registry is a concurrency-safe collection of tag families, keyed by
// name. Families are immutable once registered; the registry itself may
// be shared and read from multiple detector goroutines (spec.md §5).
type Registry struct {
	mu     sync.RWMutex
	byName map[string]*Family
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Family)}
}

// Register adds f to the registry under f.Name, replacing any existing
// entry with the same name.
func (r *Registry) Register(f *Family) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byName[f.Name] = f
}

// Get returns the family registered under name, or a *NotFoundError
// wrapping ErrNotFound.
func (r *Registry) Get(name string) (*Family, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.byName[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return f, nil
}

// All returns every registered family, in no particular order.
func (r *Registry) All() []*Family {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Family, 0, len(r.byName))
	for _, f := range r.byName {
		out = append(out, f)
	}
	return out
}
