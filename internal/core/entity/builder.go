package entity

import (
	"fmt"
	"sync"
)

// Builder attaches to obj exactly the behavior components appropriate to
// one entity kind, drawing on the record's kind-specific payload. Builders
// are not idempotent; the dispatcher guarantees at most one build per
// composite.
type Builder interface {
	Build(obj *GameObject, rec Record) error
}

// Registry maps entity kinds to builders. Registration happens at
// initialization; lookups after that are read-only.
type Registry struct {
	mu       sync.RWMutex
	builders map[Kind]Builder
}

func NewRegistry() *Registry {
	return &Registry{builders: make(map[Kind]Builder)}
}

// Register installs b for kind. Registering nil or registering a kind
// twice is an error.
func (r *Registry) Register(kind Kind, b Builder) error {
	if b == nil {
		return fmt.Errorf("%w: kind %s", ErrNilBuilder, kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.builders[kind]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateBuilder, kind)
	}
	r.builders[kind] = b
	return nil
}

// Builder returns the builder registered for kind. An unregistered kind
// is a reportable condition, never a silent skip.
func (r *Registry) Builder(kind Kind) (Builder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.builders[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownEntityKind, kind)
	}
	return b, nil
}

// Kinds lists the registered kinds.
func (r *Registry) Kinds() []Kind {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Kind, 0, len(r.builders))
	for k := range r.builders {
		out = append(out, k)
	}
	return out
}

// DefaultRegistry returns a registry with the built-in shape, model and
// light builders installed.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	// These registrations cannot collide.
	_ = r.Register(KindShape, &ShapeBuilder{})
	_ = r.Register(KindModel, &ModelBuilder{})
	_ = r.Register(KindLight, &LightBuilder{})
	return r
}
