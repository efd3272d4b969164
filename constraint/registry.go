package constraint

import (
	"errors"
	"fmt"
	"sort"
)

var (
	ErrUnknownConstraint   = errors.New("constraint: unknown type")
	ErrDuplicateConstraint = errors.New("constraint: type already registered")
)

// Factory returns a fresh, unconfigured constraint.
type Factory func() Constraint

// Registry maps type names to factories so hosts can instantiate constraints
// by the name found in prefabs and save files.
type Registry struct {
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry returns a registry holding the built-in types.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	if err := RegisterBuiltins(r); err != nil {
		panic(err)
	}
	return r
}

// RegisterBuiltins adds every constraint type shipped with this package.
func RegisterBuiltins(r *Registry) error {
	return r.Register(StiffSpringType, func() Constraint { return NewStiffSpring() })
}

func (r *Registry) Register(name string, f Factory) error {
	if name == "" || f == nil {
		return fmt.Errorf("constraint: register %q: empty name or nil factory", name)
	}
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateConstraint, name)
	}
	r.factories[name] = f
	return nil
}

func (r *Registry) New(name string) (Constraint, error) {
	f, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownConstraint, name)
	}
	return f(), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
