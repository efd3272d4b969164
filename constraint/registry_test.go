package constraint

import (
	"errors"
	"testing"
)

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()

	c, err := r.New(StiffSpringType)
	if err != nil {
		t.Fatalf("new stiff spring: %v", err)
	}
	if _, ok := c.(*StiffSpring); !ok {
		t.Fatalf("expected *StiffSpring, got %T", c)
	}
	if c.Common().State() != StateUninitialized {
		t.Fatalf("fresh constraint should be uninitialized, got %s", c.Common().State())
	}

	other, _ := r.New(StiffSpringType)
	if other == c {
		t.Fatalf("factory must return a fresh instance")
	}

	if _, err := r.New("Hinge"); !errors.Is(err, ErrUnknownConstraint) {
		t.Fatalf("expected ErrUnknownConstraint, got %v", err)
	}
	if err := RegisterBuiltins(r); !errors.Is(err, ErrDuplicateConstraint) {
		t.Fatalf("expected ErrDuplicateConstraint, got %v", err)
	}
	if err := r.Register("", nil); err == nil {
		t.Fatalf("expected error for empty registration")
	}

	if err := r.Register("AnotherSpring", func() Constraint { return NewStiffSpring() }); err != nil {
		t.Fatalf("register: %v", err)
	}
	names := r.Names()
	if len(names) != 2 || names[0] != "AnotherSpring" || names[1] != StiffSpringType {
		t.Fatalf("unexpected names %v", names)
	}
}
