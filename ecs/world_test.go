package ecs

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/milk9111/springjoint/ecs/component"
)

func TestSparseWorldEntityLifecycle(t *testing.T) {
	cases := []struct {
		name         string
		create       int
		destroyIndex int // -1 = none
	}{
		{"single", 1, 0},
		{"three_create_destroy_middle", 3, 1},
		{"none_destroy", 2, -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := NewWorld()
			ents := make([]Entity, 0, c.create)
			for i := 0; i < c.create; i++ {
				ents = append(ents, CreateEntity(w))
			}
			if len(Entities(w)) != c.create {
				t.Fatalf("expected %d entities, got %d", c.create, len(Entities(w)))
			}
			if c.destroyIndex >= 0 {
				if !DestroyEntity(w, ents[c.destroyIndex]) {
					t.Fatalf("DestroyEntity should return true for alive entity")
				}
				if IsAlive(w, ents[c.destroyIndex]) {
					t.Fatalf("entity should not be alive after destruction")
				}
			}
		})
	}
}

func toSet(ents []Entity) map[Entity]struct{} {
	m := make(map[Entity]struct{}, len(ents))
	for _, e := range ents {
		m[e] = struct{}{}
	}
	return m
}

func intPtr(i int) *int {
	return &i
}

func stringPtr(s string) *string {
	return &s
}

func TestWorldComponentTables(t *testing.T) {
	w := NewWorld()
	names := component.NameComponent.Kind()
	transforms := component.TransformComponent.Kind()
	bodies := component.PhysicsBodyComponent.Kind()

	anchor := CreateEntity(w)
	bob := CreateEntity(w)

	tests := []struct {
		name     string
		setup    func() error
		check    func(t *testing.T)
		teardown func() bool
	}{
		{
			name:  "name_on_anchor",
			setup: func() error { return Add(w, anchor, names, &component.Name{Name: "anchor"}) },
			check: func(t *testing.T) {
				v, ok := Get(w, anchor, names)
				if !ok || v.Name != "anchor" {
					t.Fatalf("expected anchor name, got %+v ok=%v", v, ok)
				}
				if Has(w, bob, names) {
					t.Fatalf("bob has no name yet")
				}
			},
			teardown: func() bool { return Remove(w, anchor, names) },
		},
		{
			name: "transforms_on_both",
			setup: func() error {
				if err := Add(w, anchor, transforms, &component.Transform{X: 1, ScaleX: 1, ScaleY: 1}); err != nil {
					return err
				}
				return Add(w, bob, transforms, &component.Transform{X: 2, ScaleX: 1, ScaleY: 1})
			},
			check: func(t *testing.T) {
				got := toSet(Query(w, transforms))
				if len(got) != 2 {
					t.Fatalf("expected both entities in query, got %v", got)
				}
			},
			teardown: func() bool { return Remove(w, anchor, transforms) },
		},
		{
			name:  "replace_body",
			setup: func() error {
				if err := Add(w, bob, bodies, &component.PhysicsBody{Mass: 1}); err != nil {
					return err
				}
				return Add(w, bob, bodies, &component.PhysicsBody{Mass: 3})
			},
			check: func(t *testing.T) {
				v, ok := Get(w, bob, bodies)
				if !ok || v.Mass != 3 {
					t.Fatalf("expected replaced body with mass 3, got %+v", v)
				}
				if n := len(Query(w, bodies)); n != 1 {
					t.Fatalf("replace must not duplicate the entry, got %d", n)
				}
			},
			teardown: func() bool { return Remove(w, bob, bodies) },
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.setup(); err != nil {
				t.Fatalf("setup failed: %v", err)
			}
			tc.check(t)
			if !tc.teardown() {
				t.Fatalf("teardown failed for %s", tc.name)
			}
		})
	}

	if Remove(w, bob, bodies) {
		t.Fatalf("second remove should report nothing removed")
	}
	if e, ok := First(w, transforms); !ok || e != bob {
		t.Fatalf("expected bob to be the only transform left, got %s ok=%v", e, ok)
	}
}

func TestForEach2(t *testing.T) {
	tests := []struct {
		name string
		run  func(t *testing.T)
	}{
		{
			name: "intersection",
			run: func(t *testing.T) {
				w := NewWorld()
				e1 := CreateEntity(w)
				e2 := CreateEntity(w)
				e3 := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[string]()

				if err := Add(w, e1, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e2, ka, intPtr(2)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e2, kb, stringPtr("b")); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e3, kb, stringPtr("c")); err != nil {
					t.Fatal(err)
				}

				var res []Entity
				ForEach2(w, ka, kb, func(e Entity, a *int, b *string) {
					if *a != 2 || *b != "b" {
						t.Fatalf("unexpected values %d %q", *a, *b)
					}
					res = append(res, e)
				})
				if len(res) != 1 || res[0] != e2 {
					t.Fatalf("expected only e2, got %v", res)
				}
			},
		},
		{
			name: "ignores_dead_entities",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()

				if err := Add(w, e, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}
				if err := Add(w, e, kb, intPtr(2)); err != nil {
					t.Fatal(err)
				}
				if !DestroyEntity(w, e) {
					t.Fatal("failed to destroy entity")
				}

				var res []Entity
				ForEach2(w, ka, kb, func(e Entity, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty result after destroy, got %v", res)
				}
			},
		},
		{
			name: "missing_store",
			run: func(t *testing.T) {
				w := NewWorld()
				e := CreateEntity(w)

				ka := component.NewComponentKind[int]()
				kb := component.NewComponentKind[int]()

				if err := Add(w, e, ka, intPtr(1)); err != nil {
					t.Fatal(err)
				}

				var res []Entity
				ForEach2(w, ka, kb, func(e Entity, _ *int, _ *int) { res = append(res, e) })
				if len(res) != 0 {
					t.Fatalf("expected empty when other store missing, got %v", res)
				}
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, tc.run)
	}
}

func TestStaleHandles(t *testing.T) {
	w := NewWorld()
	k := component.NewComponentKind[int]()

	old := CreateEntity(w)
	if err := Add(w, old, k, intPtr(1)); err != nil {
		t.Fatal(err)
	}
	if !DestroyEntity(w, old) {
		t.Fatal("failed to destroy entity")
	}

	reused := CreateEntity(w)
	if reused.id() != old.id() {
		t.Fatalf("expected id reuse, got %s after %s", reused, old)
	}
	if reused == old {
		t.Fatalf("expected a new generation, got %s twice", reused)
	}
	if Has(w, reused, k) {
		t.Fatalf("reused entity inherited a component")
	}
	if err := Add(w, old, k, intPtr(2)); !errors.Is(err, component.ErrEntityNotAlive) {
		t.Fatalf("expected ErrEntityNotAlive for stale handle, got %v", err)
	}
	if DestroyEntity(w, old) {
		t.Fatalf("destroying a stale handle should fail")
	}
	if !IsAlive(w, reused) {
		t.Fatalf("reused entity should still be alive")
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	w := NewWorld()
	e := CreateEntity(w)

	tests := []struct {
		name string
		kind component.ComponentKind[int]
		val  *int
		want error
	}{
		{"zero_kind", component.ComponentKind[int]{}, intPtr(1), component.ErrInvalidComponentKind},
		{"nil_value", component.NewComponentKind[int](), nil, component.ErrNilComponent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := Add(w, e, tc.kind, tc.val); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestEventQueue(t *testing.T) {
	w := NewWorld()
	w.Events().Push(Event{Type: EventConstraintCreated, Data: ConstraintEvent{Name: "a"}})
	w.Events().Push(Event{Type: EventConstraintFailed, Data: ConstraintEvent{Name: "b", Reason: "x"}})

	if n := w.Events().Len(); n != 2 {
		t.Fatalf("expected 2 events, got %d", n)
	}
	got := w.Events().Drain()
	if len(got) != 2 || got[0].Type != EventConstraintCreated || got[1].Type != EventConstraintFailed {
		t.Fatalf("unexpected events %+v", got)
	}
	if w.Events().Len() != 0 || w.Events().Drain() != nil {
		t.Fatalf("queue should be empty after drain")
	}
}

func TestComponentKindNames(t *testing.T) {
	a := component.NewComponentKind[component.Name]()
	b := component.NewComponentKind[component.Name]()
	if a.ID() == b.ID() {
		t.Fatalf("kinds over the same type must be distinct tables")
	}
	if a.Name() != "component.Name" {
		t.Fatalf("expected type name component.Name, got %q", a.Name())
	}
	if !strings.HasPrefix(a.String(), "component.Name#") {
		t.Fatalf("unexpected kind string %q", a.String())
	}
	if got := (component.ComponentKind[int]{}).String(); got != "invalid" {
		t.Fatalf("zero kind should print as invalid, got %q", got)
	}

	w := NewWorld()
	e := CreateEntity(w)
	err := Add(w, e, a, nil)
	if !errors.Is(err, component.ErrNilComponent) || !strings.Contains(err.Error(), a.String()) {
		t.Fatalf("expected error naming the kind, got %v", err)
	}
}

func TestForEachIteratesSnapshot(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(w *World, k component.ComponentKind[int], ents []Entity, visiting Entity)
		want   []int
	}{
		{
			name: "destroy_later_entity",
			mutate: func(w *World, _ component.ComponentKind[int], ents []Entity, visiting Entity) {
				if visiting == ents[0] {
					DestroyEntity(w, ents[2])
				}
			},
			want: []int{0, 1, 3},
		},
		{
			name: "destroy_current_entity",
			mutate: func(w *World, _ component.ComponentKind[int], _ []Entity, visiting Entity) {
				DestroyEntity(w, visiting)
			},
			want: []int{0, 1, 2, 3},
		},
		{
			name: "added_entities_wait_for_next_pass",
			mutate: func(w *World, k component.ComponentKind[int], _ []Entity, _ Entity) {
				_ = Add(w, CreateEntity(w), k, intPtr(100))
			},
			want: []int{0, 1, 2, 3},
		},
		{
			name: "removed_component_skipped",
			mutate: func(w *World, k component.ComponentKind[int], ents []Entity, visiting Entity) {
				if visiting == ents[1] {
					Remove(w, ents[3], k)
				}
			},
			want: []int{0, 1, 2},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := NewWorld()
			k := component.NewComponentKind[int]()
			ents := make([]Entity, 4)
			for i := range ents {
				ents[i] = CreateEntity(w)
				if err := Add(w, ents[i], k, intPtr(i)); err != nil {
					t.Fatal(err)
				}
			}

			var seen []int
			ForEach(w, k, func(e Entity, v *int) {
				seen = append(seen, *v)
				tc.mutate(w, k, ents, e)
			})
			slices.Sort(seen)
			if !slices.Equal(seen, tc.want) {
				t.Fatalf("expected to visit %v, got %v", tc.want, seen)
			}
		})
	}
}

func TestForEach2SmallerStore(t *testing.T) {
	w := NewWorld()
	many := component.NewComponentKind[int]()
	few := component.NewComponentKind[string]()

	var both []Entity
	for i := 0; i < 10; i++ {
		e := CreateEntity(w)
		if err := Add(w, e, many, intPtr(i)); err != nil {
			t.Fatal(err)
		}
		if i%4 == 0 {
			if err := Add(w, e, few, stringPtr("tagged")); err != nil {
				t.Fatal(err)
			}
			both = append(both, e)
		}
	}
	lone := CreateEntity(w)
	if err := Add(w, lone, few, stringPtr("lone")); err != nil {
		t.Fatal(err)
	}

	for _, order := range []string{"many_first", "few_first"} {
		t.Run(order, func(t *testing.T) {
			var got []Entity
			visit := func(e Entity) {
				got = append(got, e)
				DestroyEntity(w, lone)
			}
			if order == "many_first" {
				ForEach2(w, many, few, func(e Entity, _ *int, s *string) { visit(e) })
			} else {
				ForEach2(w, few, many, func(e Entity, s *string, _ *int) { visit(e) })
			}
			slices.Sort(got)
			want := slices.Clone(both)
			slices.Sort(want)
			if !slices.Equal(got, want) {
				t.Fatalf("expected %v, got %v", want, got)
			}
		})
	}
}

type recordSystem struct {
	name string
	log  *[]string
}

func (r *recordSystem) Update(*World) {
	*r.log = append(*r.log, r.name)
}

type resettableSystem struct {
	recordSystem
}

func (r *resettableSystem) Reset(*World) {
	*r.log = append(*r.log, "reset "+r.name)
}

func TestScheduler(t *testing.T) {
	var log []string
	inner := NewScheduler(&recordSystem{name: "inner", log: &log})
	s := NewScheduler(
		&recordSystem{name: "a", log: &log},
		nil,
		&resettableSystem{recordSystem{name: "b", log: &log}},
	)
	s.Add(nil)
	s.Add(inner)

	if s.Len() != 3 {
		t.Fatalf("expected nil systems to be dropped, got %d systems", s.Len())
	}

	w := NewWorld()
	s.Update(w)
	s.Update(nil)
	s.Reset(w)

	want := []string{"a", "b", "inner", "reset b"}
	if !slices.Equal(log, want) {
		t.Fatalf("expected %v, got %v", want, log)
	}

	var empty *Scheduler
	empty.Update(w)
	empty.Reset(w)
	if empty.Len() != 0 {
		t.Fatalf("nil scheduler should be empty")
	}
}
