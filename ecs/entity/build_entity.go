package entity

import (
	"fmt"

	"github.com/milk9111/springjoint/common"
	"github.com/milk9111/springjoint/constraint"
	"github.com/milk9111/springjoint/ecs"
	"github.com/milk9111/springjoint/ecs/component"
	"github.com/milk9111/springjoint/prefabs"
)

// Overrides are per-instance values layered over a prefab, usually from a
// level file. A nil Position keeps the prefab's transform.
type Overrides struct {
	Name     string
	Position *common.Vec3
	Rotation *float64
	Props    map[string]any
}

type buildContext struct {
	PrefabPath string
	Registry   *constraint.Registry
	Override   Overrides
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"name":         addName,
	"transform":    addTransform,
	"physics_body": addPhysicsBody,
	"constraint":   addConstraint,
}

// constraint reads its default name and placement from the components
// built before it.
var componentBuildOrder = []string{
	"name",
	"transform",
	"physics_body",
	"constraint",
}

func BuildEntity(w *ecs.World, reg *constraint.Registry, prefabPath string, ov Overrides) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	remaining := make(map[string]any, len(spec.Components)+2)
	for k, v := range spec.Components {
		remaining[k] = v
	}
	if _, ok := remaining["name"]; !ok && ov.Name != "" {
		remaining["name"] = nil
	}
	if _, ok := remaining["transform"]; !ok && ov.Position != nil {
		remaining["transform"] = nil
	}

	for name := range remaining {
		if _, ok := componentRegistry[name]; !ok {
			return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath, Registry: reg, Override: ov}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
	}

	return e, nil
}

func addName(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	name := ctx.Override.Name
	if name == "" {
		spec, err := prefabs.DecodeComponentSpec[string](raw)
		if err != nil {
			return fmt.Errorf("decode name: %w", err)
		}
		name = spec
	}
	if name == "" {
		return nil
	}
	return ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Name: name})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = 1
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = 1
	}
	if p := ctx.Override.Position; p != nil {
		spec.X, spec.Y, spec.Z = p.X, p.Y, p.Z
	}
	if r := ctx.Override.Rotation; r != nil {
		spec.Rotation = *r
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		Z:        spec.Z,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	})
}

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PhysicsBodyComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics body spec: %w", err)
	}

	width, height := spec.Width, spec.Height
	if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		width *= tr.ScaleX
		height *= tr.ScaleY
	}
	if spec.Radius <= 0 {
		if width <= 0 {
			width = 32
		}
		if height <= 0 {
			height = 32
		}
	}
	if !spec.Static && spec.Mass <= 0 {
		spec.Mass = 1
	}

	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:         width,
		Height:        height,
		Radius:        spec.Radius,
		Mass:          spec.Mass,
		Friction:      spec.Friction,
		Elasticity:    spec.Elasticity,
		Static:        spec.Static,
		FixedRotation: spec.FixedRotation,
	})
}

func addConstraint(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.ConstraintComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode constraint spec: %w", err)
	}
	if spec.Type == "" {
		return fmt.Errorf("constraint type is required")
	}
	if ctx.Registry == nil {
		return fmt.Errorf("no constraint registry")
	}

	c, err := ctx.Registry.New(spec.Type)
	if err != nil {
		return err
	}

	props := constraint.Props{}
	if name, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok {
		props[constraint.PropName] = name.Name
	}
	if tr, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		props[constraint.PropPos] = tr.Position()
		props[constraint.PropRotation] = tr.Rotation
	}
	props = props.Merge(spec.Props).Merge(ctx.Override.Props)

	c.ReadConstraintProperties(props)

	return ecs.Add(w, e, component.ConstraintComponent.Kind(), &component.Constraint{Type: spec.Type, Value: c})
}
