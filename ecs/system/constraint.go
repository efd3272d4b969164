package system

import (
	"log"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/springjoint/common"
	"github.com/milk9111/springjoint/constraint"
	"github.com/milk9111/springjoint/ecs"
	"github.com/milk9111/springjoint/ecs/component"
	"github.com/milk9111/springjoint/physics"
)

// ConstraintSystem drives constraint entities through body-space setup and
// joint creation, and releases joints when the constraint or one of its
// bodies goes away. It is meant to run as a physics prestep.
type ConstraintSystem struct {
	engine physics.Engine
	joints map[ecs.Entity]*jointInfo
}

type jointInfo struct {
	handle *cp.Constraint
	value  constraint.Constraint
	body1  ecs.Entity
	body2  ecs.Entity
}

func NewConstraintSystem(engine physics.Engine) *ConstraintSystem {
	return &ConstraintSystem{
		engine: engine,
		joints: make(map[ecs.Entity]*jointInfo),
	}
}

func (cs *ConstraintSystem) Update(w *ecs.World) {
	if cs == nil || w == nil {
		return
	}

	for _, e := range ecs.Query(w, component.ConstraintDestroyRequestComponent.Kind()) {
		cs.release(w, e, "destroy requested")
		ecs.DestroyEntity(w, e)
	}
	cs.releaseOrphans(w)

	ecs.ForEach(w, component.ConstraintComponent.Kind(), func(e ecs.Entity, comp *component.Constraint) {
		if comp.Value == nil || ecs.Has(w, e, component.ConstraintJointComponent.Kind()) {
			return
		}
		if comp.Value.Common().State() == constraint.StateFailed {
			return
		}
		cs.create(w, e, comp.Value)
	})
}

// Reset forgets every joint without touching the engine. Use it after the
// physics space has been replaced; constraints are recreated on the next
// update without running setup again.
func (cs *ConstraintSystem) Reset(w *ecs.World) {
	for e, info := range cs.joints {
		info.value.Common().Released()
		if ecs.IsAlive(w, e) {
			ecs.Remove(w, e, component.ConstraintJointComponent.Kind())
		}
	}
	cs.joints = make(map[ecs.Entity]*jointInfo)
}

// Joint returns the engine handle created for e, if any.
func (cs *ConstraintSystem) Joint(e ecs.Entity) (*cp.Constraint, bool) {
	info, ok := cs.joints[e]
	if !ok {
		return nil, false
	}
	return info.handle, true
}

func (cs *ConstraintSystem) create(w *ecs.World, e ecs.Entity, c constraint.Constraint) {
	base := c.Common()

	ent1, body1, ok := resolveBody(w, base.Object1)
	if !ok {
		cs.fail(w, e, base, "unresolved object1 "+base.Object1)
		return
	}
	ent2, body2, ok := resolveBody(w, base.Object2)
	if !ok {
		cs.fail(w, e, base, "unresolved object2 "+base.Object2)
		return
	}

	if !base.BodySpaceResolved() {
		if base.Loaded() {
			cs.fail(w, e, base, "loaded without body space data")
			return
		}
		inv1 := cs.engine.BodyTransform(body1).Inverse()
		inv2 := cs.engine.BodyTransform(body2).Inverse()
		if !c.SetupBodySpaceData(worldObjects{w: w}, inv1, inv2) {
			cs.fail(w, e, base, "body space setup failed")
			return
		}
	}

	handle := c.CreateConstraint(cs.engine, body1, body2)
	if handle == nil {
		cs.fail(w, e, base, "engine refused constraint")
		return
	}

	cs.joints[e] = &jointInfo{handle: handle, value: c, body1: ent1, body2: ent2}
	if err := ecs.Add(w, e, component.ConstraintJointComponent.Kind(), &component.ConstraintJoint{Handle: handle, Body1: body1, Body2: body2}); err != nil {
		panic("constraint system: add joint: " + err.Error())
	}
	w.Events().Push(ecs.Event{Type: ecs.EventConstraintCreated, Data: ecs.ConstraintEvent{Entity: e, Name: base.Name}})
}

func (cs *ConstraintSystem) fail(w *ecs.World, e ecs.Entity, base *constraint.Base, reason string) {
	base.Fail()
	log.Printf("ConstraintSystem: constraint %q (entity %s) not created: %s", base.Name, e, reason)
	w.Events().Push(ecs.Event{Type: ecs.EventConstraintFailed, Data: ecs.ConstraintEvent{Entity: e, Name: base.Name, Reason: reason}})
}

func (cs *ConstraintSystem) release(w *ecs.World, e ecs.Entity, reason string) {
	info, ok := cs.joints[e]
	if !ok {
		return
	}
	cs.engine.ReleaseConstraint(info.handle)
	info.value.Common().Released()
	delete(cs.joints, e)
	if ecs.IsAlive(w, e) {
		ecs.Remove(w, e, component.ConstraintJointComponent.Kind())
	}
	w.Events().Push(ecs.Event{Type: ecs.EventConstraintReleased, Data: ecs.ConstraintEvent{Entity: e, Name: info.value.Common().Name, Reason: reason}})
}

// releaseOrphans drops joints whose constraint entity died or whose linked
// bodies are gone. A constraint that lost a body is marked failed.
func (cs *ConstraintSystem) releaseOrphans(w *ecs.World) {
	for e, info := range cs.joints {
		if !ecs.IsAlive(w, e) {
			cs.release(w, e, "constraint entity destroyed")
			continue
		}
		if bodyGone(w, info.body1) || bodyGone(w, info.body2) {
			cs.release(w, e, "linked body destroyed")
			info.value.Common().Fail()
		}
	}
}

func bodyGone(w *ecs.World, e ecs.Entity) bool {
	return e.Valid() && !ecs.IsAlive(w, e)
}

// resolveBody maps an object name to its entity and rigid body. The empty
// name is the static world body.
func resolveBody(w *ecs.World, name string) (ecs.Entity, *cp.Body, bool) {
	if name == "" {
		return 0, nil, true
	}
	e, ok := FindNamed(w, name)
	if !ok {
		return 0, nil, false
	}
	body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || body.Body == nil {
		return 0, nil, false
	}
	if body.Static {
		return e, nil, true
	}
	return e, body.Body, true
}

// FindNamed returns the live entity carrying name.
func FindNamed(w *ecs.World, name string) (ecs.Entity, bool) {
	if name == "" {
		return 0, false
	}
	for _, e := range ecs.Query(w, component.NameComponent.Kind()) {
		if n, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok && n.Name == name {
			return e, true
		}
	}
	return 0, false
}

// worldObjects resolves object names to transform positions.
type worldObjects struct {
	w *ecs.World
}

func (o worldObjects) ObjectPosition(name string) (common.Vec3, bool) {
	e, ok := FindNamed(o.w, name)
	if !ok {
		return common.Vec3{}, false
	}
	t, ok := ecs.Get(o.w, e, component.TransformComponent.Kind())
	if !ok {
		return common.Vec3{}, false
	}
	return t.Position(), true
}
