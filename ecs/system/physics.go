package system

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/springjoint/ecs"
	"github.com/milk9111/springjoint/ecs/component"
	"github.com/milk9111/springjoint/physics"
)

// DefaultStep is the fixed timestep in frames, matching the gravity units.
const DefaultStep = 1.0

type PhysicsSystem struct {
	engine  *physics.Chipmunk
	step    float64
	prestep *ecs.Scheduler

	entities map[ecs.Entity]*bodyInfo
}

type bodyInfo struct {
	body   *cp.Body
	shapes []*cp.Shape
	static bool
}

func NewPhysicsSystem(engine *physics.Chipmunk) *PhysicsSystem {
	if engine == nil {
		engine = physics.NewChipmunk(nil)
	}
	return &PhysicsSystem{
		engine:   engine,
		step:     DefaultStep,
		prestep:  ecs.NewScheduler(),
		entities: make(map[ecs.Entity]*bodyInfo),
	}
}

func (ps *PhysicsSystem) Engine() *physics.Chipmunk {
	if ps == nil {
		return nil
	}
	return ps.engine
}

func (ps *PhysicsSystem) Space() *cp.Space {
	return ps.Engine().Space()
}

// SetStep changes the timestep passed to the space.
func (ps *PhysicsSystem) SetStep(dt float64) {
	if dt > 0 {
		ps.step = dt
	}
}

// AddPrestep registers a system that runs after new bodies exist and before
// dead bodies are removed and the space steps.
func (ps *PhysicsSystem) AddPrestep(s ecs.System) {
	ps.prestep.Add(s)
}

// Reset resets the prestep systems, then drops every body and starts over
// with an empty space.
func (ps *PhysicsSystem) Reset(w *ecs.World) {
	ps.prestep.Reset(w)
	ps.engine.Reset()
	ps.entities = make(map[ecs.Entity]*bodyInfo)
}

func (ps *PhysicsSystem) Update(w *ecs.World) {
	if ps == nil || w == nil {
		return
	}

	ps.syncEntities(w)
	ps.prestep.Update(w)
	ps.cleanupEntities(w)

	ps.engine.Step(ps.step)

	ps.syncTransforms(w)
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if info := ps.entities[e]; info != nil {
			if bodyComp.Body == nil {
				bodyComp.Body = info.body
				bodyComp.Shape = info.shapes[0]
			}
			return
		}

		info := ps.createBodyInfo(*transform, *bodyComp)
		ps.entities[e] = info
		bodyComp.Body = info.body
		bodyComp.Shape = info.shapes[0]
	})
}

func (ps *PhysicsSystem) createBodyInfo(transform component.Transform, bodyComp component.PhysicsBody) *bodyInfo {
	space := ps.engine.Space()

	width := bodyComp.Width
	height := bodyComp.Height
	radius := bodyComp.Radius
	if radius <= 0 && (width <= 0 || height <= 0) {
		width = 32
		height = 32
	}

	center := cp.Vector{X: transform.X, Y: transform.Y}
	info := &bodyInfo{static: bodyComp.Static}

	if bodyComp.Static {
		var shape *cp.Shape
		if radius > 0 {
			shape = cp.NewCircle(space.StaticBody, radius, center)
		} else {
			bb := cp.BB{L: center.X - width/2, B: center.Y - height/2, R: center.X + width/2, T: center.Y + height/2}
			shape = cp.NewBox2(space.StaticBody, bb, 0)
		}
		shape.SetFriction(bodyComp.Friction)
		shape.SetElasticity(bodyComp.Elasticity)
		space.AddShape(shape)

		info.body = space.StaticBody
		info.shapes = []*cp.Shape{shape}
		return info
	}

	mass := bodyComp.Mass
	if mass <= 0 {
		mass = 1
	}

	var moment float64
	if radius > 0 {
		moment = cp.MomentForCircle(mass, 0, radius, cp.Vector{})
	} else {
		moment = cp.MomentForBox(mass, width, height)
	}
	if bodyComp.FixedRotation {
		moment = math.Inf(1)
	}

	body := cp.NewBody(mass, moment)
	body.SetPosition(center)
	body.SetAngle(transform.Rotation)

	var shape *cp.Shape
	if radius > 0 {
		shape = cp.NewCircle(body, radius, cp.Vector{})
	} else {
		shape = cp.NewBox(body, width, height, 0)
	}
	shape.SetFriction(bodyComp.Friction)
	shape.SetElasticity(bodyComp.Elasticity)

	space.AddBody(body)
	space.AddShape(shape)

	info.body = body
	info.shapes = []*cp.Shape{shape}
	return info
}

func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	ecs.ForEach2(w, component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind(), func(_ ecs.Entity, bodyComp *component.PhysicsBody, transform *component.Transform) {
		if bodyComp.Body == nil || bodyComp.Static {
			return
		}
		pos := bodyComp.Body.Position()
		transform.X = pos.X
		transform.Y = pos.Y
		transform.Rotation = bodyComp.Body.Angle()
	})
}

func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	space := ps.engine.Space()
	for e, info := range ps.entities {
		if ecs.IsAlive(w, e) && ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		for _, shape := range info.shapes {
			space.RemoveShape(shape)
		}
		if info.body != nil && !info.static {
			space.RemoveBody(info.body)
		}
		delete(ps.entities, e)
	}
}
