package constraint

import (
	"errors"
	"fmt"

	"github.com/milk9111/springjoint/common"
	"github.com/milk9111/springjoint/physics"
)

var ErrBadState = errors.New("constraint: unknown lifecycle state")

// State is the lifecycle position of a constraint.
type State int

const (
	StateUninitialized State = iota
	StateConfigured
	StateBodySpaceResolved
	StateCreated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateConfigured:
		return "configured"
	case StateBodySpaceResolved:
		return "body_space_resolved"
	case StateCreated:
		return "created"
	case StateFailed:
		return "failed"
	default:
		return "uninitialized"
	}
}

// Property names read by Base.
const (
	PropName          = "name"
	PropObject1       = "object1"
	PropObject2       = "object2"
	PropPos           = "pos"
	PropRotation      = "rotation"
	PropMaxForce      = "max_force"
	PropCollideBodies = "collide_bodies"
)

// Base holds the fields every constraint shares. Object1 and Object2 name the
// objects whose rigid bodies are linked; an empty name is the static world.
type Base struct {
	Name          string
	Object1       string
	Object2       string
	Transform     common.RigidTransform
	MaxForce      float64
	CollideBodies bool

	state  State
	loaded bool
}

func (b *Base) Common() *Base {
	return b
}

func (b *Base) State() State {
	return b.state
}

// Loaded reports whether the constraint came from a save stream rather than
// from properties. Body-space setup never runs on a loaded constraint.
func (b *Base) Loaded() bool {
	return b.loaded
}

// BodySpaceResolved reports whether body-local data is valid.
func (b *Base) BodySpaceResolved() bool {
	return b.state == StateBodySpaceResolved || b.state == StateCreated
}

// Released moves a created constraint back so the host can create its
// handle again, e.g. after the physics space was rebuilt.
func (b *Base) Released() {
	if b.state == StateCreated {
		b.state = StateBodySpaceResolved
	}
}

// Fail marks a constraint the host could not create.
func (b *Base) Fail() {
	if b.state != StateCreated {
		b.state = StateFailed
	}
}

func (b *Base) ReadProperties(props PropList) {
	b.loaded = false
	if props == nil {
		b.state = StateConfigured
		return
	}
	b.Name = props.String(PropName, b.Name)
	b.Object1 = props.String(PropObject1, b.Object1)
	b.Object2 = props.String(PropObject2, b.Object2)
	pos := props.Vec3(PropPos, b.Transform.Position)
	rot := b.Transform.Rotation
	if props.Has(PropRotation) {
		rot = common.QuatFromZ(props.Float(PropRotation, rot.AngleZ()))
	}
	b.Transform = common.RigidTransform{Position: pos, Rotation: rot}
	b.MaxForce = nonNegative(props.Float(PropMaxForce, b.MaxForce))
	b.CollideBodies = props.Bool(PropCollideBodies, b.CollideBodies)
	b.state = StateConfigured
}

func (b *Base) SetupConstraintCreateStruct(cs *physics.CreateStruct) {
	cs.Name = b.Name
	cs.MaxForce = b.MaxForce
	cs.CollideBodies = b.CollideBodies
}

// resolve marks body-space setup as done. It fails if setup already ran.
func (b *Base) resolve(ok bool) bool {
	if b.BodySpaceResolved() {
		return false
	}
	if !ok {
		b.state = StateFailed
		return false
	}
	b.state = StateBodySpaceResolved
	return true
}

func (b *Base) Save(w MessageWriter, _ SaveFlags) {
	w.WriteString(b.Name)
	w.WriteString(b.Object1)
	w.WriteString(b.Object2)
	w.WriteRigidTransform(b.Transform)
	w.WriteFloat64(b.MaxForce)
	w.WriteBool(b.CollideBodies)
	w.WriteUint32(uint32(b.state))
}

func (b *Base) Load(r MessageReader, _ LoadFlags) error {
	name := r.ReadString()
	object1 := r.ReadString()
	object2 := r.ReadString()
	transform := r.ReadRigidTransform()
	maxForce := r.ReadFloat64()
	collide := r.ReadBool()
	state := State(r.ReadUint32())
	if err := r.Err(); err != nil {
		return fmt.Errorf("constraint: load base: %w", err)
	}
	if state < StateUninitialized || state > StateFailed {
		return fmt.Errorf("constraint: load base: %w: %d", ErrBadState, state)
	}
	// The engine handle is not part of the stream.
	if state == StateCreated {
		state = StateBodySpaceResolved
	}

	b.Name = name
	b.Object1 = object1
	b.Object2 = object2
	b.Transform = transform
	b.MaxForce = nonNegative(maxForce)
	b.CollideBodies = collide
	b.state = state
	b.loaded = true
	return nil
}

// nonNegative clamps negatives and NaN to zero.
func nonNegative(v float64) float64 {
	if !(v >= 0) {
		return 0
	}
	return v
}
