package physics

import (
	"log"
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/springjoint/common"
)

// Engine allocates and releases constraint handles between rigid bodies.
// A nil body stands for the static world body.
type Engine interface {
	CreateConstraint(body1, body2 *cp.Body, cs *CreateStruct) *cp.Constraint
	ReleaseConstraint(c *cp.Constraint)
	BodyTransform(body *cp.Body) common.RigidTransform
}

// Chipmunk implements Engine on a Chipmunk2D space. Only the XY plane of the
// 3D data reaches the solver.
type Chipmunk struct {
	space *cp.Space
}

// NewSpace creates a space with the default iteration count and gravity.
func NewSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{X: 0, Y: common.Gravity})
	return space
}

func NewChipmunk(space *cp.Space) *Chipmunk {
	if space == nil {
		space = NewSpace()
	}
	return &Chipmunk{space: space}
}

func (c *Chipmunk) Space() *cp.Space {
	if c == nil {
		return nil
	}
	return c.space
}

func (c *Chipmunk) Step(dt float64) {
	if c == nil || c.space == nil {
		return
	}
	c.space.Step(dt)
}

func (c *Chipmunk) CreateConstraint(body1, body2 *cp.Body, cs *CreateStruct) *cp.Constraint {
	if c == nil || c.space == nil || cs == nil {
		return nil
	}
	a := c.bodyOrStatic(body1)
	b := c.bodyOrStatic(body2)
	if a == b {
		log.Printf("physics: constraint %q links a body to itself", cs.Name)
		return nil
	}

	var con *cp.Constraint
	switch cs.Type {
	case ConstraintStiffSpring:
		p := cs.StiffSpring
		con = cp.NewPinJoint(a, b, toVector(p.Pivot1), toVector(p.Pivot2))
		if pin, ok := con.Class.(*cp.PinJoint); ok {
			pin.Dist = math.Max(p.Distance, 0)
		}
	default:
		log.Printf("physics: constraint %q has unsupported type %s", cs.Name, cs.Type)
		return nil
	}

	if cs.MaxForce > 0 {
		con.SetMaxForce(cs.MaxForce)
	}
	con.SetCollideBodies(cs.CollideBodies)
	c.space.AddConstraint(con)
	return con
}

func (c *Chipmunk) ReleaseConstraint(con *cp.Constraint) {
	if c == nil || c.space == nil || con == nil {
		return
	}
	if c.space.ContainsConstraint(con) {
		c.space.RemoveConstraint(con)
	}
}

// BodyTransform returns the world transform of body. The static world body
// and nil both map to identity.
func (c *Chipmunk) BodyTransform(body *cp.Body) common.RigidTransform {
	if body == nil || (c != nil && c.space != nil && body == c.space.StaticBody) {
		return common.IdentityTransform()
	}
	pos := body.Position()
	return common.RigidTransform{
		Position: common.Vec3{X: pos.X, Y: pos.Y},
		Rotation: common.QuatFromZ(body.Angle()),
	}
}

func (c *Chipmunk) bodyOrStatic(body *cp.Body) *cp.Body {
	if body == nil {
		return c.space.StaticBody
	}
	return body
}

func toVector(v common.Vec3) cp.Vector {
	return cp.Vector{X: v.X, Y: v.Y}
}

// Reset swaps in a fresh space. Handles from the old space are dropped.
func (c *Chipmunk) Reset() {
	if c == nil {
		return
	}
	c.space = NewSpace()
}

// Separation returns the current world distance between the two anchors of
// a stiff spring joint linking body1 and body2. A nil body is the static
// world body, whose local space is world space.
func Separation(con *cp.Constraint, body1, body2 *cp.Body) (float64, bool) {
	if con == nil {
		return 0, false
	}
	pin, ok := con.Class.(*cp.PinJoint)
	if !ok {
		return 0, false
	}
	return anchorToWorld(body1, pin.AnchorA).Distance(anchorToWorld(body2, pin.AnchorB)), true
}

func anchorToWorld(body *cp.Body, anchor cp.Vector) cp.Vector {
	if body == nil {
		return anchor
	}
	return body.LocalToWorld(anchor)
}
