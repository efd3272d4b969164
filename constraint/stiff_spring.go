package constraint

import (
	"fmt"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/springjoint/common"
	"github.com/milk9111/springjoint/physics"
)

const StiffSpringType = "StiffSpring"

// Property names read by StiffSpring.
const (
	PropEndPointObject = "end_point_object"
	PropDistance       = "distance"
)

// StiffSpring links two bodies at pivot points that must stay a fixed
// distance apart. The first pivot is the constraint's own position, the
// second is the position of the end point object.
type StiffSpring struct {
	Base

	EndPointObject string
	Pivot1         common.Vec3
	Pivot2         common.Vec3
	Distance       float64
}

func NewStiffSpring() *StiffSpring {
	return &StiffSpring{}
}

func (s *StiffSpring) ReadConstraintProperties(props PropList) {
	s.Base.ReadProperties(props)
	if props == nil {
		return
	}
	s.EndPointObject = props.String(PropEndPointObject, s.EndPointObject)
	s.Distance = nonNegative(props.Float(PropDistance, s.Distance))
}

func (s *StiffSpring) SetupBodySpaceData(objects ObjectLookup, invBody1, invBody2 common.RigidTransform) bool {
	if s.BodySpaceResolved() {
		return false
	}
	if s.EndPointObject == "" || objects == nil {
		return s.resolve(false)
	}
	end, ok := objects.ObjectPosition(s.EndPointObject)
	if !ok {
		return s.resolve(false)
	}
	s.Pivot1 = invBody1.TransformPoint(s.Transform.Position)
	s.Pivot2 = invBody2.TransformPoint(end)
	return s.resolve(true)
}

func (s *StiffSpring) CreateConstraint(engine physics.Engine, body1, body2 *cp.Body) *cp.Constraint {
	return createConstraint(s, engine, body1, body2)
}

func (s *StiffSpring) SetupConstraintCreateStruct(cs *physics.CreateStruct) {
	cs.Type = physics.ConstraintStiffSpring
	cs.StiffSpring = physics.StiffSpringParams{
		Pivot1:   s.Pivot1,
		Pivot2:   s.Pivot2,
		Distance: s.Distance,
	}
}

func (s *StiffSpring) Save(w MessageWriter, flags SaveFlags) {
	s.Base.Save(w, flags)
	w.WriteString(s.EndPointObject)
	w.WriteVec3(s.Pivot1)
	w.WriteVec3(s.Pivot2)
	w.WriteFloat64(s.Distance)
}

func (s *StiffSpring) Load(r MessageReader, flags LoadFlags) error {
	if err := s.Base.Load(r, flags); err != nil {
		return err
	}
	end := r.ReadString()
	p1 := r.ReadVec3()
	p2 := r.ReadVec3()
	dist := r.ReadFloat64()
	if err := r.Err(); err != nil {
		return fmt.Errorf("constraint: load stiff spring: %w", err)
	}
	s.EndPointObject = end
	s.Pivot1 = p1
	s.Pivot2 = p2
	s.Distance = nonNegative(dist)
	return nil
}
