package physics

import "github.com/milk9111/springjoint/common"

// ConstraintType selects which section of a CreateStruct the engine reads.
type ConstraintType int

const (
	ConstraintNone ConstraintType = iota
	ConstraintStiffSpring
)

func (t ConstraintType) String() string {
	switch t {
	case ConstraintStiffSpring:
		return "stiff_spring"
	default:
		return "none"
	}
}

// StiffSpringParams holds two body-local pivots kept Distance apart.
type StiffSpringParams struct {
	Pivot1   common.Vec3
	Pivot2   common.Vec3
	Distance float64
}

// CreateStruct is shared by every constraint type. The base constraint fills
// the common fields, the concrete type fills its own section.
type CreateStruct struct {
	Type          ConstraintType
	Name          string
	MaxForce      float64
	CollideBodies bool

	StiffSpring StiffSpringParams
}
