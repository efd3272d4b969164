package component

import "github.com/milk9111/springjoint/common"

// Transform places an entity in world space. Rotation is about Z, in radians.
type Transform struct {
	X        float64
	Y        float64
	Z        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
}

func (t Transform) Position() common.Vec3 {
	return common.Vec3{X: t.X, Y: t.Y, Z: t.Z}
}

// Rigid drops scale and returns the placement as a rigid transform.
func (t Transform) Rigid() common.RigidTransform {
	return common.RigidTransform{Position: t.Position(), Rotation: common.QuatFromZ(t.Rotation)}
}

var TransformComponent = NewComponent[Transform]()
