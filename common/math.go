package common

import "math"

// Gravity is the default downward acceleration applied to physics spaces.
const Gravity = 0.5

// Vec3 is a point or direction in world or body space.
type Vec3 struct {
	X float64
	Y float64
	Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

func (v Vec3) Dot(o Vec3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		X: v.Y*o.Z - v.Z*o.Y,
		Y: v.Z*o.X - v.X*o.Z,
		Z: v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vec3) Distance(o Vec3) float64 {
	return v.Sub(o).Length()
}

// NearlyEqual reports whether every component differs by at most eps.
func (v Vec3) NearlyEqual(o Vec3, eps float64) bool {
	return math.Abs(v.X-o.X) <= eps && math.Abs(v.Y-o.Y) <= eps && math.Abs(v.Z-o.Z) <= eps
}

// Quat is a unit rotation quaternion.
type Quat struct {
	W float64
	X float64
	Y float64
	Z float64
}

func IdentityQuat() Quat {
	return Quat{W: 1}
}

// QuatFromAxisAngle builds a rotation of angle radians about axis.
func QuatFromAxisAngle(axis Vec3, angle float64) Quat {
	l := axis.Length()
	if l == 0 {
		return IdentityQuat()
	}
	s := math.Sin(angle/2) / l
	return Quat{W: math.Cos(angle / 2), X: axis.X * s, Y: axis.Y * s, Z: axis.Z * s}
}

// QuatFromZ rotates about the Z axis, the only axis a 2D space turns around.
func QuatFromZ(angle float64) Quat {
	return QuatFromAxisAngle(Vec3{Z: 1}, angle)
}

func (q Quat) Conjugate() Quat {
	return Quat{W: q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
}

func (q Quat) Mul(o Quat) Quat {
	return Quat{
		W: q.W*o.W - q.X*o.X - q.Y*o.Y - q.Z*o.Z,
		X: q.W*o.X + q.X*o.W + q.Y*o.Z - q.Z*o.Y,
		Y: q.W*o.Y - q.X*o.Z + q.Y*o.W + q.Z*o.X,
		Z: q.W*o.Z + q.X*o.Y - q.Y*o.X + q.Z*o.W,
	}
}

func (q Quat) Normalize() Quat {
	l := math.Sqrt(q.W*q.W + q.X*q.X + q.Y*q.Y + q.Z*q.Z)
	if l == 0 {
		return IdentityQuat()
	}
	return Quat{W: q.W / l, X: q.X / l, Y: q.Y / l, Z: q.Z / l}
}

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// AngleZ returns the rotation about Z in radians.
func (q Quat) AngleZ() float64 {
	return math.Atan2(2*(q.W*q.Z+q.X*q.Y), 1-2*(q.Y*q.Y+q.Z*q.Z))
}

// RigidTransform is a rotation followed by a translation, with no scale.
type RigidTransform struct {
	Position Vec3
	Rotation Quat
}

func IdentityTransform() RigidTransform {
	return RigidTransform{Rotation: IdentityQuat()}
}

func Translation(p Vec3) RigidTransform {
	return RigidTransform{Position: p, Rotation: IdentityQuat()}
}

func (t RigidTransform) rotation() Quat {
	if t.Rotation == (Quat{}) {
		return IdentityQuat()
	}
	return t.Rotation
}

// TransformPoint maps p from the transform's local space into its parent space.
func (t RigidTransform) TransformPoint(p Vec3) Vec3 {
	return t.rotation().Rotate(p).Add(t.Position)
}

// Inverse returns the transform mapping parent space back into local space.
func (t RigidTransform) Inverse() RigidTransform {
	inv := t.rotation().Conjugate()
	return RigidTransform{Position: inv.Rotate(t.Position).Neg(), Rotation: inv}
}

// Mul composes t after o: the result applies o first.
func (t RigidTransform) Mul(o RigidTransform) RigidTransform {
	return RigidTransform{
		Position: t.TransformPoint(o.Position),
		Rotation: t.rotation().Mul(o.rotation()).Normalize(),
	}
}
