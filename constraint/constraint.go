// Package constraint defines physics constraint objects: their configuration,
// one-time body-space setup, persistence, and the request for an engine
// handle. Solving is left to the physics engine.
package constraint

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/springjoint/common"
	"github.com/milk9111/springjoint/physics"
)

// Constraint is implemented by every registered constraint type. Concrete
// types embed Base and run its phase before their own.
type Constraint interface {
	// ReadConstraintProperties loads authored configuration.
	ReadConstraintProperties(props PropList)

	// SetupBodySpaceData runs once, after every object exists and only for
	// newly created (not loaded) constraints. It converts world placement into
	// each body's local space. False means the constraint must not be created.
	SetupBodySpaceData(objects ObjectLookup, invBody1, invBody2 common.RigidTransform) bool

	// CreateConstraint requests a handle from the engine. It returns nil
	// unless body-space data is resolved.
	CreateConstraint(engine physics.Engine, body1, body2 *cp.Body) *cp.Constraint

	SetupConstraintCreateStruct(cs *physics.CreateStruct)

	Save(w MessageWriter, flags SaveFlags)
	Load(r MessageReader, flags LoadFlags) error

	Common() *Base
}

// ObjectLookup resolves named objects to world positions.
type ObjectLookup interface {
	ObjectPosition(name string) (common.Vec3, bool)
}

// ObjectLookupFunc adapts a function to ObjectLookup.
type ObjectLookupFunc func(name string) (common.Vec3, bool)

func (f ObjectLookupFunc) ObjectPosition(name string) (common.Vec3, bool) {
	return f(name)
}

// createConstraint is the shared CreateConstraint body: base fields first,
// then the concrete section.
func createConstraint(c Constraint, engine physics.Engine, body1, body2 *cp.Body) *cp.Constraint {
	base := c.Common()
	if engine == nil || base.state != StateBodySpaceResolved {
		return nil
	}
	var cs physics.CreateStruct
	base.SetupConstraintCreateStruct(&cs)
	c.SetupConstraintCreateStruct(&cs)

	handle := engine.CreateConstraint(body1, body2, &cs)
	if handle != nil {
		base.state = StateCreated
	}
	return handle
}
