package component

import "github.com/jakecoffman/cp"

// ConstraintJoint stores the engine handle of a created constraint and the
// bodies it links. A nil body is the static world body.
type ConstraintJoint struct {
	Handle *cp.Constraint
	Body1  *cp.Body
	Body2  *cp.Body
}

var ConstraintJointComponent = NewComponent[ConstraintJoint]()
