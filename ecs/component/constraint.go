package component

import "github.com/milk9111/springjoint/constraint"

// Constraint attaches a registered constraint object to an entity. Type is
// the registry name used to recreate Value from a save stream.
type Constraint struct {
	Type  string
	Value constraint.Constraint
}

var ConstraintComponent = NewComponent[Constraint]()
