package component

// ConstraintDestroyRequest marks a constraint entity for removal. The
// constraint system releases its joint from the space before destroying it.
type ConstraintDestroyRequest struct{}

var ConstraintDestroyRequestComponent = NewComponent[ConstraintDestroyRequest]()
