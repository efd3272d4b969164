package component

// ReloadRequest is a marker component used to signal a rebuild of the
// current level from its file. Any system may create a short-lived entity
// with this component.
type ReloadRequest struct{}

var ReloadRequestComponent = NewComponent[ReloadRequest]()
