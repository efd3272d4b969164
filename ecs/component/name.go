package component

// Name is the unique lookup key other objects use to reference an entity.
type Name struct {
	Name string
}

var NameComponent = NewComponent[Name]()
