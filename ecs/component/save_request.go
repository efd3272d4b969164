package component

// SaveRequest asks the persistence system to write every constraint to Path.
type SaveRequest struct {
	Path string
}

var SaveRequestComponent = NewComponent[SaveRequest]()

// LoadRequest asks the persistence system to replace every constraint with
// the ones stored at Path.
type LoadRequest struct {
	Path string
}

var LoadRequestComponent = NewComponent[LoadRequest]()
