package ollama

// StatusKind enumerates the Status variants.
type StatusKind int

const (
	StatusConnected StatusKind = iota
	StatusModelMissing
	StatusUnreachable
)

// Status is the result of Check: exactly one of Connected, ModelMissing or
// Unreachable.
type Status interface {
	Kind() StatusKind
	isStatus()
}

// Connected means the server answered and the requested model is installed.
type Connected struct {
	Models []string
}

// ModelMissing means the server answered but the requested model is not installed.
type ModelMissing struct {
	Available []string
}

// Unreachable means the server could not be queried.
type Unreachable struct {
	Detail string
}

func (Connected) Kind() StatusKind    { return StatusConnected }
func (ModelMissing) Kind() StatusKind { return StatusModelMissing }
func (Unreachable) Kind() StatusKind  { return StatusUnreachable }

func (Connected) isStatus()    {}
func (ModelMissing) isStatus() {}
func (Unreachable) isStatus()  {}
