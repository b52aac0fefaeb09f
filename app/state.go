package app

// State represents the current application state.
type State int

const (
	StateLoading State = iota // Waiting for the source and the first window size
	StateReady                // List attached and scrollable
	StateFailed               // Source or list configuration failed
	StateQuit                 // Tearing down
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateQuit:
		return "quit"
	default:
		return "unknown"
	}
}
