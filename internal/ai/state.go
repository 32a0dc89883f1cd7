package ai

// State is a step in a gateway call's lifecycle:
// Idle -> Requesting -> (Success | Retrying -> Requesting | Failed).
// Success and Failed are terminal.
type State int

const (
	StateIdle State = iota
	StateRequesting
	StateRetrying
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRequesting:
		return "requesting"
	case StateRetrying:
		return "retrying"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition follows s
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed
}

// Transition is one state change of a named flow
type Transition struct {
	Flow    string
	State   State
	Attempt int
	Err     error
}

// Observer receives every transition of every call
type Observer func(Transition)
