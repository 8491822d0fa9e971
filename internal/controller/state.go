package controller

// State is the per-submission state of the widget
type State int

const (
	// Idle accepts a submission; the send control is enabled
	Idle State = iota
	// Sending has exactly one request in flight; the send control is disabled
	Sending
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sending:
		return "sending"
	default:
		return "unknown"
	}
}

// Lifecycle tracks the controller's binding to its hosting session
type Lifecycle int

const (
	LifecycleInit Lifecycle = iota
	LifecycleActive
	LifecycleTeardown
)

func (l Lifecycle) String() string {
	switch l {
	case LifecycleInit:
		return "init"
	case LifecycleActive:
		return "active"
	case LifecycleTeardown:
		return "teardown"
	default:
		return "unknown"
	}
}
