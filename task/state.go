package task

// State is the per-task execution state during a crew run.
//
//	Pending → ContextResolved → Executing → Completed
//	Pending | ContextResolved | Executing → Failed
type State int

const (
	StatePending State = iota
	StateContextResolved
	StateExecuting
	StateCompleted
	StateFailed
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateContextResolved:
		return "context_resolved"
	case StateExecuting:
		return "executing"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool { return s == StateCompleted || s == StateFailed }
