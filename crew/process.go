package crew

import (
	"fmt"

	"github.com/hupe1980/crewmesh/core"
)

// Process defines how a crew schedules its tasks.
type Process string

const (
	// ProcessSequential runs tasks one at a time in declaration order.
	ProcessSequential Process = "sequential"
	// ProcessParallel is reserved for a scheduler that runs independent tasks
	// concurrently where dependencies allow. Crews reject it for now.
	ProcessParallel Process = "parallel"
)

// String implements fmt.Stringer.
func (p Process) String() string { return string(p) }

// ParseProcess maps a definition value to a Process. Empty means sequential.
func ParseProcess(s string) (Process, error) {
	switch Process(s) {
	case "", ProcessSequential:
		return ProcessSequential, nil
	case ProcessParallel:
		return ProcessParallel, nil
	default:
		return "", fmt.Errorf("%w: unknown process %q", core.ErrValidation, s)
	}
}

func (p Process) validate() error {
	switch p {
	case ProcessSequential:
		return nil
	case ProcessParallel:
		return fmt.Errorf("%w: process %q is not supported yet", core.ErrValidation, p)
	default:
		return fmt.Errorf("%w: unknown process %q", core.ErrValidation, p)
	}
}

// State is the crew lifecycle: Idle → Running → Completed | Failed.
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateFailed
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
