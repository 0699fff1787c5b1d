package core

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is returned when an agent, task or crew is constructed
	// from malformed input. It is raised at construction time, never during a run.
	ErrValidation = errors.New("validation failed")

	// ErrGraphValidation is returned when the task dependency graph of a crew
	// violates ordering rules (self dependency, forward reference, foreign task).
	ErrGraphValidation = errors.New("graph validation failed")

	// ErrNotReady is returned when a task's context is requested before all of
	// its dependencies produced output. Crew validation makes this unreachable
	// during a normal run.
	ErrNotReady = errors.New("dependency output not ready")

	// ErrAlreadyExecuted is returned when a task or crew is executed a second time.
	ErrAlreadyExecuted = errors.New("already executed")

	// ErrCompletion marks failures of the underlying text completion capability.
	ErrCompletion = errors.New("completion failed")

	// ErrCancelled is returned when a run is cancelled before the next task starts.
	ErrCancelled = errors.New("run cancelled")
)

// CompletionError describes a failed completion call (network, quota, model or
// timeout). errors.Is(err, ErrCompletion) reports true for every CompletionError.
type CompletionError struct {
	Provider string // e.g. "openai", "anthropic", "mock"
	Model    string // Model identifier if known
	Cause    error  // Underlying SDK or context error
}

// NewCompletionError wraps cause as a CompletionError for the given provider/model.
func NewCompletionError(provider, model string, cause error) *CompletionError {
	return &CompletionError{Provider: provider, Model: model, Cause: cause}
}

// Error implements the error interface.
func (e *CompletionError) Error() string {
	label := e.Provider
	if e.Model != "" {
		label = fmt.Sprintf("%s/%s", e.Provider, e.Model)
	}
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", ErrCompletion, label)
	}
	return fmt.Sprintf("%s: %s: %v", ErrCompletion, label, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *CompletionError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrCompletion.
func (e *CompletionError) Is(target error) bool { return target == ErrCompletion }

// TaskExecutionError is the single terminal error of a failed crew run. It
// carries the identity of the failing task alongside the underlying cause.
type TaskExecutionError struct {
	Index    int    // Zero-based position of the task in the crew sequence
	TaskID   string // Generated task identifier
	TaskName string // Optional human label
	Role     string // Role of the agent that owned the task
	Cause    error
}

// Error implements the error interface.
func (e *TaskExecutionError) Error() string {
	label := e.TaskName
	if label == "" {
		label = e.TaskID
	}
	return fmt.Sprintf("task %d (%s, agent %q) failed: %v", e.Index+1, label, e.Role, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *TaskExecutionError) Unwrap() error { return e.Cause }

// AsTaskExecutionError extracts a *TaskExecutionError from err's chain.
func AsTaskExecutionError(err error) (*TaskExecutionError, bool) {
	var te *TaskExecutionError
	if errors.As(err, &te) {
		return te, true
	}
	return nil, false
}
