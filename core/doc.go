// Package core provides the foundational types shared by every crewmesh
// package: the error taxonomy used across agent, task and crew construction
// and execution, and identifier generation.
//
// Error taxonomy:
//
//   - ErrValidation: malformed agent / task / crew construction
//   - ErrGraphValidation: dependency ordering violations found by crew.New
//   - ErrNotReady: context requested before a dependency produced output
//   - ErrAlreadyExecuted: re-execution of a task or crew
//   - ErrCompletion / CompletionError: failures of the completion backend
//   - ErrCancelled: the run context ended before a task started
//   - TaskExecutionError: terminal run error carrying the failing task identity
//
// All errors are designed for errors.Is / errors.As inspection; callers should
// never match on error strings.
package core
