// Package crew executes a static graph of tasks owned by agents.
//
// A crew is validated once at construction: every task's agent must be a
// member (by pointer identity, never by role string) and, for the sequential
// process, every dependency must appear strictly earlier in the task list.
// That ordering rule is a valid topological order without a graph solver and
// rules out cycles and self references.
//
// Run executes tasks one at a time:
//
//  1. Check ctx for cancellation
//  2. Resolve the task's context from its dependencies' recorded outputs
//  3. Execute the task through its agent
//  4. Append (task, output) to the execution log
//
// The first failure aborts the run with a *core.TaskExecutionError. The log
// (Result) keeps the completed entries and exposes the final output and a
// structured join of all outputs.
package crew
