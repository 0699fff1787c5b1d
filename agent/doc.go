// Package agent defines the crew member identity: a role, a goal and a
// backstory bound to a model.Completer.
//
// Agents carry no mutable state. They are constructed once, referenced by
// tasks and crews by pointer, and only ever asked to Complete a prompt with
// the upstream context a task resolved.
package agent
