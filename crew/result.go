package crew

import (
	"fmt"
	"strings"
	"time"

	"github.com/hupe1980/crewmesh/task"
)

// Entry is one completed task in the execution log.
type Entry struct {
	Task     *task.Task
	Output   string
	Duration time.Duration
}

// Result is the ordered execution log of a crew run. It has no state of its
// own beyond the log; every accessor is a projection of it.
type Result struct {
	RunID   string
	Crew    string
	entries []Entry
}

// Len returns the number of completed entries.
func (r *Result) Len() int { return len(r.entries) }

// Entries returns a copy of the log in execution order.
func (r *Result) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Final returns the last entry's output, the crew's overall result.
// It is empty when no task completed.
func (r *Result) Final() string {
	if len(r.entries) == 0 {
		return ""
	}
	return r.entries[len(r.entries)-1].Output
}

// Output returns the recorded output of t, looked up by identity.
func (r *Result) Output(t *task.Task) (string, bool) {
	for _, e := range r.entries {
		if e.Task == t {
			return e.Output, true
		}
	}
	return "", false
}

// ByName returns the output of the first entry whose task carries name.
func (r *Result) ByName(name string) (string, bool) {
	for _, e := range r.entries {
		if e.Task.Name() == name {
			return e.Output, true
		}
	}
	return "", false
}

// Join renders every entry as a section headed by its position, task label and
// agent role, in execution order.
func (r *Result) Join() string {
	var b strings.Builder
	for i, e := range r.entries {
		if i > 0 {
			b.WriteString("\n\n")
		}
		fmt.Fprintf(&b, "## %d. %s (%s)\n\n%s", i+1, e.Task.Label(), e.Task.Agent().Role(), e.Output)
	}
	return b.String()
}

// String returns Final so a Result prints like the crew's answer.
func (r *Result) String() string { return r.Final() }
