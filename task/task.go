package task

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/crewmesh/agent"
	"github.com/hupe1980/crewmesh/core"
	"github.com/hupe1980/crewmesh/internal/util"
	"github.com/hupe1980/crewmesh/model"
)

// Options configures optional task properties.
type Options struct {
	// Name is a short label used in logs, YAML definitions and artifact bindings.
	Name string
	// Dependencies are upstream tasks whose outputs become this task's context,
	// in the given order.
	Dependencies []*Task
}

// ContextEntry pairs a dependency with the output it recorded.
type ContextEntry struct {
	Task   *Task
	Output string
}

// Task is a unit of work owned by exactly one agent. Everything except the
// execution state is fixed at construction; the output transitions exactly
// once from unset to set. All methods are goroutine-safe.
type Task struct {
	id             string
	name           string
	description    string
	expectedOutput string
	agent          *agent.Agent
	deps           []*Task

	mu     sync.Mutex
	state  State
	output *string
}

// New constructs a pending Task.
//
// Returns an error wrapping core.ErrValidation if agent is nil, the description
// is blank or a dependency is nil. Ordering and cycle checks are performed by
// the crew, which is the only place the full graph is visible.
func New(description, expectedOutput string, a *agent.Agent, optFns ...func(o *Options)) (*Task, error) {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	if a == nil {
		return nil, fmt.Errorf("%w: task %q has no agent", core.ErrValidation, opts.Name)
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: task %q has an empty description", core.ErrValidation, opts.Name)
	}
	for i, d := range opts.Dependencies {
		if d == nil {
			return nil, fmt.Errorf("%w: task %q dependency %d is nil", core.ErrValidation, opts.Name, i)
		}
	}

	deps := make([]*Task, len(opts.Dependencies))
	copy(deps, opts.Dependencies)

	return &Task{
		id:             core.NewID(),
		name:           opts.Name,
		description:    description,
		expectedOutput: expectedOutput,
		agent:          a,
		deps:           deps,
		state:          StatePending,
	}, nil
}

// ID returns the generated unique identifier.
func (t *Task) ID() string { return t.id }

// Name returns the optional label.
func (t *Task) Name() string { return t.name }

// Label returns the name, or the identifier when no name was given.
func (t *Task) Label() string {
	if t.name != "" {
		return t.name
	}
	return t.id
}

// Description returns the instruction given to the agent.
func (t *Task) Description() string { return t.description }

// ExpectedOutput returns the natural-language contract for a valid output.
// It shapes the prompt and is never checked mechanically.
func (t *Task) ExpectedOutput() string { return t.expectedOutput }

// Agent returns the owning agent.
func (t *Task) Agent() *agent.Agent { return t.agent }

// Dependencies returns a copy of the upstream tasks in declaration order.
func (t *Task) Dependencies() []*Task {
	out := make([]*Task, len(t.deps))
	copy(out, t.deps)
	return out
}

// State returns the current execution state.
func (t *Task) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Output returns the recorded output and whether one was recorded.
func (t *Task) Output() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.output == nil {
		return "", false
	}
	return *t.output, true
}

// ResolveContext returns the (dependency, output) pairs for every dependency in
// declaration order. It fails with core.ErrNotReady if any dependency has not
// produced output yet.
func (t *Task) ResolveContext() ([]ContextEntry, error) {
	entries := make([]ContextEntry, 0, len(t.deps))
	for _, d := range t.deps {
		out, ok := d.Output()
		if !ok {
			return nil, fmt.Errorf("%w: task %q requires output of %q", core.ErrNotReady, t.Label(), d.Label())
		}
		entries = append(entries, ContextEntry{Task: d, Output: out})
	}

	t.mu.Lock()
	if t.state == StatePending {
		t.state = StateContextResolved
	}
	t.mu.Unlock()

	return entries, nil
}

// Prompt composes the instruction sent to the agent: the description followed
// by the expected-output contract. Context entries travel separately as
// model.ContextItems.
func (t *Task) Prompt() string {
	return composePrompt(t.description, t.expectedOutput)
}

// Render returns the description and expected output interpolated with
// kickoff inputs using text/template syntax ({{.name}}). Templates are rendered
// even without inputs, so absent keys become empty and default helpers apply.
func (t *Task) Render(inputs map[string]any) (description, expectedOutput string, err error) {
	if description, err = util.RenderTemplate(t.description, inputs); err != nil {
		return "", "", fmt.Errorf("%w: task %q description: %v", core.ErrValidation, t.Label(), err)
	}
	if expectedOutput, err = util.RenderTemplate(t.expectedOutput, inputs); err != nil {
		return "", "", fmt.Errorf("%w: task %q expected output: %v", core.ErrValidation, t.Label(), err)
	}
	return description, expectedOutput, nil
}

// Execute runs the task once with the given resolved context and records the
// agent's output. It is equivalent to ExecuteWithInputs with no inputs.
func (t *Task) Execute(ctx context.Context, entries []ContextEntry) (string, error) {
	return t.ExecuteWithInputs(ctx, entries, nil)
}

// ExecuteWithInputs renders the task text with inputs, invokes the owning
// agent and records the returned text.
//
// A second call fails with core.ErrAlreadyExecuted and leaves the recorded
// output untouched. A failed execution is terminal as well.
func (t *Task) ExecuteWithInputs(ctx context.Context, entries []ContextEntry, inputs map[string]any) (string, error) {
	t.mu.Lock()
	if t.state.Terminal() || t.state == StateExecuting {
		state := t.state
		t.mu.Unlock()
		return "", fmt.Errorf("%w: task %q is %s", core.ErrAlreadyExecuted, t.Label(), state)
	}
	t.state = StateExecuting
	t.mu.Unlock()

	description, expected, err := t.Render(inputs)
	if err != nil {
		t.fail()
		return "", err
	}

	items := make([]model.ContextItem, len(entries))
	for i, e := range entries {
		items[i] = model.ContextItem{Source: e.Task.Label(), Role: e.Task.Agent().Role(), Output: e.Output}
	}

	out, err := t.agent.Complete(ctx, composePrompt(description, expected), items)
	if err != nil {
		t.fail()
		return "", err
	}

	t.mu.Lock()
	t.output = &out
	t.state = StateCompleted
	t.mu.Unlock()

	return out, nil
}

func (t *Task) fail() {
	t.mu.Lock()
	t.state = StateFailed
	t.mu.Unlock()
}

// String implements fmt.Stringer.
func (t *Task) String() string { return fmt.Sprintf("Task(%s)", t.Label()) }

func composePrompt(description, expectedOutput string) string {
	var b strings.Builder
	b.WriteString("Current task: ")
	b.WriteString(strings.TrimSpace(description))
	if e := strings.TrimSpace(expectedOutput); e != "" {
		b.WriteString("\n\nThis is the expected criteria for your final answer: ")
		b.WriteString(e)
		b.WriteString("\nYou MUST return the actual complete content as the final answer, not a summary.")
	}
	return b.String()
}
