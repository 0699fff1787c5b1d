package model

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/hupe1980/crewmesh/core"
)

// ContextItem is one upstream task output handed to a downstream task.
type ContextItem struct {
	Source string `json:"source"` // Label of the producing task
	Role   string `json:"role"`   // Role of the agent that produced the output
	Output string `json:"output"` // Recorded output text, never truncated
}

// Request captures everything a completer needs to produce a task output.
type Request struct {
	Role      string        `json:"role"`
	Goal      string        `json:"goal"`
	Backstory string        `json:"backstory"`
	Prompt    string        `json:"prompt"`
	Context   []ContextItem `json:"context,omitempty"`
}

// Completer is the single-method text completion capability agents are bound to.
// Implementations should respect ctx cancellation and report failures as
// *core.CompletionError.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc is a functional adapter allowing ordinary functions to be used as Completers.
type CompleterFunc func(ctx context.Context, req Request) (string, error)

// Complete implements Completer.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) { return f(ctx, req) }

// Info contains metadata about a completer implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", ...
}

// Describer is implemented by completers that can report their Info.
type Describer interface {
	Info() Info
}

// InfoOf returns c's Info, or an "unknown" placeholder.
func InfoOf(c Completer) Info {
	if d, ok := c.(Describer); ok {
		return d.Info()
	}
	return Info{Name: "unknown", Provider: "custom"}
}

// MockCompleter is a deterministic in‑memory Completer useful for tests,
// examples and dry runs. Responses are matched by exact prompt first, then by
// role; otherwise an echo of the prompt's first line is returned.
type MockCompleter struct {
	mu         sync.Mutex
	info       Info
	byPrompt   map[string]string
	byRole     map[string]string
	failRole   map[string]error
	calls      []Request
	blockUntil <-chan struct{}
}

// NewMockCompleter constructs an empty MockCompleter.
func NewMockCompleter() *MockCompleter {
	return &MockCompleter{
		info:     Info{Name: "mock", Provider: "mock"},
		byPrompt: map[string]string{},
		byRole:   map[string]string{},
		failRole: map[string]error{},
	}
}

// AddResponse registers a canned completion for an exact prompt.
func (m *MockCompleter) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byPrompt[prompt] = response
}

// AddRoleResponse registers a canned completion for every request of a role.
func (m *MockCompleter) AddRoleResponse(role, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byRole[role] = response
}

// FailRole makes every request of role fail with a CompletionError wrapping err.
func (m *MockCompleter) FailRole(role string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failRole[role] = err
}

// BlockUntil makes Complete wait for ch to close (or ctx to end) before answering.
func (m *MockCompleter) BlockUntil(ch <-chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blockUntil = ch
}

// Calls returns a snapshot of all received requests in order.
func (m *MockCompleter) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// Complete implements Completer.
func (m *MockCompleter) Complete(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	m.calls = append(m.calls, req)
	block := m.blockUntil
	failErr, fail := m.failRole[req.Role]
	resp, ok := m.byPrompt[req.Prompt]
	if !ok {
		resp, ok = m.byRole[req.Role]
	}
	m.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", core.NewCompletionError(m.info.Provider, m.info.Name, ctx.Err())
		}
	}
	if err := ctx.Err(); err != nil {
		return "", core.NewCompletionError(m.info.Provider, m.info.Name, err)
	}
	if fail {
		return "", core.NewCompletionError(m.info.Provider, m.info.Name, failErr)
	}
	if ok {
		return resp, nil
	}
	first, _, _ := strings.Cut(req.Prompt, "\n")
	return fmt.Sprintf("Mock response from %s to: %s", req.Role, first), nil
}

// Info implements Describer.
func (m *MockCompleter) Info() Info { return m.info }
