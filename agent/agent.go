package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/hupe1980/crewmesh/core"
	"github.com/hupe1980/crewmesh/model"
)

// Options configures optional agent behaviour.
type Options struct {
	// AllowDelegation reports whether this agent may hand work to other agents.
	// The sequential process never delegates, but the flag is carried so
	// definitions round-trip and future processes can honour it.
	AllowDelegation bool
}

// Agent is an immutable, role-bound task executor. Identity is by pointer: two
// agents may share a role string and still be distinct crew members.
type Agent struct {
	role            string
	goal            string
	backstory       string
	allowDelegation bool
	completer       model.Completer
}

// New constructs an Agent bound to completer.
//
// Returns an error wrapping core.ErrValidation if role is blank or completer is nil.
func New(role, goal, backstory string, completer model.Completer, optFns ...func(o *Options)) (*Agent, error) {
	if strings.TrimSpace(role) == "" {
		return nil, fmt.Errorf("%w: agent role must not be empty", core.ErrValidation)
	}
	if completer == nil {
		return nil, fmt.Errorf("%w: agent %q has no completer", core.ErrValidation, role)
	}

	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Agent{
		role:            role,
		goal:            goal,
		backstory:       backstory,
		allowDelegation: opts.AllowDelegation,
		completer:       completer,
	}, nil
}

// Role returns the human-readable role label.
func (a *Agent) Role() string { return a.role }

// Goal returns the objective steering the agent's outputs.
func (a *Agent) Goal() string { return a.goal }

// Backstory returns the persona context.
func (a *Agent) Backstory() string { return a.backstory }

// AllowDelegation reports whether the agent may delegate work.
func (a *Agent) AllowDelegation() bool { return a.allowDelegation }

// Complete forwards the agent persona together with prompt and context items
// to the bound completer.
func (a *Agent) Complete(ctx context.Context, prompt string, items []model.ContextItem) (string, error) {
	return a.completer.Complete(ctx, model.Request{
		Role:      a.role,
		Goal:      a.goal,
		Backstory: a.backstory,
		Prompt:    prompt,
		Context:   items,
	})
}

// String implements fmt.Stringer.
func (a *Agent) String() string { return fmt.Sprintf("Agent(%s)", a.role) }
