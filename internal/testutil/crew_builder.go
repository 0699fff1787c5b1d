package testutil

import (
	"fmt"

	"github.com/hupe1980/crewmesh/agent"
	"github.com/hupe1980/crewmesh/crew"
	"github.com/hupe1980/crewmesh/model"
	"github.com/hupe1980/crewmesh/task"
)

// CrewBuilder helps construct crews with fluent chaining for tests.
// Example:
//
//	b := NewCrewBuilder(mock).Agent("Designer").Agent("Developer").
//		Task("design", "Designer").Task("develop", "Developer", "design")
//	c, err := b.Build()
//
// Agents are looked up by role and tasks by name only inside the builder; the
// built crew references them by pointer.
type CrewBuilder struct {
	completer model.Completer
	agents    []*agent.Agent
	byRole    map[string]*agent.Agent
	tasks     []*task.Task
	byName    map[string]*task.Task
	err       error
}

// NewCrewBuilder creates a builder whose agents all use completer.
func NewCrewBuilder(completer model.Completer) *CrewBuilder {
	return &CrewBuilder{
		completer: completer,
		byRole:    map[string]*agent.Agent{},
		byName:    map[string]*task.Task{},
	}
}

// Agent adds an agent with the given role (chainable).
func (b *CrewBuilder) Agent(role string) *CrewBuilder {
	if b.err != nil {
		return b
	}
	a, err := agent.New(role, role+" goal", role+" backstory", b.completer)
	if err != nil {
		b.err = err
		return b
	}
	b.agents = append(b.agents, a)
	b.byRole[role] = a
	return b
}

// Task adds a task owned by the agent with role, depending on the named tasks (chainable).
func (b *CrewBuilder) Task(name, role string, deps ...string) *CrewBuilder {
	if b.err != nil {
		return b
	}
	a, ok := b.byRole[role]
	if !ok {
		b.err = fmt.Errorf("testutil: unknown role %q", role)
		return b
	}
	var depTasks []*task.Task
	for _, d := range deps {
		dt, ok := b.byName[d]
		if !ok {
			b.err = fmt.Errorf("testutil: unknown dependency %q", d)
			return b
		}
		depTasks = append(depTasks, dt)
	}
	t, err := task.New("Do "+name, name+" output", a, func(o *task.Options) {
		o.Name = name
		o.Dependencies = depTasks
	})
	if err != nil {
		b.err = err
		return b
	}
	b.tasks = append(b.tasks, t)
	b.byName[name] = t
	return b
}

// AgentFor returns the agent registered for role.
func (b *CrewBuilder) AgentFor(role string) *agent.Agent { return b.byRole[role] }

// TaskNamed returns the task registered under name.
func (b *CrewBuilder) TaskNamed(name string) *task.Task { return b.byName[name] }

// Agents returns the agents in registration order.
func (b *CrewBuilder) Agents() []*agent.Agent { return b.agents }

// Tasks returns the tasks in registration order.
func (b *CrewBuilder) Tasks() []*task.Task { return b.tasks }

// Err returns the first error recorded while building.
func (b *CrewBuilder) Err() error { return b.err }

// Build constructs the crew from everything registered so far.
func (b *CrewBuilder) Build(optFns ...func(o *crew.Options)) (*crew.Crew, error) {
	if b.err != nil {
		return nil, b.err
	}
	return crew.New(b.agents, b.tasks, optFns...)
}
