package crew

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/crewmesh/agent"
	"github.com/hupe1980/crewmesh/core"
	"github.com/hupe1980/crewmesh/internal/metrics"
	"github.com/hupe1980/crewmesh/logging"
	"github.com/hupe1980/crewmesh/task"
)

// Options configures a Crew.
type Options struct {
	// Name labels the crew in logs and metrics.
	Name string
	// Process selects the execution strategy. Only ProcessSequential is supported.
	Process Process
	// Logger receives progress and failure records (defaults to NoOpLogger).
	Logger logging.Logger
	// Metrics records task and run outcomes (nil disables metrics).
	Metrics *metrics.Collector
	// OnTaskStart is invoked before a task executes, after its context resolved.
	OnTaskStart func(index int, t *task.Task)
	// OnTaskComplete is invoked after a task recorded its output.
	OnTaskComplete func(index int, e Entry)
}

// taskLogger and runLogger are the optional domain helpers of logging.CrewLogger.
type taskLogger interface {
	LogTaskExecution(task, role string, dur time.Duration, outputLen int, err error)
}

type runLogger interface {
	LogCrewRun(steps int, dur time.Duration, err error)
}

// Crew is an ordered collection of tasks and the agents they reference.
// A Crew runs exactly once.
type Crew struct {
	id     string
	opts   Options
	agents []*agent.Agent
	tasks  []*task.Task
	logger logging.Logger

	mu    sync.Mutex
	state State
}

// New validates the task graph and constructs an idle Crew.
//
// Validation errors wrap core.ErrValidation (no tasks, unsupported process,
// nil agent or task, task agent not a member) or core.ErrGraphValidation
// (duplicate task, self dependency, dependency outside the crew or not
// strictly earlier in the sequence). No task runs when New fails.
func New(agents []*agent.Agent, tasks []*task.Task, optFns ...func(o *Options)) (*Crew, error) {
	opts := Options{
		Name:    "crew",
		Process: ProcessSequential,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	if err := opts.Process.validate(); err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return nil, fmt.Errorf("%w: crew %q has no tasks", core.ErrValidation, opts.Name)
	}

	members := make(map[*agent.Agent]struct{}, len(agents))
	for i, a := range agents {
		if a == nil {
			return nil, fmt.Errorf("%w: crew %q agent %d is nil", core.ErrValidation, opts.Name, i)
		}
		members[a] = struct{}{}
	}

	position := make(map[*task.Task]int, len(tasks))
	for i, t := range tasks {
		if t == nil {
			return nil, fmt.Errorf("%w: crew %q task %d is nil", core.ErrValidation, opts.Name, i)
		}
		if _, ok := members[t.Agent()]; !ok {
			return nil, fmt.Errorf("%w: task %q is owned by %s which is not a crew member", core.ErrValidation, t.Label(), t.Agent())
		}
		if j, dup := position[t]; dup {
			return nil, fmt.Errorf("%w: task %q appears at positions %d and %d", core.ErrGraphValidation, t.Label(), j, i)
		}
		for _, d := range t.Dependencies() {
			// position only holds tasks strictly before t, so a miss is a
			// forward reference, a self edge or a task from another crew.
			if _, earlier := position[d]; !earlier {
				return nil, fmt.Errorf("%w: task %q depends on %q which does not appear earlier in the crew", core.ErrGraphValidation, t.Label(), d.Label())
			}
		}
		position[t] = i
	}

	ag := make([]*agent.Agent, len(agents))
	copy(ag, agents)
	ts := make([]*task.Task, len(tasks))
	copy(ts, tasks)

	return &Crew{
		id:     core.NewID(),
		opts:   opts,
		agents: ag,
		tasks:  ts,
		logger: logging.OrNoOp(opts.Logger),
		state:  StateIdle,
	}, nil
}

// ID returns the generated crew identifier, also used as the run identifier.
func (c *Crew) ID() string { return c.id }

// Name returns the configured crew name.
func (c *Crew) Name() string { return c.opts.Name }

// Process returns the execution strategy.
func (c *Crew) Process() Process { return c.opts.Process }

// Agents returns a copy of the member agents.
func (c *Crew) Agents() []*agent.Agent {
	out := make([]*agent.Agent, len(c.agents))
	copy(out, c.agents)
	return out
}

// Tasks returns a copy of the tasks in execution order.
func (c *Crew) Tasks() []*task.Task {
	out := make([]*task.Task, len(c.tasks))
	copy(out, c.tasks)
	return out
}

// State returns the crew lifecycle state.
func (c *Crew) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Run executes every task once in sequence order and returns the execution log.
//
// Before each task starts ctx is checked; cancellation aborts with an error
// wrapping core.ErrCancelled and ctx.Err(). A task failure aborts the run with a
// *core.TaskExecutionError; no later task executes and nothing is retried. The
// returned Result is non-nil whenever the run started and holds the completed
// entries in order, including on failure. A second Run fails with
// core.ErrAlreadyExecuted.
func (c *Crew) Run(ctx context.Context, inputs map[string]any) (*Result, error) {
	c.mu.Lock()
	if c.state != StateIdle {
		state := c.state
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: crew %q is %s", core.ErrAlreadyExecuted, c.opts.Name, state)
	}
	c.state = StateRunning
	c.mu.Unlock()

	log := c.scopedLogger()
	start := time.Now()
	result := &Result{RunID: c.id, Crew: c.opts.Name}

	log.Info("Crew run started", "tasks", len(c.tasks), "process", c.opts.Process.String())

	err := c.runSequential(ctx, inputs, result, log)

	dur := time.Since(start)
	c.finish(err, dur, len(result.entries), log)
	return result, err
}

func (c *Crew) runSequential(ctx context.Context, inputs map[string]any, result *Result, log logging.Logger) error {
	// Template errors are construction problems; surface them before any task runs.
	for _, t := range c.tasks {
		if _, _, err := t.Render(inputs); err != nil {
			return err
		}
	}

	for i, t := range c.tasks {
		if err := ctx.Err(); err != nil {
			log.Warn("Crew run cancelled", "before_task", t.Label(), "index", i)
			return fmt.Errorf("%w before task %d (%s): %w", core.ErrCancelled, i+1, t.Label(), err)
		}

		entry, err := c.execute(ctx, i, t, inputs, log)
		if err != nil {
			return &core.TaskExecutionError{
				Index:    i,
				TaskID:   t.ID(),
				TaskName: t.Name(),
				Role:     t.Agent().Role(),
				Cause:    err,
			}
		}
		result.entries = append(result.entries, entry)

		if c.opts.OnTaskComplete != nil {
			c.opts.OnTaskComplete(i, entry)
		}
	}
	return nil
}

func (c *Crew) execute(ctx context.Context, i int, t *task.Task, inputs map[string]any, log logging.Logger) (Entry, error) {
	entries, err := t.ResolveContext()
	if err != nil {
		return Entry{}, err
	}

	if c.opts.OnTaskStart != nil {
		c.opts.OnTaskStart(i, t)
	}
	log.Info("Task started", "task", t.Label(), "index", i, "role", t.Agent().Role(), "context_items", len(entries))

	start := time.Now()
	out, err := t.ExecuteWithInputs(ctx, entries, inputs)
	dur := time.Since(start)

	c.opts.Metrics.RecordTask(c.opts.Name, t.Label(), metrics.StatusOf(err), dur)
	if tl, ok := log.(taskLogger); ok {
		tl.LogTaskExecution(t.Label(), t.Agent().Role(), dur, len(out), err)
	} else if err != nil {
		log.Error("Task execution failed", "task", t.Label(), "error", err.Error())
	} else {
		log.Info("Task execution completed", "task", t.Label(), "duration", dur)
	}
	if err != nil {
		return Entry{}, err
	}

	return Entry{Task: t, Output: out, Duration: dur}, nil
}

func (c *Crew) finish(err error, dur time.Duration, steps int, log logging.Logger) {
	c.mu.Lock()
	if err == nil {
		c.state = StateCompleted
	} else {
		c.state = StateFailed
	}
	c.mu.Unlock()

	status := metrics.StatusOf(err)
	if errors.Is(err, core.ErrCancelled) {
		status = metrics.StatusCancelled
	}
	c.opts.Metrics.RecordCrewRun(c.opts.Name, status, dur)

	if rl, ok := log.(runLogger); ok {
		rl.LogCrewRun(steps, dur, err)
		return
	}
	if err != nil {
		log.Error("Crew run failed", "step_count", steps, "error", err.Error())
		return
	}
	log.Info("Crew run completed", "step_count", steps, "duration", dur)
}

func (c *Crew) scopedLogger() logging.Logger {
	if cl, ok := c.logger.(*logging.CrewLogger); ok {
		return cl.WithComponent("crew").WithRun(c.opts.Name, c.id)
	}
	return c.logger
}
