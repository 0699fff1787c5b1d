package config

import (
	"fmt"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"golang.org/x/time/rate"

	"github.com/hupe1980/crewmesh/agent"
	"github.com/hupe1980/crewmesh/core"
	"github.com/hupe1980/crewmesh/crew"
	"github.com/hupe1980/crewmesh/internal/metrics"
	"github.com/hupe1980/crewmesh/logging"
	"github.com/hupe1980/crewmesh/model"
	"github.com/hupe1980/crewmesh/model/anthropic"
	"github.com/hupe1980/crewmesh/model/openai"
	"github.com/hupe1980/crewmesh/task"
)

// Built is a crew assembled from a definition together with its artifact bindings.
type Built struct {
	Crew *crew.Crew
	// Tasks maps task names to the constructed tasks.
	Tasks map[string]*task.Task
	// Artifacts maps tasks to the file name their output is persisted under.
	Artifacts map[*task.Task]string
}

// Build constructs agents, tasks and the crew described by cfg. Every agent is
// bound to completer. The crew options are applied after Name and Process are
// taken from the definition.
func Build(cfg *CrewConfig, completer model.Completer, optFns ...func(o *crew.Options)) (*Built, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil crew definition", core.ErrValidation)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	process, err := crew.ParseProcess(cfg.Process)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]*agent.Agent, len(cfg.Agents))
	agents := make([]*agent.Agent, 0, len(cfg.Agents))
	for _, ac := range cfg.Agents {
		a, err := agent.New(ac.Role, ac.Goal, ac.Backstory, completer, func(o *agent.Options) {
			o.AllowDelegation = ac.AllowDelegation
		})
		if err != nil {
			return nil, fmt.Errorf("agent %q: %w", ac.ID, err)
		}
		byID[ac.ID] = a
		agents = append(agents, a)
	}

	built := &Built{
		Tasks:     make(map[string]*task.Task, len(cfg.Tasks)),
		Artifacts: make(map[*task.Task]string),
	}
	tasks := make([]*task.Task, 0, len(cfg.Tasks))
	for _, tc := range cfg.Tasks {
		deps := make([]*task.Task, 0, len(tc.Context))
		for _, ref := range tc.Context {
			deps = append(deps, built.Tasks[ref])
		}
		t, err := task.New(tc.Description, tc.ExpectedOutput, byID[tc.Agent], func(o *task.Options) {
			o.Name = tc.Name
			o.Dependencies = deps
		})
		if err != nil {
			return nil, fmt.Errorf("task %q: %w", tc.Name, err)
		}
		built.Tasks[tc.Name] = t
		if tc.Artifact != "" {
			built.Artifacts[t] = tc.Artifact
		}
		tasks = append(tasks, t)
	}

	c, err := crew.New(agents, tasks, append([]func(o *crew.Options){func(o *crew.Options) {
		o.Name = cfg.Name
		o.Process = process
	}}, optFns...)...)
	if err != nil {
		return nil, err
	}
	built.Crew = c
	return built, nil
}

// CompleterOptions configures BuildCompleter.
type CompleterOptions struct {
	Logger  *logging.CrewLogger
	Metrics *metrics.Collector
	// Mock is returned (wrapped in middleware) for the mock provider. A fresh
	// MockCompleter is used when nil.
	Mock *model.MockCompleter
}

// BuildCompleter creates the provider completer and wraps it with
// instrumentation, rate limiting and the per-call timeout, outermost first.
func BuildCompleter(p ProviderConfig, optFns ...func(o *CompleterOptions)) (model.Completer, error) {
	opts := CompleterOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if err := p.validate(); err != nil {
		return nil, err
	}

	var base model.Completer
	switch p.Name {
	case ProviderOpenAI:
		base = openai.New(func(o *openai.Options) {
			if p.Model != "" {
				o.Model = p.Model
			}
			o.Temperature = p.Temperature
			if p.MaxTokens > 0 {
				o.MaxCompletionTokens = p.MaxTokens
			}
			o.BaseURL = p.BaseURL
		})
	case ProviderAnthropic:
		base = anthropic.New(func(o *anthropic.Options) {
			if p.Model != "" {
				o.Model = anthropicsdk.Model(p.Model)
			}
			o.Temperature = p.Temperature
			if p.MaxTokens > 0 {
				o.MaxTokens = p.MaxTokens
			}
		})
	case ProviderMock:
		if opts.Mock != nil {
			base = opts.Mock
		} else {
			base = model.NewMockCompleter()
		}
	}

	var limiter *rate.Limiter
	if p.RateLimit > 0 {
		burst := p.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(p.RateLimit), burst)
	}

	return model.Chain(base,
		model.WithInstrumentation(opts.Logger, opts.Metrics),
		model.WithRateLimit(limiter),
		model.WithTimeout(p.Timeout),
	), nil
}
