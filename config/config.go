package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/crewmesh/core"
	"github.com/hupe1980/crewmesh/crew"
)

// Environment variables that override provider settings.
const (
	EnvProvider = "CREWMESH_PROVIDER"
	EnvModel    = "CREWMESH_MODEL"
	EnvTimeout  = "CREWMESH_TIMEOUT"
)

// Supported provider names.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderMock      = "mock"
)

// CrewConfig is a complete crew definition.
type CrewConfig struct {
	Name     string         `yaml:"name"`
	Process  string         `yaml:"process"`
	Provider ProviderConfig `yaml:"provider"`
	Agents   []AgentConfig  `yaml:"agents"`
	Tasks    []TaskConfig   `yaml:"tasks"`
}

// ProviderConfig selects and tunes the completion backend shared by all agents.
type ProviderConfig struct {
	Name        string        `yaml:"name"`
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url"`
	Temperature float64       `yaml:"temperature"`
	MaxTokens   int64         `yaml:"max_tokens"`
	Timeout     time.Duration `yaml:"timeout"`
	// RateLimit is the sustained number of completion calls per second; 0 disables limiting.
	RateLimit float64 `yaml:"rate_limit"`
	Burst     int     `yaml:"burst"`
}

// AgentConfig declares one agent. ID is the handle tasks use to reference it.
type AgentConfig struct {
	ID              string `yaml:"id"`
	Role            string `yaml:"role"`
	Goal            string `yaml:"goal"`
	Backstory       string `yaml:"backstory"`
	AllowDelegation bool   `yaml:"allow_delegation"`
}

// TaskConfig declares one task in execution order.
type TaskConfig struct {
	Name           string   `yaml:"name"`
	Description    string   `yaml:"description"`
	ExpectedOutput string   `yaml:"expected_output"`
	Agent          string   `yaml:"agent"`
	Context        []string `yaml:"context"`
	// Artifact is a file name the task's output is persisted under after a successful run.
	Artifact string `yaml:"artifact"`
}

// DefaultProvider returns the provider settings applied before the document is read.
func DefaultProvider() ProviderConfig {
	return ProviderConfig{
		Name:        ProviderOpenAI,
		Temperature: 0.7,
		MaxTokens:   4096,
		Timeout:     2 * time.Minute,
		Burst:       1,
	}
}

// LoadOptions configures Parse and Load.
type LoadOptions struct {
	// Lookup resolves environment variables (defaults to os.LookupEnv).
	Lookup func(key string) (string, bool)
	// SkipEnv disables environment overrides.
	SkipEnv bool
}

// Load reads and parses the definition at path.
func Load(path string, optFns ...func(o *LoadOptions)) (*CrewConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read crew definition: %w", err)
	}
	cfg, err := Parse(data, optFns...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes a YAML definition, applies environment overrides and validates it.
func Parse(data []byte, optFns ...func(o *LoadOptions)) (*CrewConfig, error) {
	opts := LoadOptions{Lookup: os.LookupEnv}
	for _, fn := range optFns {
		fn(&opts)
	}

	cfg := &CrewConfig{Provider: DefaultProvider()}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse crew definition: %v", core.ErrValidation, err)
	}
	if cfg.Name == "" {
		cfg.Name = "crew"
	}

	if !opts.SkipEnv && opts.Lookup != nil {
		if err := cfg.applyEnv(opts.Lookup); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *CrewConfig) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvProvider); ok && v != "" {
		c.Provider.Name = v
	}
	if v, ok := lookup(EnvModel); ok && v != "" {
		c.Provider.Model = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", core.ErrValidation, EnvTimeout, err)
		}
		c.Provider.Timeout = d
	}
	return nil
}

// Validate checks the definition without building anything. Structural
// problems wrap core.ErrValidation; broken context references wrap
// core.ErrGraphValidation.
func (c *CrewConfig) Validate() error {
	if _, err := crew.ParseProcess(c.Process); err != nil {
		return err
	}
	if err := c.Provider.validate(); err != nil {
		return err
	}
	if len(c.Tasks) == 0 {
		return fmt.Errorf("%w: crew %q defines no tasks", core.ErrValidation, c.Name)
	}

	agents := make(map[string]struct{}, len(c.Agents))
	for i, a := range c.Agents {
		if strings.TrimSpace(a.ID) == "" {
			return fmt.Errorf("%w: agent %d has no id", core.ErrValidation, i)
		}
		if _, dup := agents[a.ID]; dup {
			return fmt.Errorf("%w: agent id %q is declared twice", core.ErrValidation, a.ID)
		}
		if strings.TrimSpace(a.Role) == "" {
			return fmt.Errorf("%w: agent %q has no role", core.ErrValidation, a.ID)
		}
		agents[a.ID] = struct{}{}
	}

	seen := make(map[string]struct{}, len(c.Tasks))
	artifacts := make(map[string]string)
	for i, t := range c.Tasks {
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("%w: task %d has no name", core.ErrValidation, i)
		}
		if _, dup := seen[t.Name]; dup {
			return fmt.Errorf("%w: task name %q is declared twice", core.ErrGraphValidation, t.Name)
		}
		if _, ok := agents[t.Agent]; !ok {
			return fmt.Errorf("%w: task %q references unknown agent %q", core.ErrValidation, t.Name, t.Agent)
		}
		for _, ref := range t.Context {
			if ref == t.Name {
				return fmt.Errorf("%w: task %q lists itself as context", core.ErrGraphValidation, t.Name)
			}
			if _, earlier := seen[ref]; !earlier {
				return fmt.Errorf("%w: task %q context %q is not an earlier task", core.ErrGraphValidation, t.Name, ref)
			}
		}
		if t.Artifact != "" {
			if prev, dup := artifacts[t.Artifact]; dup {
				return fmt.Errorf("%w: artifact %q is bound to both %q and %q", core.ErrValidation, t.Artifact, prev, t.Name)
			}
			artifacts[t.Artifact] = t.Name
		}
		seen[t.Name] = struct{}{}
	}
	return nil
}

func (p ProviderConfig) validate() error {
	switch p.Name {
	case ProviderOpenAI, ProviderAnthropic, ProviderMock:
	default:
		return fmt.Errorf("%w: unknown provider %q", core.ErrValidation, p.Name)
	}
	if p.Temperature < 0 || p.Temperature > 2 {
		return fmt.Errorf("%w: temperature %.2f out of range [0, 2]", core.ErrValidation, p.Temperature)
	}
	if p.Timeout < 0 {
		return fmt.Errorf("%w: negative timeout %s", core.ErrValidation, p.Timeout)
	}
	if p.RateLimit < 0 {
		return fmt.Errorf("%w: negative rate limit", core.ErrValidation)
	}
	return nil
}
