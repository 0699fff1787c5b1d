package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/crewmesh/core"
	"github.com/hupe1980/crewmesh/crew"
	"github.com/hupe1980/crewmesh/model"
	"github.com/hupe1980/crewmesh/task"
)

const sampleYAML = `
name: sample
provider:
  name: mock
  timeout: 5s
agents:
  - id: writer
    role: Writer
    goal: write
    backstory: writes
  - id: editor
    role: Editor
    goal: edit
    allow_delegation: true
tasks:
  - name: draft
    description: Draft about {{.topic}}
    expected_output: a draft
    agent: writer
  - name: edit
    description: Edit the draft
    agent: editor
    context: [draft]
    artifact: final.md
`

func noEnv(o *LoadOptions) { o.SkipEnv = true }

func env(vars map[string]string) func(o *LoadOptions) {
	return func(o *LoadOptions) {
		o.Lookup = func(k string) (string, bool) {
			v, ok := vars[k]
			return v, ok
		}
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), noEnv)
	require.NoError(t, err)

	assert.Equal(t, "sample", cfg.Name)
	assert.Equal(t, ProviderMock, cfg.Provider.Name)
	assert.Equal(t, 5*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 0.7, cfg.Provider.Temperature)
	require.Len(t, cfg.Agents, 2)
	assert.True(t, cfg.Agents[1].AllowDelegation)
	require.Len(t, cfg.Tasks, 2)
	assert.Equal(t, []string{"draft"}, cfg.Tasks[1].Context)
	assert.Equal(t, "final.md", cfg.Tasks[1].Artifact)
}

func TestParse_EnvOverrides(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), env(map[string]string{
		EnvProvider: "anthropic",
		EnvModel:    "claude-x",
		EnvTimeout:  "90s",
	}))
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, cfg.Provider.Name)
	assert.Equal(t, "claude-x", cfg.Provider.Model)
	assert.Equal(t, 90*time.Second, cfg.Provider.Timeout)

	_, err = Parse([]byte(sampleYAML), env(map[string]string{EnvTimeout: "soon"}))
	require.ErrorIs(t, err, core.ErrValidation)
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"malformed", "agents: [", core.ErrValidation},
		{"no tasks", "provider: {name: mock}\nagents: [{id: a, role: A}]", core.ErrValidation},
		{"unknown provider", "provider: {name: llama}\nagents: [{id: a, role: A}]\ntasks: [{name: t, description: d, agent: a}]", core.ErrValidation},
		{"unknown process", "process: hierarchical\nprovider: {name: mock}\nagents: [{id: a, role: A}]\ntasks: [{name: t, description: d, agent: a}]", core.ErrValidation},
		{"agent without role", "provider: {name: mock}\nagents: [{id: a}]\ntasks: [{name: t, description: d, agent: a}]", core.ErrValidation},
		{"unknown agent", "provider: {name: mock}\nagents: [{id: a, role: A}]\ntasks: [{name: t, description: d, agent: b}]", core.ErrValidation},
		{"self context", "provider: {name: mock}\nagents: [{id: a, role: A}]\ntasks: [{name: t, description: d, agent: a, context: [t]}]", core.ErrGraphValidation},
		{"forward context", "provider: {name: mock}\nagents: [{id: a, role: A}]\ntasks: [{name: t1, description: d, agent: a, context: [t2]}, {name: t2, description: d, agent: a}]", core.ErrGraphValidation},
		{"unknown context", "provider: {name: mock}\nagents: [{id: a, role: A}]\ntasks: [{name: t, description: d, agent: a, context: [ghost]}]", core.ErrGraphValidation},
		{"duplicate task", "provider: {name: mock}\nagents: [{id: a, role: A}]\ntasks: [{name: t, description: d, agent: a}, {name: t, description: d, agent: a}]", core.ErrGraphValidation},
		{"duplicate artifact", "provider: {name: mock}\nagents: [{id: a, role: A}]\ntasks: [{name: t1, description: d, agent: a, artifact: x}, {name: t2, description: d, agent: a, artifact: x}]", core.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), noEnv)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crew.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o600))

	cfg, err := Load(path, noEnv)
	require.NoError(t, err)
	assert.Equal(t, "sample", cfg.Name)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestBuild(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), noEnv)
	require.NoError(t, err)

	mock := model.NewMockCompleter()
	mock.AddRoleResponse("Writer", "the draft")
	mock.AddRoleResponse("Editor", "the edit")

	built, err := Build(cfg, mock)
	require.NoError(t, err)
	assert.Equal(t, "sample", built.Crew.Name())
	assert.Equal(t, crew.ProcessSequential, built.Crew.Process())
	require.Len(t, built.Crew.Tasks(), 2)
	assert.True(t, built.Crew.Agents()[1].AllowDelegation())

	edit := built.Tasks["edit"]
	require.NotNil(t, edit)
	assert.Equal(t, "final.md", built.Artifacts[edit])
	require.Len(t, edit.Dependencies(), 1)
	assert.Same(t, built.Tasks["draft"], edit.Dependencies()[0])

	res, err := built.Crew.Run(context.Background(), map[string]any{"topic": "go"})
	require.NoError(t, err)
	assert.Equal(t, "the edit", res.Final())

	calls := mock.Calls()
	require.Len(t, calls, 2)
	assert.Contains(t, calls[0].Prompt, "Draft about go")
	require.Len(t, calls[1].Context, 1)
	assert.Equal(t, "the draft", calls[1].Context[0].Output)
}

func TestBuild_AppliesCrewOptions(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), noEnv)
	require.NoError(t, err)

	var started []int
	built, err := Build(cfg, model.NewMockCompleter(), func(o *crew.Options) {
		o.OnTaskStart = func(i int, _ *task.Task) { started = append(started, i) }
	})
	require.NoError(t, err)

	_, err = built.Crew.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, started)
}

func TestBuild_ParallelRejected(t *testing.T) {
	cfg, err := Parse([]byte("process: parallel\n"+sampleYAML), noEnv)
	require.NoError(t, err)

	_, err = Build(cfg, model.NewMockCompleter())
	require.ErrorIs(t, err, core.ErrValidation)
}

func TestBuild_NilCompleter(t *testing.T) {
	cfg, err := Parse([]byte(sampleYAML), noEnv)
	require.NoError(t, err)

	_, err = Build(cfg, nil)
	require.ErrorIs(t, err, core.ErrValidation)
}

func TestBuildCompleter(t *testing.T) {
	mock := model.NewMockCompleter()
	mock.AddRoleResponse("R", "hi")

	c, err := BuildCompleter(ProviderConfig{Name: ProviderMock, Timeout: time.Second, RateLimit: 100}, func(o *CompleterOptions) {
		o.Mock = mock
	})
	require.NoError(t, err)
	assert.Equal(t, model.Info{Name: "mock", Provider: "mock"}, model.InfoOf(c))

	out, err := c.Complete(context.Background(), model.Request{Role: "R", Prompt: "p"})
	require.NoError(t, err)
	assert.Equal(t, "hi", out)

	for _, name := range []string{ProviderOpenAI, ProviderAnthropic} {
		c, err := BuildCompleter(ProviderConfig{Name: name})
		require.NoError(t, err)
		assert.Equal(t, name, model.InfoOf(c).Provider)
	}

	_, err = BuildCompleter(ProviderConfig{Name: "nope"})
	require.ErrorIs(t, err, core.ErrValidation)
}
