// Package crewmesh wires a declarative crew definition into a runnable
// pipeline: it builds the completer and crew, reports progress, and persists
// bound task outputs as artifacts once the whole run succeeded.
//
// Most applications interact with this package by:
//  1. Loading a definition (config.Load or crews.Load)
//  2. Creating a CrewMesh via New() with a logger, artifact store and progress writer
//  3. Calling Kickoff with optional template inputs
package crewmesh

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/crewmesh/artifact"
	"github.com/hupe1980/crewmesh/config"
	"github.com/hupe1980/crewmesh/core"
	"github.com/hupe1980/crewmesh/crew"
	"github.com/hupe1980/crewmesh/internal/metrics"
	"github.com/hupe1980/crewmesh/logging"
	"github.com/hupe1980/crewmesh/model"
	"github.com/hupe1980/crewmesh/task"
)

// EnvMetricsFile names the file commands write run metrics to, in the
// Prometheus text format read by node_exporter's textfile collector.
const EnvMetricsFile = "CREWMESH_METRICS_FILE"

// Options configures a CrewMesh.
type Options struct {
	// Logger (defaults to NoOpLogger). A *logging.CrewLogger additionally
	// receives per-completion records.
	Logger logging.Logger
	// Registerer enables Prometheus metrics when set. WriteMetrics needs it to
	// be a prometheus.Gatherer as well, e.g. a *prometheus.Registry.
	Registerer prometheus.Registerer
	// Namespace prefixes metric names (default "crewmesh").
	Namespace string
	// Store receives artifacts (defaults to an in-memory store).
	Store artifact.Store
	// Out receives human readable progress lines (defaults to io.Discard).
	Out io.Writer
	// Completer overrides the provider named in the definition. Used for dry
	// runs and tests.
	Completer model.Completer
}

// CrewMesh runs crew definitions.
type CrewMesh struct {
	opts    Options
	logger  logging.Logger
	metrics *metrics.Collector
}

// Outcome is what a kickoff produced.
type Outcome struct {
	// Result is the execution log; non-nil once the run started.
	Result *crew.Result
	// Artifacts lists the names saved to the store, in task order.
	Artifacts []string
}

// New creates a CrewMesh with optional overrides.
func New(optFns ...func(o *Options)) *CrewMesh {
	opts := Options{
		Namespace: "crewmesh",
		Store:     artifact.NewInMemoryStore(),
		Out:       io.Discard,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	m := &CrewMesh{opts: opts, logger: logging.OrNoOp(opts.Logger)}
	if opts.Registerer != nil {
		m.metrics = metrics.NewCollector(opts.Namespace, opts.Registerer)
	}
	return m
}

// Store returns the artifact store outputs are persisted to.
func (m *CrewMesh) Store() artifact.Store { return m.opts.Store }

// WriteMetrics writes every metric gathered from the configured Registerer to
// path in the Prometheus text format.
func (m *CrewMesh) WriteMetrics(path string) error {
	g, ok := m.opts.Registerer.(prometheus.Gatherer)
	if !ok {
		return fmt.Errorf("crewmesh: metrics registerer %T cannot be gathered", m.opts.Registerer)
	}
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("failed to write metrics: %w", err)
	}
	return nil
}

// Build assembles the completer and crew for cfg without running it.
func (m *CrewMesh) Build(cfg *config.CrewConfig) (*config.Built, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil crew definition", core.ErrValidation)
	}
	completer := m.opts.Completer
	if completer == nil {
		var err error
		completer, err = config.BuildCompleter(cfg.Provider, func(o *config.CompleterOptions) {
			o.Logger, _ = m.logger.(*logging.CrewLogger)
			o.Metrics = m.metrics
		})
		if err != nil {
			return nil, err
		}
	}

	total := len(cfg.Tasks)
	return config.Build(cfg, completer, func(o *crew.Options) {
		o.Logger = m.logger
		o.Metrics = m.metrics
		o.OnTaskStart = func(i int, t *task.Task) {
			fmt.Fprintf(m.opts.Out, "▶ [%d/%d] %s: %s\n", i+1, total, t.Agent().Role(), t.Label())
		}
		o.OnTaskComplete = func(i int, e crew.Entry) {
			fmt.Fprintf(m.opts.Out, "✔ [%d/%d] %s finished in %s (%d bytes)\n", i+1, total, e.Task.Label(), e.Duration.Round(time.Millisecond), len(e.Output))
		}
	})
}

// Kickoff builds and runs cfg with inputs. Artifacts are persisted only when
// every task succeeded; a failed or cancelled run leaves the store untouched.
func (m *CrewMesh) Kickoff(ctx context.Context, cfg *config.CrewConfig, inputs map[string]any) (*Outcome, error) {
	built, err := m.Build(cfg)
	if err != nil {
		return nil, err
	}
	return m.Run(ctx, built, inputs)
}

// Run executes an already built crew and persists its artifacts on success.
func (m *CrewMesh) Run(ctx context.Context, built *config.Built, inputs map[string]any) (*Outcome, error) {
	res, err := built.Crew.Run(ctx, inputs)
	out := &Outcome{Result: res}
	if err != nil {
		return out, err
	}

	for _, e := range res.Entries() {
		name, ok := built.Artifacts[e.Task]
		if !ok {
			continue
		}
		data := artifact.ExtractCode(e.Output, languageOf(name))
		if err := m.opts.Store.Save(name, []byte(data)); err != nil {
			return out, fmt.Errorf("task %q: %w", e.Task.Label(), err)
		}
		m.logger.Info("Artifact saved", "artifact", name, "task", e.Task.Label(), "bytes", len(data))
		out.Artifacts = append(out.Artifacts, name)
	}
	return out, nil
}

// languageOf maps an artifact file name to the fenced code tag expected for it.
func languageOf(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	switch ext {
	case "htm":
		return "html"
	case "md":
		return "markdown"
	case "yml":
		return "yaml"
	}
	return ext
}
