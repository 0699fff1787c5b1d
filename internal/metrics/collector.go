// Package metrics provides Prometheus instrumentation for crew runs, task
// executions and completion calls. It is internal; callers obtain a Collector
// through the root crewmesh package or construct one directly in commands.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Status label values.
const (
	StatusSuccess   = "success"
	StatusFailure   = "failure"
	StatusCancelled = "cancelled"
)

// Collector groups all crewmesh metrics. A nil *Collector is valid and
// records nothing, so components can hold one unconditionally.
type Collector struct {
	crewRunsTotal      *prometheus.CounterVec
	crewRunDuration    *prometheus.HistogramVec
	taskExecutions     *prometheus.CounterVec
	taskDuration       *prometheus.HistogramVec
	completionsTotal   *prometheus.CounterVec
	completionDuration *prometheus.HistogramVec
}

// NewCollector registers the crewmesh metrics on reg under namespace.
// Pass prometheus.NewRegistry() in tests to avoid global state.
func NewCollector(namespace string, reg prometheus.Registerer) *Collector {
	f := promauto.With(reg)

	return &Collector{
		crewRunsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "crew_runs_total",
				Help:      "Total number of crew runs by outcome",
			},
			[]string{"crew", "status"},
		),
		crewRunDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "crew_run_duration_seconds",
				Help:      "Crew run duration in seconds",
				Buckets:   []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
			[]string{"crew"},
		),
		taskExecutions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "task_executions_total",
				Help:      "Total number of task executions by outcome",
			},
			[]string{"crew", "task", "status"},
		),
		taskDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "task_duration_seconds",
				Help:      "Task execution duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
			},
			[]string{"crew", "task"},
		),
		completionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "completion_requests_total",
				Help:      "Total number of completion requests by provider and outcome",
			},
			[]string{"provider", "model", "status"},
		),
		completionDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "completion_request_duration_seconds",
				Help:      "Completion request duration in seconds",
				Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider", "model"},
		),
	}
}

// RecordCrewRun records one finished crew run.
func (c *Collector) RecordCrewRun(crew, status string, dur time.Duration) {
	if c == nil {
		return
	}
	c.crewRunsTotal.WithLabelValues(crew, status).Inc()
	c.crewRunDuration.WithLabelValues(crew).Observe(dur.Seconds())
}

// RecordTask records one task execution.
func (c *Collector) RecordTask(crew, task, status string, dur time.Duration) {
	if c == nil {
		return
	}
	c.taskExecutions.WithLabelValues(crew, task, status).Inc()
	c.taskDuration.WithLabelValues(crew, task).Observe(dur.Seconds())
}

// RecordCompletion records one completion request.
func (c *Collector) RecordCompletion(provider, model, status string, dur time.Duration) {
	if c == nil {
		return
	}
	c.completionsTotal.WithLabelValues(provider, model, status).Inc()
	c.completionDuration.WithLabelValues(provider, model).Observe(dur.Seconds())
}

// StatusOf maps an error to a status label.
func StatusOf(err error) string {
	if err == nil {
		return StatusSuccess
	}
	return StatusFailure
}
