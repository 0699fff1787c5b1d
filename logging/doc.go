// Package logging provides a minimal logging interface and adapters for crewmesh.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that crews, tasks and completers use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - CrewLogger with component / run scoping and domain helpers
//   - NoOpLogger for silent operation (testing, minimal setups)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "text", false)
//	c, err := crew.New(agents, tasks, func(o *crew.Options) { o.Logger = logger })
package logging
