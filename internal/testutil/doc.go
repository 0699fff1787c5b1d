// Package testutil contains helper builders used across tests to reduce
// boilerplate when constructing agents, tasks and crews around a
// deterministic model.MockCompleter. These helpers are not intended for
// production usage.
package testutil
