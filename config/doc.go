// Package config loads declarative crew definitions from YAML.
//
// A definition names the agents, the ordered tasks with their context edges,
// optional artifact bindings and the completion provider. Values are resolved
// in the order defaults, YAML document, environment:
//
//	CREWMESH_PROVIDER  provider name (openai, anthropic, mock)
//	CREWMESH_MODEL     provider model id
//	CREWMESH_TIMEOUT   per-completion timeout (time.ParseDuration syntax)
//
// Build turns a validated definition into a crew.Crew. Context references are
// by task name and must point strictly backwards, mirroring the crew's own
// ordering rule.
package config
