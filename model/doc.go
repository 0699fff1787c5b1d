// Package model defines the provider‑agnostic text completion capability that
// crewmesh agents are bound to, plus helpers around it.
//
// Core goals:
//   - A single-method Completer interface (role/goal/backstory/prompt/context → text)
//     so crews are testable with a deterministic stub
//   - Shared prompt rendering (SystemPrompt, UserPrompt) for every provider
//   - Middleware for concerns that belong at the completion boundary:
//     per-call timeouts, rate limiting and instrumentation
//   - Lightweight mocking for tests and dry runs (MockCompleter)
//
// Providers (e.g. OpenAI, Anthropic) live in sub-packages and implement
// Completer so higher layers (agents, tasks, crews) stay decoupled from vendor SDKs.
package model
