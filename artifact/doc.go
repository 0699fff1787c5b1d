// Package artifact persists task outputs under flat file names.
//
// Store is the storage contract used by the kickoff façade. InMemoryStore
// suits tests and dry runs; FileStore writes into a rooted directory such as
// static/, which is what the game server serves. ExtractCode pulls a fenced
// code block out of model output so the stored artifact is the bare file.
package artifact
