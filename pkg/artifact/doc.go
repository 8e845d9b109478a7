// Package artifact persists a MockSpec as a runnable mock-server artifact
// under the project's isolated sandbox directory.
//
// The artifact is two files: mock-spec.json, the full MockSpec persisted
// verbatim, and manifest.json, enough metadata (port, latency window, spec
// file name) to start the mock server standalone. Writing is idempotent:
// re-running with the same MockSpec overwrites deterministically.
package artifact
