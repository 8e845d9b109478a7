// Package sandbox prepares and runs an isolated environment where the
// target application talks to the generated mock server instead of real
// backends.
//
// Each provider is a two-phase state machine: Prepare writes everything
// the run needs (mock-server artifact, framework overlay, provider
// descriptor) into <project>/.sandbox/ without touching the project's own
// sources, and Up starts the declared services, returning RunningServices
// with an idempotent Stop.
package sandbox
