// Package pipeline composes detection, discovery, synthesis, artifact
// generation, and the sandbox into one sequential, observable run.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/getmockd/mockbox/pkg/ai"
	"github.com/getmockd/mockbox/pkg/artifact"
	"github.com/getmockd/mockbox/pkg/discovery"
	"github.com/getmockd/mockbox/pkg/logging"
	"github.com/getmockd/mockbox/pkg/project"
	"github.com/getmockd/mockbox/pkg/sandbox"
	"github.com/getmockd/mockbox/pkg/spec"
	"github.com/getmockd/mockbox/pkg/synth"
)

// Stage identifies one pipeline stage.
type Stage string

const (
	StageDetect     Stage = "detect"
	StageDiscover   Stage = "discover"
	StageSynthesize Stage = "synthesize"
	StageGenerate   Stage = "generate"
	StagePrepare    Stage = "prepare"
	StageRun        Stage = "run"
)

// StageError tags a failure with the stage it happened in. A stage error
// aborts every subsequent stage; there is no retry at this level.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("pipeline stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

// Lifecycle event names, in emission order for a full run.
const (
	EventDetected         = "detected"
	EventDiscovered       = "discovered"
	EventSynthRequest     = synth.EventRequest
	EventSynthResponse    = synth.EventResponse
	EventArtifactsWritten = "artifacts-written"
	EventServicesUp       = "services-up"
)

// Event is one lifecycle notification.
type Event struct {
	Name    string
	Payload any
	At      time.Time
}

// Observer receives lifecycle events synchronously, in order. Each run
// delivers to the observer it was configured with; events never leak
// across runs.
type Observer func(Event)

// Config assembles a Runner.
type Config struct {
	// Root is the target project directory.
	Root string

	// AI configures the synthesis provider. Nil means fallback-only
	// synthesis.
	AI *ai.Config

	// Provider selects the sandbox provider by name; empty means
	// compose.
	Provider string

	// Sandbox carries port and latency options.
	Sandbox sandbox.Options

	// Observer receives lifecycle events. Optional.
	Observer Observer

	// Logger defaults to a no-op logger.
	Logger *slog.Logger

	// Overrides for tests and embedding.
	Scanners        []discovery.Scanner
	AIProvider      ai.Provider
	SandboxProvider sandbox.Provider
}

// Runner executes pipeline stages. It keeps no state between invocations;
// every RunAll yields an independent set of running services.
type Runner struct {
	cfg Config
	log *slog.Logger
}

// Result collects everything a full run produced.
type Result struct {
	Project   *project.Project
	Discovery *spec.DiscoveryResult
	MockSpec  *spec.MockSpec
	Manifest  *artifact.Manifest
	Plan      *sandbox.Plan
	Services  *sandbox.RunningServices
}

// New creates a Runner.
func New(cfg Config) *Runner {
	if cfg.Logger == nil {
		cfg.Logger = logging.Nop()
	}
	return &Runner{cfg: cfg, log: cfg.Logger}
}

func (r *Runner) emit(name string, payload any) {
	if r.cfg.Observer != nil {
		r.cfg.Observer(Event{Name: name, Payload: payload, At: time.Now()})
	}
}

// DetectProject inspects the root and classifies the project.
func (r *Runner) DetectProject(ctx context.Context) (*project.Project, error) {
	p, err := project.Detect(r.cfg.Root)
	if err != nil {
		return nil, &StageError{Stage: StageDetect, Err: err}
	}
	r.log.Info("project detected", "name", p.Name, "framework", p.Framework, "devPort", p.DevPort)
	r.emit(EventDetected, p)
	return p, nil
}

// DiscoverAPIs scans the project for API call sites.
func (r *Runner) DiscoverAPIs(ctx context.Context, p *project.Project) (*spec.DiscoveryResult, error) {
	scanners := r.cfg.Scanners
	if scanners == nil {
		scanners = discovery.DefaultScanners()
	}

	agg := discovery.NewAggregator(scanners, r.log)
	result, err := agg.Discover(ctx, p)
	if err != nil {
		return nil, &StageError{Stage: StageDiscover, Err: err}
	}
	r.log.Info("discovery complete", "rest", len(result.REST), "graphql", len(result.GraphQL), "notes", len(result.Notes))
	r.emit(EventDiscovered, result)
	return result, nil
}

// SynthesizeMockSpec turns a discovery result into a MockSpec. Provider
// failures fall back per endpoint and never fail the stage.
func (r *Runner) SynthesizeMockSpec(ctx context.Context, result *spec.DiscoveryResult) (*spec.MockSpec, error) {
	provider, err := r.aiProvider()
	if err != nil {
		return nil, &StageError{Stage: StageSynthesize, Err: err}
	}

	s := synth.New(provider,
		synth.WithLogger(r.log),
		synth.WithEmitter(func(event string, payload any) {
			r.emit(event, payload)
		}),
	)
	ms, err := s.Synthesize(ctx, result)
	if err != nil {
		return nil, &StageError{Stage: StageSynthesize, Err: err}
	}
	return ms, nil
}

// GenerateMockServer persists the mock-server artifact.
func (r *Runner) GenerateMockServer(p *project.Project, ms *spec.MockSpec) (*artifact.Manifest, error) {
	manifest, err := artifact.Write(p.Root, ms, artifact.Options{
		Port:       r.cfg.Sandbox.MockPort,
		LatencyMin: r.cfg.Sandbox.LatencyMin,
		LatencyMax: r.cfg.Sandbox.LatencyMax,
	})
	if err != nil {
		return nil, &StageError{Stage: StageGenerate, Err: err}
	}
	r.emit(EventArtifactsWritten, manifest)
	return manifest, nil
}

// PrepareSandbox writes the provider's plan.
func (r *Runner) PrepareSandbox(ctx context.Context, p *project.Project, ms *spec.MockSpec) (*sandbox.Plan, error) {
	provider, err := r.sandboxProvider()
	if err != nil {
		return nil, &StageError{Stage: StagePrepare, Err: err}
	}

	plan, err := provider.Prepare(ctx, p, ms, r.cfg.Sandbox)
	if err != nil {
		return nil, &StageError{Stage: StagePrepare, Err: err}
	}
	return plan, nil
}

// RunSandbox starts the plan's services.
func (r *Runner) RunSandbox(ctx context.Context, plan *sandbox.Plan) (*sandbox.RunningServices, error) {
	provider, err := r.sandboxProvider()
	if err != nil {
		return nil, &StageError{Stage: StageRun, Err: err}
	}

	services, err := provider.Up(ctx, plan)
	if err != nil {
		return nil, &StageError{Stage: StageRun, Err: err}
	}
	r.log.Info("sandbox up", "app", services.AppURL, "mock", services.MockURL)
	r.emit(EventServicesUp, services)
	return services, nil
}

// RunAll executes every stage in order, aborting on the first stage
// error.
func (r *Runner) RunAll(ctx context.Context) (*Result, error) {
	res := &Result{}
	var err error

	if res.Project, err = r.DetectProject(ctx); err != nil {
		return nil, err
	}
	if res.Discovery, err = r.DiscoverAPIs(ctx, res.Project); err != nil {
		return nil, err
	}
	if res.MockSpec, err = r.SynthesizeMockSpec(ctx, res.Discovery); err != nil {
		return nil, err
	}
	if res.Manifest, err = r.GenerateMockServer(res.Project, res.MockSpec); err != nil {
		return nil, err
	}
	if res.Plan, err = r.PrepareSandbox(ctx, res.Project, res.MockSpec); err != nil {
		return nil, err
	}
	if res.Services, err = r.RunSandbox(ctx, res.Plan); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Runner) aiProvider() (ai.Provider, error) {
	if r.cfg.AIProvider != nil {
		return r.cfg.AIProvider, nil
	}
	if r.cfg.AI == nil {
		return nil, nil // fallback-only synthesis
	}
	return ai.New(r.cfg.AI)
}

func (r *Runner) sandboxProvider() (sandbox.Provider, error) {
	if r.cfg.SandboxProvider != nil {
		return r.cfg.SandboxProvider, nil
	}
	return sandbox.New(r.cfg.Provider)
}
