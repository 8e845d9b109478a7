package sandbox

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/getmockd/mockbox/pkg/artifact"
	"github.com/getmockd/mockbox/pkg/project"
	"github.com/getmockd/mockbox/pkg/spec"
)

// Provider names.
const (
	ProviderCompose = "compose"
	ProviderNoop    = "noop"
)

// Options configure a sandbox run.
type Options struct {
	// AppPort is where the application's dev server is exposed.
	AppPort int

	// MockPort is where the mock server is exposed.
	MockPort int

	// LatencyMin and LatencyMax configure the mock server's response
	// delay window; zero values take the artifact defaults.
	LatencyMin time.Duration
	LatencyMax time.Duration
}

func (o Options) withDefaults(p *project.Project) Options {
	if o.AppPort == 0 {
		o.AppPort = p.DevPort
	}
	if o.MockPort == 0 {
		o.MockPort = artifact.DefaultPort
	}
	return o
}

// Plan is the output of Prepare: everything Up needs to start the
// sandbox, all of it already on disk.
type Plan struct {
	Provider     string             `json:"provider"`
	ProjectRoot  string             `json:"projectRoot"`
	SandboxDir   string             `json:"sandboxDir"`
	Descriptor   string             `json:"descriptor,omitempty"` // provider-specific file, e.g. a compose file
	AppURL       string             `json:"appUrl"`
	MockURL      string             `json:"mockUrl"`
	OverlayFiles []string           `json:"overlayFiles,omitempty"`
	Manifest     *artifact.Manifest `json:"manifest"`
}

// RunningServices is a started sandbox: resolved URLs plus a stop
// capability. Stop is idempotent; a second call is a safe no-op.
type RunningServices struct {
	AppURL  string
	MockURL string

	stopOnce sync.Once
	stopErr  error
	stop     func() error
}

// NewRunningServices wraps a stop function; a nil stop makes Stop a no-op.
func NewRunningServices(appURL, mockURL string, stop func() error) *RunningServices {
	return &RunningServices{AppURL: appURL, MockURL: mockURL, stop: stop}
}

// Stop tears the sandbox down. Only the first call runs the teardown;
// subsequent calls return the first call's result.
func (r *RunningServices) Stop() error {
	r.stopOnce.Do(func() {
		if r.stop != nil {
			r.stopErr = r.stop()
		}
	})
	return r.stopErr
}

// Provider is the two-phase sandbox capability contract.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Prepare writes the mock-server artifact, framework overlay, and
	// provider-specific configuration under <project>/.sandbox/.
	Prepare(ctx context.Context, p *project.Project, ms *spec.MockSpec, opts Options) (*Plan, error)

	// Up starts the plan's services, blocking until the external
	// orchestration reports success or failure.
	Up(ctx context.Context, plan *Plan) (*RunningServices, error)
}

// Failure tags errors from sandbox providers with the failing operation.
type Failure struct {
	Provider string
	Op       string // "prepare", "up", "down"
	Err      error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("sandbox %s %s: %v", f.Provider, f.Op, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// New returns the named provider, defaulting to compose.
func New(name string) (Provider, error) {
	switch name {
	case ProviderCompose, "":
		return NewComposeProvider(), nil
	case ProviderNoop:
		return NewNoopProvider(), nil
	default:
		return nil, fmt.Errorf("unknown sandbox provider %q", name)
	}
}
