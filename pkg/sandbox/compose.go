package sandbox

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/getmockd/mockbox/pkg/artifact"
	"github.com/getmockd/mockbox/pkg/logging"
	"github.com/getmockd/mockbox/pkg/project"
	"github.com/getmockd/mockbox/pkg/spec"
)

// ComposeFileName is the provider descriptor written during Prepare.
const ComposeFileName = "compose.yaml"

// ComposeProvider runs the sandbox as containers via `docker compose`.
type ComposeProvider struct {
	// Command overrides the orchestration binary, for tests.
	Command string
	log     *slog.Logger
}

var _ Provider = (*ComposeProvider)(nil)

// NewComposeProvider creates the default container provider.
func NewComposeProvider() *ComposeProvider {
	return &ComposeProvider{Command: "docker", log: logging.Nop()}
}

// SetLogger sets the provider's logger.
func (p *ComposeProvider) SetLogger(log *slog.Logger) { p.log = log }

func (p *ComposeProvider) Name() string { return ProviderCompose }

// Compose file schema, only the keys we emit.
type composeFile struct {
	Services map[string]composeService `yaml:"services"`
}

type composeService struct {
	Image       string            `yaml:"image,omitempty"`
	Command     []string          `yaml:"command,omitempty"`
	WorkingDir  string            `yaml:"working_dir,omitempty"`
	Ports       []string          `yaml:"ports,omitempty"`
	Volumes     []string          `yaml:"volumes,omitempty"`
	Environment map[string]string `yaml:"environment,omitempty"`
	DependsOn   []string          `yaml:"depends_on,omitempty"`
}

// Prepare writes the artifact, overlay, and compose descriptor.
func (p *ComposeProvider) Prepare(ctx context.Context, proj *project.Project, ms *spec.MockSpec, opts Options) (*Plan, error) {
	opts = opts.withDefaults(proj)

	plan, err := prepareCommon(ProviderCompose, proj, ms, opts, p.log)
	if err != nil {
		return nil, err
	}

	file := composeFile{
		Services: map[string]composeService{
			"mock": {
				Image:   "ghcr.io/getmockd/mockbox:latest",
				Command: []string{"serve", "--dir", "/artifact", "--port", fmt.Sprint(opts.MockPort)},
				Ports:   []string{fmt.Sprintf("%d:%d", opts.MockPort, opts.MockPort)},
				Volumes: []string{artifact.Dir(proj.Root) + ":/artifact:ro"},
			},
			"app": {
				Image:      "node:20",
				WorkingDir: "/app",
				Command:    appCommand(proj),
				Ports:      []string{fmt.Sprintf("%d:%d", opts.AppPort, opts.AppPort)},
				Volumes:    []string{proj.Root + ":/app"},
				Environment: map[string]string{
					"PORT": fmt.Sprint(opts.AppPort),
				},
				DependsOn: []string{"mock"},
			},
		},
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return nil, &Failure{Provider: ProviderCompose, Op: "prepare", Err: err}
	}
	descriptor := filepath.Join(plan.SandboxDir, ComposeFileName)
	if err := os.WriteFile(descriptor, data, 0o644); err != nil {
		return nil, &Failure{Provider: ProviderCompose, Op: "prepare", Err: err}
	}

	plan.Descriptor = descriptor
	return plan, nil
}

// Up runs `docker compose up -d --wait` and blocks until it exits.
func (p *ComposeProvider) Up(ctx context.Context, plan *Plan) (*RunningServices, error) {
	if _, err := exec.LookPath(p.Command); err != nil {
		return nil, &Failure{Provider: ProviderCompose, Op: "up", Err: fmt.Errorf("%s not found in PATH: %w", p.Command, err)}
	}

	if err := p.run(ctx, plan, "up", "-d", "--wait"); err != nil {
		return nil, &Failure{Provider: ProviderCompose, Op: "up", Err: err}
	}

	state := NewState(ProviderCompose, plan.AppURL, plan.MockURL)
	if err := state.Save(plan.SandboxDir); err != nil {
		p.log.Warn("could not persist sandbox state", "error", err)
	}

	rs := NewRunningServices(plan.AppURL, plan.MockURL, func() error {
		err := p.run(context.Background(), plan, "down")
		RemoveState(plan.SandboxDir)
		if err != nil {
			return &Failure{Provider: ProviderCompose, Op: "down", Err: err}
		}
		return nil
	})
	return rs, nil
}

// Down tears down a previously started sandbox out-of-process.
func (p *ComposeProvider) Down(ctx context.Context, plan *Plan) error {
	if err := p.run(ctx, plan, "down"); err != nil {
		return &Failure{Provider: ProviderCompose, Op: "down", Err: err}
	}
	RemoveState(plan.SandboxDir)
	return nil
}

// run invokes `<command> compose -f <descriptor> <args...>`, failing on
// any non-zero exit.
func (p *ComposeProvider) run(ctx context.Context, plan *Plan, args ...string) error {
	full := append([]string{"compose", "-f", plan.Descriptor}, args...)
	cmd := exec.CommandContext(ctx, p.Command, full...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	p.log.Debug("running orchestration command", "command", p.Command, "args", strings.Join(full, " "))
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

// appCommand picks how the app container starts the dev server.
func appCommand(proj *project.Project) []string {
	cmd := proj.DevCommand
	if cmd == "" {
		cmd = "npm run dev"
	}
	return []string{"sh", "-c", "npm install && " + cmd}
}
